// Package fsnode probes the local filesystem and exposes each path as a
// small tagged variant — regular file, directory, or symlink — with the
// metadata the nar and swhid encoders need: size, executable bit, an
// ordered directory listing, and a raw symlink target.
//
// Directory listings are always returned sorted by the raw byte value of
// the entry name; callers must not re-sort or rely on OS enumeration order.
package fsnode

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/meigma/archive/internal/fserr"
)

// Kind identifies which variant a Node represents.
type Kind int

const (
	// Regular is a plain file.
	Regular Kind = iota
	// Directory is a directory with an ordered set of entries.
	Directory
	// Symlink is a symbolic link captured as a literal target string.
	Symlink
)

// Entry pairs a directory child's name with its Node.
type Entry struct {
	Name string
	Node *Node
}

// Node is the probed representation of a single filesystem path.
//
// A Regular node's Open method must be called to obtain the byte source;
// Probe does not hold the file open across the call.
type Node struct {
	Kind       Kind
	path       string // real filesystem path, for Open/Lstat error reporting
	Size       uint64 // Regular only
	Executable bool   // Regular only
	Target     string // Symlink only
	Entries    []Entry
}

// ExecutablePolicy decides whether a regular file's executable bit should
// be considered set, given its os.FileInfo. The default is platform
// dependent; see IsExecutable.
type ExecutablePolicy func(info fs.FileInfo) bool

// Open returns a freshly opened read handle for a Regular node along with
// the size observed via the open handle's own Stat, avoiding a TOCTOU gap
// between a separate stat call and the read: size and contents come from
// the same handle. The caller owns the returned file and must Close it.
func (n *Node) Open() (*os.File, uint64, error) {
	f, err := os.Open(n.path)
	if err != nil {
		return nil, 0, fserr.Wrap(fserr.IoError, "open", n.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fserr.Wrap(fserr.IoError, "stat", n.path, err)
	}
	return f, uint64(info.Size()), nil
}

// Probe classifies the filesystem object at path and, for a directory,
// recursively probes its children in sorted order. policy is consulted for
// every regular file encountered; pass nil to use the platform default
// (IsExecutable).
func Probe(path string, policy ExecutablePolicy) (*Node, error) {
	if policy == nil {
		policy = IsExecutable
	}
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fserr.New(fserr.PathNotFound, "probe", path, err)
		}
		return nil, fserr.Wrap(fserr.IoError, "probe", path, err)
	}
	return probeInfo(path, info, policy)
}

func probeInfo(path string, info fs.FileInfo, policy ExecutablePolicy) (*Node, error) {
	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		target, err := os.Readlink(path)
		if err != nil {
			return nil, fserr.Wrap(fserr.IoError, "readlink", path, err)
		}
		return &Node{Kind: Symlink, path: path, Target: target}, nil

	case info.IsDir():
		dirEntries, err := os.ReadDir(path)
		if err != nil {
			return nil, fserr.Wrap(fserr.IoError, "readdir", path, err)
		}
		names := make([]string, len(dirEntries))
		for i, de := range dirEntries {
			names[i] = de.Name()
		}
		sort.Strings(names)

		entries := make([]Entry, 0, len(names))
		for _, name := range names {
			if name == "." || name == ".." {
				continue
			}
			if err := ValidateName(name); err != nil {
				return nil, fserr.Wrap(fserr.FormatError, "probe", filepath.Join(path, name), err)
			}
			child, err := Probe(filepath.Join(path, name), policy)
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{Name: name, Node: child})
		}
		return &Node{Kind: Directory, path: path, Entries: entries}, nil

	case info.Mode().IsRegular():
		return &Node{
			Kind:       Regular,
			path:       path,
			Size:       uint64(info.Size()),
			Executable: policy(info),
		}, nil

	default:
		return nil, fserr.New(fserr.InvalidArgument, "probe", path, nil)
	}
}
