package swhid

import (
	"context"
	"crypto/sha1" //nolint:gosec // SHA-1 object ids are Git/SWHID's wire format, not a security boundary.
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/meigma/archive/internal/fserr"
	"github.com/meigma/archive/internal/fsnode"
)

// Git entry modes, matching the filesystem object they represent.
const (
	modeDirectory  = "40000"
	modeRegular    = "100644"
	modeExecutable = "100755"
	modeSymlink    = "120000"
)

// oid is a Git object id: 20 raw SHA-1 bytes.
type oid [20]byte

func (o oid) hex() string {
	return fmt.Sprintf("%x", o[:])
}

// treeEntry is one line of a tree object's body before serialization.
type treeEntry struct {
	mode  string
	name  string
	isDir bool
	oid   oid
}

// sortKey is Git's documented tree-entry sort key: the name, with a
// trailing "/" appended for directories, compared byte-wise.
func (e treeEntry) sortKey() string {
	if e.isDir {
		return e.name + "/"
	}
	return e.name
}

// hashBlob computes the Git blob object id for size bytes read from r,
// via the frame "blob " <decimal size> NUL <bytes>.
func hashBlob(r io.Reader, size uint64) (oid, error) {
	h := sha1.New() //nolint:gosec
	fmt.Fprintf(h, "blob %d\x00", size)
	if _, err := io.CopyN(h, r, int64(size)); err != nil {
		return oid{}, fserr.Wrap(fserr.IoError, "hash", "", err)
	}
	var out oid
	copy(out[:], h.Sum(nil))
	return out, nil
}

// hashBlobBytes computes the Git blob object id for an in-memory byte
// string, used for symlink targets.
func hashBlobBytes(b []byte) oid {
	h := sha1.New() //nolint:gosec
	fmt.Fprintf(h, "blob %d\x00", len(b))
	h.Write(b)
	var out oid
	copy(out[:], h.Sum(nil))
	return out
}

// hashTree computes the Git tree object id for a set of entries, first
// sorting them in place by Git's rule (see sortKey): "tree " <decimal body
// size> NUL <body>, where body is each entry's "<mode> <name>\x00<20-byte
// oid>" concatenated in sort order.
func hashTree(entries []treeEntry) oid {
	sort.Slice(entries, func(i, j int) bool { return entries[i].sortKey() < entries[j].sortKey() })

	var body strings.Builder
	for _, e := range entries {
		body.WriteString(e.mode)
		body.WriteByte(' ')
		body.WriteString(e.name)
		body.WriteByte(0)
		body.Write(e.oid[:])
	}

	h := sha1.New() //nolint:gosec
	fmt.Fprintf(h, "tree %d\x00", body.Len())
	io.WriteString(h, body.String())
	var out oid
	copy(out[:], h.Sum(nil))
	return out
}

// modeFor returns the Git mode string for n.
func modeFor(n *fsnode.Node) string {
	switch n.Kind {
	case fsnode.Directory:
		return modeDirectory
	case fsnode.Symlink:
		return modeSymlink
	case fsnode.Regular:
		if n.Executable {
			return modeExecutable
		}
		return modeRegular
	default:
		return ""
	}
}

// computeObject returns the Git object id and SWHID context ("cnt" or
// "dir") for n, recursing into directory children. When cfg allows more
// than one concurrent subtree, independent children are hashed through a
// bounded errgroup pool; the parent's tree body is always assembled after
// every child resolves and sorted by Git's rule, so the result is
// identical to the sequential path.
func computeObject(ctx context.Context, n *fsnode.Node, cfg *config) (oid, string, error) {
	if err := ctx.Err(); err != nil {
		return oid{}, "", err
	}

	switch n.Kind {
	case fsnode.Regular:
		f, size, err := n.Open()
		if err != nil {
			return oid{}, "", err
		}
		defer f.Close()
		id, err := hashBlob(f, size)
		return id, "cnt", err

	case fsnode.Symlink:
		return hashBlobBytes([]byte(n.Target)), "cnt", nil

	case fsnode.Directory:
		entries := make([]treeEntry, len(n.Entries))
		if cfg.subtreeConcurrency <= 1 {
			for i, e := range n.Entries {
				childOid, _, err := computeObject(ctx, e.Node, cfg)
				if err != nil {
					return oid{}, "", err
				}
				entries[i] = treeEntry{mode: modeFor(e.Node), name: e.Name, isDir: e.Node.Kind == fsnode.Directory, oid: childOid}
			}
		} else {
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(cfg.subtreeConcurrency)
			for i, e := range n.Entries {
				i, e := i, e
				g.Go(func() error {
					childOid, _, err := computeObject(gctx, e.Node, cfg)
					if err != nil {
						return err
					}
					entries[i] = treeEntry{mode: modeFor(e.Node), name: e.Name, isDir: e.Node.Kind == fsnode.Directory, oid: childOid}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return oid{}, "", err
			}
		}
		return hashTree(entries), "dir", nil

	default:
		return oid{}, "", fserr.New(fserr.InvalidArgument, "swhid", "", nil)
	}
}
