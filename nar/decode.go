package nar

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/meigma/archive/internal/fserr"
	"github.com/meigma/archive/internal/fsnode"
)

// extract parses a NAR stream from r and materializes it rooted at dest.
func extract(ctx context.Context, r io.Reader, dest string, cfg *config) error {
	if err := expectStr(r, magic); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fserr.Wrap(fserr.IoError, "mkdir", filepath.Dir(dest), err)
	}
	return decodeNode(ctx, r, dest, cfg)
}

// decodeNode implements the NODE(p) state: "(" "type" <T>, dispatching to
// the body decoder for T. The body decoder is responsible for consuming
// the node's closing ")".
func decodeNode(ctx context.Context, r io.Reader, path string, cfg *config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := expectStr(r, "("); err != nil {
		return err
	}
	if err := expectStr(r, "type"); err != nil {
		return err
	}
	typ, err := readStr(r)
	if err != nil {
		return err
	}
	switch typ {
	case "regular":
		return decodeRegularBody(r, path, cfg)
	case "directory":
		return decodeDirectoryBody(ctx, r, path, cfg)
	case "symlink":
		return decodeSymlinkBody(r, path)
	default:
		return fserr.New(fserr.FormatError, "decode", path, unknownTypeErr(typ))
	}
}

type unknownTypeErr string

func (e unknownTypeErr) Error() string { return "unknown node type \"" + string(e) + "\"" }

func decodeRegularBody(r io.Reader, path string, cfg *config) error {
	key, err := readStr(r)
	if err != nil {
		return err
	}
	executable := false
	if key == "executable" {
		if err := expectStr(r, ""); err != nil {
			return err
		}
		executable = true
		key, err = readStr(r)
		if err != nil {
			return err
		}
	}
	if key != "contents" {
		return fserr.New(fserr.FormatError, "decode", path, unexpectedTokenErr{want: "contents", got: key})
	}

	size, err := readUint64(r)
	if err != nil {
		return err
	}

	f, err := os.Create(path) //nolint:gosec // destination is caller-controlled by design.
	if err != nil {
		return fserr.Wrap(fserr.IoError, "create", path, err)
	}
	defer f.Close()

	buf := make([]byte, cfg.chunkSize)
	if _, err := io.CopyBuffer(f, io.LimitReader(r, int64(size)), buf); err != nil {
		return fserr.Wrap(fserr.IoError, "write", path, err)
	}
	if p := padLen(int(size)); p > 0 {
		pad := make([]byte, p)
		if _, err := io.ReadFull(r, pad); err != nil {
			return fserr.Wrap(fserr.FormatError, "read", path, err)
		}
	}

	if executable {
		if err := f.Chmod(0o755); err != nil {
			return fserr.Wrap(fserr.IoError, "chmod", path, err)
		}
	}

	return expectStr(r, ")")
}

func decodeDirectoryBody(ctx context.Context, r io.Reader, path string, cfg *config) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fserr.Wrap(fserr.IoError, "mkdir", path, err)
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		key, err := readStr(r)
		if err != nil {
			return err
		}
		if key == ")" {
			return nil
		}
		if key != "entry" {
			return fserr.New(fserr.FormatError, "decode", path, unexpectedTokenErr{want: "entry", got: key})
		}
		if err := expectStr(r, "("); err != nil {
			return err
		}
		if err := expectStr(r, "name"); err != nil {
			return err
		}
		name, err := readStr(r)
		if err != nil {
			return err
		}
		if err := fsnode.ValidateName(name); err != nil {
			return fserr.Wrap(fserr.FormatError, "decode", filepath.Join(path, name), err)
		}
		if err := expectStr(r, "node"); err != nil {
			return err
		}
		if err := decodeNode(ctx, r, filepath.Join(path, name), cfg); err != nil {
			return err
		}
		if err := expectStr(r, ")"); err != nil {
			return err
		}
	}
}

func decodeSymlinkBody(r io.Reader, path string) error {
	if err := expectStr(r, "target"); err != nil {
		return err
	}
	target, err := readStr(r)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return fserr.Wrap(fserr.IoError, "remove", path, err)
		}
	}
	if err := os.Symlink(target, path); err != nil {
		return fserr.Wrap(fserr.IoError, "symlink", path, err)
	}
	return expectStr(r, ")")
}
