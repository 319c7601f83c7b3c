package nar

import (
	"context"
	"io"

	"github.com/meigma/archive/internal/fsnode"
	"github.com/meigma/archive/internal/fserr"
)

// encode writes the full canonical NAR serialization of root to w.
func encode(ctx context.Context, w io.Writer, root *fsnode.Node, cfg *config) error {
	if err := writeStr(w, magic); err != nil {
		return err
	}
	return encodeNode(ctx, w, root, cfg)
}

// encodeNode writes one "(" type <T> <body> ")" node, recursing into
// directory children in the sorted order fsnode.Probe already established.
func encodeNode(ctx context.Context, w io.Writer, n *fsnode.Node, cfg *config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := writeStr(w, "("); err != nil {
		return err
	}
	if err := writeStr(w, "type"); err != nil {
		return err
	}

	switch n.Kind {
	case fsnode.Regular:
		if err := encodeRegularBody(w, n, cfg); err != nil {
			return err
		}
	case fsnode.Directory:
		if err := encodeDirectoryBody(ctx, w, n, cfg); err != nil {
			return err
		}
	case fsnode.Symlink:
		if err := encodeSymlinkBody(w, n); err != nil {
			return err
		}
	default:
		return fserr.New(fserr.InvalidArgument, "encode", "", nil)
	}

	return writeStr(w, ")")
}

func encodeRegularBody(w io.Writer, n *fsnode.Node, cfg *config) error {
	if err := writeStr(w, "regular"); err != nil {
		return err
	}
	if n.Executable {
		if err := writeStr(w, "executable"); err != nil {
			return err
		}
		if err := writeStr(w, ""); err != nil {
			return err
		}
	}
	if err := writeStr(w, "contents"); err != nil {
		return err
	}

	f, size, err := n.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := writeUint64(w, size); err != nil {
		return err
	}

	buf := make([]byte, cfg.chunkSize)
	written, err := io.CopyBuffer(w, io.LimitReader(f, int64(size)), buf)
	if err != nil {
		return fserr.Wrap(fserr.IoError, "read", "", err)
	}
	if uint64(written) != size {
		return fserr.New(fserr.IoError, "read", "", fileSizeChangedErr{})
	}
	// Detect growth: a further byte beyond the stated size means the file
	// changed between stat and read.
	var probe [1]byte
	if n, _ := f.Read(probe[:]); n > 0 {
		return fserr.New(fserr.IoError, "read", "", fileSizeChangedErr{})
	}

	if p := padLen(int(size)); p > 0 {
		if _, err := w.Write(zeroPad[:p]); err != nil {
			return fserr.Wrap(fserr.IoError, "write", "", err)
		}
	}
	return nil
}

type fileSizeChangedErr struct{}

func (fileSizeChangedErr) Error() string { return "file size changed during read" }

func encodeDirectoryBody(ctx context.Context, w io.Writer, n *fsnode.Node, cfg *config) error {
	if err := writeStr(w, "directory"); err != nil {
		return err
	}
	for _, e := range n.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeStr(w, "entry"); err != nil {
			return err
		}
		if err := writeStr(w, "("); err != nil {
			return err
		}
		if err := writeStr(w, "name"); err != nil {
			return err
		}
		if err := writeStr(w, e.Name); err != nil {
			return err
		}
		if err := writeStr(w, "node"); err != nil {
			return err
		}
		if err := encodeNode(ctx, w, e.Node, cfg); err != nil {
			return err
		}
		if err := writeStr(w, ")"); err != nil {
			return err
		}
	}
	return nil
}

func encodeSymlinkBody(w io.Writer, n *fsnode.Node) error {
	if err := writeStr(w, "symlink"); err != nil {
		return err
	}
	if err := writeStr(w, "target"); err != nil {
		return err
	}
	return writeStr(w, n.Target)
}
