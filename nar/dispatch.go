package nar

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meigma/archive/internal/fserr"
	"github.com/meigma/archive/internal/fsnode"
	"github.com/meigma/archive/internal/hashagg"
)

// Hash returns the SRI string ("<algo>-<base64>") of path's canonical NAR
// serialization.
func Hash(ctx context.Context, path string, opts ...Option) (string, error) {
	bundle, err := ComputeHashes(ctx, path, opts...)
	if err != nil {
		return "", err
	}
	return bundle.SRI(), nil
}

// ComputeHashes serializes path to NAR and returns every rendering of its
// digest in one Bundle.
func ComputeHashes(ctx context.Context, path string, opts ...Option) (hashagg.Bundle, error) {
	cfg := newConfig(opts)
	root, err := fsnode.Probe(path, cfg.executablePolicy)
	if err != nil {
		return hashagg.Bundle{}, err
	}

	start := time.Now()
	cfg.log().Info("nar hash started", "path", path)

	pr, pw := io.Pipe()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := encode(gctx, pw, root, cfg)
		pw.CloseWithError(err)
		return err
	})

	bundle, sumErr := hashagg.Sum(pr, cfg.algorithm)
	waitErr := g.Wait()

	if sumErr != nil {
		return hashagg.Bundle{}, sumErr
	}
	if waitErr != nil {
		return hashagg.Bundle{}, waitErr
	}
	cfg.log().Info("nar hash finished", "path", path, "duration", time.Since(start), "sri", bundle.SRI())
	return bundle, nil
}

// streamReader adapts the encoder's producer goroutine into an io.Reader,
// reaping the goroutine on Close so its error (if any) is observable.
type streamReader struct {
	*io.PipeReader
	g *errgroup.Group
}

func (s *streamReader) Close() error {
	err := s.PipeReader.Close()
	if werr := s.g.Wait(); werr != nil && err == nil {
		err = werr
	}
	return err
}

// Stream returns a lazily-pulled reader over path's canonical NAR bytes.
// The archive is never buffered in full; bytes are produced as the caller
// reads. Callers should read to EOF (or call Close, if they need to
// observe an encode error directly) to avoid leaking the producer
// goroutine.
func Stream(ctx context.Context, path string, opts ...Option) (io.Reader, error) {
	cfg := newConfig(opts)
	root, err := fsnode.Probe(path, cfg.executablePolicy)
	if err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	var g errgroup.Group
	g.Go(func() error {
		err := encode(ctx, pw, root, cfg)
		pw.CloseWithError(err)
		return err
	})
	return &streamReader{PipeReader: pr, g: &g}, nil
}

// Write streams path's canonical NAR serialization to destination.
// destination is written via a temporary file in its parent directory
// followed by an atomic rename, so a reader never observes a partial
// archive; on any failure the temporary file is removed. destination ==
// "-" writes directly to the configured stdout writer (WithStdout, default
// os.Stdout) and skips the atomic-rename step.
func Write(ctx context.Context, path, destination string, opts ...Option) error {
	cfg := newConfig(opts)
	root, err := fsnode.Probe(path, cfg.executablePolicy)
	if err != nil {
		return err
	}

	if destination == "-" {
		return encode(ctx, cfg.stdout, root, cfg)
	}

	dir := filepath.Dir(destination)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fserr.Wrap(fserr.IoError, "mkdir", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".nar-*")
	if err != nil {
		return fserr.Wrap(fserr.IoError, "create", dir, err)
	}
	tmpPath := tmp.Name()

	if err := encode(ctx, tmp, root, cfg); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fserr.Wrap(fserr.IoError, "close", tmpPath, err)
	}
	if err := os.Rename(tmpPath, destination); err != nil {
		os.Remove(tmpPath)
		return fserr.Wrap(fserr.IoError, "rename", destination, err)
	}
	cfg.log().Info("nar archive written", "path", path, "destination", destination)
	return nil
}

// Extract parses the NAR archive at archivePath and materializes its tree
// rooted at destDir. It succeeds only if the stream is syntactically valid
// and every file/directory/symlink creation succeeds; on failure the
// partially materialized tree is left in place.
func Extract(ctx context.Context, archivePath, destDir string, opts ...Option) error {
	cfg := newConfig(opts)
	f, err := os.Open(archivePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fserr.New(fserr.PathNotFound, "extract", archivePath, err)
		}
		return fserr.Wrap(fserr.IoError, "open", archivePath, err)
	}
	defer f.Close()

	cfg.log().Info("nar extract started", "archive", archivePath, "destination", destDir)
	if err := extract(ctx, f, destDir, cfg); err != nil {
		return err
	}
	cfg.log().Info("nar extract finished", "archive", archivePath, "destination", destDir)
	return nil
}
