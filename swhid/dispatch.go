package swhid

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/meigma/archive/internal/fsnode"
)

// Qualifier is one key/value pair appended to a SWHID string.
type Qualifier struct {
	Key, Value string
}

// Qualifiers is an ordered list of qualifiers. Unlike a Go map, order is
// preserved, so the output mirrors the caller's insertion order.
type Qualifiers []Qualifier

// Hash returns the SWHID "swh:1:<cnt|dir>:<40-hex-sha1>[;k=v...]" for path.
// qualifiers, if non-empty, are appended in order as ";key=<percent-encoded
// value>".
func Hash(ctx context.Context, path string, qualifiers Qualifiers, opts ...Option) (string, error) {
	cfg := newConfig(opts)
	root, err := fsnode.Probe(path, cfg.executablePolicy)
	if err != nil {
		return "", err
	}

	start := time.Now()
	cfg.log().Info("swhid hash started", "path", path)

	id, octx, err := computeObject(ctx, root, cfg)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("swh:1:")
	b.WriteString(octx)
	b.WriteByte(':')
	b.WriteString(id.hex())
	for _, q := range qualifiers {
		b.WriteByte(';')
		b.WriteString(q.Key)
		b.WriteByte('=')
		b.WriteString(percentEncode(q.Value))
	}

	result := b.String()
	cfg.log().Info("swhid hash finished", "path", path, "duration", time.Since(start), "swhid", result)
	return result, nil
}

// streamer renders the unqualified SWHID string for root lazily, as four
// chunks: "swh:1:", the context, ":", and the hex object id, joined without
// qualifiers (Stream never takes qualifiers; use Hash for those).
type streamer struct {
	chunks []string
	pos    int
	off    int
}

func (s *streamer) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if s.pos >= len(s.chunks) {
			if n == 0 {
				return 0, io.EOF
			}
			return n, nil
		}
		chunk := s.chunks[s.pos]
		c := copy(p[n:], chunk[s.off:])
		n += c
		s.off += c
		if s.off >= len(chunk) {
			s.pos++
			s.off = 0
		}
	}
	return n, nil
}

// Stream returns a lazily-pulled reader yielding "swh:1:", the context
// ("cnt"/"dir"), ":", and the hex object id for path, in that order. The
// full tree is still walked and hashed eagerly (hashing is not itself
// streamable the way NAR encoding is — a tree's oid depends on every
// child's oid); only the rendering of the final string is deferred.
func Stream(ctx context.Context, path string, opts ...Option) (io.Reader, error) {
	cfg := newConfig(opts)
	root, err := fsnode.Probe(path, cfg.executablePolicy)
	if err != nil {
		return nil, err
	}
	id, octx, err := computeObject(ctx, root, cfg)
	if err != nil {
		return nil, err
	}
	return &streamer{chunks: []string{"swh:1:", octx, ":", id.hex()}}, nil
}

const unreserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

// percentEncode escapes bytes outside RFC 3986's unreserved set.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(unreserved, c) >= 0 {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
