// Package hashagg drives a streaming byte source through a cryptographic
// hash and renders the digest in every encoding nar and swhid need: raw
// bytes, lowercase hex, an SRI string, Nix base32, and an
// opencontainers/go-digest value for interop with digest-typed APIs.
package hashagg

import (
	"crypto/sha1" //nolint:gosec // SHA-1 is required for Git/SWHID object ids.
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"hash"
	"io"

	digest "github.com/opencontainers/go-digest"

	"github.com/meigma/archive/internal/base32nix"
	"github.com/meigma/archive/internal/fserr"
)

// Algorithm identifies a supported hash function.
type Algorithm string

// Supported algorithms.
const (
	SHA256 Algorithm = "sha256"
	SHA512 Algorithm = "sha512"
	SHA1   Algorithm = "sha1"
)

func (a Algorithm) new() (hash.Hash, error) {
	switch a {
	case SHA256:
		return sha256.New(), nil
	case SHA512:
		return sha512.New(), nil
	case SHA1:
		return sha1.New(), nil //nolint:gosec
	default:
		return nil, fserr.New(fserr.InvalidArgument, "hashagg", "", nil)
	}
}

// Bundle is the set of renderings derived from a single digest computation.
type Bundle struct {
	Algorithm Algorithm
	Raw       []byte // 32 bytes for sha256, 64 for sha512, 20 for sha1
}

// Hex returns the lowercase hex rendering of Raw.
func (b Bundle) Hex() string {
	return hex.EncodeToString(b.Raw)
}

// SRI returns the Subresource Integrity string "<algo>-<base64>".
func (b Bundle) SRI() string {
	return string(b.Algorithm) + "-" + base64.StdEncoding.EncodeToString(b.Raw)
}

// Nix32 returns the Nix base32 rendering of Raw.
func (b Bundle) Nix32() string {
	return base32nix.Encode(b.Raw)
}

// Digest renders Raw as an opencontainers/go-digest value ("<algo>:<hex>"),
// giving callers a drop-in value for any digest-typed API (cache keys,
// manifests) without re-deriving it from the hex string.
func (b Bundle) Digest() digest.Digest {
	switch b.Algorithm {
	case SHA256:
		return digest.NewDigestFromBytes(digest.SHA256, b.Raw)
	case SHA512:
		return digest.NewDigestFromBytes(digest.SHA512, b.Raw)
	case SHA1:
		return digest.NewDigestFromEncoded("sha1", b.Hex())
	default:
		return ""
	}
}

// Sum reads r to completion through algorithm A and returns the resulting
// Bundle. r is consumed in 8 KiB chunks so the full byte sequence is never
// buffered, matching the streaming discipline the encoders rely on.
func Sum(r io.Reader, algo Algorithm) (Bundle, error) {
	h, err := algo.new()
	if err != nil {
		return Bundle{}, err
	}
	buf := make([]byte, 8*1024)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return Bundle{}, fserr.Wrap(fserr.IoError, "hash", "", err)
	}
	return Bundle{Algorithm: algo, Raw: h.Sum(nil)}, nil
}

// NewWriter returns a hash.Hash for algorithm A that callers can use as an
// io.Writer sink (e.g. via io.MultiWriter) to hash a stream incrementally
// alongside another consumer. Finish builds the Bundle once writing is done.
func NewWriter(algo Algorithm) (hash.Hash, error) {
	return algo.new()
}

// Finish renders h's current digest as a Bundle for algorithm A.
func Finish(h hash.Hash, algo Algorithm) Bundle {
	return Bundle{Algorithm: algo, Raw: h.Sum(nil)}
}
