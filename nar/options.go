package nar

import (
	"io"
	"log/slog"
	"os"

	"github.com/meigma/archive/internal/fsnode"
	"github.com/meigma/archive/internal/hashagg"
)

// config holds per-call settings assembled from Option values. It is never
// exported; callers configure operations exclusively through Option.
type config struct {
	algorithm        hashagg.Algorithm
	executablePolicy fsnode.ExecutablePolicy
	chunkSize        int
	logger           *slog.Logger
	stdout           io.Writer
}

func newConfig(opts []Option) *config {
	cfg := &config{
		algorithm: hashagg.SHA256,
		chunkSize: 8 * 1024,
		stdout:    os.Stdout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *config) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// Option configures a nar operation.
type Option func(*config)

// WithAlgorithm selects the hash algorithm used by Hash and ComputeHashes.
// The default is SHA-256, matching "nix hash path".
func WithAlgorithm(algo hashagg.Algorithm) Option {
	return func(c *config) {
		c.algorithm = algo
	}
}

// WithExecutableBitPolicy overrides the platform-default executable-bit
// predicate consulted when probing regular files, for callers that need a
// custom source of truth (e.g. an index) instead of the live filesystem.
func WithExecutableBitPolicy(policy fsnode.ExecutablePolicy) Option {
	return func(c *config) {
		c.executablePolicy = policy
	}
}

// WithChunkSize overrides the buffer size used when streaming file bodies.
// The default is 8 KiB.
func WithChunkSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithLogger sets the logger used for operation start/end logging. No
// per-entry progress is logged. The default discards all output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithStdout overrides the writer Write uses when destination is "-".
// The default is os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(c *config) {
		c.stdout = w
	}
}
