package swhid

import (
	"log/slog"

	"github.com/meigma/archive/internal/fsnode"
)

type config struct {
	executablePolicy   fsnode.ExecutablePolicy
	subtreeConcurrency int
	logger             *slog.Logger
}

func newConfig(opts []Option) *config {
	cfg := &config{subtreeConcurrency: 1}
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

// Option configures a swhid operation.
type Option func(*config)

// WithExecutableBitPolicy overrides the platform-default executable-bit
// predicate consulted when probing regular files.
func WithExecutableBitPolicy(policy fsnode.ExecutablePolicy) Option {
	return func(c *config) {
		c.executablePolicy = policy
	}
}

// WithSubtreeConcurrency bounds how many independent subtrees may have
// their Git object ids computed concurrently. The default, 1, is fully
// sequential. Regardless of n, a directory's tree body is always
// assembled after all of its children resolve and sorted per Git's entry
// order, so the emitted bytes are identical for every n.
func WithSubtreeConcurrency(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.subtreeConcurrency = n
		}
	}
}

// WithLogger sets the logger used for operation start/end logging. The
// default discards all output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
