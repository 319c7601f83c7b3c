//go:build unix

package fsnode

import "io/fs"

// IsExecutable reports whether the owner-executable bit is set, the POSIX
// predicate used by the canonical Nix and Git tooling this package is
// interoperating with.
func IsExecutable(info fs.FileInfo) bool {
	return info.Mode()&0o100 != 0
}
