//go:build !unix

package fsnode

import "io/fs"

// IsExecutable always reports false on platforms without a POSIX
// executable bit. Callers needing cross-platform reproducibility for
// inputs built on such platforms should supply a WithExecutableBitPolicy
// hook instead of relying on this default.
func IsExecutable(info fs.FileInfo) bool {
	return false
}
