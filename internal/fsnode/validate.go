package fsnode

import (
	"fmt"
	"strings"
)

// ValidateName rejects entry names that cannot be losslessly round-tripped
// through the NAR or SWHID wire formats: a "/" would be indistinguishable
// from a path separator on decode, and an embedded NUL would truncate the
// name on any tool that treats it as a C string. Such names are rejected
// before they are ever emitted, rather than passed through verbatim.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("empty entry name")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("entry name %q is reserved", name)
	}
	if strings.ContainsRune(name, '/') {
		return fmt.Errorf("entry name %q contains a path separator", name)
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("entry name %q contains a NUL byte", name)
	}
	return nil
}
