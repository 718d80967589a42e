//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package diagnostics

// IsTerminal reports whether fd is attached to a terminal. On platforms
// without termios support the answer is always false and output stays
// uncolored.
func IsTerminal(fd uintptr) bool {
	return false
}
