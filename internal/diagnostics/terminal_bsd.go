//go:build darwin || freebsd || netbsd || openbsd

package diagnostics

import "golang.org/x/sys/unix"

const ioctlReadTermios = unix.TIOCGETA

// IsTerminal reports whether fd is attached to a terminal, used to decide
// whether WriteText should color output.
func IsTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), ioctlReadTermios)
	return err == nil
}
