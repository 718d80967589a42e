//go:build linux

package diagnostics

import "golang.org/x/sys/unix"

const ioctlReadTermios = unix.TCGETS

// IsTerminal reports whether fd is attached to a terminal, used to decide
// whether WriteText should color output.
func IsTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), ioctlReadTermios)
	return err == nil
}
