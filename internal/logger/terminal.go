package logger

import "github.com/mattn/go-isatty"

// isTerminal reports whether fd refers to a terminal. Unlike the teacher's
// hand-rolled per-OS ioctl syscalls, this delegates to go-isatty, which
// already carries the Windows console-mode special case; one function
// covers every GOOS the teacher needed build tags for.
func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
