// Package tty provides terminal detection helpers used by the console
// package so that its color and animation decisions are made consistently.
package tty

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether the given file descriptor is attached to a terminal.
func IsTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// IsStdoutTerminal reports whether stdout is attached to a terminal.
func IsStdoutTerminal() bool {
	return IsTerminal(os.Stdout.Fd())
}

// IsStderrTerminal reports whether stderr is attached to a terminal.
func IsStderrTerminal() bool {
	return IsTerminal(os.Stderr.Fd())
}
