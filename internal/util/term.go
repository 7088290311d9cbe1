package util

import (
	"os"

	"github.com/fatih/color"
)

// IsTTY reports whether stdout is attached to a terminal. Piped or
// redirected output gets the plain, scriptable code paths.
func IsTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// InitColor turns off colored output when --no-color is set or stdout is
// not a terminal.
func InitColor(noColor bool) {
	if noColor || !IsTTY() {
		color.NoColor = true
	}
}
