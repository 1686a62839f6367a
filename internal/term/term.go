// Package term holds the ANSI color state shared by the operator logger and
// the banner.
//
// [Configure] sets the package-level color variables once during startup;
// when colors are disabled they are empty strings, so concatenating them is
// a no-op.
package term

import (
	"io"
	"os"
	"strings"

	"github.com/backmassage/groomer/internal/config"
)

// ANSI color codes. Empty when colors are disabled.
var (
	Red     = ""
	Green   = ""
	Yellow  = ""
	Orange  = ""
	Blue    = ""
	Cyan    = ""
	Magenta = ""
	NC      = "" // Reset sequence.
)

// Configure resolves mode against out (the console writer the logger uses)
// and sets the color variables. Called from [logging.New].
func Configure(mode config.ColorMode, out io.Writer) {
	if !resolve(mode, out) {
		Red, Green, Yellow, Orange, Blue, Cyan, Magenta, NC = "", "", "", "", "", "", "", ""
		return
	}
	Red = "\033[1;91m"
	Green = "\033[1;92m"
	Yellow = "\033[1;93m"
	Orange = "\033[1;38;5;208m"
	Blue = "\033[1;94m"
	Cyan = "\033[1;96m"
	Magenta = "\033[1;95m"
	NC = "\033[0m"
}

// Enabled reports whether ANSI colors are currently active.
func Enabled() bool { return NC != "" }

// resolve decides on colors. Auto mode needs a TTY, an unset NO_COLOR
// (https://no-color.org) and a TERM other than "dumb".
func resolve(mode config.ColorMode, out io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := out.(*os.File)
	return ok && IsTerminal(f) &&
		os.Getenv("NO_COLOR") == "" &&
		strings.ToLower(os.Getenv("TERM")) != "dumb"
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
