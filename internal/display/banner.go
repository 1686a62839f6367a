package display

import (
	"fmt"
	"io"

	"github.com/backmassage/groomer/internal/term"
)

// PrintBanner writes the ASCII art banner to w, in magenta if colors are
// enabled.
func PrintBanner(w io.Writer) {
	if term.Enabled() {
		fmt.Fprint(w, term.Magenta)
		defer fmt.Fprint(w, term.NC)
	}
	fmt.Fprint(w, `  ____
 / ___|_ __ ___   ___  _ __ ___   ___ _ __
| |  _| '__/ _ \ / _ \| '_ `+"`"+` _ \ / _ \ '__|
| |_| | | | (_) | (_) | | | | | |  __/ |
 \____|_|  \___/ \___/|_| |_| |_|\___|_|
`)
}
