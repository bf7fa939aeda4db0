package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorRed    = "\x1b[1;31m"
	colorYellow = "\x1b[1;33m"
	colorReset  = "\x1b[0m"
)

// paint colors text when w is a terminal and NO_COLOR is unset.
func paint(w io.Writer, color, text string) string {
	if !colorful(w) {
		return text
	}
	return color + text + colorReset
}

func colorful(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
