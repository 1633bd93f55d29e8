package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the orderbot banner followed by version.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{`                  _           _           _   `, "#34d399"},
		{`   ___  _ __ __| | ___ _ __| |__   ___ | |_ `, "#2dd4bf"},
		{`  / _ \| '__/ _` + "`" + ` |/ _ \ '__| '_ \ / _ \| __|`, "#22d3ee"},
		{` | (_) | | | (_| |  __/ |  | |_) | (_) | |_ `, "#38bdf8"},
		{`  \___/|_|  \__,_|\___|_|  |_.__/ \___/ \__|`, "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  "+version).Faint())
	fmt.Fprintln(w)
}
