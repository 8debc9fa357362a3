package output

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dshills/constlist/internal/annotation"
)

// TextWriter outputs human-readable columns.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, lists annotation.Lists) error {
	ew := &errWriter{w: w}

	if len(lists) == 0 {
		ew.println("No constant lists found.")
		return ew.err
	}

	for i, l := range lists {
		if i > 0 {
			ew.println("")
		}
		ew.printf("%s (%d)\n", l.Name, len(l.Entries))
		ew.println(strings.Repeat("─", 40))

		width := 0
		for _, e := range l.Entries {
			width = max(width, utf8.RuneCountInString(e.Value))
		}
		for _, e := range l.Entries {
			ew.printf("  %-*s  %s\n", width, e.Value, e.Label)
		}
	}
	return ew.err
}
