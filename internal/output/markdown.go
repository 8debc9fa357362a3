package output

import (
	"io"
	"strings"

	"github.com/dshills/constlist/internal/annotation"
)

// MarkdownWriter outputs one table per list.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, lists annotation.Lists) error {
	ew := &errWriter{w: w}

	if len(lists) == 0 {
		ew.println("No constant lists found.")
		return ew.err
	}

	for i, l := range lists {
		if i > 0 {
			ew.println("")
		}
		ew.printf("## %s\n\n", l.Name)
		ew.println("| Value | Label |")
		ew.println("|-------|-------|")
		for _, e := range l.Entries {
			ew.printf("| `%s` | %s |\n", mdEscape(e.Value), mdEscape(e.Label))
		}
	}
	return ew.err
}

var mdReplacer = strings.NewReplacer("|", `\|`, "`", "'")

func mdEscape(s string) string {
	return mdReplacer.Replace(s)
}
