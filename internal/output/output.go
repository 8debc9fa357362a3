package output

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/constlist/internal/annotation"
)

// Writer writes constant lists in a specific format.
type Writer interface {
	Write(w io.Writer, lists annotation.Lists) error
}

// Formats lists the supported format names.
var Formats = []string{"text", "json", "markdown", "yaml"}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "markdown", "md":
		return &MarkdownWriter{}, nil
	case "yaml", "yml":
		return &YAMLWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteLists writes lists to the specified output (file path or stdout).
func WriteLists(lists annotation.Lists, format, outPath string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}

	var w io.Writer
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	return writer.Write(w, lists)
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	ew.printf("%s\n", s)
}
