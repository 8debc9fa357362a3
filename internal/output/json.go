package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/constlist/internal/annotation"
)

// JSONWriter outputs the lists as JSON.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, lists annotation.Lists) error {
	if lists == nil {
		lists = annotation.Lists{}
	}
	data, err := json.MarshalIndent(lists, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
