package annotation

import (
	"errors"
	"fmt"
	"go/token"
)

// ErrNoLabel reports a tagged doc comment with no label text.
var ErrNoLabel = errors.New("constant list annotation has no label")

// Error describes an annotation that could not be turned into an entry.
type Error struct {
	List    string
	Ident   string
	Pos     token.Position
	Comment string
	Err     error
}

func (e *Error) Error() string {
	var where string
	if e.Pos.IsValid() {
		where = e.Pos.String() + ": "
	}
	if e.Ident != "" {
		return fmt.Sprintf("%s%s (list %q): %v", where, e.Ident, e.List, e.Err)
	}
	return where + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
