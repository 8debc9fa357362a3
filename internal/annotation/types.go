package annotation

import (
	"go/token"
	"slices"
)

// Kind classifies a lexical token for the scanner.
type Kind int

const (
	// KindNone marks degenerate tokens that carry no structural information
	// (operators, delimiters). The scanner skips them.
	KindNone Kind = iota
	KindWhitespace
	KindInlineComment
	KindDocComment
	KindConst
	KindIdent
	KindOther
)

var kindNames = [...]string{
	KindNone:          "none",
	KindWhitespace:    "whitespace",
	KindInlineComment: "inline-comment",
	KindDocComment:    "doc-comment",
	KindConst:         "const",
	KindIdent:         "ident",
	KindOther:         "other",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Token is one lexical unit. Text is set for doc comments and identifiers.
type Token struct {
	Kind Kind
	Text string
	Pos  token.Position
}

// Resolver binds a constant identifier to its value.
type Resolver interface {
	Constant(name string) (value string, ok bool)
}

// ResolverFunc adapts a function to a Resolver.
type ResolverFunc func(name string) (string, bool)

func (f ResolverFunc) Constant(name string) (string, bool) { return f(name) }

// Entry is a single constant value and its label.
type Entry struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// List is a named constant list. Entries are in source order.
type List struct {
	Name    string  `json:"name" yaml:"name"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Label returns the label of value within the list.
func (l List) Label(value string) (string, bool) {
	for _, e := range l.Entries {
		if e.Value == value {
			return e.Label, true
		}
	}
	return "", false
}

// Values returns the constant values of the list in order.
func (l List) Values() []string {
	out := make([]string, 0, len(l.Entries))
	for _, e := range l.Entries {
		out = append(out, e.Value)
	}
	return out
}

// Lists holds every constant list found in one type, in the order each
// list name was first seen.
type Lists []List

// List returns the list called name.
func (ls Lists) List(name string) (List, bool) {
	if i := ls.index(name); i >= 0 {
		return ls[i], true
	}
	return List{}, false
}

// Names returns the list names in order.
func (ls Lists) Names() []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Name)
	}
	return out
}

// Clone returns a deep copy.
func (ls Lists) Clone() Lists {
	if ls == nil {
		return nil
	}
	out := make(Lists, len(ls))
	for i, l := range ls {
		out[i] = List{Name: l.Name, Entries: slices.Clone(l.Entries)}
	}
	return out
}

func (ls Lists) index(name string) int {
	return slices.IndexFunc(ls, func(l List) bool { return l.Name == name })
}

// ensure returns the index of the list called name, appending an empty list
// on first use.
func (ls *Lists) ensure(name string) int {
	if i := ls.index(name); i >= 0 {
		return i
	}
	*ls = append(*ls, List{Name: name, Entries: []Entry{}})
	return len(*ls) - 1
}

// set stores label for value in list i. A repeated value keeps its position
// and takes the newer label.
func (ls Lists) set(i int, value, label string) {
	l := &ls[i]
	for j := range l.Entries {
		if l.Entries[j].Value == value {
			l.Entries[j].Label = label
			return
		}
	}
	l.Entries = append(l.Entries, Entry{Value: value, Label: label})
}
