package annotation

import "errors"

// Scan builds the constant lists declared in tokens. Values are bound through
// r; an identifier r does not know is stored under the empty value.
//
// Scan fails with an *Error wrapping ErrNoLabel when a tagged comment carries
// no label text. It is safe to call concurrently on different inputs.
func Scan(tokens []Token, r Resolver) (Lists, error) {
	lists := Lists{}
	var (
		comment    string
		afterConst bool
	)
	for _, tok := range tokens {
		switch tok.Kind {
		case KindNone, KindWhitespace, KindInlineComment:
		case KindDocComment:
			comment = tok.Text
		case KindConst:
			afterConst = true
		case KindIdent:
			if afterConst && comment != "" {
				if name, ok := MatchTag(comment); ok {
					if err := add(&lists, name, comment, tok, r); err != nil {
						return nil, err
					}
				}
			}
			comment, afterConst = "", false
		default:
			comment, afterConst = "", false
		}
	}
	return lists, nil
}

func add(lists *Lists, name, comment string, tok Token, r Resolver) error {
	i := lists.ensure(name)
	label, err := ExtractLabel(comment)
	if err != nil {
		var aerr *Error
		if errors.As(err, &aerr) {
			aerr.List, aerr.Ident, aerr.Pos = name, tok.Text, tok.Pos
		}
		return err
	}
	value, _ := r.Constant(tok.Text)
	lists.set(i, value, label)
	return nil
}
