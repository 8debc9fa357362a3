package source

import (
	"go/scanner"
	"go/token"
	"strings"

	"github.com/dshills/constlist/internal/annotation"
)

// Tokenize splits Go source into annotation tokens.
func Tokenize(filename string, src []byte) ([]annotation.Token, error) {
	fset := token.NewFileSet()
	file := fset.AddFile(filename, -1, len(src))

	var errs scanner.ErrorList
	var s scanner.Scanner
	s.Init(file, src, errs.Add, scanner.ScanComments)

	t := tokenizer{fset: fset}
	for {
		pos, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		t.next(pos, tok, lit)
	}
	t.flush()

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return t.out, nil
}

type tokenizer struct {
	fset *token.FileSet
	out  []annotation.Token

	// codeLine is the line of the last token that was not a comment or an
	// automatic semicolon.
	codeLine int

	// doc is a doc comment still open to adjacent // lines.
	doc        *annotation.Token
	docEndLine int

	// const group tracking
	afterConst bool // previous significant token was const
	depth      int  // paren depth inside a const group, 0 outside
	specStart  bool
}

func (t *tokenizer) next(pos token.Pos, tok token.Token, lit string) {
	p := t.fset.Position(pos)

	switch {
	case tok == token.COMMENT:
		t.comment(p, lit)
		return
	case tok == token.SEMICOLON && lit == "\n":
		t.flush()
		t.emit(annotation.KindWhitespace, "", p)
		if t.depth == 1 {
			t.specStart = true
		}
		return
	}

	t.flush()
	t.codeLine = p.Line

	switch {
	case tok == token.CONST:
		t.emit(annotation.KindConst, "", p)
		t.afterConst = true
		return
	case tok == token.IDENT:
		if t.depth == 1 && t.specStart {
			t.emit(annotation.KindConst, "", p)
		}
		t.emit(annotation.KindIdent, lit, p)
	case tok.IsOperator():
		t.emit(annotation.KindNone, "", p)
		t.operator(tok)
		return
	default:
		t.emit(annotation.KindOther, "", p)
	}
	t.afterConst = false
	t.specStart = false
}

func (t *tokenizer) operator(tok token.Token) {
	switch tok {
	case token.LPAREN:
		if t.afterConst && t.depth == 0 {
			t.depth = 1
			t.afterConst = false
			t.specStart = true
			return
		}
		if t.depth > 0 {
			t.depth++
		}
	case token.RPAREN:
		if t.depth > 0 {
			t.depth--
		}
	case token.SEMICOLON:
		if t.depth == 1 {
			t.specStart = true
			t.afterConst = false
			return
		}
	}
	t.afterConst = false
	t.specStart = false
}

func (t *tokenizer) comment(p token.Position, text string) {
	if p.Line == t.codeLine {
		t.flush()
		t.emit(annotation.KindInlineComment, text, p)
		return
	}
	line := strings.HasPrefix(text, "//")
	if line && t.doc != nil && p.Line == t.docEndLine+1 {
		t.doc.Text += "\n" + text
		t.docEndLine = p.Line
		return
	}
	t.flush()
	if !line {
		t.emit(annotation.KindDocComment, text, p)
		return
	}
	t.doc = &annotation.Token{Kind: annotation.KindDocComment, Text: text, Pos: p}
	t.docEndLine = p.Line
}

// flush emits the open doc comment, if any.
func (t *tokenizer) flush() {
	if t.doc == nil {
		return
	}
	t.out = append(t.out, *t.doc)
	t.doc = nil
}

func (t *tokenizer) emit(kind annotation.Kind, text string, p token.Position) {
	t.out = append(t.out, annotation.Token{Kind: kind, Text: text, Pos: p})
}
