// Package annotation extracts constant lists from a stream of lexical tokens.
//
// A constant list is declared by tagging the doc comment of a constant with
// "@ConstantList <name>". The remaining non-empty lines of that comment become
// the constant's label:
//
//	const (
//		// Format PDF
//		// in multi line format
//		//
//		// @ConstantList format
//		FormatPDF Format = "PDF"
//	)
//
// [Scan] walks the tokens once, tracking whether a doc comment and a const
// keyword have both been seen before the next identifier. Whitespace and inline
// comments keep that state; any other token clears it. The token stream itself
// and the identifier-to-value binding are supplied by the caller, see the
// source package for the Go implementation.
package annotation
