// Package source reads Go packages for the constant list scanner.
//
// [Load] parses and type-checks the package in a directory and finds the file
// declaring a named type. The returned [Type] resolves constant identifiers
// to their values and tokenizes its file with [Tokenize].
//
// Tokenize maps go/scanner tokens onto annotation kinds:
//   - consecutive full-line // comments form one doc comment, and so does a
//     /* */ comment on its own line
//   - a comment after code on the same line is an inline comment
//   - automatic semicolons at line ends are whitespace
//   - operators and delimiters carry no information and are skipped
//   - inside a parenthesised const group every spec starts with a synthetic
//     const keyword, so each constant sees the group's const
package source
