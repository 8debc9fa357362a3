// Package constlist ties the annotation scanner, the Go source loader and a
// TTL cache together.
//
// A [Registry] answers questions about the constant lists of a Go type:
// every list, one list, the label of a value, or whether a value belongs to a
// list. Scan results are cached under the SHA-256 of the type identity and the
// package's Go sources, so editing a file invalidates the entry. In debug mode
// every call rescans the source.
package constlist
