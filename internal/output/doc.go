// Package output formats constant lists for display or machine consumption.
//
// Four formats are supported:
//   - text: aligned value/label columns per list (default)
//   - json: the lists as a JSON array
//   - markdown: one table per list
//   - yaml: a mapping of list name to value/label mapping, in source order
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and the lists. [WriteLists] also handles
// destination selection.
package output
