package annotation

import (
	"regexp"
	"strings"
)

// Tag is the annotation marker.
const Tag = "@ConstantList"

var (
	tagPattern = regexp.MustCompile(`@ConstantList ([A-Za-z_0-9-]+)`)

	// lineBreak matches any line-break sequence.
	lineBreak = regexp.MustCompile(`\r\n|[\n\v\f\r\x{85}\x{2028}\x{2029}]`)
)

// decoration is trimmed from both ends of every comment line.
const decoration = "/* \t\v\x00"

// MatchTag returns the list name of the first "@ConstantList <name>" in
// comment.
func MatchTag(comment string) (string, bool) {
	m := tagPattern.FindStringSubmatch(comment)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractLabel flattens a doc comment into a single-line label. Comment
// decoration is trimmed from every line, and empty lines and lines holding
// the tag are dropped. The rest are joined with a space.
func ExtractLabel(comment string) (string, error) {
	var parts []string
	for _, line := range lineBreak.Split(comment, -1) {
		line = strings.Trim(line, decoration)
		if line == "" || strings.Contains(line, Tag) {
			continue
		}
		parts = append(parts, line)
	}
	if len(parts) == 0 {
		return "", &Error{Comment: comment, Err: ErrNoLabel}
	}
	return strings.Join(parts, " "), nil
}
