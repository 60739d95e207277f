package helpers

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so the value matches literally.
// Backslash is PostgreSQL's default LIKE escape character.
func EscapeLike(value string) string {
	return likeEscaper.Replace(value)
}

// ContainsPattern builds a LIKE pattern matching any value that contains s as a substring.
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}
