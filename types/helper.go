package types

import (
	"unicode/utf8"
)

// truncateRunes shortens s to at most length runes, marking the cut with "...".
func truncateRunes(s string, length int) string {
	if utf8.RuneCountInString(s) <= length {
		return s
	}

	return string([]rune(s)[:length]) + "..."
}

// joinNames joins names with " -> ", used for reference chains.
func joinNames(names []string) string {
	rv := ""
	for idx, name := range names {
		if idx > 0 {
			rv += " -> "
		}
		rv += name
	}
	return rv
}
