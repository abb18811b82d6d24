package repository

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns free text into a lower-cased LIKE pattern matching any substring.
func containsPattern(search string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(search))) + "%"
}

func pageWindow(page, size, fallback int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = fallback
	}
	return size, (page - 1) * size
}
