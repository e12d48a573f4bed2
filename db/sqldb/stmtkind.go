package sqldb

import "strings"

// ReturnsRows reports whether a statement yields a record set
func ReturnsRows(query string) bool {
	trimmed := strings.TrimSpace(query)
	for strings.HasPrefix(trimmed, "--") {
		nl := strings.IndexByte(trimmed, '\n')
		if nl == -1 {
			return false
		}
		trimmed = strings.TrimSpace(trimmed[nl+1:])
	}
	upper := strings.ToUpper(trimmed)
	for _, kw := range []string{"SELECT", "WITH", "VALUES", "SHOW"} {
		if strings.HasPrefix(upper, kw) {
			return true
		}
	}
	return false
}
