package sqldb

import (
	"strconv"
	"strings"
)

var PlaceholderPrefixForDBType = map[string]byte{
	"mysql":  '?',
	"pgsql":  '$',
	"mssql":  '@',
	"oracle": ':',
	"sqlite": 0, // NOTE: sqlite supports all of them
}

// BindNamed rewrites `@name` placeholders into the dialect form given by prefix
// and returns the rewritten statement with the arg names in bind order.
//   - '@': text kept as-is, names listed once each in first-seen order
//   - '$', ':': each distinct name gets an ordinal, e.g. `$1`, reused on repeats
//   - '?', 0: every occurrence becomes `?`, names repeat as they occur
//
// String literals, quoted identifiers, comments and `@@` system variables are left alone.
func BindNamed(query string, prefix byte) (string, []string) {
	var (
		b       strings.Builder
		names   []string
		ordinal = map[string]int{}
	)
	b.Grow(len(query) + 8)
	n := len(query)
	i := 0
	for i < n {
		c := query[i]
		switch {
		case c == '\'' || c == '"':
			j := skipQuoted(query, i, c)
			b.WriteString(query[i:j])
			i = j
		case c == '[':
			j := skipQuoted(query, i, ']')
			b.WriteString(query[i:j])
			i = j
		case c == '-' && i+1 < n && query[i+1] == '-':
			j := strings.IndexByte(query[i:], '\n')
			if j == -1 {
				j = n
			} else {
				j += i
			}
			b.WriteString(query[i:j])
			i = j
		case c == '/' && i+1 < n && query[i+1] == '*':
			j := strings.Index(query[i+2:], "*/")
			if j == -1 {
				j = n
			} else {
				j += i + 4
			}
			b.WriteString(query[i:j])
			i = j
		case c == '@' && i+1 < n && query[i+1] == '@':
			// system variable e.g. @@IDENTITY
			j := i + 2
			for j < n && isIdentChar(query[j]) {
				j++
			}
			b.WriteString(query[i:j])
			i = j
		case c == '@' && i+1 < n && isIdentStart(query[i+1]):
			j := i + 2
			for j < n && isIdentChar(query[j]) {
				j++
			}
			name := query[i+1 : j]
			switch prefix {
			case '@':
				if _, seen := ordinal[name]; !seen {
					ordinal[name] = len(names) + 1
					names = append(names, name)
				}
				b.WriteString(query[i:j])
			case '?', 0:
				names = append(names, name)
				b.WriteByte('?')
			default:
				ord, seen := ordinal[name]
				if !seen {
					names = append(names, name)
					ord = len(names)
					ordinal[name] = ord
				}
				b.WriteByte(prefix)
				b.WriteString(strconv.Itoa(ord))
			}
			i = j
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), names
}

// skipQuoted returns the index just past the closing quote matching the one at start.
// A doubled closing quote is an escape. Unterminated quotes run to the end
func skipQuoted(s string, start int, closing byte) int {
	i := start + 1
	for i < len(s) {
		if s[i] == closing {
			if i+1 < len(s) && s[i+1] == closing {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return len(s)
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || ('0' <= c && c <= '9')
}
