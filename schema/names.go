package schema

import (
	"strings"
	"unicode"
)

// Kebab turns a Go identifier into a lower case, dash separated command line
// name: SubCommandOne becomes sub-command-one, HTTPServer becomes
// http-server.
func Kebab(name string) string {
	var words []string
	runes := []rune(name)
	start := 0
	for i := 1; i <= len(runes); i++ {
		if i < len(runes) && !boundary(runes, i) {
			continue
		}
		if w := strings.Trim(string(runes[start:i]), "_-"); w != "" {
			words = append(words, strings.ToLower(w))
		}
		start = i
	}
	return strings.Join(words, "-")
}

func boundary(r []rune, i int) bool {
	prev, cur := r[i-1], r[i]
	switch {
	case cur == '_' || cur == '-':
		return true
	case unicode.IsUpper(cur) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
		return true
	case unicode.IsDigit(cur) && !unicode.IsDigit(prev):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(r) && unicode.IsLower(r[i+1]):
		return true
	}
	return false
}
