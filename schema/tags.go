package schema

import (
	"reflect"
	"strings"
)

// LookupTag returns the value of key in tag. Like kong, a field carrying a
// `kong:"..."` tag is read only from it, in its `key='value',flag` form;
// otherwise the bare `key:"value"` tags apply.
func LookupTag(tag reflect.StructTag, key string) (string, bool) {
	raw, ok := tag.Lookup("kong")
	if !ok || raw == "-" {
		return tag.Lookup(key)
	}
	value, ok := parseKongTag(raw)[key]
	return value, ok
}

// parseKongTag splits a kong tag into its items the way kong does. Values
// may be quoted with single quotes, and \' stands for a quote.
func parseKongTag(raw string) map[string]string {
	items := map[string]string{}
	var key, value strings.Builder
	inKey, quoted := true, false
	flush := func() {
		items[key.String()] = value.String()
		key.Reset()
		value.Reset()
		inKey = true
	}

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case !quoted && c == ',':
			flush()
			continue
		case inKey && c == '=':
			inKey = false
			continue
		case c == '\\' && i+1 < len(raw) && raw[i+1] == '\'':
			i++
			c = '\''
		case c == '\'':
			quoted = !quoted
			continue
		}
		if inKey {
			key.WriteByte(c)
		} else {
			value.WriteByte(c)
		}
	}
	flush()
	return items
}
