package schema

import "reflect"

// Docs holds help text keyed by struct type name ("Remote") and by
// "Type.Field" ("Remote.URL").
type Docs map[string]string

// Type returns the documentation of t.
func (d Docs) Type(t reflect.Type) string {
	if d == nil || t == nil {
		return ""
	}
	return d[t.Name()]
}

// Field returns the documentation of the field declared by f.Parent.
func (d Docs) Field(f Field) string {
	if d == nil || f.Parent == nil {
		return ""
	}
	return d[f.Parent.Name()+"."+f.Name]
}
