// Package schema turns Go struct types into explicit field descriptor tables
// and rewrites them into the strict command line layout: required scalars
// become positionals and a single OneOf union becomes a mandatory subcommand.
package schema

import (
	"reflect"

	"gitlab.com/tozd/go/errors"
)

// Field describes one exported field of a schema struct.
type Field struct {
	// Name is the Go field name.
	Name string
	// Index is the path passed to reflect.Value.FieldByIndex on the schema
	// value. Fields promoted from embedded structs have longer paths.
	Index []int
	// Parent is the struct type that declares the field.
	Parent reflect.Type
	// Type is the declared value type. A nil Type is a malformed descriptor.
	Type reflect.Type
	Tag  reflect.StructTag

	Default    string
	HasDefault bool
	// Required is set when neither a default nor the optional tag is given.
	Required bool
}

// Schema is the ordered field table of a struct type.
type Schema struct {
	Name   string
	Type   reflect.Type
	Fields []Field
}

// Describe builds the field table of t, or of the struct t points to.
func Describe(t reflect.Type) (*Schema, error) {
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, errors.Errorf("%v: %w", t, ErrNotStruct)
	}

	s := &Schema{Name: t.Name(), Type: t}
	if err := s.collect(t, nil); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Schema) collect(t reflect.Type, index []int) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Tag.Get("kong") == "-" {
			continue
		}

		path := make([]int, len(index)+1)
		copy(path, index)
		path[len(index)] = i

		if sf.Anonymous {
			switch {
			case sf.Type == oneOfType:
				continue
			case sf.Type.Kind() == reflect.Pointer:
				return fieldError(s.Name, sf.Name, ErrEmbeddedPointer)
			case sf.Type.Kind() == reflect.Struct && !isScalar(sf.Type):
				if !sf.IsExported() {
					continue
				}
				if err := s.collect(sf.Type, path); err != nil {
					return err
				}
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}

		def, hasDefault := LookupTag(sf.Tag, "default")
		_, optional := LookupTag(sf.Tag, "optional")
		s.Fields = append(s.Fields, Field{
			Name:       sf.Name,
			Index:      path,
			Parent:     t,
			Type:       sf.Type,
			Tag:        sf.Tag,
			Default:    def,
			HasDefault: hasDefault,
			Required:   !hasDefault && !optional,
		})
	}
	return nil
}
