package schema

import (
	"encoding"
	"reflect"

	"github.com/alecthomas/kong"
	"gitlab.com/tozd/go/errors"
)

// OneOf marks a struct as a closed union of records. Embed it in a struct
// whose other exported fields are pointers to the variant structs:
//
//	type Command struct {
//		strict.OneOf
//		Add    *Add
//		Remove *Remove
//	}
//
// A field of such a type is a subcommand selection. After parsing exactly
// one variant pointer is set.
type OneOf struct{}

var (
	oneOfType           = reflect.TypeOf(OneOf{})
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	mapperValueType     = reflect.TypeOf((*kong.MapperValue)(nil)).Elem()
)

// VariantType is one member of a OneOf union.
type VariantType struct {
	// Name is the subcommand name: the name tag of the union field, or the
	// kebab-cased variant type name.
	Name string
	// Field is the pointer field inside the union struct.
	Field reflect.StructField
	// Type is the variant struct type.
	Type reflect.Type
}

// IsUnion reports whether t is a struct embedding OneOf.
func IsUnion(t reflect.Type) bool {
	if t == nil || t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type == oneOfType {
			return true
		}
	}
	return false
}

// UnionType returns the union struct t stands for, when t is a union or a
// pointer to one.
func UnionType(t reflect.Type) (reflect.Type, bool) {
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t, IsUnion(t)
}

// IsRecord reports whether t, or the type it points to, is a struct that
// kong would not bind from a single token.
func IsRecord(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct && !isScalar(t)
}

func isScalar(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	return t.Implements(textUnmarshalerType) || pt.Implements(textUnmarshalerType) ||
		t.Implements(mapperValueType) || pt.Implements(mapperValueType)
}

// Variants lists the members of the union type t in declaration order.
func Variants(t reflect.Type) ([]VariantType, error) {
	var out []VariantType
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous || !f.IsExported() || f.Tag.Get("kong") == "-" {
			continue
		}
		if f.Type.Kind() != reflect.Pointer || !IsRecord(f.Type) || IsUnion(f.Type.Elem()) {
			return nil, errors.Errorf("%s.%s: %w", t.Name(), f.Name, ErrInvalidVariant)
		}

		elem := f.Type.Elem()
		name, _ := LookupTag(f.Tag, "name")
		if name == "" {
			name = Kebab(elem.Name())
		}
		if name == "" {
			name = Kebab(f.Name)
		}
		out = append(out, VariantType{Name: name, Field: f, Type: elem})
	}
	if len(out) < 2 {
		return nil, errors.Errorf("%s: %w", t.Name(), ErrTooFewVariants)
	}
	return out, nil
}
