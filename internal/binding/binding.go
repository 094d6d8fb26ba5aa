// Package binding materializes a rewritten schema as a kong grammar and copies
// the values kong parsed back into the caller's own types.
package binding

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/bakks/strict/schema"
	"gitlab.com/tozd/go/errors"
)

// Tags copied from the caller's field onto the grammar field.
var (
	positionalTags = []string{"help", "placeholder", "enum", "type", "sep", "mapsep", "format"}
	flagTags       = []string{"help", "short", "env", "placeholder", "enum", "type", "sep", "mapsep", "format", "hidden", "group", "xor", "and", "negatable"}
	commandTags    = []string{"help", "aliases", "hidden", "group"}
)

// Grammar is a struct type kong can parse into, derived from a rewritten
// schema. Every leaf of Type that holds a value corresponds to one slot.
type Grammar struct {
	Type   reflect.Type
	Schema *schema.Rewritten

	slots []slot
}

type slot struct {
	field   *schema.RewrittenField
	variant int
	grammar *Grammar
	// path locates the slot's field in a value of the grammar type.
	path []int
}

// Build derives the grammar for r. Choice variants become sibling commands so
// their flags are not prefixed with the choice field's name. Positionals of a
// schema that also has a choice become a chain of kong branching arguments,
// one level each, with the variant commands below the last one.
func Build(r *schema.Rewritten, docs schema.Docs) *Grammar {
	g := &Grammar{Schema: r}
	choice := r.Choice()

	var fields []reflect.StructField
	var branches []*schema.RewrittenField
	for i := range r.Fields {
		f := &r.Fields[i]
		switch {
		case f.Placement == schema.PlacementSubcommand:
			continue
		case f.Placement == schema.PlacementPositional && choice != nil:
			branches = append(branches, f)
			continue
		}
		g.slots = append(g.slots, slot{field: f, variant: -1, path: []int{len(fields)}})
		fields = append(fields, reflect.StructField{
			Name: slotName(len(fields)),
			Type: f.Type,
			Tag:  fieldTag(f, docs),
		})
	}
	if choice != nil {
		fields = append(fields, g.branch(choice, branches, nil, len(fields), docs)...)
	}
	g.Type = reflect.StructOf(fields)
	return g
}

// branch returns the fields that continue the level at prefix, starting at
// field index next: the first of positionals as a branching argument holding
// the rest, or the choice's commands once no positionals are left.
func (g *Grammar) branch(choice *schema.RewrittenField, positionals []*schema.RewrittenField, prefix []int, next int, docs schema.Docs) []reflect.StructField {
	if len(positionals) == 0 {
		fields := make([]reflect.StructField, 0, len(choice.Variants))
		for j, v := range choice.Variants {
			sub := Build(v.Schema, docs)
			g.slots = append(g.slots, slot{field: choice, variant: j, grammar: sub, path: extend(prefix, next+j)})
			fields = append(fields, reflect.StructField{
				Name: slotName(next + j),
				Type: sub.Type,
				Tag:  commandTag(v, docs),
			})
		}
		return fields
	}

	f := positionals[0]
	at := extend(prefix, next)
	g.slots = append(g.slots, slot{field: f, variant: -1, path: extend(at, 0)})
	inner := []reflect.StructField{{
		Name: slotName(0),
		Type: f.Type,
		Tag:  fieldTag(f, docs),
	}}
	inner = append(inner, g.branch(choice, positionals[1:], at, 1, docs)...)

	// kong requires the branch and its leaf argument to share a name.
	var b tagBuilder
	b.set("arg", "")
	b.set("name", fieldName(f))
	return []reflect.StructField{{
		Name: slotName(next),
		Type: reflect.StructOf(inner),
		Tag:  b.tag(),
	}}
}

func extend(path []int, i int) []int {
	out := make([]int, len(path)+1)
	copy(out, path)
	out[len(path)] = i
	return out
}

func slotName(i int) string {
	return "F" + strconv.Itoa(i)
}

// Assign copies src, a value of g.Type, into dst, a value of the rewritten
// schema's source type. commands are the selected command names from the
// outermost level down. Records implementing Validate are validated after
// they are populated, innermost first.
func (g *Grammar) Assign(dst, src reflect.Value, commands []string) error {
	var selected *slot
	var selectedValue reflect.Value
	for i := range g.slots {
		sl := &g.slots[i]
		if sl.variant < 0 {
			dst.FieldByIndex(sl.field.Index).Set(src.FieldByIndex(sl.path))
			continue
		}
		if len(commands) > 0 && sl.field.Variants[sl.variant].Name == commands[0] {
			selected, selectedValue = sl, src.FieldByIndex(sl.path)
		}
	}

	if choice := g.Schema.Choice(); choice != nil {
		if selected == nil {
			return errors.Errorf("%s.%s: no subcommand selected from %v", g.Schema.Name, choice.Name, commands)
		}
		v := selected.field.Variants[selected.variant]
		union := dst.FieldByIndex(choice.Index)
		if union.Kind() == reflect.Pointer {
			union.Set(reflect.New(union.Type().Elem()))
			union = union.Elem()
		} else {
			union.Set(reflect.Zero(union.Type()))
		}

		ptr := reflect.New(v.Type)
		if err := selected.grammar.Assign(ptr.Elem(), selectedValue, commands[1:]); err != nil {
			return err
		}
		union.FieldByIndex(v.Field.Index).Set(ptr)
	}

	if dst.CanAddr() {
		if validator, ok := dst.Addr().Interface().(interface{ Validate() error }); ok {
			return validator.Validate()
		}
	}
	return nil
}

func fieldTag(f *schema.RewrittenField, docs schema.Docs) reflect.StructTag {
	var b tagBuilder
	b.set("name", fieldName(f))

	copied := flagTags
	if f.Placement == schema.PlacementPositional {
		b.set("arg", "")
		copied = positionalTags
	} else if f.HasDefault {
		b.set("default", f.Default)
	}
	b.copy(f.Tag, copied)
	if _, ok := schema.LookupTag(f.Tag, "help"); !ok {
		if help := docs.Field(f.Field); help != "" {
			b.set("help", help)
		}
	}
	return b.tag()
}

func fieldName(f *schema.RewrittenField) string {
	if name, _ := schema.LookupTag(f.Tag, "name"); name != "" {
		return name
	}
	return schema.Kebab(f.Name)
}

func commandTag(v schema.Variant, docs schema.Docs) reflect.StructTag {
	var b tagBuilder
	b.set("cmd", "")
	b.set("name", v.Name)
	b.copy(v.Field.Tag, commandTags)
	if _, ok := schema.LookupTag(v.Field.Tag, "help"); !ok {
		if help := docs.Type(v.Type); help != "" {
			b.set("help", help)
		}
	}
	return b.tag()
}

type tagBuilder []string

func (b *tagBuilder) set(key, value string) {
	*b = append(*b, fmt.Sprintf("%s:%s", key, strconv.Quote(value)))
}

func (b *tagBuilder) copy(tag reflect.StructTag, keys []string) {
	for _, key := range keys {
		if value, ok := schema.LookupTag(tag, key); ok {
			b.set(key, value)
		}
	}
}

func (b tagBuilder) tag() reflect.StructTag {
	return reflect.StructTag(strings.Join(b, " "))
}
