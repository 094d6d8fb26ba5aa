package schema

import (
	"reflect"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Placement is where a rewritten field lands on the command line.
type Placement int

const (
	PlacementFlag Placement = iota
	PlacementPositional
	PlacementSubcommand
)

func (p Placement) String() string {
	switch p {
	case PlacementFlag:
		return "flag"
	case PlacementPositional:
		return "positional"
	case PlacementSubcommand:
		return "subcommand"
	}
	return "unknown"
}

// Variant is a rewritten member of a choice field.
type Variant struct {
	Name   string
	Field  reflect.StructField
	Type   reflect.Type
	Schema *Rewritten
}

// RewrittenField is a field declaration after the rewrite.
type RewrittenField struct {
	Field
	Kind      Kind
	Placement Placement
	// Variants is only set for choice fields.
	Variants []Variant
}

// Rewritten is the strict form of a Schema. It keeps the name and the Go
// type of its source so parsed values can be copied back.
type Rewritten struct {
	Name   string
	Source *Schema
	Fields []RewrittenField
}

// Choice returns the subcommand field, or nil.
func (r *Rewritten) Choice() *RewrittenField {
	for i := range r.Fields {
		if r.Fields[i].Kind == KindChoice {
			return &r.Fields[i]
		}
	}
	return nil
}

// Positionals returns the positional fields in command line order.
func (r *Rewritten) Positionals() []RewrittenField {
	var out []RewrittenField
	for _, f := range r.Fields {
		if f.Placement == PlacementPositional {
			out = append(out, f)
		}
	}
	return out
}

// Rewriter rewrites schemas into their strict form.
type Rewriter struct {
	Logger zerolog.Logger
}

// Rewrite rewrites s with a discarding logger.
func Rewrite(s *Schema) (*Rewritten, error) {
	rw := Rewriter{Logger: zerolog.Nop()}
	return rw.Rewrite(s)
}

// Rewrite returns the strict form of s. Variants of the choice field are
// rewritten recursively. The first violation aborts the whole rewrite.
func (rw *Rewriter) Rewrite(s *Schema) (*Rewritten, error) {
	return rw.rewrite(s, map[reflect.Type]bool{})
}

func (rw *Rewriter) rewrite(s *Schema, visiting map[reflect.Type]bool) (*Rewritten, error) {
	if s.Type != nil {
		if visiting[s.Type] {
			return nil, errors.Errorf("%s: %w", s.Name, ErrRecursiveSchema)
		}
		visiting[s.Type] = true
		defer delete(visiting, s.Type)
	}

	out := &Rewritten{Name: s.Name, Source: s, Fields: make([]RewrittenField, 0, len(s.Fields))}
	hasChoice := false
	for _, f := range s.Fields {
		kind, err := Classify(f)
		if err != nil {
			return nil, errors.Errorf("%s.%s: %w", s.Name, f.Name, err)
		}

		rf := RewrittenField{Field: f, Kind: kind, Placement: PlacementFlag}
		switch kind {
		case KindChoice:
			if hasChoice {
				return nil, fieldError(s.Name, f.Name, ErrTwoSubcommands)
			}
			hasChoice = true
			rf.Variants, err = rw.rewriteChoice(f, visiting)
			if err != nil {
				return nil, err
			}
			rf.Placement = PlacementSubcommand
			rf.Required, rf.Default, rf.HasDefault = true, "", false
		case KindPositional:
			rf.Placement = PlacementPositional
			rf.Default, rf.HasDefault = "", false
		}

		rw.Logger.Debug().Str("schema", s.Name).Str("field", f.Name).
			Stringer("kind", kind).Msg("classified field")
		out.Fields = append(out.Fields, rf)
	}

	if err := checkPositionals(out, hasChoice); err != nil {
		return nil, err
	}

	rw.Logger.Debug().Str("schema", s.Name).Int("fields", len(out.Fields)).
		Bool("subcommand", hasChoice).Msg("rewrote schema")
	return out, nil
}

func (rw *Rewriter) rewriteChoice(f Field, visiting map[reflect.Type]bool) ([]Variant, error) {
	union, _ := UnionType(f.Type)
	types, err := Variants(union)
	if err != nil {
		return nil, err
	}

	variants := make([]Variant, 0, len(types))
	for _, vt := range types {
		s, err := Describe(vt.Type)
		if err != nil {
			return nil, err
		}
		sub, err := rw.rewrite(s, visiting)
		if err != nil {
			return nil, err
		}
		variants = append(variants, Variant{Name: vt.Name, Field: vt.Field, Type: vt.Type, Schema: sub})
	}
	return variants, nil
}

// checkPositionals enforces what kong can bind positionally: maps never,
// slices only in last position since they consume every remaining token.
// Positionals in front of a subcommand take exactly one token each.
func checkPositionals(r *Rewritten, hasChoice bool) error {
	positionals := r.Positionals()
	for i, f := range positionals {
		switch f.Type.Kind() {
		case reflect.Map:
			return fieldError(r.Name, f.Name, ErrPositionalMap)
		case reflect.Slice:
			if hasChoice {
				return fieldError(r.Name, f.Name, ErrSliceBeforeSubcommand)
			}
			if i != len(positionals)-1 {
				return fieldError(r.Name, f.Name, ErrSliceNotLast)
			}
		}
	}
	return nil
}
