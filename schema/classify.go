package schema

import (
	"gitlab.com/tozd/go/errors"
)

// Kind is the classification of a schema field.
type Kind int

const (
	// KindOptional fields carry a default and are kept as they are.
	KindOptional Kind = iota
	// KindPositional fields are required non-record fields.
	KindPositional
	// KindChoice fields are required OneOf unions of records.
	KindChoice
)

func (k Kind) String() string {
	switch k {
	case KindOptional:
		return "optional"
	case KindPositional:
		return "positional"
	case KindChoice:
		return "choice"
	}
	return "unknown"
}

// Classify decides how f is rewritten. A union may be held by value or by
// pointer. Unions with a default and bare records are rejected.
func Classify(f Field) (Kind, error) {
	if f.Type == nil {
		return 0, errors.WithStack(ErrMissingAnnotation)
	}
	if _, ok := UnionType(f.Type); ok {
		if !f.Required {
			return 0, errors.WithStack(ErrChoiceDefault)
		}
		return KindChoice, nil
	}
	if IsRecord(f.Type) {
		return 0, errors.WithStack(ErrNestedObject)
	}
	if f.Required {
		return KindPositional, nil
	}
	return KindOptional, nil
}
