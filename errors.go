package strict

import "github.com/bakks/strict/schema"

// Errors returned while rewriting a schema. Errors raised by kong or by a
// Validate method are returned unchanged.
var (
	ErrStructural   = schema.ErrStructural
	ErrPrecondition = schema.ErrPrecondition

	ErrTwoSubcommands  = schema.ErrTwoSubcommands
	ErrNestedObject    = schema.ErrNestedObject
	ErrChoiceDefault   = schema.ErrChoiceDefault
	ErrTooFewVariants  = schema.ErrTooFewVariants
	ErrInvalidVariant  = schema.ErrInvalidVariant
	ErrRecursiveSchema = schema.ErrRecursiveSchema
	ErrSliceNotLast    = schema.ErrSliceNotLast
	ErrPositionalMap   = schema.ErrPositionalMap
	ErrEmbeddedPointer = schema.ErrEmbeddedPointer

	ErrSliceBeforeSubcommand = schema.ErrSliceBeforeSubcommand

	ErrMissingAnnotation = schema.ErrMissingAnnotation
	ErrNotStruct         = schema.ErrNotStruct
)
