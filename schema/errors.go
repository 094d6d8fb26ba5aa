package schema

import (
	"gitlab.com/tozd/go/errors"
)

// ErrStructural is the category of every schema shape that cannot be turned
// into a strict command line. The caller has to change the schema definition.
var ErrStructural = errors.Base("structural violation")

// ErrPrecondition is the category of malformed descriptors.
var ErrPrecondition = errors.Base("precondition violation")

var (
	ErrTwoSubcommands  = errors.BaseWrap(ErrStructural, "cannot have two subcommands")
	ErrNestedObject    = errors.BaseWrap(ErrStructural, "nested objects not allowed")
	ErrChoiceDefault   = errors.BaseWrap(ErrStructural, "subcommand must be required")
	ErrTooFewVariants  = errors.BaseWrap(ErrStructural, "subcommand needs at least two variants")
	ErrInvalidVariant  = errors.BaseWrap(ErrStructural, "subcommand variant must be a pointer to a struct")
	ErrRecursiveSchema = errors.BaseWrap(ErrStructural, "schema contains itself")
	ErrSliceNotLast    = errors.BaseWrap(ErrStructural, "positional slice must be the last positional")
	ErrPositionalMap   = errors.BaseWrap(ErrStructural, "map cannot be positional")
	ErrEmbeddedPointer = errors.BaseWrap(ErrStructural, "embedded pointer not allowed")

	ErrSliceBeforeSubcommand = errors.BaseWrap(ErrStructural, "positional slice cannot precede a subcommand")

	ErrMissingAnnotation = errors.BaseWrap(ErrPrecondition, "expecting annotation information")
	ErrNotStruct         = errors.BaseWrap(ErrPrecondition, "schema must be a struct")
)

func fieldError(schema, field string, base error) errors.E {
	return errors.Errorf("%s.%s: %w", schema, field, base)
}
