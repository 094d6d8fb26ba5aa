package strict

import (
	"os"
	"reflect"

	"github.com/alecthomas/kong"
	"github.com/bakks/strict/internal/binding"
	"github.com/bakks/strict/schema"
	"github.com/willabides/kongplete"
	"gitlab.com/tozd/go/errors"
)

// OneOf marks a struct as a closed union of subcommands.
type OneOf = schema.OneOf

// Docs is help text keyed by "Type" and "Type.Field".
type Docs = schema.Docs

// Parser binds command line tokens to a target struct through its strict
// rewrite.
type Parser struct {
	kong    *kong.Kong
	grammar *binding.Grammar
	values  reflect.Value
	target  reflect.Value
}

// New rewrites the type of target, which must be a pointer to a struct, and
// builds the kong parser for the rewritten grammar.
func New(target any, options ...Option) (*Parser, error) {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, errors.Errorf("%T: %w", target, ErrNotStruct)
	}

	cfg := newConfig(options)
	rewritten, err := rewrite(v.Elem().Type(), cfg)
	if err != nil {
		return nil, err
	}

	grammar := binding.Build(rewritten, cfg.docs)
	values := reflect.New(grammar.Type)
	parser, err := kong.New(values.Interface(), cfg.kongOptions(rewritten)...)
	if err != nil {
		return nil, err
	}
	if cfg.completion {
		kongplete.Complete(parser)
	}

	return &Parser{
		kong:    parser,
		grammar: grammar,
		values:  values,
		target:  v,
	}, nil
}

// Kong returns the underlying kong parser.
func (p *Parser) Kong() *kong.Kong {
	return p.kong
}

// Schema returns the rewritten schema the parser was built from.
func (p *Parser) Schema() *schema.Rewritten {
	return p.grammar.Schema
}

// Parse parses args and populates the target. kong errors are returned as
// kong produced them.
func (p *Parser) Parse(args []string) (*kong.Context, error) {
	ctx, err := p.kong.Parse(args)
	if err != nil {
		return ctx, err
	}
	if err := p.grammar.Assign(p.target.Elem(), p.values.Elem(), Commands(ctx)); err != nil {
		return ctx, err
	}
	return ctx, nil
}

// Parse populates target from args. A nil args parses os.Args[1:].
func Parse(target any, args []string, options ...Option) error {
	if args == nil {
		args = os.Args[1:]
	}
	p, err := New(target, options...)
	if err != nil {
		return err
	}
	_, err = p.Parse(args)
	return err
}

// Run returns a new T populated from args. A nil args parses os.Args[1:].
func Run[T any](args []string, options ...Option) (*T, error) {
	out := new(T)
	if err := Parse(out, args, options...); err != nil {
		return nil, err
	}
	return out, nil
}

// Rewrite returns the strict form of the struct type of v, which may be a
// struct value, a pointer to one, or a reflect.Type.
func Rewrite(v any, options ...Option) (*schema.Rewritten, error) {
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}
	return rewrite(t, newConfig(options))
}

func rewrite(t reflect.Type, cfg *config) (*schema.Rewritten, error) {
	s, err := schema.Describe(t)
	if err != nil {
		return nil, err
	}
	rw := schema.Rewriter{Logger: cfg.logger}
	return rw.Rewrite(s)
}

// Commands returns the names of the commands selected in ctx, outermost
// first.
func Commands(ctx *kong.Context) []string {
	var names []string
	for _, p := range ctx.Path {
		if p.Command != nil {
			names = append(names, p.Command.Name)
		}
	}
	return names
}

// Selected returns the variant set in a OneOf union, or nil.
func Selected(union any) any {
	v := reflect.Indirect(reflect.ValueOf(union))
	if v.Kind() != reflect.Struct || !schema.IsUnion(v.Type()) {
		return nil
	}
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous || !f.IsExported() || f.Type.Kind() != reflect.Pointer {
			continue
		}
		if fv := v.Field(i); !fv.IsNil() {
			return fv.Interface()
		}
	}
	return nil
}
