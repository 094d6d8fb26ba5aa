package strict_test

import (
	"bytes"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/bakks/strict"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

type SimpleModel struct {
	Name string
}

type SubCommandOne struct {
	Name string `default:"subcommand_one"`
}

type SubCommandTwo struct {
	Name string `default:"subcommand_two"`
}

type SubCommand struct {
	strict.OneOf
	SubCommandOne *SubCommandOne
	SubCommandTwo *SubCommandTwo
}

type ModelWithSubcommand struct {
	SubCommand SubCommand
}

type PositionalOne struct {
	Name string
}

type PositionalTwo struct {
	Name string
}

type PositionalSubCommand struct {
	strict.OneOf
	SubCommandOne *PositionalOne `name:"sub-command-one"`
	SubCommandTwo *PositionalTwo `name:"sub-command-two"`
}

type ModelWithPositionalSubcommand struct {
	SubCommand PositionalSubCommand
}

type NestedSubcommandOne struct {
	Name string
}

type NestedSubcommandTwo struct {
	Name string
}

type NestedSubCommand struct {
	strict.OneOf
	NestedSubcommandOne *NestedSubcommandOne
	NestedSubcommandTwo *NestedSubcommandTwo
}

type OuterOne struct {
	SubCommand NestedSubCommand
}

type OuterSubCommand struct {
	strict.OneOf
	SubCommandOne *OuterOne      `name:"sub-command-one"`
	SubCommandTwo *PositionalTwo `name:"sub-command-two"`
}

type ModelWithNestedSubcommand struct {
	SubCommand OuterSubCommand
}

type ModelWithSubcommandDefault struct {
	SubCommand SubCommand `default:"sub-command-one"`
}

type ModelWithTwoSubcommands struct {
	SubCommand    SubCommand
	SubCommandTwo SubCommand
}

type SubModel struct {
	Name string
}

type NestedModel struct {
	Name  string
	Model SubModel
}

type Ordered struct {
	First  string
	Second int
	Third  float64
	Rest   []string
}

type Deploy struct {
	Region  string
	Dry     bool `default:"false"`
	Command SubCommand
}

type PointerDeploy struct {
	Region  string
	Command *SubCommand
}

type KongTagged struct {
	Name  string `kong:"default='x'"`
	Level int    `kong:"optional,short='l'"`
}

type Documented struct {
	Name string
}

type Account struct {
	User string
}

func (a *Account) Validate() error {
	if a.User == "root" {
		return errors.New("root not allowed")
	}
	return nil
}

func exitPanics(out *bytes.Buffer) strict.Option {
	return strict.WithKongOptions(
		kong.Writers(out, out),
		kong.Exit(func(code int) { panic(code) }),
	)
}

func TestRun(t *testing.T) {
	t.Run("Positional", func(t *testing.T) {
		model, err := strict.Run[SimpleModel]([]string{"myname"})
		require.NoError(t, err)
		assert.Equal(t, "myname", model.Name)
	})

	t.Run("Positionals In Declaration Order", func(t *testing.T) {
		model, err := strict.Run[Ordered]([]string{"a", "2", "3.5", "x", "y"})
		require.NoError(t, err)
		assert.Equal(t, Ordered{First: "a", Second: 2, Third: 3.5, Rest: []string{"x", "y"}}, *model)
	})

	t.Run("Subcommand", func(t *testing.T) {
		model, err := strict.Run[ModelWithSubcommand]([]string{"sub-command-one"})
		require.NoError(t, err)
		require.IsType(t, &SubCommandOne{}, strict.Selected(model.SubCommand))
		assert.Equal(t, "subcommand_one", model.SubCommand.SubCommandOne.Name)
		assert.Nil(t, model.SubCommand.SubCommandTwo)

		model, err = strict.Run[ModelWithSubcommand]([]string{"sub-command-two"})
		require.NoError(t, err)
		require.IsType(t, &SubCommandTwo{}, strict.Selected(model.SubCommand))
	})

	t.Run("Subcommand Flags Are Not Prefixed", func(t *testing.T) {
		model, err := strict.Run[ModelWithSubcommand]([]string{"sub-command-two", "--name", "other"})
		require.NoError(t, err)
		require.NotNil(t, model.SubCommand.SubCommandTwo)
		assert.Equal(t, "other", model.SubCommand.SubCommandTwo.Name)
	})

	t.Run("Subcommand With Positional", func(t *testing.T) {
		model, err := strict.Run[ModelWithPositionalSubcommand]([]string{"sub-command-one", "myname"})
		require.NoError(t, err)
		require.NotNil(t, model.SubCommand.SubCommandOne)
		assert.Equal(t, "myname", model.SubCommand.SubCommandOne.Name)
	})

	t.Run("Nested Subcommand", func(t *testing.T) {
		model, err := strict.Run[ModelWithNestedSubcommand](
			[]string{"sub-command-one", "nested-subcommand-one", "myname"},
		)
		require.NoError(t, err)

		outer, ok := strict.Selected(model.SubCommand).(*OuterOne)
		require.True(t, ok)
		inner, ok := strict.Selected(outer.SubCommand).(*NestedSubcommandOne)
		require.True(t, ok)
		assert.Equal(t, "myname", inner.Name)
	})

	t.Run("Positional Next To Subcommand", func(t *testing.T) {
		model, err := strict.Run[Deploy]([]string{"eu", "sub-command-one"})
		require.NoError(t, err)
		assert.Equal(t, "eu", model.Region)
		assert.False(t, model.Dry)
		assert.NotNil(t, model.Command.SubCommandOne)

		model, err = strict.Run[Deploy]([]string{"us", "--dry", "sub-command-two", "--name", "other"})
		require.NoError(t, err)
		assert.Equal(t, "us", model.Region)
		assert.True(t, model.Dry)
		require.NotNil(t, model.Command.SubCommandTwo)
		assert.Equal(t, "other", model.Command.SubCommandTwo.Name)

		_, err = strict.Run[Deploy]([]string{"--region", "eu", "sub-command-one"})
		assert.Error(t, err)
		_, err = strict.Run[Deploy]([]string{"eu"})
		assert.Error(t, err)
	})

	t.Run("Pointer Subcommand", func(t *testing.T) {
		model, err := strict.Run[PointerDeploy]([]string{"eu", "sub-command-two"})
		require.NoError(t, err)
		assert.Equal(t, "eu", model.Region)
		require.NotNil(t, model.Command)
		assert.IsType(t, &SubCommandTwo{}, strict.Selected(model.Command))
		assert.Equal(t, "subcommand_two", model.Command.SubCommandTwo.Name)
	})

	t.Run("Kong Tag Form", func(t *testing.T) {
		model, err := strict.Run[KongTagged]([]string{})
		require.NoError(t, err)
		assert.Equal(t, "x", model.Name)
		assert.Equal(t, 0, model.Level)

		model, err = strict.Run[KongTagged]([]string{"--name", "y", "-l", "2"})
		require.NoError(t, err)
		assert.Equal(t, "y", model.Name)
		assert.Equal(t, 2, model.Level)
	})

	t.Run("Validate", func(t *testing.T) {
		_, err := strict.Run[Account]([]string{"root"})
		assert.EqualError(t, err, "root not allowed")

		account, err := strict.Run[Account]([]string{"alice"})
		require.NoError(t, err)
		assert.Equal(t, "alice", account.User)
	})
}

func TestRunStructuralErrors(t *testing.T) {
	t.Run("Subcommand With Default", func(t *testing.T) {
		_, err := strict.Run[ModelWithSubcommandDefault]([]string{})
		assert.True(t, errors.Is(err, strict.ErrChoiceDefault))
		assert.True(t, errors.Is(err, strict.ErrStructural))
	})

	t.Run("Two Subcommands", func(t *testing.T) {
		_, err := strict.Run[ModelWithTwoSubcommands]([]string{})
		assert.True(t, errors.Is(err, strict.ErrTwoSubcommands))
	})

	t.Run("Nested Object", func(t *testing.T) {
		_, err := strict.Run[NestedModel]([]string{"myname", "-h"})
		assert.True(t, errors.Is(err, strict.ErrNestedObject))
	})

	t.Run("Not A Struct Pointer", func(t *testing.T) {
		var s SimpleModel
		err := strict.Parse(s, []string{"x"})
		assert.True(t, errors.Is(err, strict.ErrNotStruct))

		err = strict.Parse(nil, []string{"x"})
		assert.True(t, errors.Is(err, strict.ErrNotStruct))
	})
}

func TestRunKongErrorsPassThrough(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"Missing Positional", []string{}},
		{"Unknown Subcommand", []string{"sub-command-three"}},
		{"Missing Subcommand", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.name == "Missing Positional" {
				_, err = strict.Run[SimpleModel](tt.args)
			} else {
				_, err = strict.Run[ModelWithSubcommand](tt.args)
			}
			require.Error(t, err)
			assert.False(t, errors.Is(err, strict.ErrStructural))

			var parseErr *kong.ParseError
			assert.True(t, errors.As(err, &parseErr), "got %T", err)
		})
	}

	t.Run("Type Coercion", func(t *testing.T) {
		_, err := strict.Run[Ordered]([]string{"a", "two", "3", "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "two")
	})
}

func TestHelp(t *testing.T) {
	t.Run("Top Level", func(t *testing.T) {
		var out bytes.Buffer
		var model ModelWithSubcommand
		assert.PanicsWithValue(t, 0, func() {
			_ = strict.Parse(&model, []string{"-h"}, exitPanics(&out), strict.WithName("app"))
		})
		assert.Contains(t, out.String(), "sub-command-one")
		assert.Contains(t, out.String(), "sub-command-two")
	})

	t.Run("Nested Level", func(t *testing.T) {
		var out bytes.Buffer
		var model ModelWithNestedSubcommand
		assert.PanicsWithValue(t, 0, func() {
			_ = strict.Parse(&model, []string{"sub-command-one", "--help"}, exitPanics(&out))
		})
		assert.Contains(t, out.String(), "nested-subcommand-one")
	})

	t.Run("Docs", func(t *testing.T) {
		var out bytes.Buffer
		var model Documented
		docs := strict.Docs{
			"Documented":      "Prints a name.",
			"Documented.Name": "Name to print.",
		}
		assert.PanicsWithValue(t, 0, func() {
			_ = strict.Parse(&model, []string{"--help"}, exitPanics(&out), strict.WithDocs(docs))
		})
		assert.Contains(t, out.String(), "Prints a name.")
		assert.Contains(t, out.String(), "Name to print.")
	})
}

func TestCompletion(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"Top Level", "app ", []string{"sub-command-one", "sub-command-two"}},
		{"Nested Level", "app sub-command-one ", []string{"nested-subcommand-one", "nested-subcommand-two"}},
		{"Prefix", "app sub-command-one nested-subcommand-t", []string{"nested-subcommand-two"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("COMP_LINE", tt.line)
			t.Setenv("COMP_POINT", strconv.Itoa(len(tt.line)))

			var out bytes.Buffer
			var model ModelWithNestedSubcommand
			assert.PanicsWithValue(t, 0, func() {
				_, _ = strict.New(&model, strict.WithName("app"), strict.WithCompletion(), exitPanics(&out))
			})
			assert.ElementsMatch(t, tt.want, strings.Fields(out.String()))
		})
	}

	t.Run("Inactive Without Shell", func(t *testing.T) {
		t.Setenv("COMP_LINE", "")

		var model ModelWithSubcommand
		p, err := strict.New(&model, strict.WithCompletion())
		require.NoError(t, err)
		_, err = p.Parse([]string{"sub-command-one"})
		require.NoError(t, err)
		assert.NotNil(t, model.SubCommand.SubCommandOne)
	})
}

func TestParser(t *testing.T) {
	var model ModelWithNestedSubcommand
	p, err := strict.New(&model)
	require.NoError(t, err)
	assert.Equal(t, "ModelWithNestedSubcommand", p.Schema().Name)
	assert.NotNil(t, p.Kong())

	ctx, err := p.Parse([]string{"sub-command-one", "nested-subcommand-two", "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"sub-command-one", "nested-subcommand-two"}, strict.Commands(ctx))
	require.NotNil(t, model.SubCommand.SubCommandOne)
	require.NotNil(t, model.SubCommand.SubCommandOne.SubCommand.NestedSubcommandTwo)
	assert.Equal(t, "x", model.SubCommand.SubCommandOne.SubCommand.NestedSubcommandTwo.Name)

	_, err = p.Parse([]string{"sub-command-two", "y"})
	require.NoError(t, err)
	assert.Nil(t, model.SubCommand.SubCommandOne)
	require.NotNil(t, model.SubCommand.SubCommandTwo)
	assert.Equal(t, "y", model.SubCommand.SubCommandTwo.Name)
}

func TestRewrite(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	for _, v := range []any{SimpleModel{}, &SimpleModel{}, reflect.TypeOf(SimpleModel{})} {
		buf.Reset()
		r, err := strict.Rewrite(v, strict.WithLogger(logger))
		require.NoError(t, err)
		assert.Equal(t, "SimpleModel", r.Name)
		require.Len(t, r.Positionals(), 1)
		assert.Contains(t, buf.String(), "classified field")
	}
}

func TestSelected(t *testing.T) {
	assert.Nil(t, strict.Selected(SubCommand{}))
	assert.Nil(t, strict.Selected("not a union"))
	assert.Nil(t, strict.Selected(SimpleModel{}))

	one := &SubCommandOne{}
	assert.Same(t, one, strict.Selected(SubCommand{SubCommandOne: one}))
	assert.Same(t, one, strict.Selected(&SubCommand{SubCommandOne: one}))
}
