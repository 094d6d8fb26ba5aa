// Command strict extracts struct and field documentation from Go source so
// strict command lines can show it as help text.
//
//go:generate go run . generate main.go --var fieldDocs -o docs_gen.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bakks/strict"
	"github.com/bakks/strict/docs"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// CLI is the strict tool's command line.
type CLI struct {
	// Minimum level of log messages written to stderr.
	LogLevel string `default:"warn" enum:"trace,debug,info,warn,error" env:"STRICT_LOG_LEVEL"`
	Command  Command
}

type Command struct {
	strict.OneOf
	Docs     *Docs
	Generate *Generate
}

// Print the struct and field documentation found in a Go file.
type Docs struct {
	// Go file to parse.
	File string `type:"existingfile"`
	// Output format.
	Format string `default:"text" enum:"text,yaml"`
}

// Write a Go file declaring the documentation as a strict.Docs value.
type Generate struct {
	// Go file to parse.
	File string `type:"existingfile"`
	// Package clause of the generated file.
	Package string `default:"main"`
	// Name of the generated variable.
	Var string `default:"fieldDocs"`
	// Output file, - for stdout.
	Output string `short:"o" default:"-"`
}

func main() {
	cli, err := strict.Run[CLI](os.Args[1:],
		strict.WithName("strict"),
		strict.WithDocs(fieldDocs),
		strict.WithCompletion(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "strict: error: %v\n", err)
		os.Exit(2)
	}

	logger := newLogger(cli.LogLevel, os.Stderr)
	ctx := logger.WithContext(context.Background())

	switch cmd := strict.Selected(cli.Command).(type) {
	case *Docs:
		err = runDocs(ctx, cmd, os.Stdout)
	case *Generate:
		err = runGenerate(ctx, cmd, os.Stdout)
	default:
		panic(cmd)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("failed")
	}
}

func newLogger(level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(lvl).With().Timestamp().Logger()
}

func runDocs(ctx context.Context, cmd *Docs, w io.Writer) error {
	sourceCode, err := readSource(ctx, cmd.File)
	if err != nil {
		return err
	}
	structs, err := docs.Parse(ctx, sourceCode)
	if err != nil {
		return err
	}
	zerolog.Ctx(ctx).Debug().Int("structs", len(structs)).Str("file", cmd.File).Msg("parsed")

	switch cmd.Format {
	case "yaml":
		return writeYAML(w, structs)
	default:
		return writeText(w, structs)
	}
}

func runGenerate(ctx context.Context, cmd *Generate, stdout io.Writer) error {
	sourceCode, err := readSource(ctx, cmd.File)
	if err != nil {
		return err
	}
	extracted, err := docs.Extract(ctx, sourceCode)
	if err != nil {
		return err
	}
	out, err := renderGo(cmd.Package, cmd.Var, extracted)
	if err != nil {
		return err
	}

	if cmd.Output == "-" {
		_, err = stdout.Write(out)
		return errors.WithStack(err)
	}
	zerolog.Ctx(ctx).Info().Str("output", cmd.Output).Int("entries", len(extracted)).Msg("writing docs")
	return errors.WithStack(os.WriteFile(cmd.Output, out, 0o644))
}

func readSource(ctx context.Context, path string) ([]byte, error) {
	zerolog.Ctx(ctx).Debug().Str("file", path).Msg("reading")
	sourceCode, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return sourceCode, nil
}
