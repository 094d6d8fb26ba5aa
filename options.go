package strict

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/bakks/strict/schema"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

type config struct {
	logger      zerolog.Logger
	docs        schema.Docs
	name        string
	description string
	completion  bool
	kong        []kong.Option
}

// Option configures a Parser.
type Option func(*config)

// WithLogger logs classification decisions at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithDocs supplies help text for fields and subcommands that have no help
// tag. See the docs package and the strict tool for generating it from
// source comments.
func WithDocs(docs schema.Docs) Option {
	return func(c *config) {
		c.docs = docs
	}
}

// WithName sets the application name shown in help.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithDescription sets the application description shown in help. It
// defaults to the documentation of the root type, if any.
func WithDescription(description string) Option {
	return func(c *config) {
		c.description = description
	}
}

// WithCompletion enables shell completion through kongplete. When the shell
// asks for completions the process prints them and exits during New.
func WithCompletion() Option {
	return func(c *config) {
		c.completion = true
	}
}

// WithKongOptions passes options to kong after the defaults.
func WithKongOptions(options ...kong.Option) Option {
	return func(c *config) {
		c.kong = append(c.kong, options...)
	}
}

func newConfig(options []Option) *config {
	c := &config{logger: zerolog.Nop()}
	for _, o := range options {
		o(c)
	}
	return c
}

func (c *config) kongOptions(root *schema.Rewritten) []kong.Option {
	help := kong.HelpOptions{Compact: true}
	if width := terminalWidth(); width > 0 {
		help.WrapUpperBound = width
	}
	options := []kong.Option{
		kong.UsageOnError(),
		kong.ConfigureHelp(help),
	}
	if c.name != "" {
		options = append(options, kong.Name(c.name))
	}
	description := c.description
	if description == "" && root.Source != nil {
		description = c.docs.Type(root.Source.Type)
	}
	if description != "" {
		options = append(options, kong.Description(description))
	}
	return append(options, c.kong...)
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}
