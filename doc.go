// Package strict derives a strict command line from a configuration struct.
//
// Fields without a default become positional arguments, in declaration
// order. A field whose type embeds OneOf becomes a mandatory subcommand
// selection; each variant is itself rewritten, so variants may carry their
// own subcommands. Positionals of a schema that also selects a subcommand
// come before the subcommand name. Parsing, help and value conversion are
// done by kong.
//
//	type Root struct {
//		Command Command
//	}
//
//	type Command struct {
//		strict.OneOf
//		Serve *Serve
//		Check *Check
//	}
//
//	type Serve struct {
//		Addr string            // positional <addr>
//		Workers int `default:"4"` // --workers
//	}
//
//	root, err := strict.Run[Root](os.Args[1:])
//	switch cmd := strict.Selected(root.Command).(type) {
//	case *Serve:
//		...
//	}
//
// A schema may hold at most one OneOf field, the field may not have a
// default, and plain struct fields are rejected. These shapes fail with an
// error matching ErrStructural.
package strict
