package main

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"sort"

	"github.com/bakks/strict"
	"github.com/bakks/strict/docs"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

type yamlStruct struct {
	Name   string            `yaml:"name"`
	Doc    string            `yaml:"doc,omitempty"`
	Fields []yamlStructField `yaml:"fields,omitempty"`
}

type yamlStructField struct {
	Name string `yaml:"name"`
	Doc  string `yaml:"doc,omitempty"`
}

func writeYAML(w io.Writer, structs []*docs.ParsedStruct) error {
	out := make([]yamlStruct, 0, len(structs))
	for _, s := range structs {
		ys := yamlStruct{Name: s.Name, Doc: s.Documentation}
		for _, f := range s.Fields {
			ys.Fields = append(ys.Fields, yamlStructField{Name: f.Name, Doc: f.Documentation})
		}
		out = append(out, ys)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(enc.Close())
}

func writeText(w io.Writer, structs []*docs.ParsedStruct) error {
	for _, s := range structs {
		if _, err := fmt.Fprintf(w, "%s\n\n", s.String()); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// renderGo renders a gofmt'ed file declaring name as a strict.Docs literal.
func renderGo(pkg, name string, d strict.Docs) ([]byte, error) {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b bytes.Buffer
	fmt.Fprintf(&b, "// Code generated by strict generate; DO NOT EDIT.\n\npackage %s\n\n", pkg)
	fmt.Fprintf(&b, "import \"github.com/bakks/strict\"\n\nvar %s = strict.Docs{\n", name)
	for _, k := range keys {
		fmt.Fprintf(&b, "\t%q: %q,\n", k, d[k])
	}
	b.WriteString("}\n")

	out, err := format.Source(b.Bytes())
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return out, nil
}
