// Package docs reads doc comments of struct types and their fields from Go
// source, so they can serve as command line help text.
package docs

import (
	"context"
	"fmt"
	"strings"

	"github.com/bakks/strict/schema"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"gitlab.com/tozd/go/errors"
)

// ParsedField is a struct field and its documentation.
type ParsedField struct {
	Name          string
	Documentation string
	Range         *sitter.Range
}

// ParsedStruct is a struct type declaration and the documentation of the
// type and each of its named fields.
type ParsedStruct struct {
	Name          string
	Documentation string
	Range         *sitter.Range
	Fields        []*ParsedField
}

func (this *ParsedStruct) String() string {
	var str strings.Builder
	str.WriteString(this.Name)
	str.WriteString(" ")
	str.WriteString(RangeString(this.Range))
	if this.Documentation != "" {
		str.WriteString("\n  ")
		str.WriteString(this.Documentation)
	}
	for _, f := range this.Fields {
		str.WriteString(fmt.Sprintf("\n  %s: %s", f.Name, f.Documentation))
	}
	return str.String()
}

// RangeString formats rng as start and end points, row:column-row:column,
// both zero based.
func RangeString(rng *sitter.Range) string {
	startPoint := rng.StartPoint
	endPoint := rng.EndPoint
	return fmt.Sprintf("%d:%d-%d:%d", startPoint.Row, startPoint.Column, endPoint.Row, endPoint.Column)
}

// GetRange returns the source span covered by node.
func GetRange(node *sitter.Node) *sitter.Range {
	return &sitter.Range{
		StartPoint: node.StartPoint(),
		EndPoint:   node.EndPoint(),
		StartByte:  node.StartByte(),
		EndByte:    node.EndByte(),
	}
}

// Parse returns every struct type declared in sourceCode, in source order.
func Parse(ctx context.Context, sourceCode []byte) ([]*ParsedStruct, error) {
	lang := golang.GetLanguage()
	rootNode, err := sitter.ParseCtx(ctx, sourceCode, lang)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return QueryStructs(rootNode, lang, sourceCode)
}

// Extract returns the documentation found in sourceCode keyed the way
// schema.Docs expects. Undocumented types and fields are left out.
func Extract(ctx context.Context, sourceCode []byte) (schema.Docs, error) {
	structs, err := Parse(ctx, sourceCode)
	if err != nil {
		return nil, err
	}
	docs := schema.Docs{}
	for _, s := range structs {
		if s.Documentation != "" {
			docs[s.Name] = s.Documentation
		}
		for _, f := range s.Fields {
			if f.Documentation != "" {
				docs[s.Name+"."+f.Name] = f.Documentation
			}
		}
	}
	return docs, nil
}

// QueryStructs finds struct type specs below rootNode.
func QueryStructs(rootNode *sitter.Node, lang *sitter.Language, sourceCode []byte) ([]*ParsedStruct, error) {
	pattern := "(type_spec (type_identifier) @type.name (struct_type) @type.body)"

	query, err := sitter.NewQuery([]byte(pattern), lang)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	queryCursor := sitter.NewQueryCursor()
	queryCursor.Exec(query, rootNode)

	structs := []*ParsedStruct{}

	for {
		match, ok := queryCursor.NextMatch()
		if !ok {
			break
		}

		var nameNode, bodyNode *sitter.Node
		for _, cap := range match.Captures {
			switch query.CaptureNameForId(cap.Index) {
			case "type.name":
				nameNode = cap.Node
			case "type.body":
				bodyNode = cap.Node
			}
		}
		if nameNode == nil || bodyNode == nil {
			continue
		}

		spec := nameNode.Parent()
		parsed := &ParsedStruct{
			Name:  nameNode.Content(sourceCode),
			Range: GetRange(spec),
		}
		// A spec inside "type ( ... )" carries its own comments, a lone
		// spec is documented on its declaration.
		parsed.Documentation = precedingComments(spec, sourceCode)
		if parsed.Documentation == "" && spec.Parent() != nil && spec.Parent().Type() == "type_declaration" {
			parsed.Documentation = precedingComments(spec.Parent(), sourceCode)
		}
		parsed.Fields = structFields(bodyNode, sourceCode)
		structs = append(structs, parsed)
	}

	return structs, nil
}

func structFields(body *sitter.Node, sourceCode []byte) []*ParsedField {
	var list *sitter.Node
	for i := 0; i < int(body.NamedChildCount()); i++ {
		if c := body.NamedChild(i); c.Type() == "field_declaration_list" {
			list = c
			break
		}
	}
	if list == nil {
		return nil
	}

	fields := []*ParsedField{}
	for i := 0; i < int(list.NamedChildCount()); i++ {
		decl := list.NamedChild(i)
		if decl.Type() != "field_declaration" {
			continue
		}
		doc := precedingComments(decl, sourceCode)
		if doc == "" {
			doc = trailingComment(decl, sourceCode)
		}
		for j := 0; j < int(decl.NamedChildCount()); j++ {
			name := decl.NamedChild(j)
			if name.Type() != "field_identifier" {
				continue
			}
			fields = append(fields, &ParsedField{
				Name:          name.Content(sourceCode),
				Documentation: doc,
				Range:         GetRange(decl),
			})
		}
	}
	return fields
}

// precedingComments joins the comment lines directly above node. A comment
// that trails the previous sibling on its line, or is separated from node by
// a blank line, is not part of it.
func precedingComments(node *sitter.Node, sourceCode []byte) string {
	parent := node.Parent()
	if parent == nil {
		return ""
	}
	var comments []string
	var prev *sitter.Node

	cursor := sitter.NewTreeCursor(parent)
	cursor.GoToFirstChild()

	// Go through all siblings
	for {
		currNode := cursor.CurrentNode()
		if currNode.EndByte() >= node.StartByte() {
			break
		}
		if isTerminator(currNode) {
			// A newline terminator ends on the row of whatever follows it.
			if !cursor.GoToNextSibling() {
				break
			}
			continue
		}

		switch {
		case currNode.Type() != "comment":
			comments = nil
		case prev != nil && prev.Type() != "comment" && prev.EndPoint().Row == currNode.StartPoint().Row:
			comments = nil
		case prev != nil && prev.Type() == "comment" && prev.EndPoint().Row+1 < currNode.StartPoint().Row:
			comments = []string{cleanComment(currNode.Content(sourceCode))}
		default:
			comments = append(comments, cleanComment(currNode.Content(sourceCode)))
		}
		prev = currNode

		if !cursor.GoToNextSibling() {
			break
		}
	}

	if prev != nil && prev.Type() == "comment" && prev.EndPoint().Row+1 < node.StartPoint().Row {
		return ""
	}
	return strings.Join(comments, " ")
}

// trailingComment returns a comment on the same line right after node.
func trailingComment(node *sitter.Node, sourceCode []byte) string {
	next := node.NextSibling()
	for next != nil && isTerminator(next) {
		next = next.NextSibling()
	}
	if next == nil || next.Type() != "comment" || next.StartPoint().Row != node.EndPoint().Row {
		return ""
	}
	return cleanComment(next.Content(sourceCode))
}

// isTerminator reports whether n is an anonymous statement terminator, an
// explicit ";" or the newline the grammar inserts in its place.
func isTerminator(n *sitter.Node) bool {
	if n.IsNamed() {
		return false
	}
	return n.Type() == ";" || strings.TrimSpace(n.Type()) == ""
}

func cleanComment(comment string) string {
	switch {
	case strings.HasPrefix(comment, "//"):
		comment = strings.TrimPrefix(comment, "//")
	case strings.HasPrefix(comment, "/*"):
		comment = strings.TrimSuffix(strings.TrimPrefix(comment, "/*"), "*/")
	}
	return strings.Join(strings.Fields(comment), " ")
}
