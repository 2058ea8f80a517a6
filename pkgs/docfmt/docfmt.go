// Package docfmt renders an analyzed command tree into stable wire forms so
// host tooling can cache, diff, and transport analyses. JSON is the
// human-facing form; CBOR uses deterministic encoding, so equal trees
// always produce byte-equal output.
package docfmt

import (
	"encoding/json"

	"github.com/fxamacker/cbor/v2"

	"github.com/nestlang/nest/pkgs/ast"
)

// Version identifies the wire format; bump on incompatible changes.
const Version = 1

// Document is the exported form of one analyzed Nest document.
type Document struct {
	Version     int       `json:"version" cbor:"1,keyasint"`
	Fingerprint string    `json:"fingerprint" cbor:"2,keyasint"`
	Commands    []Command `json:"commands" cbor:"3,keyasint"`
}

// Command mirrors ast.Command with only wire-stable fields.
type Command struct {
	Name       string      `json:"name" cbor:"1,keyasint"`
	Line       int         `json:"line" cbor:"2,keyasint"`
	Parameters []Parameter `json:"parameters,omitempty" cbor:"3,keyasint,omitempty"`
	Directives []Directive `json:"directives,omitempty" cbor:"4,keyasint,omitempty"`
	Children   []Command   `json:"children,omitempty" cbor:"5,keyasint,omitempty"`
}

// Parameter is the wire form of one parameter descriptor.
type Parameter struct {
	Name     string `json:"name" cbor:"1,keyasint"`
	Type     string `json:"type" cbor:"2,keyasint"`
	Alias    string `json:"alias,omitempty" cbor:"3,keyasint,omitempty"`
	Default  string `json:"default,omitempty" cbor:"4,keyasint,omitempty"`
	Variadic bool   `json:"variadic,omitempty" cbor:"5,keyasint,omitempty"`
	Named    bool   `json:"named,omitempty" cbor:"6,keyasint,omitempty"`
}

// Directive is the wire form of one directive line.
type Directive struct {
	Name  string `json:"name" cbor:"1,keyasint"`
	Value string `json:"value,omitempty" cbor:"2,keyasint,omitempty"`
	Line  int    `json:"line" cbor:"3,keyasint"`
}

// Encode builds the wire document for a forest, in document order. The
// source text contributes only the fingerprint.
func Encode(roots []*ast.Command, source string) *Document {
	doc := &Document{
		Version:     Version,
		Fingerprint: Fingerprint(source),
	}
	for _, root := range roots {
		doc.Commands = append(doc.Commands, encodeCommand(root))
	}
	return doc
}

func encodeCommand(c *ast.Command) Command {
	out := Command{Name: c.Name, Line: c.SourceLine}
	for _, p := range c.Parameters {
		out.Parameters = append(out.Parameters, Parameter{
			Name:     p.Name,
			Type:     p.Type.String(),
			Alias:    p.Alias,
			Default:  p.Default,
			Variadic: p.Variadic,
			Named:    p.Named,
		})
	}
	for _, d := range c.Directives {
		out.Directives = append(out.Directives, Directive{
			Name:  d.Name,
			Value: d.RawValue,
			Line:  d.SourceLine,
		})
	}
	for _, child := range c.Children {
		out.Children = append(out.Children, encodeCommand(child))
	}
	return out
}

// JSON renders the document as indented JSON.
func (d *Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// cborMode is built once; core-deterministic options guarantee stable
// output for equal input.
var cborMode, _ = cbor.CoreDetEncOptions().EncMode()

// CBOR renders the document in deterministic CBOR.
func (d *Document) CBOR() ([]byte, error) {
	return cborMode.Marshal(d)
}

// DecodeCBOR parses a document previously produced by CBOR.
func DecodeCBOR(data []byte) (*Document, error) {
	var doc Document
	if err := cbor.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
