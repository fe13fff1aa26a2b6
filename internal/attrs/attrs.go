// Package attrs reads attribute documentation from semantic-convention style
// YAML registries.
package attrs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"semdoc/internal/diag"
)

// ErrInvalidRegistry marks input that is not a registry document at all.
var ErrInvalidRegistry = errors.New("invalid attribute registry")

// AttributeDoc is the documentation of one attribute.
type AttributeDoc struct {
	ID    string
	Type  string
	Brief string
	Note  string // Markdown, "" when absent

	File string
	Pos  diag.Pos // of the attribute entry in File
}

type document struct {
	Groups []group `yaml:"groups"`
}

type group struct {
	ID         string      `yaml:"id"`
	Attributes []attribute `yaml:"attributes"`
}

type attribute struct {
	ID    string    `yaml:"id"`
	Ref   string    `yaml:"ref"`
	Type  yaml.Node `yaml:"type"`
	Brief string    `yaml:"brief"`
	Note  string    `yaml:"note"`

	line, col int
}

func (a *attribute) UnmarshalYAML(n *yaml.Node) error {
	type plain attribute
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	*a = attribute(p)
	a.line, a.col = n.Line, n.Column
	return nil
}

// typeName flattens the declared type. Enums are declared as a mapping with
// members and report as "enum".
func typeName(n yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Value
	case yaml.MappingNode:
		return "enum"
	}
	return ""
}

// Parse reads one YAML document stream named name. Attributes without an id
// are reported and skipped; references to attributes defined elsewhere
// (ref:) are not documentation and are ignored.
func Parse(name string, r io.Reader, rep diag.Reporter) ([]AttributeDoc, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var out []AttributeDoc
	for {
		var doc document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRegistry, name, err)
		}
		for _, g := range doc.Groups {
			for _, a := range g.Attributes {
				pos := diag.Pos{Line: a.line, Col: a.col}
				if a.Ref != "" && a.ID == "" {
					continue
				}
				if strings.TrimSpace(a.ID) == "" {
					report(rep, diag.AtrMissingID, pos, fmt.Sprintf("attribute in group %q has no id", g.ID))
					continue
				}
				out = append(out, AttributeDoc{
					ID:    strings.TrimSpace(a.ID),
					Type:  typeName(a.Type),
					Brief: a.Brief,
					Note:  a.Note,
					File:  name,
					Pos:   pos,
				})
			}
		}
	}
	return out, nil
}

func report(rep diag.Reporter, code diag.Code, pos diag.Pos, msg string) {
	if rep != nil {
		rep.Report(code, diag.SevError, pos, msg)
	}
}

// Dedup keeps the first AttributeDoc for every id. Later ones are dropped
// and, when bag is not nil, reported against their own file.
func Dedup(docs []AttributeDoc, bag *diag.Bag) []AttributeDoc {
	first := make(map[string]AttributeDoc, len(docs))
	out := docs[:0:0]
	for _, d := range docs {
		if prev, ok := first[d.ID]; ok {
			if bag != nil {
				msg := fmt.Sprintf("attribute %q is already defined at %s:%s", d.ID, prev.File, prev.Pos)
				bag.Add(diag.New(diag.SevError, diag.AtrDuplicateID, d.Pos, msg).WithSubject(d.File))
			}
			continue
		}
		first[d.ID] = d
		out = append(out, d)
	}
	return out
}
