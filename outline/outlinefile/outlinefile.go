// Package outlinefile reads and writes outlines as nested YAML documents:
//
//	name: scene
//	nodes:
//	  - name: --- Lights ---
//	    tag: EditorOnly
//	  - name: Lamp
//	    children:
//	      - name: Bulb
package outlinefile

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kastheco/hisect/outline"
	"github.com/kastheco/hisect/section"
)

// Node is one YAML node.
type Node struct {
	Name     string `yaml:"name"`
	Tag      string `yaml:"tag,omitempty"`
	Children []Node `yaml:"children,omitempty"`
}

// File is a whole YAML document.
type File struct {
	Name  string `yaml:"name"`
	Nodes []Node `yaml:"nodes"`
}

// FromTree converts t into its file form.
func FromTree(name string, t *outline.Tree) File {
	var build func(ids []section.Identity) []Node
	build = func(ids []section.Identity) []Node {
		var out []Node
		for _, id := range ids {
			out = append(out, Node{
				Name:     t.DisplayName(id),
				Tag:      t.Tag(id),
				Children: build(t.Children(id)),
			})
		}
		return out
	}
	return File{Name: name, Nodes: build(t.RootItems())}
}

// Tree builds a fresh tree from f. Identities are assigned in document order.
func (f File) Tree() *outline.Tree {
	t := outline.New()
	var add func(parent section.Identity, nodes []Node)
	add = func(parent section.Identity, nodes []Node) {
		for _, n := range nodes {
			id := t.Insert(parent, -1, n.Name)
			if n.Tag != "" {
				t.SetTag(id, n.Tag)
			}
			add(id, n.Children)
		}
	}
	add(section.NoIdentity, f.Nodes)
	t.Flush()
	return t
}

// Decode reads one YAML document.
func Decode(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return File{}, fmt.Errorf("empty outline file")
		}
		return File{}, fmt.Errorf("decode outline: %w", err)
	}
	return f, nil
}

// Encode writes f as YAML.
func Encode(w io.Writer, f File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode outline: %w", err)
	}
	return enc.Close()
}

// ReadFile decodes the YAML file at path.
func ReadFile(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("open outline file: %w", err)
	}
	defer fh.Close()
	return Decode(fh)
}

// WriteFile encodes f into path, replacing any existing file.
func WriteFile(path string, f File) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create outline file: %w", err)
	}
	if err := Encode(fh, f); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}
