// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package frontmatter reads and writes the YAML metadata block at the top of
// a Hugo post. The block sits between two "---" lines. Keys the pipeline
// does not know about, and the order of all keys, survive a Parse/Render
// round trip because the block is kept as a yaml.Node.
package frontmatter

import (
	"errors"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

const delimiter = "---"

var (
	// ErrMissing reports a document that does not open with "---".
	ErrMissing = errors.New("document has no front matter")

	// ErrUnterminated reports a front matter block without a closing "---".
	ErrUnterminated = errors.New("front matter is not terminated")

	// ErrNoTitle reports front matter without a title.
	ErrNoTitle = errors.New("front matter has no title")
)

// FrontMatter is the subset of post metadata the pipeline reads.
type FrontMatter struct {
	Title    string   `yaml:"title"`
	Date     string   `yaml:"date"`
	URL      string   `yaml:"url"`
	Draft    bool     `yaml:"draft"`
	Tags     []string `yaml:"tags"`
	Related  []string `yaml:"related"`
	Tagline  string   `yaml:"tagline"`
	Synopsis string   `yaml:"synopsis"`
}

// Document is a parsed post.
type Document struct {
	// Meta is the decoded front matter.
	Meta FrontMatter

	// Body is everything after the closing delimiter line, byte for byte.
	Body string

	lines int
	root  *yaml.Node
}

// Parse splits doc into front matter and body and decodes the front matter.
func Parse(doc string) (*Document, error) {
	first, rest, ok := strings.Cut(doc, "\n")
	if !ok || strings.TrimSpace(first) != delimiter {
		return nil, ErrMissing
	}

	var (
		block []string
		body  string
	)
	for {
		line, after, found := strings.Cut(rest, "\n")
		if strings.HasPrefix(line, delimiter) {
			body = after
			break
		}
		if !found {
			return nil, ErrUnterminated
		}
		block = append(block, line)
		rest = after
	}

	var node yaml.Node
	if err := yaml.Unmarshal([]byte(strings.Join(block, "\n")), &node); err != nil {
		return nil, fmt.Errorf("parsing front matter: %w", err)
	}

	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		root = node.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing front matter: expected a mapping, got %s", kindName(root.Kind))
	}

	d := &Document{Body: body, lines: len(block), root: root}
	if err := root.Decode(&d.Meta); err != nil {
		return nil, fmt.Errorf("decoding front matter: %w", err)
	}
	if strings.TrimSpace(d.Meta.Title) == "" {
		return nil, ErrNoTitle
	}
	return d, nil
}

// Lines returns the number of lines between the two delimiters.
func (d *Document) Lines() int {
	return d.lines
}

// Has reports whether the front matter contains key, whatever its value.
func (d *Document) Has(key string) bool {
	return d.valueNode(key) != nil
}

// SetString sets key to a string value, appending the key if absent.
func (d *Document) SetString(key, value string) {
	d.set(key, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value})
	switch key {
	case "tagline":
		d.Meta.Tagline = value
	case "synopsis":
		d.Meta.Synopsis = value
	}
}

// SetStrings sets key to a sequence of strings, appending the key if absent.
func (d *Document) SetStrings(key string, values []string) {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, v := range values {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v})
	}
	d.set(key, seq)
	switch key {
	case "related":
		d.Meta.Related = append([]string(nil), values...)
	case "tags":
		d.Meta.Tags = append([]string(nil), values...)
	}
}

// Render returns the full document: front matter between delimiters
// followed by the unchanged body.
func (d *Document) Render() (string, error) {
	var b strings.Builder
	b.WriteString(delimiter + "\n")

	if len(d.root.Content) > 0 {
		enc := yaml.NewEncoder(&b)
		enc.SetIndent(2)
		if err := enc.Encode(d.root); err != nil {
			return "", fmt.Errorf("encoding front matter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("encoding front matter: %w", err)
		}
	}

	b.WriteString(delimiter + "\n")
	b.WriteString(d.Body)
	return b.String(), nil
}

func (d *Document) valueNode(key string) *yaml.Node {
	for i := 0; i+1 < len(d.root.Content); i += 2 {
		if d.root.Content[i].Value == key {
			return d.root.Content[i+1]
		}
	}
	return nil
}

func (d *Document) set(key string, value *yaml.Node) {
	for i := 0; i+1 < len(d.root.Content); i += 2 {
		if d.root.Content[i].Value == key {
			d.root.Content[i+1] = value
			return
		}
	}
	d.root.Content = append(d.root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return fmt.Sprintf("kind %d", k)
	}
}
