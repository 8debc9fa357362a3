package output

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dshills/constlist/internal/annotation"
)

// YAMLWriter outputs a mapping of list name to value/label mapping.
type YAMLWriter struct{}

func (y *YAMLWriter) Write(w io.Writer, lists annotation.Lists) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(listsNode(lists)); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// listsNode builds the document by hand so that map keys keep source order.
func listsNode(lists annotation.Lists) *yaml.Node {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, l := range lists {
		entries := &yaml.Node{Kind: yaml.MappingNode}
		for _, e := range l.Entries {
			entries.Content = append(entries.Content, str(e.Value), str(e.Label))
		}
		root.Content = append(root.Content, str(l.Name), entries)
	}
	return root
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
