package input

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// readYAML accepts a sequence whose items are sequences, mappings or
// scalars, with the same row rules as JSON input.
func readYAML(r io.Reader) (Data, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Data{}, nil
		}
		return Data{}, ParseError{Format: FormatYAML, Err: err}
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return Data{}, ParseError{Format: FormatYAML, Line: root.Line, Err: errors.New("expected a sequence of rows")}
	}

	cols := newColumns()
	var data Data
	for _, item := range root.Content {
		row, err := yamlRow(item, cols)
		if err != nil {
			return Data{}, ParseError{Format: FormatYAML, Line: item.Line, Err: err}
		}
		data.Rows = append(data.Rows, row)
	}
	data.Header = cols.names
	return data, nil
}

func yamlRow(n *yaml.Node, cols *columns) ([]string, error) {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.SequenceNode:
		row := make([]string, 0, len(n.Content))
		for _, cell := range n.Content {
			text, err := yamlCell(cell)
			if err != nil {
				return nil, err
			}
			row = append(row, text)
		}
		return row, nil
	case yaml.MappingNode:
		keys := make([]string, 0, len(n.Content)/2)
		values := make([]string, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			text, err := yamlCell(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			keys = append(keys, resolveAlias(n.Content[i]).Value)
			values = append(values, text)
		}
		return cols.place(keys, values), nil
	default:
		text, err := yamlCell(n)
		if err != nil {
			return nil, err
		}
		return []string{text}, nil
	}
}

// yamlCell renders a node as cell text: scalars verbatim, null empty,
// collections in flow style.
func yamlCell(n *yaml.Node) (string, error) {
	n = resolveAlias(n)
	if n.Kind == yaml.ScalarNode {
		if n.Tag == "!!null" {
			return "", nil
		}
		return n.Value, nil
	}

	flow := *n
	flow.Style = yaml.FlowStyle
	out, err := yaml.Marshal(&flow)
	if err != nil {
		return "", fmt.Errorf("render yaml value: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
