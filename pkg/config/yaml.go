package config

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	yamlOptionsKey = "options"
	yamlGlobalsKey = "globals"
)

// MarshalYAML renders the configuration as two ordered mappings:
//
//	options:
//	  undef: true
//	globals:
//	  org: false
func (c *Configuration) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content,
		scalar(yamlOptionsKey), entriesNode(c.options.entries),
		scalar(yamlGlobalsKey), entriesNode(c.globals.entries),
	)
	return root, nil
}

// UnmarshalYAML reads the mapping produced by MarshalYAML. Key order is
// preserved and duplicate names are rejected.
func (c *Configuration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", value.Line)
	}

	parsed := New()
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, body := value.Content[i], value.Content[i+1]

		var add func(string, bool) error
		switch key.Value {
		case yamlOptionsKey:
			add = parsed.AddOption
		case yamlGlobalsKey:
			add = parsed.AddGlobal
		default:
			return fmt.Errorf("line %d: unknown key %q", key.Line, key.Value)
		}

		if err := decodeEntries(body, add); err != nil {
			return err
		}
	}

	*c = *parsed
	return nil
}

func decodeEntries(node *yaml.Node, add func(string, bool) error) error {
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of name: bool", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		name, raw := node.Content[i], node.Content[i+1]
		value, err := strconv.ParseBool(raw.Value)
		if err != nil {
			return fmt.Errorf("line %d: %q is not a boolean", raw.Line, raw.Value)
		}
		if err := add(name.Value, value); err != nil {
			return fmt.Errorf("line %d: %w", name.Line, err)
		}
	}
	return nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func entriesNode(entries []Entry) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range entries {
		node.Content = append(node.Content,
			scalar(e.Name),
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(e.Value)},
		)
	}
	return node
}

// ToYAML serializes the configuration to YAML.
func (c *Configuration) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes.
func FromYAML(data []byte) (*Configuration, error) {
	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}
