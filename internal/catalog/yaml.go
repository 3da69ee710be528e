package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Definitions is an ordered list of definitions. In YAML it is a mapping
// from name to definition whose key order is kept, so later entries can
// refer to earlier ones:
//
//	mil:  {value: 2.54e-5, unit: m}
//	kmil: {expr: "1000*mil"}
type Definitions []Definition

func (ds *Definitions) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: unit definitions must be a mapping", node.Line)
	}
	out := make(Definitions, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var d Definition
		if err := node.Content[i+1].Decode(&d); err != nil {
			return err
		}
		d.Name = node.Content[i].Value
		out = append(out, d)
	}
	*ds = out
	return nil
}

func (ds Definitions) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, d := range ds {
		var val yaml.Node
		if err := val.Encode(d); err != nil {
			return nil, err
		}
		val.Style = yaml.FlowStyle
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: d.Name}, &val)
	}
	return node, nil
}

// ParseDefinitions decodes a YAML document of definitions.
func ParseDefinitions(data []byte) (Definitions, error) {
	var ds Definitions
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// LoadYAML reads definitions from path and applies them to c.
func (c *Catalog) LoadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	ds, err := ParseDefinitions(data)
	if err != nil {
		return fmt.Errorf("catalog: %s: %w", path, err)
	}
	return c.Apply(ds)
}
