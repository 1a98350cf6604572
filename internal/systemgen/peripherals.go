package systemgen

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/ipforge/internal/descriptor"
)

type peripheralDoc struct {
	Type        string            `yaml:"type"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Params      yaml.Node         `yaml:"params"`
	Connections map[string]string `yaml:"connections"`
}

// LoadPeripherals reads a YAML list of peripheral instances. Parameter
// overrides keep their order in the file.
func LoadPeripherals(path string) ([]descriptor.Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read peripherals file: %w", err)
	}

	var docs []peripheralDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse peripherals file %s: %w", path, err)
	}

	instances := make([]descriptor.Instance, 0, len(docs))
	for i, d := range docs {
		if d.Type == "" {
			return nil, fmt.Errorf("%s: peripheral #%d has no type", path, i+1)
		}
		params, err := orderedParams(&d.Params)
		if err != nil {
			return nil, fmt.Errorf("%s: peripheral %s: %w", path, d.Type, err)
		}
		name := d.Name
		if name == "" {
			name = descriptor.DefaultInstanceName(d.Type)
		}
		instances = append(instances, descriptor.Instance{
			Type:        d.Type,
			Name:        name,
			Description: d.Description,
			Params:      params,
			Connections: d.Connections,
		})
	}
	return instances, nil
}

func orderedParams(n *yaml.Node) ([]descriptor.Param, error) {
	if n.Kind == 0 {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: params must be a mapping", n.Line)
	}
	params := make([]descriptor.Param, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: param %s must be a scalar", v.Line, k.Value)
		}
		params = append(params, descriptor.Param{Name: k.Value, Value: v.Value})
	}
	return params, nil
}
