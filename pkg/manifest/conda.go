package manifest

import (
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/pycompat/pkg/errors"
)

// CondaEnv reads conda environment files. Only the nested pip list is
// returned: conda packages are not published on PyPI.
type CondaEnv struct{}

func (c *CondaEnv) Type() string { return "environment.yml" }

func (c *CondaEnv) Supports(name string) bool {
	return name == "environment.yml" || name == "environment.yaml"
}

func (c *CondaEnv) Read(fsys afero.Fs, path string) ([]Entry, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode %s", path)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	deps := mappingValue(doc.Content[0], "dependencies")
	if deps == nil || deps.Kind != yaml.SequenceNode {
		return nil, nil
	}

	var entries []Entry
	for _, item := range deps.Content {
		pip := mappingValue(item, "pip")
		if pip == nil || pip.Kind != yaml.SequenceNode {
			continue
		}
		for _, n := range pip.Content {
			if n.Kind == yaml.ScalarNode && n.Value != "" {
				entries = append(entries, Entry{Line: n.Line, Text: n.Value})
			}
		}
	}
	return entries, nil
}

// mappingValue returns the value node for key in a mapping node, or nil.
func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}
