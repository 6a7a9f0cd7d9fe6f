package report

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gaitbase/internal/rom/domain"

	"gopkg.in/yaml.v3"
)

//go:embed templates/text_template.yaml
var defaultTemplate []byte

// Template is an ordered list of blocks. Field names must match the record key
// space exactly.
type Template struct {
	Name   string  `yaml:"name"`
	Blocks []Block `yaml:"blocks"`
}

func NewTemplate(name string, blocks ...Block) Template {
	return Template{Name: name, Blocks: blocks}
}

// Fields lists every placeholder referenced by the template.
func (t Template) Fields() []string {
	seen := make(map[string]struct{})
	var result []string
	for _, b := range t.Blocks {
		for _, name := range b.fields {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				result = append(result, name)
			}
		}
	}
	return result
}

// ParseTemplate reads YAML or JSON: either a document with name and blocks, or
// a bare list of blocks.
func ParseTemplate(data []byte) (Template, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Template{}, domain.NewConfigurationError("parsing template: %v", err)
	}
	if len(root.Content) == 0 {
		return Template{}, nil
	}

	doc := root.Content[0]
	var tpl Template
	var err error
	switch doc.Kind {
	case yaml.SequenceNode:
		err = doc.Decode(&tpl.Blocks)
	case yaml.MappingNode:
		err = doc.Decode(&tpl)
	default:
		return Template{}, domain.NewConfigurationError("template must be a list of blocks or a mapping with blocks")
	}
	if err != nil {
		var configErr *domain.ConfigurationError
		if errors.As(err, &configErr) {
			return Template{}, err
		}
		return Template{}, domain.NewConfigurationError("decoding template: %v", err)
	}
	return tpl, nil
}

func DefaultTemplate() (Template, error) {
	tpl, err := ParseTemplate(defaultTemplate)
	if err != nil {
		return Template{}, fmt.Errorf("embedded template: %w", err)
	}
	return tpl, nil
}

func LoadTemplate(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("reading template %s: %w", path, err)
	}
	tpl, err := ParseTemplate(data)
	if err != nil {
		return Template{}, fmt.Errorf("template %s: %w", path, err)
	}
	return tpl, nil
}

// ResolveTemplate loads the configured template, falling back to the embedded
// one when no path is configured or the file does not exist.
func ResolveTemplate(path string) (Template, error) {
	if path == "" {
		return DefaultTemplate()
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		slog.Warn("configured text template not found, using default", slog.String("path", path))
		return DefaultTemplate()
	}
	return LoadTemplate(path)
}
