// Package catalogue declares every ROM field once: name, kind, sentinel and
// unit rule, plus derived-field dependencies. Catalogues are YAML documents;
// the gait lab catalogue is embedded.
package catalogue

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gaitbase/internal/rom/domain"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalogue.yaml
var defaultCatalogue []byte

// Labels are the texts that stand in for "not measured" and for the two
// checkbox states.
type Labels struct {
	NotMeasured   string `yaml:"not_measured"`
	Yes           string `yaml:"yes"`
	No            string `yaml:"no"`
	NotApplicable string `yaml:"not_applicable"`
}

type derivedSpec struct {
	Source     string `yaml:"source"`
	Normalizer string `yaml:"normalizer"`
}

type fieldSpec struct {
	Name      string       `yaml:"name"`
	Kind      domain.Kind  `yaml:"kind"`
	Suffix    string       `yaml:"suffix"`
	Minimum   *float64     `yaml:"minimum"`
	Choices   []string     `yaml:"choices"`
	Default   *string      `yaml:"default"`
	Important bool         `yaml:"important"`
	Derived   *derivedSpec `yaml:"derived"`
}

type document struct {
	Labels      Labels              `yaml:"labels"`
	ChoiceSets  map[string][]string `yaml:"choice_sets"`
	DateField   string              `yaml:"date_field"`
	WeightField string              `yaml:"weight_field"`
	Fields      []fieldSpec         `yaml:"fields"`
}

// Catalogue is the ordered field table built once at startup.
type Catalogue struct {
	Labels    Labels
	DateField string
	Fields    []domain.Field
}

func Default() (Catalogue, error) {
	return Parse(defaultCatalogue)
}

func Load(path string) (Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalogue{}, fmt.Errorf("reading catalogue %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (Catalogue, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Catalogue{}, domain.NewConfigurationError("parsing catalogue: %v", err)
	}
	if doc.Labels.NotMeasured == "" || doc.Labels.Yes == "" || doc.Labels.No == "" {
		return Catalogue{}, domain.NewConfigurationError("catalogue labels not_measured, yes and no are required")
	}

	result := Catalogue{Labels: doc.Labels, DateField: doc.DateField}
	for i, spec := range doc.Fields {
		field, err := doc.build(spec)
		if err != nil {
			return Catalogue{}, fmt.Errorf("catalogue field %d: %w", i, err)
		}
		result.Fields = append(result.Fields, field)
	}
	return result, nil
}

func (d document) build(spec fieldSpec) (domain.Field, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return domain.Field{}, domain.NewConfigurationError("field without a name")
	}
	if !spec.Kind.Valid() {
		return domain.Field{}, domain.NewConfigurationError("field %q has unknown kind %q", name, spec.Kind)
	}

	field := domain.Field{
		Name:      name,
		Kind:      spec.Kind,
		Suffix:    spec.Suffix,
		Minimum:   spec.Minimum,
		Important: spec.Important,
	}

	switch spec.Kind {
	case domain.KindText, domain.KindComment:
		field.Sentinel = domain.Text("")
	case domain.KindChoice:
		choices, err := d.choices(name, spec.Choices)
		if err != nil {
			return domain.Field{}, err
		}
		field.Choices = choices
		field.Sentinel = domain.Text(d.Labels.NotMeasured)
	case domain.KindBoolean:
		field.YesLabel = d.Labels.Yes
		field.NoLabel = d.Labels.No
		field.Sentinel = domain.Text(d.Labels.No)
	case domain.KindNumeric, domain.KindDualCheckNumeric:
		field.Sentinel = domain.Text(d.Labels.NotMeasured)
		if spec.Kind == domain.KindDualCheckNumeric {
			field.NALabel = d.Labels.NotApplicable
		}
	}

	field.Default = field.Sentinel
	if spec.Default != nil {
		field.Default = domain.Text(*spec.Default)
	}

	if spec.Derived != nil {
		field.Derived = &domain.Derivation{
			Source:     spec.Derived.Source,
			Normalizer: spec.Derived.Normalizer,
		}
		if field.Derived.Normalizer == "" {
			field.Derived.Normalizer = d.WeightField
		}
	}

	return field, nil
}

// choices resolves a named choice set ("$mas") or an inline list. The
// not-measured label always leads the list.
func (d document) choices(name string, spec []string) ([]string, error) {
	items := spec
	if len(spec) == 1 && strings.HasPrefix(spec[0], "$") {
		set, ok := d.ChoiceSets[strings.TrimPrefix(spec[0], "$")]
		if !ok {
			return nil, domain.NewConfigurationError("field %q references unknown choice set %q", name, spec[0])
		}
		items = set
	}
	if len(items) == 0 {
		return nil, domain.NewConfigurationError("choice field %q has no choices", name)
	}

	result := make([]string, 0, len(items)+1)
	result = append(result, d.Labels.NotMeasured)
	for _, item := range items {
		if item != d.Labels.NotMeasured {
			result = append(result, item)
		}
	}
	return result, nil
}
