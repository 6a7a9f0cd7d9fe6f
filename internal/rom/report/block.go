package report

import (
	"strings"

	"gaitbase/internal/rom/domain"

	"gopkg.in/yaml.v3"
)

type segment struct {
	literal string
	field   string
}

// Block is either literal text with {field} placeholders or the smart
// end-of-line marker.
type Block struct {
	smartEOL bool
	source   string
	segments []segment
	fields   []string
}

// SmartEOL closes a line with a period unless the line is already closed.
var SmartEOL = Block{smartEOL: true}

// Text parses a literal block. "{{" and "}}" produce literal braces.
func Text(source string) (Block, error) {
	b := Block{source: source}
	var lit strings.Builder
	seen := make(map[string]struct{})

	for i := 0; i < len(source); i++ {
		c := source[i]
		switch {
		case c == '{' && i+1 < len(source) && source[i+1] == '{':
			lit.WriteByte('{')
			i++
		case c == '}' && i+1 < len(source) && source[i+1] == '}':
			lit.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(source[i+1:], '}')
			if end < 0 {
				return Block{}, domain.NewConfigurationError("unterminated placeholder in block %q", source)
			}
			name := strings.TrimSpace(source[i+1 : i+1+end])
			if name == "" || strings.ContainsAny(name, "{") {
				return Block{}, domain.NewConfigurationError("invalid placeholder in block %q", source)
			}
			if lit.Len() > 0 {
				b.segments = append(b.segments, segment{literal: lit.String()})
				lit.Reset()
			}
			b.segments = append(b.segments, segment{field: name})
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				b.fields = append(b.fields, name)
			}
			i += end + 1
		case c == '}':
			return Block{}, domain.NewConfigurationError("single '}' in block %q", source)
		default:
			lit.WriteByte(c)
		}
	}
	if lit.Len() > 0 {
		b.segments = append(b.segments, segment{literal: lit.String()})
	}
	return b, nil
}

// MustText is for templates built in code.
func MustText(source string) Block {
	b, err := Text(source)
	if err != nil {
		panic(err)
	}
	return b
}

func (b Block) IsSmartEOL() bool {
	return b.smartEOL
}

// Fields lists the distinct placeholders in order of first appearance.
func (b Block) Fields() []string {
	return append([]string(nil), b.fields...)
}

func (b Block) String() string {
	if b.smartEOL {
		return "SMART_EOL"
	}
	return b.source
}

// UnmarshalYAML accepts a plain string, {text: ...} or {smart_eol: true}.
func (b *Block) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := Text(node.Value)
		if err != nil {
			return err
		}
		*b = parsed
		return nil
	case yaml.MappingNode:
		var raw struct {
			Text     *string `yaml:"text"`
			SmartEOL bool    `yaml:"smart_eol"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		switch {
		case raw.SmartEOL && raw.Text == nil:
			*b = SmartEOL
			return nil
		case raw.Text != nil && !raw.SmartEOL:
			parsed, err := Text(*raw.Text)
			if err != nil {
				return err
			}
			*b = parsed
			return nil
		}
		return domain.NewConfigurationError("block at line %d must set exactly one of text or smart_eol", node.Line)
	default:
		return domain.NewConfigurationError("block at line %d: unexpected yaml node kind %d", node.Line, node.Kind)
	}
}
