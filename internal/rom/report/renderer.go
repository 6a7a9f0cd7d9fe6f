// Package report turns a record snapshot and a block template into text.
//
// A block whose placeholders all sit at their default values is dropped, so a
// template can list every optional phrase and let the live data decide which
// ones appear. Smart end-of-line markers then close each line, removing the
// separator left dangling by a dropped trailing phrase, and the first letter of
// every line is capitalized.
package report

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"gaitbase/internal/rom/domain"
)

// Source is the data a template is rendered against.
type Source interface {
	Text(name string) (string, bool)
	Unit(name string) string
	IsDefault(name string) bool
}

type Option func(*Renderer)

// WithReplacements translates raw values before substitution, e.g. the
// not-measured label into a dash.
func WithReplacements(replacements map[string]string) Option {
	return func(r *Renderer) {
		r.replacements = make(map[string]string, len(replacements))
		for k, v := range replacements {
			r.replacements[k] = v
		}
	}
}

func WithUnits(include bool) Option {
	return func(r *Renderer) {
		r.includeUnits = include
	}
}

// Renderer is stateless between calls; the same input always renders the same
// text.
type Renderer struct {
	replacements map[string]string
	includeUnits bool
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		replacements: map[string]string{},
		includeUnits: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) Render(src Source, tpl Template) (string, error) {
	var out bytes.Buffer

	for _, block := range tpl.Blocks {
		if block.smartEOL {
			endLine(&out)
			continue
		}
		if r.discard(src, block) {
			continue
		}

		text, err := r.substitute(src, block)
		if err != nil {
			return "", err
		}
		if atLineStart(out.Bytes()) {
			text = capitalize(text)
		}
		out.WriteString(text)
	}

	return out.String(), nil
}

func (r *Renderer) discard(src Source, block Block) bool {
	if len(block.fields) == 0 {
		return false
	}
	for _, name := range block.fields {
		if !src.IsDefault(name) {
			return false
		}
	}
	return true
}

func (r *Renderer) substitute(src Source, block Block) (string, error) {
	var b bytes.Buffer
	for _, seg := range block.segments {
		if seg.field == "" {
			b.WriteString(seg.literal)
			continue
		}
		value, ok := src.Text(seg.field)
		if !ok {
			return "", &domain.UnknownFieldError{Field: seg.field}
		}
		if replacement, found := r.replacements[value]; found {
			value = replacement
		}
		b.WriteString(value)
		if r.includeUnits {
			b.WriteString(src.Unit(seg.field))
		}
	}
	return b.String(), nil
}

func atLineStart(out []byte) bool {
	return len(out) == 0 || out[len(out)-1] == '\n'
}

// endLine is idempotent: a line that is already closed, or an empty report,
// gets nothing.
func endLine(out *bytes.Buffer) {
	if atLineStart(out.Bytes()) {
		return
	}
	trimmed := bytes.TrimRight(out.Bytes(), ", ")
	out.Truncate(len(trimmed))
	if atLineStart(out.Bytes()) {
		return
	}
	out.WriteString(".\n")
}

func capitalize(text string) string {
	first, size := utf8.DecodeRuneInString(text)
	if first == utf8.RuneError || !unicode.IsLower(first) {
		return text
	}
	return string(unicode.ToUpper(first)) + text[size:]
}
