// Package card renders a single contact as a text block using a
// text/template loaded from a filesystem.
package card

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"text/template"

	"github.com/smileynet/phonebook/internal/contact"
)

// TemplateName is the file the renderer loads from its filesystem.
const TemplateName = "contact.tmpl"

// ErrEmpty indicates the card template exists but has no content.
var ErrEmpty = errors.New("card: empty template")

// Field is one labelled value passed to the template.
type Field struct {
	Key   string
	Label string
	Value string
}

// Data is the template context. Position is the record's 1-based place in
// the listing, or 0 when it has none.
type Data struct {
	Position int
	Name     string
	Fields   []Field
}

// Renderer executes the card template.
type Renderer struct {
	tmpl *template.Template
}

// New parses TemplateName from fsys.
func New(fsys fs.FS) (*Renderer, error) {
	raw, err := fs.ReadFile(fsys, TemplateName)
	if err != nil {
		return nil, fmt.Errorf("card: loading %s: %w", TemplateName, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, TemplateName)
	}

	tmpl, err := template.New(TemplateName).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("card: parsing template %s: %w", TemplateName, err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the card for r to w.
func (c *Renderer) Render(w io.Writer, position int, r contact.Record) error {
	if err := c.tmpl.Execute(w, NewData(position, r)); err != nil {
		return fmt.Errorf("card: executing template: %w", err)
	}
	return nil
}

// String renders the card for r into a string.
func (c *Renderer) String(position int, r contact.Record) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(&buf, position, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// NewData builds the template context for r.
func NewData(position int, r contact.Record) Data {
	fields := make([]Field, len(contact.Fields))
	for i, f := range contact.Fields {
		fields[i] = Field{Key: f.Key(), Label: f.Label(), Value: r.Value(f)}
	}
	return Data{Position: position, Name: r.FullName(), Fields: fields}
}
