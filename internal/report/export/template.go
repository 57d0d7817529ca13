package export

import (
	"bytes"
	"fmt"
	"text/template"
)

// RenderTemplate renders a document template with arbitrary data and returns
// the bytes for download. An empty payload means the template resource is
// missing; an HTML payload means the backend served an error page instead of
// the template.
func RenderTemplate(raw []byte, data map[string]interface{}) ([]byte, error) {
	if len(raw) == 0 {
		return nil, ErrNoTemplate
	}
	if SniffHTML(raw) {
		return nil, ErrHTMLPayload
	}

	tmpl, err := template.New("document").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}
	return buf.Bytes(), nil
}
