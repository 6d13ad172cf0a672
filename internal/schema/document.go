package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Draft07 is the $schema URI written into schema documents.
const Draft07 = "http://json-schema.org/draft-07/schema#"

// Document is the typed subset of JSON Schema used for intake documents.
type Document struct {
	Schema               string               `json:"$schema,omitempty"`
	Title                string               `json:"title,omitempty"`
	Description          string               `json:"description,omitempty"`
	Type                 string               `json:"type,omitempty"`
	Items                *Document            `json:"items,omitempty"`
	Properties           map[string]*Document `json:"properties,omitempty"`
	Required             []string             `json:"required,omitempty"`
	AdditionalProperties *bool                `json:"additionalProperties,omitempty"`
	MinLength            *int                 `json:"minLength,omitempty"`
	Minimum              *int64               `json:"minimum,omitempty"`
	Pattern              string               `json:"pattern,omitempty"`
}

// Marshal renders the document as indented JSON with a trailing newline.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encoding schema document: %w", err)
	}
	return buf.Bytes(), nil
}
