// Package forms implements the dynamic per-service form machinery: parsing
// stored form schemas, inferring input kinds from field identifiers,
// normalizing submitted answers and validating them before persistence.
package forms

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Section is one named group of form fields. Field order is significant and
// preserved from the stored definition.
type Section struct {
	Name   string
	Fields []string
}

// Schema is the complete form definition for a service: an ordered list of
// sections, each with an ordered field list.
type Schema struct {
	Sections []Section
}

// IsEmpty reports whether the schema declares no fields at all.
func (s Schema) IsEmpty() bool {
	for _, sec := range s.Sections {
		if len(sec.Fields) > 0 {
			return false
		}
	}
	return true
}

// FieldCount returns the total number of declared fields.
func (s Schema) FieldCount() int {
	n := 0
	for _, sec := range s.Sections {
		n += len(sec.Fields)
	}
	return n
}

// UnmarshalJSON decodes the stored object form, e.g.
// {"personal_info": ["full_name", "nic_number"]}, preserving the section
// order the definition was written in. A plain map would lose it.
func (s *Schema) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		s.Sections = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("form schema must be a JSON object, got %v", tok)
	}

	var sections []Section
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected token in form schema: %v", keyTok)
		}

		var fields []string
		if err := dec.Decode(&fields); err != nil {
			return fmt.Errorf("section %q: field list must be an array of strings: %w", name, err)
		}
		sections = append(sections, Section{Name: name, Fields: fields})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	s.Sections = sections
	return nil
}

// MarshalJSON emits the object form with sections in declaration order.
func (s Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sec := range s.Sections {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sec.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fields, err := json.Marshal(sec.Fields)
		if err != nil {
			return nil, err
		}
		buf.Write(fields)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParseSchema decodes a stored form_fields value. nil, empty, or JSON null
// input yields an empty schema, not an error.
func ParseSchema(raw json.RawMessage) (Schema, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return Schema{}, nil
	}
	var s Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// metaSchema constrains a form definition to section-name -> field-id-list.
const metaSchema = `{
	"type": "object",
	"additionalProperties": {
		"type": "array",
		"items": {"type": "string", "minLength": 1}
	}
}`

var metaSchemaLoader = gojsonschema.NewStringLoader(metaSchema)

// ValidateDefinition checks that a raw form_fields document has the expected
// shape before it is accepted into the catalog.
func ValidateDefinition(raw json.RawMessage) error {
	result, err := gojsonschema.Validate(metaSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("form definition is not valid JSON: %w", err)
	}
	if !result.Valid() {
		errs := result.Errors()
		return fmt.Errorf("invalid form definition: %s", errs[0].String())
	}
	return nil
}
