package forms

import "strings"

// FieldKind is the inferred input kind for a form field. It is a rendering
// and validation hint only; stored answer values stay text-compatible.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindDate     FieldKind = "date"
	KindTel      FieldKind = "tel"
	KindEmail    FieldKind = "email"
	KindTextarea FieldKind = "textarea"
	KindSelect   FieldKind = "select"
)

// inferenceRule maps identifier substrings to a field kind. Rules are
// checked in table order, first match wins.
type inferenceRule struct {
	substrings []string
	kind       FieldKind
	options    []string
}

var inferenceRules = []inferenceRule{
	{substrings: []string{"date"}, kind: KindDate},
	{substrings: []string{"phone", "contact"}, kind: KindTel},
	{substrings: []string{"email"}, kind: KindEmail},
	{substrings: []string{"description", "details", "notes"}, kind: KindTextarea},
	{substrings: []string{"gender"}, kind: KindSelect, options: []string{"male", "female", "other"}},
	{substrings: []string{"marital_status"}, kind: KindSelect, options: []string{"single", "married", "divorced", "widowed"}},
}

// InferKind resolves a field identifier to its input kind and, for
// enumerated kinds, the allowed options.
func InferKind(fieldID string) (FieldKind, []string) {
	id := strings.ToLower(fieldID)
	for _, rule := range inferenceRules {
		for _, sub := range rule.substrings {
			if strings.Contains(id, sub) {
				return rule.kind, rule.options
			}
		}
	}
	return KindText, nil
}

// Field is one renderable form input.
type Field struct {
	ID       string    `json:"id"`
	Section  string    `json:"section"`
	Kind     FieldKind `json:"kind"`
	Options  []string  `json:"options,omitempty"`
	Required bool      `json:"required"`
}

// fallbackSchema guarantees a submission always carries at least a name and
// an identity number when a service has no form definition.
var fallbackSchema = Schema{
	Sections: []Section{
		{Name: "personal_info", Fields: []string{"full_name", "nic_number"}},
	},
}

// Render expands a schema into the ordered list of inputs a client should
// present. An empty schema renders the minimal fallback form. Every field
// is required in this version.
func Render(schema Schema) []Field {
	if schema.IsEmpty() {
		schema = fallbackSchema
	}

	fields := make([]Field, 0, schema.FieldCount())
	for _, sec := range schema.Sections {
		for _, id := range sec.Fields {
			kind, options := InferKind(id)
			fields = append(fields, Field{
				ID:       id,
				Section:  sec.Name,
				Kind:     kind,
				Options:  options,
				Required: true,
			})
		}
	}
	return fields
}
