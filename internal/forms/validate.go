package forms

import (
	"regexp"
	"strings"

	"govportal/internal/common/errors"
)

// nicPattern matches a Sri Lankan national identity card number: nine
// digits followed by V or X, case-insensitive.
var nicPattern = regexp.MustCompile(`^\d{9}[VvXx]$`)

// ValidNIC reports whether value is a well-formed identity card number.
func ValidNIC(value string) bool {
	return nicPattern.MatchString(value)
}

// isIdentityField reports whether a field holds an identity card number
// itself: nic_number, or a role-qualified *_nic like father_nic or
// owner_nic. Fields inside a documents section are attachment checklist
// entries (old_nic, nic), not numbers, and are never pattern-checked.
func isIdentityField(section, fieldID string) bool {
	if strings.Contains(strings.ToLower(section), "document") {
		return false
	}
	id := strings.ToLower(fieldID)
	return id == "nic_number" || strings.HasSuffix(id, "_nic")
}

// Validate checks submitted answers against a service's form schema. Every
// declared field is required; the first blank field fails the submission.
// Identity-number fields must additionally match the NIC pattern. An empty
// schema falls back to the minimal form so no application is ever accepted
// without identifying information.
//
// Answers in the unstructured fallback variant skip field checks: the
// payload is stored verbatim and cannot be inspected.
func Validate(schema Schema, answers Answers) error {
	if answers.IsRaw() {
		return nil
	}

	if schema.IsEmpty() {
		schema = fallbackSchema
	}

	for _, sec := range schema.Sections {
		for _, fieldID := range sec.Fields {
			value, ok := answers.Get(fieldID)
			if !ok || strings.TrimSpace(value) == "" {
				return errors.NewMissingFieldError(fieldID)
			}
			if isIdentityField(sec.Name, fieldID) && !ValidNIC(strings.TrimSpace(value)) {
				return errors.NewInvalidNICError(fieldID)
			}
		}
	}
	return nil
}
