package forms

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// AnswerKind classifies a submitted scalar value.
type AnswerKind string

const (
	AnswerText   AnswerKind = "text"
	AnswerNumber AnswerKind = "number"
	AnswerDate   AnswerKind = "date"
)

var dateValuePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Answer is one submitted form value. Kind records how the value was
// classified at parse time; Text always holds the canonical textual form.
type Answer struct {
	Kind   AnswerKind
	Text   string
	Number float64
}

// String returns the textual representation used for validation and display.
func (a Answer) String() string {
	if a.Kind == AnswerNumber {
		return strconv.FormatFloat(a.Number, 'f', -1, 64)
	}
	return a.Text
}

// MarshalJSON emits the underlying scalar so stored answers round-trip
// without any wrapper structure.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.Kind == AnswerNumber {
		return json.Marshal(a.Number)
	}
	return json.Marshal(a.Text)
}

// UnmarshalJSON classifies an incoming scalar by its JSON type and shape.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var v interface{}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}

	switch val := v.(type) {
	case nil:
		*a = Answer{Kind: AnswerText, Text: ""}
	case string:
		kind := AnswerText
		if dateValuePattern.MatchString(val) {
			kind = AnswerDate
		}
		*a = Answer{Kind: kind, Text: val}
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return err
		}
		*a = Answer{Kind: AnswerNumber, Number: f}
	case bool:
		*a = Answer{Kind: AnswerText, Text: strconv.FormatBool(val)}
	default:
		return fmt.Errorf("form answer must be a scalar, got %T", v)
	}
	return nil
}

// Answers holds a submission's form values. Either Fields is populated from
// structured input, or Raw carries a pre-encoded payload that could not be
// parsed and is preserved verbatim.
type Answers struct {
	Fields map[string]Answer
	Raw    string
}

// IsRaw reports whether the answers fell back to the unstructured variant.
func (a Answers) IsRaw() bool {
	return a.Fields == nil && a.Raw != ""
}

// Get returns the textual value for a field and whether it was present.
func (a Answers) Get(fieldID string) (string, bool) {
	ans, ok := a.Fields[fieldID]
	if !ok {
		return "", false
	}
	return ans.String(), true
}

// Encode serializes the answers for storage: the structured object when
// fields were parsed, otherwise the original payload as a JSON string.
func (a Answers) Encode() (json.RawMessage, error) {
	if a.IsRaw() {
		return json.Marshal(a.Raw)
	}
	if a.Fields == nil {
		return json.RawMessage("{}"), nil
	}
	return json.Marshal(a.Fields)
}

// ParseAnswers interprets a client-supplied form_data payload. Structured
// JSON objects become typed fields. Anything else is kept verbatim in the
// unstructured fallback rather than rejecting the submission.
func ParseAnswers(payload string) Answers {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return Answers{Fields: map[string]Answer{}}
	}

	var fields map[string]Answer
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return Answers{Raw: payload}
	}
	return Answers{Fields: fields}
}

// AnswersFromMap builds structured answers from already-decoded values.
func AnswersFromMap(values map[string]interface{}) (Answers, error) {
	fields := make(map[string]Answer, len(values))
	for k, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return Answers{}, err
		}
		var ans Answer
		if err := json.Unmarshal(data, &ans); err != nil {
			return Answers{}, fmt.Errorf("field %q: %w", k, err)
		}
		fields[k] = ans
	}
	return Answers{Fields: fields}, nil
}
