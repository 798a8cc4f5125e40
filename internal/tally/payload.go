package tally

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// FieldError identifies the offending field of a malformed payload.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid webhook payload: field %q %s", e.Field, e.Reason)
}

// Envelope is the outer shape of every Tally webhook delivery. Field
// values stay raw; their types vary per question kind (string, number,
// option-id list) so they are picked out with gjson on demand.
type Envelope struct {
	EventID   string    `json:"eventId"`
	EventType string    `json:"eventType"`
	CreatedAt time.Time `json:"createdAt"`
	Data      struct {
		ResponseID   string          `json:"responseId"`
		SubmissionID string          `json:"submissionId"`
		RespondentID string          `json:"respondentId"`
		FormID       string          `json:"formId"`
		FormName     string          `json:"formName"`
		Fields       json.RawMessage `json:"fields"`
	} `json:"data"`
}

// ParseEnvelope decodes a raw delivery body and checks the parts every
// webhook kind requires.
func ParseEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &FieldError{Field: "body", Reason: "is not valid JSON"}
	}
	if env.Data.SubmissionID == "" {
		return nil, &FieldError{Field: "data.submissionId", Reason: "is missing"}
	}
	if len(env.Data.Fields) == 0 {
		return nil, &FieldError{Field: "data.fields", Reason: "is missing"}
	}
	return &env, nil
}

// Field finds a field value by label, case-insensitively. Tally field
// keys are opaque question ids, so labels are the stable handle forms
// are built against.
func (e *Envelope) Field(label string) gjson.Result {
	var found gjson.Result
	gjson.ParseBytes(e.Data.Fields).ForEach(func(_, field gjson.Result) bool {
		if strings.EqualFold(field.Get("label").String(), label) {
			found = field.Get("value")
			return false
		}
		return true
	})
	return found
}

// RequiredString returns the trimmed string value of a labelled field
// or a FieldError when absent or blank.
func (e *Envelope) RequiredString(label string) (string, error) {
	v := strings.TrimSpace(e.Field(label).String())
	if v == "" {
		return "", &FieldError{Field: label, Reason: "is missing"}
	}
	return v, nil
}

// RequiredNumber returns the numeric value of a labelled field or a
// FieldError when absent or not numeric.
func (e *Envelope) RequiredNumber(label string) (float64, error) {
	v := e.Field(label)
	if !v.Exists() {
		return 0, &FieldError{Field: label, Reason: "is missing"}
	}
	if v.Type != gjson.Number {
		return 0, &FieldError{Field: label, Reason: "is not a number"}
	}
	return v.Float(), nil
}
