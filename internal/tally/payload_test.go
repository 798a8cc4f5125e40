package tally

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const applicationBody = `{
	"eventId": "evt-1",
	"eventType": "FORM_RESPONSE",
	"createdAt": "2026-08-01T10:00:00.000Z",
	"data": {
		"responseId": "resp-1",
		"submissionId": "subm-1",
		"formId": "form-app",
		"formName": "Application Form",
		"fields": [
			{"key": "question_x1", "label": "Email", "type": "INPUT_EMAIL", "value": "Jane.Doe@Example.com"},
			{"key": "question_x2", "label": "First name", "type": "INPUT_TEXT", "value": "Jane"},
			{"key": "question_x3", "label": "Last name", "type": "INPUT_TEXT", "value": " Doe "},
			{"key": "question_x4", "label": "Phone", "type": "INPUT_PHONE_NUMBER", "value": "+66810000000"},
			{"key": "question_x5", "label": "Position", "type": "DROPDOWN", "value": "Backend Engineer"}
		]
	}
}`

func TestParseEnvelope(t *testing.T) {
	env, err := ParseEnvelope([]byte(applicationBody))
	require.NoError(t, err)
	assert.Equal(t, "subm-1", env.Data.SubmissionID)
	assert.Equal(t, "FORM_RESPONSE", env.EventType)
}

func TestParseEnvelopeMalformed(t *testing.T) {
	var fieldErr *FieldError

	_, err := ParseEnvelope([]byte(`not json`))
	require.ErrorAs(t, err, &fieldErr)

	_, err = ParseEnvelope([]byte(`{"data":{"fields":[{"label":"Email","value":"x"}]}}`))
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "data.submissionId", fieldErr.Field)

	_, err = ParseEnvelope([]byte(`{"data":{"submissionId":"s1"}}`))
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "data.fields", fieldErr.Field)
}

func TestFieldLookupIsCaseInsensitive(t *testing.T) {
	env, err := ParseEnvelope([]byte(applicationBody))
	require.NoError(t, err)

	assert.Equal(t, "Jane", env.Field("first NAME").String())
	assert.False(t, env.Field("No Such Label").Exists())
}

func TestApplicationRecord(t *testing.T) {
	env, err := ParseEnvelope([]byte(applicationBody))
	require.NoError(t, err)

	rec, err := env.ApplicationRecord([]byte(applicationBody))
	require.NoError(t, err)

	assert.Equal(t, "subm-1", rec.SubmissionID)
	assert.Equal(t, "jane.doe@example.com", rec.Email, "emails are lowercased for dedup")
	assert.Equal(t, "Jane", rec.FirstName)
	assert.Equal(t, "Doe", rec.LastName)
	assert.Equal(t, "+66810000000", rec.Phone)
	assert.Equal(t, "Backend Engineer", rec.Position)
}

func TestApplicationRecordMissingRequired(t *testing.T) {
	body := []byte(`{
		"data": {
			"submissionId": "subm-2",
			"fields": [
				{"label": "First name", "value": "Jane"},
				{"label": "Position", "value": "Backend Engineer"}
			]
		}
	}`)
	env, err := ParseEnvelope(body)
	require.NoError(t, err)

	_, err = env.ApplicationRecord(body)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "Email", fieldErr.Field)
}

func TestGeneralResultRecord(t *testing.T) {
	body := []byte(`{
		"data": {
			"submissionId": "subm-3",
			"fields": [
				{"label": "Email", "value": "jane@example.com"},
				{"label": "Score", "value": 82.5}
			]
		}
	}`)
	env, err := ParseEnvelope(body)
	require.NoError(t, err)

	rec, err := env.GeneralResultRecord(body)
	require.NoError(t, err)
	assert.Equal(t, 82.5, rec.Score)
}

func TestGeneralResultRecordNonNumericScore(t *testing.T) {
	body := []byte(`{
		"data": {
			"submissionId": "subm-4",
			"fields": [
				{"label": "Email", "value": "jane@example.com"},
				{"label": "Score", "value": "eighty"}
			]
		}
	}`)
	env, err := ParseEnvelope(body)
	require.NoError(t, err)

	_, err = env.GeneralResultRecord(body)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "Score", fieldErr.Field)
}

func TestSpecializedRecord(t *testing.T) {
	body := []byte(`{
		"data": {
			"submissionId": "subm-5",
			"fields": [
				{"label": "Application ID", "value": "42"},
				{"label": "Competency", "value": "Backend Engineering"},
				{"label": "Score", "value": 77}
			]
		}
	}`)
	env, err := ParseEnvelope(body)
	require.NoError(t, err)

	rec, err := env.SpecializedRecord(body)
	require.NoError(t, err)
	assert.Equal(t, uint(42), rec.ApplicationID)
	assert.Equal(t, "Backend Engineering", rec.Competency)
	assert.Equal(t, 77.0, rec.Score)
}

func TestAgreementRecordNumericHiddenField(t *testing.T) {
	// Hidden fields usually arrive as strings but numbers are accepted.
	body := []byte(`{
		"data": {
			"submissionId": "subm-6",
			"fields": [
				{"label": "Application ID", "value": 42}
			]
		}
	}`)
	env, err := ParseEnvelope(body)
	require.NoError(t, err)

	rec, err := env.AgreementRecord(body)
	require.NoError(t, err)
	assert.Equal(t, uint(42), rec.ApplicationID)
}

func TestAgreementRecordBadApplicationID(t *testing.T) {
	for _, value := range []string{`"0"`, `"abc"`, `""`} {
		body := []byte(`{
			"data": {
				"submissionId": "subm-7",
				"fields": [
					{"label": "Application ID", "value": ` + value + `}
				]
			}
		}`)
		env, err := ParseEnvelope(body)
		require.NoError(t, err)

		_, err = env.AgreementRecord(body)
		var fieldErr *FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "Application ID", fieldErr.Field)
	}
}
