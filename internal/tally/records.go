package tally

import (
	"strconv"
	"strings"
)

// Form field labels the recruitment forms are built against.
const (
	labelEmail         = "Email"
	labelFirstName     = "First name"
	labelLastName      = "Last name"
	labelPhone         = "Phone"
	labelPosition      = "Position"
	labelScore         = "Score"
	labelCompetency    = "Competency"
	labelApplicationID = "Application ID"
)

// ApplicationRecord is a typed application-form submission.
type ApplicationRecord struct {
	SubmissionID string
	Email        string
	FirstName    string
	LastName     string
	Phone        string
	Position     string
	Raw          []byte
}

// GeneralResultRecord is a typed general-competencies result.
type GeneralResultRecord struct {
	SubmissionID string
	Email        string
	Score        float64
	Raw          []byte
}

// SpecializedRecord is a typed specialized-competencies submission,
// scoped to one application via a hidden field on the form.
type SpecializedRecord struct {
	SubmissionID  string
	ApplicationID uint
	Competency    string
	Score         float64
	Raw           []byte
}

// AgreementRecord is a typed signed-agreement submission.
type AgreementRecord struct {
	SubmissionID  string
	ApplicationID uint
	Raw           []byte
}

// ApplicationRecord maps the envelope into an application submission.
func (e *Envelope) ApplicationRecord(raw []byte) (*ApplicationRecord, error) {
	email, err := e.RequiredString(labelEmail)
	if err != nil {
		return nil, err
	}
	firstName, err := e.RequiredString(labelFirstName)
	if err != nil {
		return nil, err
	}
	position, err := e.RequiredString(labelPosition)
	if err != nil {
		return nil, err
	}

	return &ApplicationRecord{
		SubmissionID: e.Data.SubmissionID,
		Email:        strings.ToLower(email),
		FirstName:    firstName,
		LastName:     strings.TrimSpace(e.Field(labelLastName).String()),
		Phone:        strings.TrimSpace(e.Field(labelPhone).String()),
		Position:     position,
		Raw:          raw,
	}, nil
}

// GeneralResultRecord maps the envelope into a general-competencies result.
func (e *Envelope) GeneralResultRecord(raw []byte) (*GeneralResultRecord, error) {
	email, err := e.RequiredString(labelEmail)
	if err != nil {
		return nil, err
	}
	score, err := e.RequiredNumber(labelScore)
	if err != nil {
		return nil, err
	}

	return &GeneralResultRecord{
		SubmissionID: e.Data.SubmissionID,
		Email:        strings.ToLower(email),
		Score:        score,
		Raw:          raw,
	}, nil
}

// SpecializedRecord maps the envelope into a specialized-competencies
// submission.
func (e *Envelope) SpecializedRecord(raw []byte) (*SpecializedRecord, error) {
	appID, err := e.applicationID()
	if err != nil {
		return nil, err
	}
	competency, err := e.RequiredString(labelCompetency)
	if err != nil {
		return nil, err
	}
	score, err := e.RequiredNumber(labelScore)
	if err != nil {
		return nil, err
	}

	return &SpecializedRecord{
		SubmissionID:  e.Data.SubmissionID,
		ApplicationID: appID,
		Competency:    competency,
		Score:         score,
		Raw:           raw,
	}, nil
}

// AgreementRecord maps the envelope into a signed-agreement submission.
func (e *Envelope) AgreementRecord(raw []byte) (*AgreementRecord, error) {
	appID, err := e.applicationID()
	if err != nil {
		return nil, err
	}

	return &AgreementRecord{
		SubmissionID:  e.Data.SubmissionID,
		ApplicationID: appID,
		Raw:           raw,
	}, nil
}

// applicationID reads the hidden application-id field. Hidden fields
// arrive as strings, so accept both string and numeric values.
func (e *Envelope) applicationID() (uint, error) {
	v := e.Field(labelApplicationID)
	if !v.Exists() {
		return 0, &FieldError{Field: labelApplicationID, Reason: "is missing"}
	}
	id, err := strconv.ParseUint(strings.TrimSpace(v.String()), 10, 64)
	if err != nil || id == 0 {
		return 0, &FieldError{Field: labelApplicationID, Reason: "is not a valid identifier"}
	}
	return uint(id), nil
}
