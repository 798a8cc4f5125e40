package model

// Stage is the position of an application within the fixed pipeline.
type Stage string

// Pipeline stages in order. An application only ever moves forward
// through these, except via explicit admin override.
const (
	StageApplication             Stage = "APPLICATION"
	StageGeneralCompetencies     Stage = "GENERAL_COMPETENCIES"
	StageSpecializedCompetencies Stage = "SPECIALIZED_COMPETENCIES"
	StageInterview               Stage = "INTERVIEW"
	StageAgreement               Stage = "AGREEMENT"
	StageSigned                  Stage = "SIGNED"
)

var stageOrder = map[Stage]int{
	StageApplication:             0,
	StageGeneralCompetencies:     1,
	StageSpecializedCompetencies: 2,
	StageInterview:               3,
	StageAgreement:               4,
	StageSigned:                  5,
}

// Valid reports whether s is one of the known pipeline stages.
func (s Stage) Valid() bool {
	_, ok := stageOrder[s]
	return ok
}

// Before reports whether s comes strictly earlier than other in pipeline order.
func (s Stage) Before(other Stage) bool {
	return stageOrder[s] < stageOrder[other]
}

// Status is the lifecycle flag of an application, orthogonal to stage.
type Status string

const (
	// StatusActive indicates the application is in progress at some stage
	StatusActive Status = "ACTIVE"
	// StatusAccepted indicates an accept decision has been recorded
	StatusAccepted Status = "ACCEPTED"
	// StatusRejected indicates a reject decision or withdrawn offer
	StatusRejected Status = "REJECTED"
	// StatusWithdrawn indicates the candidate withdrew (soft delete)
	StatusWithdrawn Status = "WITHDRAWN"
)

// Valid reports whether st is one of the known statuses.
func (st Status) Valid() bool {
	switch st {
	case StatusActive, StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}
