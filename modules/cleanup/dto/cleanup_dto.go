package dto

import "time"

type StepStatus string

const (
	StepOK      StepStatus = "ok"
	StepSkipped StepStatus = "skipped"
	StepFailed  StepStatus = "failed"
)

// StepResult records one cleanup step for one candidate. The run never
// hides a partial failure behind an aggregate boolean.
type StepResult struct {
	Step   string     `json:"step"`
	Status StepStatus `json:"status"`
	Detail string     `json:"detail,omitempty"`
}

type CandidateReport struct {
	ShootID  string       `json:"shoot_id"`
	SoldAt   *time.Time   `json:"sold_at,omitempty"`
	Archived bool         `json:"archived"`
	Steps    []StepResult `json:"steps"`
}

type CleanupReport struct {
	Cutoff         time.Time         `json:"cutoff"`
	ProcessedCount int               `json:"processed_count"`
	ArchivedCount  int               `json:"archived_count"`
	Candidates     []CandidateReport `json:"candidates"`
}

type RunRequest struct {
	Action string `json:"action"`
}
