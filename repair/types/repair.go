package types

import (
	"time"
)

// State is a position in the repair workflow of one deployment.
type State string

const (
	StateUnknown     State = "unknown"
	StateDiagnosed   State = "diagnosed"    // diagnosed and found healthy
	StateAutoFixable State = "auto_fixable" // issues found that can be repaired automatically
	StateNotFixable  State = "not_fixable"  // issues found that need an operator
	StateRepaired    State = "repaired"     // new keys generated (and applied, if Applied)
	StateVerified    State = "verified"     // live verification accepted both new keys
)

// RepairParams controls a DiagnoseAndRepair call.
type RepairParams struct {
	KeepExistingSecret bool `json:"keepExistingSecret"`
	AutoRestart        bool `json:"autoRestart"`
	ValidateAuth       bool `json:"validateAuth"`
}

// DefaultRepairParams keeps the secret, restarts the service and
// validates the new keys against the live endpoint.
func DefaultRepairParams() RepairParams {
	return RepairParams{KeepExistingSecret: true, AutoRestart: true, ValidateAuth: true}
}

// VariableUpdate is one environment variable written to a deployment.
type VariableUpdate struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Secret bool   `json:"secret"`
}

// VariableChange records the before and after of one variable. Values are
// masked previews, never full secrets.
type VariableChange struct {
	Name   string `json:"name"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// NewKeys are the tokens produced by a repair.
type NewKeys struct {
	AnonToken    string `json:"anonToken"`
	ServiceToken string `json:"serviceToken"`
	Secret       string `json:"secret,omitempty"` // only set when the secret was rotated
}

// AuthValidation is the outcome of calling the live auth endpoint with each
// new token.
type AuthValidation struct {
	Success         bool     `json:"success"`
	AnonKeyValid    bool     `json:"anonKeyValid"`
	ServiceKeyValid bool     `json:"serviceKeyValid"`
	Errors          []string `json:"errors"`
}

// RepairReport is the structured result of a DiagnoseAndRepair call.
type RepairReport struct {
	ID             string           `json:"id"`
	DeploymentID   string           `json:"deploymentId"`
	State          State            `json:"state"`
	IssuesDetected []string         `json:"issuesDetected"`
	Fixable        bool             `json:"fixable"`
	NewKeys        *NewKeys         `json:"newKeys,omitempty"`
	SecretChanged  bool             `json:"secretChanged"`
	Applied        bool             `json:"applied"`
	Restarted      bool             `json:"restarted"`
	AuthValidation *AuthValidation  `json:"authValidation,omitempty"`
	Changes        []VariableChange `json:"changes"`
	Errors         []string         `json:"errors"`
	StartedAt      time.Time        `json:"startedAt"`
	FinishedAt     time.Time        `json:"finishedAt"`
}
