package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultIssuer is the iss claim every token carries.
	DefaultIssuer = "supabase"

	// DefaultExpiresIn is the token lifetime used when none is given.
	DefaultExpiresIn = "10y"

	// DefaultSecretLength is the number of random bytes in a generated secret.
	DefaultSecretLength = 64

	// ExpiryWarningWindow is how close to exp a token must be before
	// validation warns about it.
	ExpiryWarningWindow = 30 * 24 * time.Hour
)

// Role is the authorization tier a token grants.
type Role string

const (
	RoleAnon          Role = "anon"
	RoleAuthenticated Role = "authenticated"
	RoleServiceRole   Role = "service_role"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAnon, RoleAuthenticated, RoleServiceRole:
		return true
	}
	return false
}

// Claims is the payload of an API key token.
type Claims struct {
	Role Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// KeySet is a shared secret together with the anon and service_role
// tokens signed by it. A KeySet is never modified after generation.
type KeySet struct {
	Secret       string    `json:"secret"`
	AnonToken    string    `json:"anonToken"`
	ServiceToken string    `json:"serviceToken"`
	GeneratedAt  time.Time `json:"generatedAt"`
	SelfCheck    SelfCheck `json:"selfCheck"`
}

// SelfCheck is the outcome of validating a key set right after signing.
type SelfCheck struct {
	AnonValid    bool `json:"anonValid"`
	ServiceValid bool `json:"serviceValid"`
	TokensDiffer bool `json:"tokensDiffer"`
}

// Passed reports whether every self-check held.
func (s SelfCheck) Passed() bool {
	return s.AnonValid && s.ServiceValid && s.TokensDiffer
}

// ValidationResult describes a single token. Errors make a token
// invalid; warnings never do.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Payload  *Claims  `json:"decodedPayload,omitempty"`
}

func (r *ValidationResult) addError(msg string) {
	r.Errors = append(r.Errors, msg)
}

func (r *ValidationResult) addWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// IssueKind classifies a problem found in a deployment's keys.
type IssueKind string

const (
	IssueMissingKeys  IssueKind = "missing_keys"
	IssueNaming       IssueKind = "naming"
	IssueIdentical    IssueKind = "identical_tokens"
	IssueInvalidToken IssueKind = "invalid_token"
	IssueRoleMismatch IssueKind = "role_mismatch"
)

// Issue is a single diagnosed problem.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Message string    `json:"message"`
}

func (i Issue) String() string {
	return i.Message
}

// Diagnosis is the result of inspecting an anon/service token pair.
type Diagnosis struct {
	HasIssues bool              `json:"hasIssues"`
	Issues    []Issue           `json:"issues"`
	Anon      *ValidationResult `json:"anon,omitempty"`
	Service   *ValidationResult `json:"service,omitempty"`
}

// Messages returns the human readable form of every issue.
func (d *Diagnosis) Messages() []string {
	msgs := make([]string, 0, len(d.Issues))
	for _, issue := range d.Issues {
		msgs = append(msgs, issue.Message)
	}
	return msgs
}

// Has reports whether the diagnosis contains an issue of the given kind.
func (d *Diagnosis) Has(kind IssueKind) bool {
	for _, issue := range d.Issues {
		if issue.Kind == kind {
			return true
		}
	}
	return false
}
