package repair

import (
	"fmt"
	"strings"

	"go.stackadmin.dev/authkeys/pkg/auth"
	"go.stackadmin.dev/authkeys/repair/types"
)

// knownAliases are names the key variables are commonly deployed under by
// mistake. Finding one in place of the expected name is a configuration
// problem an operator has to resolve, so it is never repaired.
var knownAliases = map[string][]string{
	"JWT_SECRET":       {"SUPABASE_JWT_SECRET", "GOTRUE_JWT_SECRET", "PGRST_JWT_SECRET"},
	"ANON_KEY":         {"SUPABASE_ANON_KEY", "ANON_JWT"},
	"SERVICE_ROLE_KEY": {"SUPABASE_SERVICE_ROLE_KEY", "SERVICE_KEY", "SUPABASE_SERVICE_KEY"},
}

// autoFixable lists the issue kinds that regenerating tokens resolves.
var autoFixable = map[auth.IssueKind]bool{
	auth.IssueIdentical:    true,
	auth.IssueInvalidToken: true,
	auth.IssueRoleMismatch: true,
}

// Diagnosis is the engine's view of one deployment's keys.
type Diagnosis struct {
	State   types.State
	Fixable bool
	Issues  []auth.Issue
	Tokens  *auth.Diagnosis // nil when keys are missing

	Secret       string
	AnonToken    string
	ServiceToken string
}

// Messages returns the human readable form of every issue.
func (d *Diagnosis) Messages() []string {
	msgs := make([]string, 0, len(d.Issues))
	for _, issue := range d.Issues {
		msgs = append(msgs, issue.Message)
	}
	return msgs
}

// Diagnose inspects a deployment environment. It never fails; a healthy
// environment yields StateDiagnosed with no issues.
func (e *Engine) Diagnose(env map[string]string) *Diagnosis {
	names := e.cfg.Variables
	d := &Diagnosis{
		Issues:       []auth.Issue{},
		Secret:       env[names.Secret],
		AnonToken:    env[names.Anon],
		ServiceToken: env[names.Service],
	}

	var missing []string
	for _, name := range []string{names.Secret, names.Anon, names.Service} {
		if strings.TrimSpace(env[name]) != "" {
			continue
		}
		if alias := presentAlias(env, name); alias != "" {
			d.Issues = append(d.Issues, auth.Issue{
				Kind:    auth.IssueNaming,
				Message: fmt.Sprintf("%s is not set but %s is; rename the variable to %s", name, alias, name),
			})
			continue
		}
		missing = append(missing, name)
	}
	if len(missing) > 0 {
		d.Issues = append(d.Issues, auth.Issue{
			Kind:    auth.IssueMissingKeys,
			Message: fmt.Sprintf("missing keys: %s", strings.Join(missing, ", ")),
		})
	}
	if len(d.Issues) > 0 {
		d.State = types.StateNotFixable
		return d
	}

	d.Tokens = auth.DetectIssuesWith(d.AnonToken, d.ServiceToken, d.Secret, auth.ValidateOptions{Now: e.clock.Now()})
	d.Issues = append(d.Issues, d.Tokens.Issues...)

	switch {
	case len(d.Issues) == 0:
		d.State = types.StateDiagnosed
	case allAutoFixable(d.Issues):
		d.State = types.StateAutoFixable
		d.Fixable = true
	default:
		d.State = types.StateNotFixable
	}
	return d
}

func presentAlias(env map[string]string, name string) string {
	for _, alias := range knownAliases[name] {
		if strings.TrimSpace(env[alias]) != "" {
			return alias
		}
	}
	return ""
}

func allAutoFixable(issues []auth.Issue) bool {
	for _, issue := range issues {
		if !autoFixable[issue.Kind] {
			return false
		}
	}
	return true
}
