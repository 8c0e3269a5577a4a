package auth

import (
	"fmt"
	"strings"
)

// DetectDokployIssues inspects the anon and service_role tokens of a
// deployment against its secret. It never fails: every problem found is
// returned as an Issue so the whole picture can be reported at once.
//
// The checks target the known template defect where both tokens are the
// same string, as well as bad signatures, bad claims and tokens whose role
// does not match the slot they are deployed in.
func DetectDokployIssues(anonToken, serviceToken, secret string) *Diagnosis {
	return detectIssues(anonToken, serviceToken, secret, ValidateOptions{})
}

// DetectIssuesWith is DetectDokployIssues with explicit validation options.
func DetectIssuesWith(anonToken, serviceToken, secret string, opts ValidateOptions) *Diagnosis {
	return detectIssues(anonToken, serviceToken, secret, opts)
}

func detectIssues(anonToken, serviceToken, secret string, opts ValidateOptions) *Diagnosis {
	d := &Diagnosis{Issues: []Issue{}}

	if AreIdentical(anonToken, serviceToken) {
		d.Issues = append(d.Issues, Issue{
			Kind:    IssueIdentical,
			Message: "ANON_KEY and SERVICE_ROLE_KEY are identical; the service token grants no elevated access",
		})
	}

	slots := []struct {
		label  string
		token  string
		want   Role
		result **ValidationResult
	}{
		{"ANON_KEY", anonToken, RoleAnon, &d.Anon},
		{"SERVICE_ROLE_KEY", serviceToken, RoleServiceRole, &d.Service},
	}
	for _, slot := range slots {
		res := ValidateWith(slot.token, secret, opts)
		*slot.result = res

		if !res.Valid {
			d.Issues = append(d.Issues, Issue{
				Kind:    IssueInvalidToken,
				Message: fmt.Sprintf("%s is invalid: %s", slot.label, strings.Join(res.Errors, "; ")),
			})
		}
		if res.Payload != nil && res.Payload.Role != slot.want {
			d.Issues = append(d.Issues, Issue{
				Kind:    IssueRoleMismatch,
				Message: fmt.Sprintf("%s has role %q, expected %q", slot.label, res.Payload.Role, slot.want),
			})
		}
	}

	d.HasIssues = len(d.Issues) > 0
	return d
}
