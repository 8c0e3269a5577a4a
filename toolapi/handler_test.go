package toolapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"go.stackadmin.dev/authkeys"
	"go.stackadmin.dev/authkeys/pkg/auth"
	"go.stackadmin.dev/authkeys/repair/types"
)

type fakeStore struct {
	env     map[string]string
	getErr  error
	updates []types.VariableUpdate
}

func (s *fakeStore) GetEnvironment(context.Context, string) (map[string]string, error) {
	return s.env, s.getErr
}

func (s *fakeStore) UpdateVariables(_ context.Context, _ string, updates []types.VariableUpdate) error {
	s.updates = append(s.updates, updates...)
	return nil
}

func (s *fakeStore) Restart(context.Context, string) error { return nil }

func post(c *qt.C, h http.Handler, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

func TestGenerateKeySetEndpoint(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	h := NewHandler(authkeys.NewSDK(), nil)

	secret := strings.Repeat("q", 40)
	rec := post(c, h, "/generate_key_set", `{"secret":"`+secret+`","expiresIn":"1y"}`)
	c.Assert(rec.Code, qt.Equals, http.StatusOK, qt.Commentf(rec.Body.String()))

	keys := &auth.KeySet{}
	c.Assert(json.Unmarshal(rec.Body.Bytes(), keys), qt.IsNil)
	c.Assert(keys.Secret, qt.Equals, secret)
	c.Assert(keys.SelfCheck.Passed(), qt.IsTrue)
	c.Assert(auth.Validate(keys.ServiceToken, secret).Valid, qt.IsTrue)

	rec = post(c, h, "/generate_key_set", "")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)

	rec = post(c, h, "/generate_key_set", `{"expiresIn":"forever"}`)
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)

	rec = post(c, h, "/generate_key_set", `{not json`)
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generate_key_set", nil))
	c.Assert(rec.Code, qt.Equals, http.StatusMethodNotAllowed)
}

func TestDiagnoseAndRepairEndpoint(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	secret := strings.Repeat("w", 40)
	token, err := auth.IssueToken(auth.RoleAnon, secret, auth.TokenOptions{})
	c.Assert(err, qt.IsNil)
	store := &fakeStore{env: map[string]string{"JWT_SECRET": secret, "ANON_KEY": token, "SERVICE_ROLE_KEY": token}}

	h := NewHandler(authkeys.NewSDK(authkeys.WithDeploymentStore(store)), nil)

	rec := post(c, h, "/diagnose_and_repair", `{"deploymentId":"dep-9","validateAuth":false,"autoRestart":false}`)
	c.Assert(rec.Code, qt.Equals, http.StatusOK, qt.Commentf(rec.Body.String()))

	report := &types.RepairReport{}
	c.Assert(json.Unmarshal(rec.Body.Bytes(), report), qt.IsNil)
	c.Assert(report.DeploymentID, qt.Equals, "dep-9")
	c.Assert(report.State, qt.Equals, types.StateRepaired)
	c.Assert(report.SecretChanged, qt.IsFalse)
	c.Assert(report.AuthValidation, qt.IsNil)
	c.Assert(store.updates, qt.HasLen, 2)

	rec = post(c, h, "/diagnose_and_repair", `{}`)
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)

	store.getErr = errors.New("platform down")
	rec = post(c, h, "/diagnose_and_repair", `{"deploymentId":"dep-9"}`)
	c.Assert(rec.Code, qt.Equals, http.StatusBadGateway)
	c.Assert(rec.Body.String(), qt.Contains, "platform down")
}

func TestDiagnoseAndRepairEndpointWithoutStore(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	h := NewHandler(authkeys.NewSDK(), nil)
	rec := post(c, h, "/diagnose_and_repair", `{"deploymentId":"dep-1"}`)
	c.Assert(rec.Code, qt.Equals, http.StatusServiceUnavailable)
}
