package repair

import (
	"context"
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"go.stackadmin.dev/authkeys/internal/client"
	"go.stackadmin.dev/authkeys/pkg/auth"
	"go.stackadmin.dev/authkeys/repair/types"
)

// ErrNoStore is returned when a deployment operation is attempted on an
// engine configured without a DeploymentStore.
var ErrNoStore = errors.New("no deployment store configured")

// Engine diagnoses and repairs the auth keys of deployments.
//
// An Engine holds no per-deployment state and is safe for concurrent use,
// but it does not serialize repairs: callers must not run two repairs
// against the same deployment at once.
type Engine struct {
	cfg    Config
	clock  clock.Clock
	log    *zerolog.Logger
	health HealthChecker
}

// New creates an engine from cfg, filling in defaults for unset fields.
func New(cfg *Config) *Engine {
	c := Config{}
	if cfg != nil {
		c = *cfg
	}
	if c.Clock == nil {
		c.Clock = clock.New()
	}
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	if c.Variables == (VariableNames{}) {
		c.Variables = DefaultVariableNames
	}
	if c.AuthURLVariables == nil {
		c.AuthURLVariables = DefaultAuthURLVariables
	}
	if c.Health == nil {
		c.Health = client.New(&client.Config{
			HTTPClient: c.HTTPClient,
			UserAgent:  c.UserAgent,
			Timeout:    c.VerifyTimeout,
		})
	}

	return &Engine{cfg: c, clock: c.Clock, log: c.Logger, health: c.Health}
}

// DiagnoseDeployment fetches a deployment's environment and diagnoses it.
func (e *Engine) DiagnoseDeployment(ctx context.Context, deploymentID string) (*Diagnosis, error) {
	env, err := e.environment(ctx, deploymentID)
	if err != nil {
		return nil, err
	}
	return e.Diagnose(env), nil
}

// DiagnoseAndRepair runs the full detect, fix, apply and verify workflow
// against one deployment.
//
// Only two conditions return an error: the environment cannot be read, or
// key generation fails. Once new keys exist, failures to apply, restart or
// verify are recorded in the report instead, so the caller always learns
// what was changed.
func (e *Engine) DiagnoseAndRepair(ctx context.Context, deploymentID string, params types.RepairParams) (*types.RepairReport, error) {
	report := &types.RepairReport{
		ID:             uuid.NewString(),
		DeploymentID:   deploymentID,
		State:          types.StateUnknown,
		IssuesDetected: []string{},
		Changes:        []types.VariableChange{},
		Errors:         []string{},
		StartedAt:      e.clock.Now(),
	}
	log := e.log.With().Str("deployment_id", deploymentID).Str("repair_id", report.ID).Logger()

	env, err := e.environment(ctx, deploymentID)
	if err != nil {
		log.Err(err).Msg("unable to read deployment environment")
		return nil, err
	}

	diag := e.Diagnose(env)
	report.State = diag.State
	report.IssuesDetected = diag.Messages()
	report.Fixable = diag.Fixable
	log.Info().Str("state", string(diag.State)).Strs("issues", report.IssuesDetected).Msg("deployment diagnosed")

	if diag.State != types.StateAutoFixable {
		return e.finish(report), nil
	}

	keys, err := e.generate(diag.Secret, params.KeepExistingSecret)
	if err != nil {
		log.Err(err).Msg("key generation failed, repair aborted")
		return nil, fmt.Errorf("generating keys for %s: %w", deploymentID, err)
	}
	report.SecretChanged = keys.Secret != diag.Secret
	report.NewKeys = &types.NewKeys{AnonToken: keys.AnonToken, ServiceToken: keys.ServiceToken}
	if report.SecretChanged {
		report.NewKeys.Secret = keys.Secret
	}
	report.State = types.StateRepaired
	log.Info().Bool("secret_changed", report.SecretChanged).Msg("new keys generated")

	updates, changes := e.updatesFor(diag, keys, report.SecretChanged)
	report.Changes = changes

	if err := e.cfg.Store.UpdateVariables(ctx, deploymentID, updates); err != nil {
		log.Err(err).Msg("unable to apply new keys")
		report.Errors = append(report.Errors, fmt.Sprintf("applying keys: %v", err))
		if params.ValidateAuth {
			report.AuthValidation = &types.AuthValidation{
				Errors: []string{fmt.Sprintf("keys were not applied: %v", err)},
			}
		}
		return e.finish(report), nil
	}
	report.Applied = true

	if params.AutoRestart {
		if err := e.cfg.Store.Restart(ctx, deploymentID); err != nil {
			log.Err(err).Msg("unable to restart deployment")
			report.Errors = append(report.Errors, fmt.Sprintf("restarting deployment: %v", err))
		} else {
			report.Restarted = true
		}
	}

	if params.ValidateAuth {
		report.AuthValidation = e.verify(ctx, e.authBaseURL(env), keys)
		if report.AuthValidation.Success {
			report.State = types.StateVerified
			log.Info().Msg("new keys verified against auth endpoint")
		} else {
			log.Warn().Strs("errors", report.AuthValidation.Errors).Msg("live verification did not accept both keys")
		}
	}

	return e.finish(report), nil
}

func (e *Engine) environment(ctx context.Context, deploymentID string) (map[string]string, error) {
	if e.cfg.Store == nil {
		return nil, ErrNoStore
	}
	env, err := e.cfg.Store.GetEnvironment(ctx, deploymentID)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch environment for %s: %w", deploymentID, err)
	}
	return env, nil
}

func (e *Engine) generate(existingSecret string, keepSecret bool) (*auth.KeySet, error) {
	opts := auth.KeySetOptions{ExpiresIn: e.cfg.ExpiresIn, Clock: e.clock}
	if keepSecret {
		return auth.RegenerateKeys(existingSecret, opts)
	}
	return auth.GenerateValidatedKeySet(opts, e.cfg.MaxAttempts)
}

func (e *Engine) updatesFor(diag *Diagnosis, keys *auth.KeySet, secretChanged bool) ([]types.VariableUpdate, []types.VariableChange) {
	names := e.cfg.Variables
	updates := []types.VariableUpdate{
		{Name: names.Anon, Value: keys.AnonToken, Secret: true},
		{Name: names.Service, Value: keys.ServiceToken, Secret: true},
	}
	changes := []types.VariableChange{
		{Name: names.Anon, Before: mask(diag.AnonToken), After: mask(keys.AnonToken)},
		{Name: names.Service, Before: mask(diag.ServiceToken), After: mask(keys.ServiceToken)},
	}
	if secretChanged {
		updates = append(updates, types.VariableUpdate{Name: names.Secret, Value: keys.Secret, Secret: true})
		changes = append(changes, types.VariableChange{Name: names.Secret, Before: mask(diag.Secret), After: mask(keys.Secret)})
	}
	return updates, changes
}

func (e *Engine) authBaseURL(env map[string]string) string {
	for _, name := range e.cfg.AuthURLVariables {
		if v := env[name]; v != "" {
			return v
		}
	}
	return e.cfg.AuthBaseURL
}

func (e *Engine) finish(report *types.RepairReport) *types.RepairReport {
	report.FinishedAt = e.clock.Now()
	return report
}

// mask returns a preview of a secret value that is safe to show an operator.
func mask(v string) string {
	switch {
	case v == "":
		return ""
	case len(v) <= 16:
		return "****"
	}
	return v[:6] + "..." + v[len(v)-6:]
}
