package authkeys

import (
	"context"

	"github.com/benbjohnson/clock"

	"go.stackadmin.dev/authkeys/pkg/auth"
	"go.stackadmin.dev/authkeys/repair"
	"go.stackadmin.dev/authkeys/repair/types"
)

// NewSDK creates a new SDK with the specified options.
func NewSDK(options ...Option) *SDK {
	cfg := &repair.Config{
		Clock: clock.New(),
	}
	for _, option := range options {
		option(cfg)
	}

	return &SDK{
		Repair: repair.New(cfg),
		clock:  cfg.Clock,
	}
}

// SDK exposes the key management operations.
type SDK struct {
	// Repair is the engine behind DiagnoseAndRepair, for callers that need
	// finer grained access such as diagnosis without repair.
	Repair *repair.Engine

	clock clock.Clock
}

// GenerateKeySet creates a fresh key set for a new deployment. An empty
// secret generates a new one; an empty expiresIn uses the default lifetime.
func (s *SDK) GenerateKeySet(secret, expiresIn string) (*auth.KeySet, error) {
	return auth.GenerateValidatedKeySet(auth.KeySetOptions{
		Secret:    secret,
		ExpiresIn: expiresIn,
		Clock:     s.clock,
	}, auth.DefaultMaxAttempts)
}

// DiagnoseAndRepair diagnoses the auth keys of a deployment and, if the
// problems found can be fixed automatically, regenerates, applies and
// verifies new keys. See [repair.Engine.DiagnoseAndRepair].
func (s *SDK) DiagnoseAndRepair(ctx context.Context, deploymentID string, params types.RepairParams) (*types.RepairReport, error) {
	return s.Repair.DiagnoseAndRepair(ctx, deploymentID, params)
}

// DefaultRepairParams returns the parameters DiagnoseAndRepair is normally
// called with.
func DefaultRepairParams() types.RepairParams {
	return types.DefaultRepairParams()
}
