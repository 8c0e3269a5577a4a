package repair

import (
	"context"

	"go.stackadmin.dev/authkeys/repair/types"
)

// DeploymentStore is the deployment platform holding each deployment's
// environment. Implementations talk to the platform's API.
type DeploymentStore interface {
	GetEnvironment(ctx context.Context, deploymentID string) (map[string]string, error)
	UpdateVariables(ctx context.Context, deploymentID string, updates []types.VariableUpdate) error
	Restart(ctx context.Context, deploymentID string) error
}

// HealthChecker confirms that a live auth service accepts apiKey.
type HealthChecker interface {
	CheckHealth(ctx context.Context, baseURL, apiKey string) error
}
