package repair

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"go.stackadmin.dev/authkeys/pkg/auth"
	"go.stackadmin.dev/authkeys/repair/types"
)

// verify calls the live auth endpoint once per token, concurrently. Each
// call is bounded by its own timeout in the HealthChecker, so one hung
// request does not hold up the other's result beyond that bound. Failures
// are reported, never returned.
func (e *Engine) verify(ctx context.Context, baseURL string, keys *auth.KeySet) *types.AuthValidation {
	result := &types.AuthValidation{Errors: []string{}}
	if baseURL == "" {
		result.Errors = append(result.Errors, "no auth endpoint url found in the environment or configuration")
		return result
	}

	var anonErr, serviceErr error
	var g errgroup.Group
	g.Go(func() error {
		anonErr = e.health.CheckHealth(ctx, baseURL, keys.AnonToken)
		return nil
	})
	g.Go(func() error {
		serviceErr = e.health.CheckHealth(ctx, baseURL, keys.ServiceToken)
		return nil
	})
	_ = g.Wait()

	result.AnonKeyValid = anonErr == nil
	result.ServiceKeyValid = serviceErr == nil
	if anonErr != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("anon key: %v", anonErr))
	}
	if serviceErr != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("service role key: %v", serviceErr))
	}
	result.Success = result.AnonKeyValid && result.ServiceKeyValid
	return result
}
