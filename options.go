package authkeys

import (
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"go.stackadmin.dev/authkeys/repair"
)

// Option is a function that can be passed to NewSDK to configure it.
type Option func(config *repair.Config)

// WithDeploymentStore configures the deployment platform that holds each
// deployment's environment. DiagnoseAndRepair fails without one.
func WithDeploymentStore(store repair.DeploymentStore) Option {
	return func(config *repair.Config) {
		config.Store = store
	}
}

// WithAuthBaseURL sets the auth base URL used for live verification when the
// deployment's environment does not provide one.
func WithAuthBaseURL(url string) Option {
	return func(config *repair.Config) {
		config.AuthBaseURL = url
	}
}

// WithHTTPClient configures the HTTP client used for live verification.
func WithHTTPClient(client *http.Client) Option {
	return func(config *repair.Config) {
		config.HTTPClient = client
	}
}

// WithHealthChecker replaces the HTTP based live verification entirely.
func WithHealthChecker(checker repair.HealthChecker) Option {
	return func(config *repair.Config) {
		config.Health = checker
	}
}

// WithVerifyTimeout bounds each live verification request.
func WithVerifyTimeout(timeout time.Duration) Option {
	return func(config *repair.Config) {
		config.VerifyTimeout = timeout
	}
}

// WithUserAgent sets the User-Agent sent to the auth endpoint.
func WithUserAgent(userAgent string) Option {
	return func(config *repair.Config) {
		config.UserAgent = userAgent
	}
}

// WithVariableNames overrides the environment variable names the keys are
// stored under.
func WithVariableNames(names repair.VariableNames) Option {
	return func(config *repair.Config) {
		config.Variables = names
	}
}

// WithTokenLifetime sets the lifetime of tokens issued by repairs, in the
// form accepted by auth.ParseExpiresIn.
func WithTokenLifetime(expiresIn string) Option {
	return func(config *repair.Config) {
		config.ExpiresIn = expiresIn
	}
}

// WithLogger configures the logger used by the repair engine.
func WithLogger(logger *zerolog.Logger) Option {
	return func(config *repair.Config) {
		config.Logger = logger
	}
}

// WithClock configures the SDK to use the specified clock.
//
// This is useful for testing with a mocked clock, if not
// specified a real clock will be used.
func WithClock(clock clock.Clock) Option {
	return func(config *repair.Config) {
		config.Clock = clock
	}
}
