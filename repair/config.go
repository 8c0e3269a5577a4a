package repair

import (
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
)

// VariableNames are the environment variables that hold a deployment's keys.
type VariableNames struct {
	Secret  string
	Anon    string
	Service string
}

// DefaultVariableNames are the names used by the standard self-hosted
// compose template.
var DefaultVariableNames = VariableNames{
	Secret:  "JWT_SECRET",
	Anon:    "ANON_KEY",
	Service: "SERVICE_ROLE_KEY",
}

// DefaultAuthURLVariables are checked in order for the public URL of the
// deployment's API gateway.
var DefaultAuthURLVariables = []string{"API_EXTERNAL_URL", "SUPABASE_PUBLIC_URL"}

// Config is the configuration for the engine.
type Config struct {
	Clock            clock.Clock     // The clock to use
	Logger           *zerolog.Logger // The logger to use (defaults to a no-op logger)
	Store            DeploymentStore // Where deployment environments are read and written
	Health           HealthChecker   // Live verification (defaults to an HTTP client)
	HTTPClient       *http.Client    // The HTTP client used by the default HealthChecker
	UserAgent        string          // The User-Agent used by the default HealthChecker
	VerifyTimeout    time.Duration   // Upper bound on each live verification request
	AuthBaseURL      string          // Fallback auth base URL when the environment has none
	AuthURLVariables []string        // Environment variables holding the auth base URL
	Variables        VariableNames   // Names of the key variables
	ExpiresIn        string          // Lifetime of generated tokens (see auth.ParseExpiresIn)
	MaxAttempts      int             // Generation attempts when rotating the secret
}
