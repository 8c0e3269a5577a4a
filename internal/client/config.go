package client

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds a single health check when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Config is the configuration for the client.
type Config struct {
	HTTPClient *http.Client  // The HTTP client to use (defaults to http.DefaultClient)
	UserAgent  string        // The User-Agent sent with every request
	Timeout    time.Duration // Upper bound on a single request
}
