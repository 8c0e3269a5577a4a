// Package client provides the HTTP client used to confirm that a deployed
// authentication service accepts a given API key, by calling its health
// endpoint with the key as credential.
package client
