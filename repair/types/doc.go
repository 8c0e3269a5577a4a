// Package types contains the request and report values exchanged with the
// repair engine.
package types
