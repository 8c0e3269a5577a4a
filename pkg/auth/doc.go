// Package auth issues and validates the HS256 API key tokens of a
// deployment.
//
// A deployment has one shared secret and two tokens signed with it, one
// for the anon role and one for service_role. GenerateKeySet produces such
// a pair and checks it before returning; Validate and DetectDokployIssues
// inspect pairs that already exist. Validation outcomes are returned as
// values so that every problem with both tokens can be reported at once;
// only generator defects and bad input are returned as errors.
package auth
