// Package authkeys generates, validates and repairs the API keys of
// self-hosted Supabase style deployments.
//
// Every deployment carries a shared JWT secret and two HS256 tokens signed
// with it: an anon key for public clients and a service_role key for
// trusted servers. This package creates such key sets, checks existing ones
// for structural defects (most notably both slots holding the same token),
// and drives a detect, fix, verify repair loop against the deployment
// platform.
//
// # Overview of Packages
//
//   - authkeys - The SDK facade exposing GenerateKeySet and DiagnoseAndRepair
//   - pkg/auth - Token issuance, validation and diagnosis
//   - pkg/encryption - Symmetric encryption and digest primitives for secrets at rest
//   - repair - The diagnosis and repair engine
//   - toolapi - HTTP handlers exposing the SDK operations as JSON
package authkeys
