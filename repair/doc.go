// Package repair detects and repairs broken auth key deployments.
//
// A repair moves a deployment through the states defined in
// [types.State]: the environment is diagnosed, classified as auto-fixable
// or not, new keys are generated and written back to the deployment, the
// dependent service is optionally restarted, and the new keys are checked
// against the live auth endpoint.
//
// Only issues confined to the tokens themselves (identical tokens, bad
// claims or signatures, role mismatches) are repaired automatically.
// Missing or misnamed variables are reported and left alone.
package repair
