// Package flows holds the per-flow pipelines of the gateway: login,
// register, OAuth initiation and password reset. Each Run function is a
// strict linear state machine — rate check, schema validation, at most one
// provider call — that fails fast and returns a flow-local outcome with a
// classified Failure. Dependencies arrive as small Deps structs of injected
// funcs so the pipelines stay free of host wiring and trivially testable.
package flows
