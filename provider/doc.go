// Package provider defines the boundary between the gateway and the
// external identity provider: the Identity interface the gateway calls,
// the record types crossing that boundary, and the error shapes the
// orchestrator classifies.
//
// Implementations live in subpackages (gotrue for a GoTrue-compatible
// REST API, local for an in-memory development provider).
package provider
