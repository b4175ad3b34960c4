// Package authgate is an authentication gateway pipeline: it mediates every
// credential-bearing request (login, registration, OAuth initiation,
// password reset) between an untrusted client and an external identity
// provider.
//
// Each flow is a strict linear pipeline: per-identifier rate check, schema
// validation, at most one provider call, then response shaping through a
// single error taxonomy. A correlation ID is attached at entry and threaded
// through every log line and every payload. The gateway performs no
// cryptography, hashing, token issuance or session storage of its own; it
// only orchestrates a trusted provider and shapes the result.
package authgate
