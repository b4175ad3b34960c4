// Package rate implements the gateway's fixed-window request limiter.
//
// Counters are kept per (action, identifier) key behind a pluggable Store:
// an in-process memory store for single-node deployments and tests, and a
// Redis store for anything sharing limits across replicas. A window burst
// can straddle two windows; that over-approximation is deliberate, the
// target is abuse throttling rather than exact quota enforcement.
package rate
