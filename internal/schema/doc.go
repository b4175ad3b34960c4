// Package schema validates raw request bodies against per-flow declarative
// constraint sets. Validation collects every field violation in declaration
// order rather than stopping at the first, performs no I/O, and defaults
// missing optional fields in place.
package schema
