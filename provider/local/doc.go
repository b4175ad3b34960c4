// Package local is an in-memory identity provider for development and
// tests. It verifies seeded credentials with plain comparison, issues
// HS256-signed access tokens, and builds OAuth authorization URLs from
// configured endpoints. Not for production use.
package local
