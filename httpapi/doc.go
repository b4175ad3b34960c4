// Package httpapi exposes the gateway's six endpoint contracts over HTTP:
// login, register (POST and requirements GET), oauth (POST and catalog
// GET) and reset-password. It attaches the correlation ID and client
// identifier at entry, writes JSON bodies, mirrors the correlation ID on
// the X-Correlation-ID header, and sets Retry-After on 429 replies.
package httpapi
