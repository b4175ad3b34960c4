// Package gotrue adapts a GoTrue-compatible REST identity API to the
// gateway's provider.Identity interface: password grant for login, /signup
// for registration, /authorize URLs for OAuth initiation and /recover for
// password reset emails. Provider error payloads are translated into the
// coded errors the gateway's flows classify.
package gotrue
