package authgate

import (
	"context"
	"net/http"

	"github.com/kardia-labs/authgate/internal/flows"
)

const msgOAuthInitiated = "Redirect the user to authUrl to continue authentication"

// OAuthInitiate runs the OAuth initiation pipeline: 200 with the provider's
// authorization URL, 400 when the provider rejects the id, 500 when a
// reported success carries no URL.
func (e *Engine) OAuthInitiate(ctx context.Context, body []byte) *Reply {
	if e == nil {
		return notReady()
	}
	rc := e.newRequestContext(ctx, ActionOAuth)

	out := flows.RunOAuth(ctx, body, flows.OAuthDeps{
		CheckRate:  e.checkRate(rc, e.config.RateLimit.Credential),
		BeginOAuth: e.provider.BeginOAuth,
		Providers:  e.providerIDs,
	})
	if !out.Failure.OK() {
		return e.fail(ctx, rc, out.Failure)
	}

	resp := OAuthResponse{
		Provider:      out.Provider,
		AuthURL:       out.AuthURL,
		Message:       msgOAuthInitiated,
		CorrelationID: rc.CorrelationID,
	}

	return e.succeed(ctx, rc, http.StatusOK, resp, "oauth initiation succeeded", "", Fields{
		"provider": out.Provider,
	})
}

// Catalog returns the static catalog of enabled OAuth providers. Read-only:
// no limiter, no validator, no provider call, no logging.
func (e *Engine) Catalog() ProviderCatalog {
	return e.catalog
}
