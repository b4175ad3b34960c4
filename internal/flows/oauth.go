package flows

import (
	"context"
	"fmt"

	"github.com/kardia-labs/authgate/internal/rate"
	"github.com/kardia-labs/authgate/internal/schema"
	"github.com/kardia-labs/authgate/provider"
)

// MsgUnsupportedProvider is returned when the identity provider rejects a
// provider id that passed the gateway's own catalog check.
const MsgUnsupportedProvider = "Unsupported OAuth provider"

// OAuthDeps captures the OAuth initiation pipeline dependencies. Providers
// is the gateway's configured catalog; ids outside it fail validation
// before any provider call.
type OAuthDeps struct {
	CheckRate  func(ctx context.Context) (rate.Decision, error)
	BeginOAuth func(ctx context.Context, providerID, redirectTo string) (string, error)
	Providers  []string
}

// OAuthOutcome is the OAuth initiation pipeline result.
type OAuthOutcome struct {
	Failure  Failure
	Provider string
	AuthURL  string
}

func oauthSchema(providers []string) schema.Schema {
	return schema.Schema{
		Fields: []schema.Field{
			{Name: "provider", Kind: schema.String, Required: true, Enum: providers},
			{Name: "redirectTo", Kind: schema.String, MaxLen: 2048},
		},
	}
}

// RunOAuth executes the OAuth initiation pipeline. A reported success with
// an empty redirect URL is a provider contract violation and surfaces as an
// internal failure, never as success.
func RunOAuth(ctx context.Context, raw []byte, deps OAuthDeps) OAuthOutcome {
	doc, fail := gate(ctx, raw, deps.CheckRate, oauthSchema(deps.Providers))
	if !fail.OK() {
		return OAuthOutcome{Failure: fail}
	}

	providerID := schema.Str(doc, "provider")
	url, err := deps.BeginOAuth(ctx, providerID, schema.Str(doc, "redirectTo"))
	if err != nil {
		if provider.CodeOf(err) == provider.CodeUnsupportedProvider {
			return OAuthOutcome{Failure: Failure{
				Kind:    KindBadRequest,
				Message: MsgUnsupportedProvider,
				Err:     err,
			}}
		}
		return OAuthOutcome{Failure: Failure{Kind: KindInternal, Err: err}}
	}
	if url == "" {
		return OAuthOutcome{Failure: Failure{
			Kind: KindInternal,
			Err:  fmt.Errorf("provider %q reported success without a redirect URL", providerID),
		}}
	}

	return OAuthOutcome{Provider: providerID, AuthURL: url}
}
