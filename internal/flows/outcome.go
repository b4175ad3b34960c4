package flows

import (
	"context"
	"time"

	"github.com/kardia-labs/authgate/internal/rate"
	"github.com/kardia-labs/authgate/internal/schema"
	"github.com/kardia-labs/authgate/provider"
)

// Kind classifies a flow failure for the responder's exhaustive mapping.
type Kind int

const (
	KindNone Kind = iota
	KindRateLimited
	KindValidation
	KindUnauthorized
	KindForbidden
	KindConflict
	KindBadRequest
	KindInternal
)

// Failure is the classified result of a failed pipeline stage. Err carries
// internal detail for logging only and never reaches a client.
type Failure struct {
	Kind       Kind
	Message    string
	Issues     []schema.Issue
	RetryAfter int
	Err        error
}

// OK reports whether the pipeline reached its success terminal.
func (f Failure) OK() bool {
	return f.Kind == KindNone
}

// SessionView is the client-facing session shape. ExpiresAt is RFC 3339,
// computed from the provider's epoch-seconds expiry.
type SessionView struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    string `json:"expiresAt"`
}

func viewSession(s *provider.Session) *SessionView {
	if s == nil {
		return nil
	}
	return &SessionView{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    time.Unix(s.ExpiresAt, 0).UTC().Format(time.RFC3339),
	}
}

// gate runs the two stages every flow shares: the limiter check and schema
// validation. A malformed body is a single generic violation, not a
// per-field report.
func gate(ctx context.Context, raw []byte, check func(context.Context) (rate.Decision, error), s schema.Schema) (map[string]any, Failure) {
	dec, err := check(ctx)
	if err != nil {
		return nil, Failure{Kind: KindInternal, Err: err}
	}
	if !dec.Allowed {
		return nil, Failure{Kind: KindRateLimited, RetryAfter: dec.RetryAfterSeconds()}
	}

	doc, err := schema.Parse(raw)
	if err != nil {
		return nil, Failure{Kind: KindValidation, Issues: schema.MalformedBody(), Err: err}
	}
	if issues := s.Validate(doc); issues != nil {
		return nil, Failure{Kind: KindValidation, Issues: issues}
	}

	return doc, Failure{}
}
