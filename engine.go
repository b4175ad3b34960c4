package authgate

import (
	"context"
	"time"

	"github.com/kardia-labs/authgate/internal/rate"
	"github.com/kardia-labs/authgate/provider"
)

// Engine is the auth orchestrator: one method per flow, each running the
// limiter, the validator and at most one provider call before shaping the
// response. Engines are built once via Builder and safe for concurrent use.
type Engine struct {
	config   Config
	limiter  *rate.Limiter
	provider provider.Identity
	logger   Logger
	audit    *auditDispatcher
	now      func() time.Time

	catalog      ProviderCatalog
	requirements RegistrationRequirements
	providerIDs  []string
}

// buildStatics precomputes the two read-only bodies so repeated catalog
// and requirements reads stay byte-identical and side-effect free.
func (e *Engine) buildStatics() {
	infos := make([]OAuthProviderInfo, 0, len(e.config.OAuth.Providers))
	ids := make([]string, 0, len(e.config.OAuth.Providers))
	for _, p := range e.config.OAuth.Providers {
		name := p.DisplayName
		if name == "" {
			name = displayName(p.ID)
		}
		infos = append(infos, OAuthProviderInfo{ID: p.ID, DisplayName: name})
		ids = append(ids, p.ID)
	}
	e.catalog = ProviderCatalog{Providers: infos}
	e.providerIDs = ids

	e.requirements = RegistrationRequirements{
		Password:       PasswordRequirements{MinLength: e.config.Registration.PasswordMinLength},
		RequiredFields: []string{"email", "password", "firstName", "lastName", "acceptTerms"},
		OptionalFields: []string{"acceptMarketing", "referralCode"},
		TermsRequired:  true,
	}
}

// Close flushes the audit dispatcher. The engine must not be used after.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// AuditDropped reports how many audit events were discarded on a full
// buffer since the engine was built.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// newRequestContext derives the immutable per-request identity from ctx,
// minting a correlation ID when the transport did not attach one.
func (e *Engine) newRequestContext(ctx context.Context, action Action) RequestContext {
	id := CorrelationIDFromContext(ctx)
	if id == "" {
		id = newCorrelationID()
	}
	return RequestContext{
		CorrelationID: id,
		ClientID:      ClientIDFromContext(ctx),
		Action:        action,
	}
}

// checkRate binds the limiter to one request's (action, identifier) key.
func (e *Engine) checkRate(rc RequestContext, preset RatePreset) func(context.Context) (rate.Decision, error) {
	p := rate.Preset{Limit: preset.Limit, Window: preset.Window}
	return func(ctx context.Context) (rate.Decision, error) {
		return e.limiter.Check(ctx, string(rc.Action), rc.ClientID, p)
	}
}

// log shields request handling from sink failures: the logger contract is
// fire-and-forget and a panicking sink must not fail the request.
func (e *Engine) log(level Level, msg string, fields Fields) {
	if e == nil || e.logger == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	e.logger.Log(level, msg, fields)
}

func (e *Engine) auditEmit(rc RequestContext, outcome, identifier string) {
	if e == nil || e.audit == nil {
		return
	}
	e.audit.Emit(AuditEvent{
		Time:          e.now(),
		Action:        rc.Action,
		Outcome:       outcome,
		CorrelationID: rc.CorrelationID,
		ClientID:      rc.ClientID,
		Identifier:    identifier,
	})
}
