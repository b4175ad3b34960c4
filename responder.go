package authgate

import (
	"context"
	"net/http"

	"github.com/kardia-labs/authgate/internal/flows"
)

// Default client-facing messages for failures that carry no flow-specific
// message. INTERNAL deliberately says nothing about the cause.
const (
	msgRateLimited = "Too many requests. Please try again later"
	msgValidation  = "Validation failed"
	msgInternal    = "An unexpected error occurred. Please try again later"
)

func kindForFailure(k flows.Kind) ErrorKind {
	switch k {
	case flows.KindRateLimited:
		return KindRateLimited
	case flows.KindValidation:
		return KindValidation
	case flows.KindUnauthorized:
		return KindUnauthorized
	case flows.KindForbidden:
		return KindForbidden
	case flows.KindConflict:
		return KindConflict
	case flows.KindBadRequest:
		return KindBadRequest
	default:
		return KindInternal
	}
}

func statusForKind(k ErrorKind) int {
	switch k {
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func levelForKind(k ErrorKind) Level {
	if k == KindInternal {
		return LevelError
	}
	return LevelWarn
}

func defaultMessage(k ErrorKind) string {
	switch k {
	case KindRateLimited:
		return msgRateLimited
	case KindValidation:
		return msgValidation
	default:
		return msgInternal
	}
}

// notReady is the reply for operations on a nil engine.
func notReady() *Reply {
	return &Reply{
		Status: http.StatusInternalServerError,
		Body:   ErrorEnvelope{Kind: KindInternal, Message: msgInternal},
	}
}

// fail maps a classified flow failure to its envelope, status code, single
// log entry and audit event. It is the only error path out of the engine;
// no flow fault leaks past it unshaped.
func (e *Engine) fail(_ context.Context, rc RequestContext, f flows.Failure) *Reply {
	kind := kindForFailure(f.Kind)
	msg := f.Message
	if msg == "" || kind == KindInternal {
		msg = defaultMessage(kind)
	}

	env := ErrorEnvelope{
		Kind:          kind,
		Message:       msg,
		CorrelationID: rc.CorrelationID,
	}

	fields := Fields{
		"correlation_id": rc.CorrelationID,
		"action":         string(rc.Action),
		"client":         rc.ClientID,
		"kind":           string(kind),
	}
	switch kind {
	case KindValidation:
		env.Details = map[string]any{"issues": f.Issues}
		fields["issue_count"] = len(f.Issues)
	case KindRateLimited:
		env.Details = map[string]any{"retryAfterSeconds": f.RetryAfter}
		fields["retry_after_seconds"] = f.RetryAfter
	}
	if f.Err != nil {
		fields["error"] = f.Err.Error()
	}

	e.log(levelForKind(kind), "request rejected", fields)
	e.auditEmit(rc, string(kind), "")

	return &Reply{
		Status:     statusForKind(kind),
		Body:       env,
		RetryAfter: f.RetryAfter,
	}
}

// succeed shapes a success terminal: one info log entry, one audit event.
func (e *Engine) succeed(_ context.Context, rc RequestContext, status int, body any, msg, identifier string, extra Fields) *Reply {
	fields := Fields{
		"correlation_id": rc.CorrelationID,
		"action":         string(rc.Action),
		"client":         rc.ClientID,
	}
	for k, v := range extra {
		fields[k] = v
	}

	e.log(LevelInfo, msg, fields)
	e.auditEmit(rc, "success", identifier)

	return &Reply{Status: status, Body: body}
}
