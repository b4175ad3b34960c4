package authgate

import (
	"context"
	"time"
)

// AuditEvent records one terminal pipeline outcome for the audit trail.
// Identifier is the account email when the flow knows it; secrets never
// appear here.
type AuditEvent struct {
	Time          time.Time
	Action        Action
	Outcome       string
	CorrelationID string
	ClientID      string
	Identifier    string
}

// AuditSink receives audit events from the dispatcher. Emit runs on the
// dispatcher goroutine and should return quickly; slow sinks cause drops
// when DropIfFull is set, backpressure otherwise.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

// NoOpSink discards every event.
type NoOpSink struct{}

// Emit implements AuditSink.
func (NoOpSink) Emit(context.Context, AuditEvent) {}

// AuditConfig tunes the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}
