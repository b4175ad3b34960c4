package authgate

import (
	"context"
	"sync"
	"testing"
)

type collectSink struct {
	mu     sync.Mutex
	events []AuditEvent
}

func (s *collectSink) Emit(_ context.Context, event AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *collectSink) all() []AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]AuditEvent(nil), s.events...)
}

func TestAuditDispatcherDeliversInOrder(t *testing.T) {
	sink := &collectSink{}
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 8, DropIfFull: true}, sink)

	for i := 0; i < 5; i++ {
		d.Emit(AuditEvent{Action: ActionLogin, Outcome: "success", CorrelationID: string(rune('a' + i))})
	}
	d.Close()

	events := sink.all()
	if len(events) != 5 {
		t.Fatalf("delivered %d events, want 5", len(events))
	}
	for i, e := range events {
		if e.CorrelationID != string(rune('a'+i)) {
			t.Fatalf("event %d out of order: %+v", i, e)
		}
	}
	if d.Dropped() != 0 {
		t.Fatalf("dropped = %d, want 0", d.Dropped())
	}
}

type blockingSink struct {
	started chan struct{}
	release chan struct{}
	inner   collectSink
}

func (s *blockingSink) Emit(ctx context.Context, event AuditEvent) {
	s.started <- struct{}{}
	<-s.release
	s.inner.Emit(ctx, event)
}

func TestAuditDispatcherDropsOnFullBuffer(t *testing.T) {
	sink := &blockingSink{
		started: make(chan struct{}, 8),
		release: make(chan struct{}),
	}
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	// First event: wait until the worker holds it inside Emit, so the
	// buffer is empty again.
	d.Emit(AuditEvent{CorrelationID: "first"})
	<-sink.started

	// Second fills the one-slot buffer, third has nowhere to go.
	d.Emit(AuditEvent{CorrelationID: "second"})
	d.Emit(AuditEvent{CorrelationID: "third"})

	if got := d.Dropped(); got != 1 {
		t.Fatalf("dropped = %d, want 1", got)
	}

	close(sink.release)
	d.Close()

	if got := len(sink.inner.all()); got != 2 {
		t.Fatalf("delivered %d events, want 2", got)
	}
}

func TestAuditDispatcherDisabledIsInert(t *testing.T) {
	d := newAuditDispatcher(AuditConfig{Enabled: false}, &collectSink{})
	if d != nil {
		t.Fatal("disabled config should yield no dispatcher")
	}
	// Nil dispatcher methods are safe no-ops.
	d.Emit(AuditEvent{})
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher reported drops")
	}
	d.Close()
}

func TestAuditDispatcherSurvivesPanickingSink(t *testing.T) {
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 4, DropIfFull: true}, panicSink{})
	d.Emit(AuditEvent{CorrelationID: "a"})
	d.Emit(AuditEvent{CorrelationID: "b"})
	d.Close()
}

type panicSink struct{}

func (panicSink) Emit(context.Context, AuditEvent) { panic("sink failure") }

func TestEngineEmitsAuditEvents(t *testing.T) {
	sink := &collectSink{}
	cfg := DefaultConfig()
	cfg.Audit.Enabled = true

	logger := &captureLogger{}
	engine, err := New().
		WithConfig(cfg).
		WithProvider(&stubProvider{}).
		WithLogger(logger).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithCorrelationID(context.Background(), "cid-audit")
	if reply := engine.Login(ctx, loginBody("demo@example.com", "demo-password")); reply.Status != 200 {
		t.Fatalf("login status = %d", reply.Status)
	}
	if reply := engine.Login(ctx, []byte(`{}`)); reply.Status != 422 {
		t.Fatalf("invalid login status = %d", reply.Status)
	}

	engine.Close()

	events := sink.all()
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Outcome != "success" || events[0].Identifier != "demo@example.com" {
		t.Fatalf("first event = %+v", events[0])
	}
	if events[1].Outcome != string(KindValidation) {
		t.Fatalf("second event = %+v", events[1])
	}
	for _, e := range events {
		if e.CorrelationID != "cid-audit" || e.Action != ActionLogin {
			t.Fatalf("event = %+v", e)
		}
		if e.Time.IsZero() {
			t.Fatal("event missing timestamp")
		}
	}
}
