package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/procureflow/procureflow/internal/stages"
)

type mockAdapter struct {
	mu      sync.Mutex
	sent    []Message
	sendErr error
}

func (m *mockAdapter) Connect(ctx context.Context) error { return nil }

func (m *mockAdapter) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mockAdapter) Close() error { return nil }

func TestScheduler_Fire(t *testing.T) {
	db := testDB(t)
	seedOrder(t, db, stages.InitialBlob())

	adapter := &mockAdapter{}
	s, err := NewScheduler(db, adapter, "0 8 * * *")
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	if err := s.fire(context.Background()); err != nil {
		t.Fatalf("fire: %v", err)
	}
	if len(adapter.sent) != 1 {
		t.Fatalf("sent = %d messages, want 1", len(adapter.sent))
	}
	if adapter.sent[0].Title != "Production Status Digest" {
		t.Errorf("Title = %q", adapter.sent[0].Title)
	}
}

func TestScheduler_FireSuppressed(t *testing.T) {
	adapter := &mockAdapter{}
	s, err := NewScheduler(testDB(t), adapter, "0 8 * * *")
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	if err := s.fire(context.Background()); err != nil {
		t.Fatalf("fire: %v", err)
	}
	if len(adapter.sent) != 0 {
		t.Errorf("sent = %d messages, want 0 when nothing to report", len(adapter.sent))
	}
}

func TestScheduler_FireSendError(t *testing.T) {
	db := testDB(t)
	seedOrder(t, db, stages.InitialBlob())

	adapter := &mockAdapter{sendErr: errors.New("boom")}
	s, err := NewScheduler(db, adapter, "0 8 * * *")
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	if err := s.fire(context.Background()); err == nil {
		t.Fatal("expected send error")
	}
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	s, err := NewScheduler(testDB(t), &mockAdapter{}, "0 8 * * *")
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
