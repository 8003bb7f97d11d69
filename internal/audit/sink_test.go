package audit

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

type stubExecer struct {
	err     error
	delay   time.Duration
	calls   int
	lastSQL string
	lastArg []any
}

func (s *stubExecer) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.calls++
	s.lastSQL = sql
	s.lastArg = args
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return pgconn.CommandTag{}, ctx.Err()
		}
	}
	return pgconn.CommandTag{}, s.err
}

func TestSinkRecordWritesRow(t *testing.T) {
	db := &stubExecer{}
	sink := NewSink(db, slog.Default(), 0)

	sink.Record(context.Background(), AccessRecord{
		UserID:    7,
		Action:    "view",
		Resource:  "events",
		IPAddress: "10.0.0.1",
		UserAgent: "test",
		Success:   true,
	})

	if db.calls != 1 {
		t.Fatalf("expected 1 exec, got %d", db.calls)
	}
	if len(db.lastArg) != 7 {
		t.Fatalf("expected 7 args, got %d", len(db.lastArg))
	}
	if db.lastArg[0].(int64) != 7 {
		t.Fatalf("expected user id 7, got %v", db.lastArg[0])
	}
}

func TestSinkSwallowsStorageFailure(t *testing.T) {
	db := &stubExecer{err: errors.New("connection refused")}
	sink := NewSink(db, slog.Default(), 0)

	// Must not panic or propagate anything.
	sink.Record(context.Background(), AccessRecord{Action: "view", Resource: "events"})
	if db.calls != 1 {
		t.Fatalf("expected exec attempt, got %d", db.calls)
	}
}

func TestSinkBoundedTimeout(t *testing.T) {
	db := &stubExecer{delay: time.Second}
	sink := NewSink(db, slog.Default(), 20*time.Millisecond)

	start := time.Now()
	sink.Record(context.Background(), AccessRecord{Action: "view", Resource: "events"})
	elapsed := time.Since(start)

	if elapsed > 500*time.Millisecond {
		t.Fatalf("record blocked for %v, want bounded timeout", elapsed)
	}
}

func TestSinkIgnoresCanceledRequestContext(t *testing.T) {
	db := &stubExecer{delay: 10 * time.Millisecond}
	sink := NewSink(db, slog.Default(), 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A disconnected client must not prevent the append attempt; the sink
	// detaches from the request context before writing.
	sink.Record(ctx, AccessRecord{Action: "view", Resource: "events"})
	if db.calls != 1 {
		t.Fatalf("expected exec attempt despite canceled request context")
	}
	if db.err != nil {
		t.Fatalf("unexpected stub error: %v", db.err)
	}
}
