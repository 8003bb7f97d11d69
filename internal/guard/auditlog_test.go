package guard

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eventosys/eventosys/internal/audit"
	"github.com/eventosys/eventosys/internal/policy"
	"github.com/eventosys/eventosys/internal/shared"
)

type captureSink struct {
	records []audit.AccessRecord
}

func (s *captureSink) Record(_ context.Context, rec audit.AccessRecord) {
	s.records = append(s.records, rec)
}

func authenticatedRequest(method, path string) *http.Request {
	r := httptest.NewRequest(method, path, nil)
	r.RemoteAddr = "10.0.0.1:51234"
	r.Header.Set("User-Agent", "eventosys-test")
	principal := policy.Principal{ID: 7, Role: policy.RoleManager, Active: true}
	return r.WithContext(shared.ContextWithPrincipal(r.Context(), principal))
}

func TestAuditLoggerRecordsRequest(t *testing.T) {
	sink := &captureSink{}
	al := NewAuditLogger(sink, slog.Default())

	al.Intercept(httptest.NewRecorder(), authenticatedRequest(http.MethodPost, "/events/create/"), okHandler())

	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	rec := sink.records[0]
	if rec.UserID != 7 {
		t.Fatalf("user id = %d", rec.UserID)
	}
	if rec.Action != "create" || rec.Resource != "events" {
		t.Fatalf("classified as (%s, %s)", rec.Action, rec.Resource)
	}
	if rec.IPAddress != "10.0.0.1" {
		t.Fatalf("ip = %q", rec.IPAddress)
	}
	if rec.UserAgent != "eventosys-test" {
		t.Fatalf("user agent = %q", rec.UserAgent)
	}
	if !rec.Success {
		t.Fatalf("expected success outcome for 200")
	}
}

func TestAuditLoggerOutcomeFromStatus(t *testing.T) {
	cases := []struct {
		status  int
		success bool
	}{
		{http.StatusOK, true},
		{http.StatusSeeOther, true},
		{http.StatusForbidden, false},
		{http.StatusInternalServerError, false},
	}
	for _, tc := range cases {
		sink := &captureSink{}
		al := NewAuditLogger(sink, slog.Default())
		al.Intercept(httptest.NewRecorder(), authenticatedRequest(http.MethodGet, "/events/"), statusHandler(tc.status))
		if len(sink.records) != 1 {
			t.Fatalf("status %d: expected a record", tc.status)
		}
		if sink.records[0].Success != tc.success {
			t.Fatalf("status %d: success = %v, want %v", tc.status, sink.records[0].Success, tc.success)
		}
	}
}

func TestAuditLoggerSkipsAnonymous(t *testing.T) {
	sink := &captureSink{}
	al := NewAuditLogger(sink, slog.Default())

	r := httptest.NewRequest(http.MethodGet, "/events/", nil)
	al.Intercept(httptest.NewRecorder(), r, okHandler())

	if len(sink.records) != 0 {
		t.Fatalf("anonymous request recorded")
	}
}

func TestAuditLoggerExclusions(t *testing.T) {
	skipped := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/static/css/site.css"},
		{http.MethodGet, "/media/uploads/photo.jpg"},
		{http.MethodGet, "/favicon.ico"},
		{http.MethodGet, "/notifications/count/"},
		{http.MethodGet, "/admin/jsi18n/"},
	}
	sink := &captureSink{}
	al := NewAuditLogger(sink, slog.Default())

	for _, tc := range skipped {
		al.Intercept(httptest.NewRecorder(), authenticatedRequest(tc.method, tc.path), okHandler())
	}
	if len(sink.records) != 0 {
		t.Fatalf("excluded paths recorded: %+v", sink.records)
	}

	// A POST to a notification endpoint is not polling and is recorded.
	al.Intercept(httptest.NewRecorder(), authenticatedRequest(http.MethodPost, "/notifications/5/read/"), okHandler())
	if len(sink.records) != 1 {
		t.Fatalf("expected notification mutation to be recorded")
	}
}

func TestAuditLoggerCountsEachRequest(t *testing.T) {
	sink := &captureSink{}
	al := NewAuditLogger(sink, slog.Default())

	const n = 7
	for i := 0; i < n; i++ {
		al.Intercept(httptest.NewRecorder(), authenticatedRequest(http.MethodGet, "/events/"), okHandler())
	}
	if len(sink.records) != n {
		t.Fatalf("expected %d records, got %d", n, len(sink.records))
	}
}
