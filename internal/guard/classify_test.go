package guard

import (
	"net/http"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		method       string
		path         string
		wantAction   string
		wantResource string
	}{
		{http.MethodPost, "/accounts/login/", "login", "users"},
		{http.MethodGet, "/accounts/logout/", "logout", "users"},
		{http.MethodPost, "/events/create/", "create", "events"},
		{http.MethodPost, "/events/5/edit/", "edit", "events"},
		{http.MethodPost, "/events/5/delete/", "delete", "events"},
		{http.MethodGet, "/reports/export/", "export", "reports"},
		{http.MethodGet, "/dashboard/", "view_dashboard", "dashboard"},
		{http.MethodGet, "/calendar/", "view_calendar", "calendar"},
		{http.MethodGet, "/reports/", "view_reports", "reports"},
		{http.MethodGet, "/events/5/", "view", "events"},
		{http.MethodGet, "/admin/users/", "view", "users"},
		{http.MethodPost, "/something/", "submit", "general"},
		{http.MethodPut, "/api/things/3", "update", "general"},
		{http.MethodDelete, "/api/things/3", "delete", "general"},
		{http.MethodGet, "/", "view", "general"},
	}

	for _, tc := range cases {
		action, resource := Classify(tc.method, tc.path)
		if action != tc.wantAction || resource != tc.wantResource {
			t.Fatalf("%s %s: got (%s, %s), want (%s, %s)",
				tc.method, tc.path, action, resource, tc.wantAction, tc.wantResource)
		}
	}
}

func TestClassifyDeterministicPrecedence(t *testing.T) {
	// A path matching both a mutation fragment and a view fragment must
	// always classify as the mutation, regardless of call order.
	for i := 0; i < 10; i++ {
		action, resource := Classify(http.MethodPost, "/reports/event_report/create/")
		if action != "create" {
			t.Fatalf("expected create, got %s", action)
		}
		if resource != "events" {
			t.Fatalf("expected events, got %s", resource)
		}
	}
}
