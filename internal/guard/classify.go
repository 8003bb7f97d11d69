package guard

import (
	"net/http"
	"strings"
)

// pathRule maps a path fragment to an audit label. Rules are evaluated in
// order and the first match wins, so more specific fragments must come
// before broader ones.
type pathRule struct {
	fragment string
	label    string
}

// actionRules orders authentication endpoints first, then explicit
// mutations, then named read views, so "/events/create/" classifies as
// create even though "event" also names a resource.
var actionRules = []pathRule{
	{"logout", "logout"},
	{"login", "login"},
	{"create", "create"},
	{"add", "create"},
	{"edit", "edit"},
	{"update", "edit"},
	{"delete", "delete"},
	{"export", "export"},
	{"download", "export"},
	{"dashboard", "view_dashboard"},
	{"calendar", "view_calendar"},
	{"reports", "view_reports"},
}

// resourceRules orders the concrete business entities before the broad
// navigation labels; "admin" comes last so paths like "/admin/users/"
// classify as a users resource.
var resourceRules = []pathRule{
	{"event", "events"},
	{"user", "users"},
	{"account", "users"},
	{"notification", "notifications"},
	{"report", "reports"},
	{"dashboard", "dashboard"},
	{"calendar", "calendar"},
	{"admin", "admin"},
}

// Classify derives the audit (action, resource) labels from the request
// method and path. Unmatched paths fall back to a method-derived action
// and the "general" resource.
func Classify(method, path string) (action, resource string) {
	action = classifyAction(method, path)
	resource = classifyResource(path)
	return action, resource
}

func classifyAction(method, path string) string {
	for _, rule := range actionRules {
		if strings.Contains(path, rule.fragment) {
			return rule.label
		}
	}
	switch method {
	case http.MethodPost:
		return "submit"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "view"
	}
}

func classifyResource(path string) string {
	for _, rule := range resourceRules {
		if strings.Contains(path, rule.fragment) {
			return rule.label
		}
	}
	return "general"
}
