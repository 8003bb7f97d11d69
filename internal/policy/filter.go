package policy

import (
	"fmt"
	"strings"
)

// filterKind selects the shape of the visibility filter.
type filterKind uint8

const (
	filterPublicOnly filterKind = iota
	filterScoped
	filterAll
)

// Filter is a set-membership predicate equivalent to CanView for a fixed
// principal. It exists so listings can be filtered in bulk (including at
// the SQL level) without evaluating CanView row by row; Match and Where
// must stay extensionally equal to CanView.
type Filter struct {
	kind        filterKind
	principalID int64
	department  int64
}

// AccessibleFilter captures the principal's visibility rule.
func AccessibleFilter(p Principal) Filter {
	switch p.effective() {
	case RoleAdmin:
		return Filter{kind: filterAll}
	case RoleManager:
		return Filter{kind: filterScoped, principalID: p.ID, department: p.Department}
	case RoleViewer:
		return Filter{kind: filterScoped, principalID: p.ID}
	default:
		return Filter{kind: filterPublicOnly}
	}
}

// Match reports whether the resource is visible to the filter's principal.
func (f Filter) Match(r Resource) bool {
	switch f.kind {
	case filterAll:
		return true
	case filterScoped:
		if f.department != 0 && r.Department == f.department {
			return true
		}
		return r.Visibility == VisibilityPublic || r.OwnerID == f.principalID || r.Responsible == f.principalID
	default:
		return r.Visibility == VisibilityPublic
	}
}

// Apply filters a resource slice in place of repeated CanView calls.
func (f Filter) Apply(resources []Resource) []Resource {
	out := make([]Resource, 0, len(resources))
	for _, r := range resources {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Where renders the filter as a SQL condition over the standard resource
// columns (is_public, owner_id, responsible_id, department_id), numbering
// placeholders from argIndex. Callers append the returned args to their
// query arguments.
func (f Filter) Where(argIndex int) (string, []any) {
	switch f.kind {
	case filterAll:
		return "TRUE", nil
	case filterScoped:
		clauses := []string{
			"is_public",
			fmt.Sprintf("owner_id = $%d", argIndex),
			fmt.Sprintf("responsible_id = $%d", argIndex),
		}
		args := []any{f.principalID}
		if f.department != 0 {
			clauses = append(clauses, fmt.Sprintf("department_id = $%d", argIndex+1))
			args = append(args, f.department)
		}
		return "(" + strings.Join(clauses, " OR ") + ")", args
	default:
		return "is_public", nil
	}
}
