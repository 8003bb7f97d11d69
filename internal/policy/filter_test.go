package policy

import (
	"strings"
	"testing"
)

// resourceMatrix enumerates every combination of the fields a decision can
// depend on, relative to the given principal.
func resourceMatrix(p Principal) []Resource {
	departments := []int64{0, p.Department, p.Department + 1}
	owners := []int64{0, p.ID, p.ID + 1}
	responsibles := []int64{0, p.ID, p.ID + 1}
	visibilities := []Visibility{VisibilityPrivate, VisibilityPublic}

	var out []Resource
	id := int64(1)
	for _, d := range departments {
		for _, o := range owners {
			for _, rp := range responsibles {
				for _, v := range visibilities {
					out = append(out, Resource{ID: id, Department: d, OwnerID: o, Responsible: rp, Visibility: v})
					id++
				}
			}
		}
	}
	return out
}

func principalsUnderTest() []Principal {
	return []Principal{
		Anonymous(),
		{ID: 1, Role: RoleAdmin, Active: true},
		{ID: 2, Role: RoleManager, Department: 10, Active: true},
		{ID: 3, Role: RoleManager, Active: true},
		{ID: 4, Role: RoleViewer, Active: true},
		{ID: 5, Role: RoleViewer, Active: false},
		{ID: 6, Active: true},
	}
}

func TestFilterMatchesCanViewExtensionally(t *testing.T) {
	for _, p := range principalsUnderTest() {
		filter := AccessibleFilter(p)
		for _, r := range resourceMatrix(p) {
			if filter.Match(r) != CanView(p, r) {
				t.Fatalf("principal %+v resource %+v: Match=%v CanView=%v", p, r, filter.Match(r), CanView(p, r))
			}
		}
	}
}

func TestFilterApplyEqualsPerRowCheck(t *testing.T) {
	p := Principal{ID: 2, Role: RoleManager, Department: 10, Active: true}
	all := resourceMatrix(p)

	var want []Resource
	for _, r := range all {
		if CanView(p, r) {
			want = append(want, r)
		}
	}

	got := AccessibleFilter(p).Apply(all)
	if len(got) != len(want) {
		t.Fatalf("filtered %d resources, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i].ID != want[i].ID {
			t.Fatalf("row %d: got resource %d, want %d", i, got[i].ID, want[i].ID)
		}
	}
}

// evalWhere interprets the generated SQL condition against an in-memory
// resource so the clause builder can be checked against the predicate
// without a database.
func evalWhere(clause string, args []any, r Resource) bool {
	resolve := func(expr string) bool {
		expr = strings.TrimSpace(expr)
		switch {
		case expr == "TRUE":
			return true
		case expr == "is_public":
			return r.Visibility == VisibilityPublic
		case strings.HasPrefix(expr, "owner_id = "):
			return r.OwnerID == argAt(args, expr)
		case strings.HasPrefix(expr, "responsible_id = "):
			return r.Responsible == argAt(args, expr)
		case strings.HasPrefix(expr, "department_id = "):
			return r.Department == argAt(args, expr)
		}
		return false
	}

	clause = strings.TrimPrefix(strings.TrimSuffix(clause, ")"), "(")
	for _, part := range strings.Split(clause, " OR ") {
		if resolve(part) {
			return true
		}
	}
	return false
}

func argAt(args []any, expr string) int64 {
	idx := strings.LastIndex(expr, "$")
	if idx < 0 {
		return -1
	}
	n := int(expr[idx+1] - '0')
	if n < 1 || n > len(args) {
		return -1
	}
	v, _ := args[n-1].(int64)
	return v
}

func TestWhereClauseMatchesPredicate(t *testing.T) {
	for _, p := range principalsUnderTest() {
		filter := AccessibleFilter(p)
		clause, args := filter.Where(1)
		for _, r := range resourceMatrix(p) {
			if evalWhere(clause, args, r) != filter.Match(r) {
				t.Fatalf("principal %+v resource %+v: clause %q diverges from predicate", p, r, clause)
			}
		}
	}
}

func TestWhereArgNumbering(t *testing.T) {
	p := Principal{ID: 2, Role: RoleManager, Department: 10, Active: true}
	clause, args := AccessibleFilter(p).Where(3)
	if !strings.Contains(clause, "$3") || !strings.Contains(clause, "$4") {
		t.Fatalf("unexpected clause %q", clause)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
}
