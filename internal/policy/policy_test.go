package policy

import "testing"

var allActions = []Action{
	CreateResource,
	EditAllResources,
	ViewAllResources,
	ViewReports,
	ManageUsers,
	ManageDepartments,
}

func TestCanPerformByRole(t *testing.T) {
	admin := Principal{ID: 1, Role: RoleAdmin, Active: true}
	manager := Principal{ID: 2, Role: RoleManager, Department: 10, Active: true}
	viewer := Principal{ID: 3, Role: RoleViewer, Active: true}

	for _, action := range allActions {
		if !CanPerform(admin, action) {
			t.Fatalf("admin denied action %d", action)
		}
		if CanPerform(viewer, action) {
			t.Fatalf("viewer granted action %d", action)
		}
		if CanPerform(Anonymous(), action) {
			t.Fatalf("anonymous granted action %d", action)
		}
	}

	managerAllowed := map[Action]bool{
		CreateResource:   true,
		ViewAllResources: true,
		ViewReports:      true,
	}
	for _, action := range allActions {
		if got := CanPerform(manager, action); got != managerAllowed[action] {
			t.Fatalf("manager action %d: got %v, want %v", action, got, managerAllowed[action])
		}
	}
}

func TestInactivePrincipalDeniedEverything(t *testing.T) {
	inactive := Principal{ID: 4, Role: RoleAdmin, Active: false}
	for _, action := range allActions {
		if CanPerform(inactive, action) {
			t.Fatalf("inactive principal granted action %d", action)
		}
	}
	private := Resource{ID: 1, OwnerID: 4}
	if CanEdit(inactive, private) {
		t.Fatalf("inactive principal may edit")
	}
	if CanView(inactive, private) {
		t.Fatalf("inactive principal may view private resource")
	}
	if !CanView(inactive, Resource{ID: 2, Visibility: VisibilityPublic}) {
		t.Fatalf("inactive principal should still see public resources")
	}
}

func TestAdminUniversality(t *testing.T) {
	admin := Principal{ID: 1, Role: RoleAdmin, Active: true}
	malformed := []Resource{
		{},
		{ID: -1, Department: -5},
		{ID: 7, OwnerID: 99, Responsible: 98, Department: 42},
	}
	for _, r := range malformed {
		if !CanEdit(admin, r) {
			t.Fatalf("admin denied edit on %+v", r)
		}
		if !CanView(admin, r) {
			t.Fatalf("admin denied view on %+v", r)
		}
	}
}

func TestManagerDepartmentScoping(t *testing.T) {
	finance := int64(10)
	hr := int64(20)
	m := Principal{ID: 5, Role: RoleManager, Department: finance, Active: true}

	foreign := Resource{ID: 1, Department: hr, OwnerID: 99, Responsible: 98}
	if CanView(m, foreign) {
		t.Fatalf("manager sees private resource of another department")
	}
	if CanEdit(m, foreign) {
		t.Fatalf("manager edits resource of another department")
	}

	own := Resource{ID: 2, Department: finance, OwnerID: 99, Responsible: 98}
	if !CanView(m, own) {
		t.Fatalf("manager blind to own department")
	}
	if !CanEdit(m, own) {
		t.Fatalf("manager cannot edit own department")
	}
}

func TestManagerWithoutDepartment(t *testing.T) {
	m := Principal{ID: 5, Role: RoleManager, Active: true}
	// Resource department 0 must not match the manager's null department.
	r := Resource{ID: 1, OwnerID: 99, Responsible: 98}
	if CanView(m, r) {
		t.Fatalf("null departments must never match each other")
	}
	if !CanView(m, Resource{ID: 2, OwnerID: m.ID}) {
		t.Fatalf("owner clause should still apply")
	}
	if !CanView(m, Resource{ID: 3, Responsible: m.ID}) {
		t.Fatalf("responsible clause should still apply")
	}
}

func TestViewerEditScope(t *testing.T) {
	v := Principal{ID: 6, Role: RoleViewer, Active: true}
	if !CanEdit(v, Resource{ID: 1, OwnerID: v.ID}) {
		t.Fatalf("viewer cannot edit own resource")
	}
	if CanEdit(v, Resource{ID: 2, OwnerID: 7, Responsible: v.ID}) {
		t.Fatalf("viewer may not edit resource it is only responsible for")
	}
	if CanEdit(v, Resource{ID: 3, OwnerID: 7}) {
		t.Fatalf("viewer may not edit foreign resource")
	}
}

func TestAnonymousView(t *testing.T) {
	if !CanView(Anonymous(), Resource{ID: 1, Visibility: VisibilityPublic}) {
		t.Fatalf("anonymous denied public resource")
	}
	if CanView(Anonymous(), Resource{ID: 2}) {
		t.Fatalf("anonymous granted private resource")
	}
}

func TestMissingProfileFailsClosed(t *testing.T) {
	// Authenticated account whose profile row is gone: RoleNone.
	p := Principal{ID: 9, Active: true}
	for _, action := range allActions {
		if CanPerform(p, action) {
			t.Fatalf("roleless principal granted action %d", action)
		}
	}
	if CanEdit(p, Resource{ID: 1, OwnerID: 9}) {
		t.Fatalf("roleless principal may edit")
	}
	if !CanView(p, Resource{ID: 2, Visibility: VisibilityPublic}) {
		t.Fatalf("roleless principal should see public resources")
	}
}

func TestParseRoleUnknownIsNone(t *testing.T) {
	for _, name := range []string{"", "root", "ADMIN", "superuser"} {
		if ParseRole(name) != RoleNone {
			t.Fatalf("role %q did not fail closed", name)
		}
	}
	if ParseRole("admin") != RoleAdmin || ParseRole("manager") != RoleManager || ParseRole("viewer") != RoleViewer {
		t.Fatalf("known roles misparsed")
	}
}
