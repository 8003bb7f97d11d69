package events

import (
	"context"
	"fmt"

	"github.com/eventosys/eventosys/internal/policy"
	"github.com/eventosys/eventosys/internal/shared"
)

// Store is the persistence surface the service needs.
type Store interface {
	Get(ctx context.Context, id int64) (*Event, error)
	ListAccessible(ctx context.Context, filter policy.Filter, limit, offset int) ([]Event, error)
	Create(ctx context.Context, e *Event) (int64, error)
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id int64) error
	ListDepartments(ctx context.Context) ([]Department, error)
	CreateDepartment(ctx context.Context, name string) (int64, error)
}

// Service enforces the access rules in front of event persistence. Every
// operation checks the caller's permission before touching the store;
// denials are data, not panics.
type Service struct {
	store Store
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get returns the event when the principal may view it. A denied view is
// indistinguishable from a missing event.
func (s *Service) Get(ctx context.Context, p policy.Principal, id int64) (*Event, error) {
	event, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(p, event.Snapshot()) {
		return nil, shared.ErrNotFound
	}
	return event, nil
}

// List returns one page of events visible to the principal.
func (s *Service) List(ctx context.Context, p policy.Principal, page, pageSize int) ([]Event, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	if page <= 0 {
		page = 1
	}
	return s.store.ListAccessible(ctx, policy.AccessibleFilter(p), pageSize, (page-1)*pageSize)
}

// Create stores a new event owned by the principal.
func (s *Service) Create(ctx context.Context, p policy.Principal, event Event) (int64, error) {
	if !policy.CanPerform(p, policy.CreateResource) {
		return 0, shared.ErrForbidden
	}
	if event.Title == "" {
		return 0, fmt.Errorf("events: title required")
	}
	event.OwnerID = p.ID
	if event.ResponsibleID == 0 {
		event.ResponsibleID = p.ID
	}
	return s.store.Create(ctx, &event)
}

// Update applies changes when the principal may edit the event. Owner
// and id are never reassigned.
func (s *Service) Update(ctx context.Context, p policy.Principal, event Event) error {
	current, err := s.store.Get(ctx, event.ID)
	if err != nil {
		return err
	}
	if !policy.CanEdit(p, current.Snapshot()) {
		return shared.ErrForbidden
	}
	event.OwnerID = current.OwnerID
	return s.store.Update(ctx, &event)
}

// Delete removes the event when the principal may edit it.
func (s *Service) Delete(ctx context.Context, p policy.Principal, id int64) error {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanEdit(p, current.Snapshot()) {
		return shared.ErrForbidden
	}
	return s.store.Delete(ctx, id)
}

// Departments lists all departments; visible to any authenticated role.
func (s *Service) Departments(ctx context.Context) ([]Department, error) {
	return s.store.ListDepartments(ctx)
}

// CreateDepartment adds a department, Admin only.
func (s *Service) CreateDepartment(ctx context.Context, p policy.Principal, name string) (int64, error) {
	if !policy.CanPerform(p, policy.ManageDepartments) {
		return 0, shared.ErrForbidden
	}
	if name == "" {
		return 0, fmt.Errorf("events: department name required")
	}
	return s.store.CreateDepartment(ctx, name)
}
