package profile

import (
	"context"
	"errors"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/eventosys/eventosys/internal/policy"
	"github.com/eventosys/eventosys/internal/shared"
)

// Store abstracts the persistence the service needs.
type Store interface {
	Provision(ctx context.Context, userID int64, role string, departmentID int64) (Profile, error)
	Get(ctx context.Context, userID int64) (Profile, error)
	SetRole(ctx context.Context, userID int64, role string) error
	SetDepartment(ctx context.Context, userID int64, departmentID int64) error
	Snapshot(ctx context.Context, userID int64) (policy.Principal, error)
}

// Service wraps profile business rules.
type Service struct {
	store Store
	group singleflight.Group
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Provision creates the profile for a new account. Re-provisioning an
// existing account returns the stored profile unchanged.
func (s *Service) Provision(ctx context.Context, userID int64, role string, departmentID int64) (Profile, error) {
	if policy.ParseRole(role) == policy.RoleNone {
		role = policy.RoleViewer.String()
	}
	return s.store.Provision(ctx, userID, role, departmentID)
}

// ChangeRole updates another account's role. Only principals holding
// ManageUsers may do this.
func (s *Service) ChangeRole(ctx context.Context, actor policy.Principal, userID int64, role string) error {
	if !policy.CanPerform(actor, policy.ManageUsers) {
		return shared.ErrForbidden
	}
	if policy.ParseRole(role) == policy.RoleNone {
		return errors.New("profile: unknown role " + role)
	}
	return s.store.SetRole(ctx, userID, role)
}

// AssignDepartment updates another account's department. ManageUsers only.
func (s *Service) AssignDepartment(ctx context.Context, actor policy.Principal, userID int64, departmentID int64) error {
	if !policy.CanPerform(actor, policy.ManageUsers) {
		return shared.ErrForbidden
	}
	return s.store.SetDepartment(ctx, userID, departmentID)
}

// Snapshot resolves the principal snapshot for an account. Concurrent
// requests for the same account share one store round trip.
func (s *Service) Snapshot(ctx context.Context, userID int64) (policy.Principal, error) {
	key := strconv.FormatInt(userID, 10)
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.store.Snapshot(ctx, userID)
	})
	if err != nil {
		return policy.Principal{}, err
	}
	return v.(policy.Principal), nil
}
