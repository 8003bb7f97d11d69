// Package events owns the event resource: the entity the access-control
// rules protect.
package events

import (
	"time"

	"github.com/eventosys/eventosys/internal/policy"
)

// Event is an institutional event.
type Event struct {
	ID            int64
	Title         string
	Description   string
	DepartmentID  int64 // 0 when the event has no department
	OwnerID       int64
	ResponsibleID int64
	IsPublic      bool
	StartsAt      time.Time
	EndsAt        time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Snapshot projects the event onto the fields policy decisions read.
func (e Event) Snapshot() policy.Resource {
	visibility := policy.VisibilityPrivate
	if e.IsPublic {
		visibility = policy.VisibilityPublic
	}
	return policy.Resource{
		ID:          e.ID,
		Department:  e.DepartmentID,
		OwnerID:     e.OwnerID,
		Responsible: e.ResponsibleID,
		Visibility:  visibility,
	}
}

// Department is an organizational unit events and principals belong to.
type Department struct {
	ID   int64
	Name string
}
