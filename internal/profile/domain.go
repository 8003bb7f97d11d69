package profile

import "time"

// Profile is the stored role and department assignment for one account.
// Profiles are created once at provisioning and never hard-deleted.
type Profile struct {
	UserID     int64
	Role       string
	Department int64 // 0 when unassigned
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
