// Package audit persists the append-only access log and serves its
// read-side queries. Records are never mutated or deleted here.
package audit

import (
	"time"

	"github.com/eventosys/eventosys/internal/shared"
)

// AccessRecord is one guarded request, as stored in access_logs.
type AccessRecord struct {
	ID        int64
	UserID    int64 // 0 for anonymous
	Action    string
	Resource  string
	IPAddress string
	UserAgent string
	Success   bool
	CreatedAt time.Time
}

// QueryFilters narrows an audit listing. Zero values mean "no filter".
type QueryFilters struct {
	From     time.Time
	To       time.Time
	UserID   int64
	Action   string
	Success  *bool
	Page     int
	PageSize int
}

// Result bundles one page of records with paging metadata. Records are
// ordered newest-first.
type Result struct {
	Records []AccessRecord
	Paging  shared.PagingInfo
}
