package audit

import (
	"context"
	"fmt"

	"github.com/eventosys/eventosys/internal/shared"
)

// Windower is the read access the service needs.
type Windower interface {
	Window(ctx context.Context, filters QueryFilters, offset, limit int) ([]AccessRecord, error)
}

// Service coordinates audit listing with paging.
type Service struct {
	repo Windower
}

// NewService constructs a Service.
func NewService(repo Windower) *Service {
	return &Service{repo: repo}
}

// Query returns one page of access records, newest first. Page sizes are
// clamped to 1..100.
func (s *Service) Query(ctx context.Context, filters QueryFilters) (Result, error) {
	if s.repo == nil {
		return Result{}, fmt.Errorf("audit: repository not configured")
	}
	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	// Probe one row past the page to detect a next page without a count.
	records, err := s.repo.Window(ctx, filters, offset, pageSize+1)
	if err != nil {
		return Result{}, err
	}
	hasNext := len(records) > pageSize
	if hasNext {
		records = records[:pageSize]
	}
	return Result{
		Records: records,
		Paging:  shared.NewPagingInfo(page, pageSize, hasNext),
	}, nil
}
