// Package explore filters the city table for the results page.
package explore

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cityscout/internal/domain/city"
	"github.com/kailas-cloud/cityscout/internal/domain/criteria"
	"github.com/kailas-cloud/cityscout/internal/logger"
)

// DefaultDisplayLimit is the number of cities shown on the results page.
const DefaultDisplayLimit = 10

// Page is a filtered slice of the table.
type Page struct {
	// Total counts every matching city before the limit.
	Total int
	Rows  []city.Row
}

// Service filters cities.
type Service struct{}

// New creates an explore service.
func New() *Service { return &Service{} }

// Filter returns the matching rows in table order.
func (s *Service) Filter(ctx context.Context, t *city.Table, c criteria.Criteria) *city.Table {
	if t == nil {
		return city.NewTable(nil)
	}
	out := t.Filter(c.Matcher(t))
	logger.FromContext(ctx).Debug("Cities filtered",
		zap.Int("total", t.Len()),
		zap.Int("matched", out.Len()),
	)
	return out
}

// List filters and returns at most limit rows; limit <= 0 uses DefaultDisplayLimit.
func (s *Service) List(ctx context.Context, t *city.Table, c criteria.Criteria, limit int) Page {
	if limit <= 0 {
		limit = DefaultDisplayLimit
	}
	matched := s.Filter(ctx, t, c)
	rows := matched.Rows()
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return Page{Total: matched.Len(), Rows: rows}
}
