package dataset

import (
	"context"
	"sync/atomic"

	"github.com/kailas-cloud/cityscout/internal/domain"
	"github.com/kailas-cloud/cityscout/internal/domain/city"
)

// Provider holds the loaded table. The table itself is read-only; Set swaps it atomically.
type Provider struct {
	table atomic.Pointer[city.Table]
}

// NewProvider creates a provider, optionally preloaded.
func NewProvider(t *city.Table) *Provider {
	p := &Provider{}
	if t != nil {
		p.table.Store(t)
	}
	return p
}

// Table returns the current table or domain.ErrDatasetUnavailable.
func (p *Provider) Table(_ context.Context) (*city.Table, error) {
	t := p.table.Load()
	if t == nil || t.Len() == 0 {
		return nil, domain.ErrDatasetUnavailable
	}
	return t, nil
}

// Set replaces the current table.
func (p *Provider) Set(t *city.Table) { p.table.Store(t) }

// Ready reports whether a non-empty table is loaded.
func (p *Provider) Ready(ctx context.Context) error {
	_, err := p.Table(ctx)
	return err
}
