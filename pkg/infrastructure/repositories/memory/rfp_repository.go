package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/bidengine/pkg/domain/entities"
	"github.com/vsinha/bidengine/pkg/domain/repositories"
)

// RFPRepository provides in-memory RFP storage. Records are cloned on the
// way in and out so callers never share state with the store.
type RFPRepository struct {
	mu      sync.Mutex
	rfps    []*entities.RFP
	rfpsMap map[string]int
}

// NewRFPRepository creates a new in-memory RFP repository
func NewRFPRepository() *RFPRepository {
	return &RFPRepository{
		rfpsMap: make(map[string]int),
	}
}

// Verify interface compliance
var _ repositories.RFPRepository = (*RFPRepository)(nil)

// LoadRFPs loads RFPs into the repository
func (r *RFPRepository) LoadRFPs(rfps []*entities.RFP) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rfp := range rfps {
		if rfp.ID == "" {
			return fmt.Errorf("rfp id cannot be empty")
		}
		r.put(rfp.Clone())
	}
	return nil
}

// GetRFP returns a copy of one RFP
func (r *RFPRepository) GetRFP(_ context.Context, id string) (*entities.RFP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	index, exists := r.rfpsMap[id]
	if !exists {
		return nil, fmt.Errorf("rfp %s: %w", id, repositories.ErrNotFound)
	}
	return r.rfps[index].Clone(), nil
}

// ListRFPs returns copies of all RFPs in insertion order
func (r *RFPRepository) ListRFPs(_ context.Context) ([]*entities.RFP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snapshot(), nil
}

// SaveRFP inserts or replaces an RFP
func (r *RFPRepository) SaveRFP(_ context.Context, rfp *entities.RFP) error {
	if rfp == nil || rfp.ID == "" {
		return fmt.Errorf("rfp id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.put(rfp.Clone())
	return nil
}

// UpdateRFP applies fn to a copy of one RFP and stores it if fn succeeds
func (r *RFPRepository) UpdateRFP(_ context.Context, id string, fn func(rfp *entities.RFP) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	index, exists := r.rfpsMap[id]
	if !exists {
		return fmt.Errorf("rfp %s: %w", id, repositories.ErrNotFound)
	}

	working := r.rfps[index].Clone()
	if err := fn(working); err != nil {
		return err
	}
	if working.ID != id {
		return fmt.Errorf("rfp id cannot change during update: %s -> %s", id, working.ID)
	}
	r.rfps[index] = working
	return nil
}

// UpdateAll applies fn to a copy of the whole collection and swaps it in if fn succeeds
func (r *RFPRepository) UpdateAll(_ context.Context, fn func(rfps []*entities.RFP) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	working := r.snapshot()
	if err := fn(working); err != nil {
		return err
	}

	rfps := make([]*entities.RFP, 0, len(working))
	rfpsMap := make(map[string]int, len(working))
	for _, rfp := range working {
		if rfp == nil || rfp.ID == "" {
			return fmt.Errorf("rfp id cannot be empty")
		}
		if idx, dup := rfpsMap[rfp.ID]; dup {
			rfps[idx] = rfp
			continue
		}
		rfpsMap[rfp.ID] = len(rfps)
		rfps = append(rfps, rfp)
	}
	r.rfps = rfps
	r.rfpsMap = rfpsMap
	return nil
}

func (r *RFPRepository) put(rfp *entities.RFP) {
	if index, exists := r.rfpsMap[rfp.ID]; exists {
		r.rfps[index] = rfp
		return
	}
	r.rfpsMap[rfp.ID] = len(r.rfps)
	r.rfps = append(r.rfps, rfp)
}

func (r *RFPRepository) snapshot() []*entities.RFP {
	rfps := make([]*entities.RFP, len(r.rfps))
	for i, rfp := range r.rfps {
		rfps[i] = rfp.Clone()
	}
	return rfps
}
