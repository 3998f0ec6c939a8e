package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/iliyamo/vehicle-configurator/internal/model"
	"github.com/iliyamo/vehicle-configurator/internal/repository"
)

// MemoryStore is an in-process Store.  The first record put is the
// default returned by ReadFirst.
type MemoryStore struct {
	mu    sync.RWMutex
	order []string
	rows  map[string]*model.VehicleRecord
}

func NewMemoryStore(recs ...*model.VehicleRecord) *MemoryStore {
	s := &MemoryStore{rows: map[string]*model.VehicleRecord{}}
	for _, r := range recs {
		s.Put(r)
	}
	return s
}

// Put inserts or replaces a record.
func (s *MemoryStore) Put(r *model.VehicleRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	cp := *r
	s.rows[r.ID] = &cp
}

func (s *MemoryStore) ReadOne(_ context.Context, id string) (*model.VehicleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrVehicleNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *MemoryStore) ReadFirst(_ context.Context) (*model.VehicleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.order) == 0 {
		return nil, repository.ErrVehicleNotFound
	}
	cp := *s.rows[s.order[0]]
	return &cp, nil
}

func (s *MemoryStore) ReadMany(_ context.Context, categoryID, excludeID string) ([]*model.VehicleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*model.VehicleRecord{}
	for _, id := range s.order {
		r := s.rows[id]
		if r.CategoryID != categoryID || r.ID == excludeID {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
