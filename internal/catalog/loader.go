// Package catalog loads a vehicle variant together with its siblings and
// turns stored rows into typed variants.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/vehicle-configurator/internal/logger"
	"github.com/iliyamo/vehicle-configurator/internal/model"
	"github.com/iliyamo/vehicle-configurator/internal/repository"
)

// ErrNotFound means the requested vehicle does not exist.  It is terminal
// for the navigation that asked for it.
var ErrNotFound = errors.New("vehicle not available")

// Store is the read side of the vehicle row store.  Implementations return
// repository.ErrVehicleNotFound when nothing matches.
type Store interface {
	ReadOne(ctx context.Context, id string) (*model.VehicleRecord, error)
	ReadFirst(ctx context.Context) (*model.VehicleRecord, error)
	ReadMany(ctx context.Context, categoryID, excludeID string) ([]*model.VehicleRecord, error)
}

// Result is a loaded variant plus the other variants of its category.
type Result struct {
	Variant  *model.VehicleVariant
	Siblings []*model.VehicleVariant
}

// Loader fetches and normalizes variants.
type Loader struct {
	store Store
	log   *logger.Logger
}

func NewLoader(store Store, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{store: store, log: log.With("component", "catalog.Loader")}
}

// Load fetches the variant with the given id, or the default variant when
// id is empty, then its siblings.  A missing vehicle yields ErrNotFound;
// other storage errors are returned wrapped.  Siblings are best effort: a
// failing sibling query leaves the list empty.
func (l *Loader) Load(ctx context.Context, id string) (*Result, error) {
	var (
		rec *model.VehicleRecord
		err error
	)
	if id == "" {
		rec, err = l.store.ReadFirst(ctx)
	} else {
		rec, err = l.store.ReadOne(ctx, id)
	}
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load vehicle %q: %w", id, err)
	}

	variant := l.normalize(rec)
	res := &Result{Variant: variant, Siblings: []*model.VehicleVariant{}}

	recs, err := l.store.ReadMany(ctx, variant.CategoryID, variant.ID)
	if err != nil {
		l.log.Warn("sibling query failed", "vehicle_id", variant.ID, "category_id", variant.CategoryID, "error", err)
		return res, nil
	}
	for _, r := range recs {
		if r.ID == variant.ID {
			continue
		}
		res.Siblings = append(res.Siblings, l.normalize(r))
	}
	return res, nil
}

func (l *Loader) normalize(rec *model.VehicleRecord) *model.VehicleVariant {
	v, err := Normalize(rec)
	if err != nil {
		l.log.Warn("vehicle row partially unreadable", "vehicle_id", rec.ID, "error", err)
	}
	return v
}
