package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iliyamo/vehicle-configurator/internal/model"
)

// ToRecord is the inverse of Normalize: it encodes a variant into the row
// shape the store persists.  Only the fields an editor controls are set.
func ToRecord(v *model.VehicleVariant) (*model.VehicleRecord, error) {
	if strings.TrimSpace(v.ID) == "" {
		return nil, fmt.Errorf("vehicle id required")
	}
	rec := &model.VehicleRecord{
		ID:           v.ID,
		CategoryID:   v.CategoryID,
		Name:         v.Name,
		BasePrice:    v.BasePrice,
		CoverImage:   v.CoverImage,
		Transmission: string(v.Transmission),
	}
	cols := []struct {
		name string
		dst  *[]byte
		src  any
	}{
		{"images", &rec.Images, v.Images},
		{"interior", &rec.Interior, v.Interior},
		{"colors", &rec.Colors, v.Colors},
		{"wheels", &rec.Wheels, v.Wheels},
		{"seat_types", &rec.SeatTypes, v.Seats},
		{"accessories", &rec.Accessories, v.Accessories},
	}
	for _, col := range cols {
		b, err := json.Marshal(col.src)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", col.name, err)
		}
		*col.dst = b
	}
	return rec, nil
}
