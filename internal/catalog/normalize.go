package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/iliyamo/vehicle-configurator/internal/model"
)

// Normalize converts a stored row into a fully typed variant.  NULL or
// missing JSON columns become empty lists and maps, so nothing downstream
// has to tell nil from empty.  A column that is present but is not valid
// JSON is reported as an error naming the column; the row is still
// returned with that column treated as empty.
func Normalize(rec *model.VehicleRecord) (*model.VehicleVariant, error) {
	v := &model.VehicleVariant{
		ID:           rec.ID,
		CategoryID:   rec.CategoryID,
		Name:         rec.Name,
		BasePrice:    rec.BasePrice,
		CoverImage:   strings.TrimSpace(rec.CoverImage),
		Images:       map[model.View]string{},
		Transmission: ParseTransmission(rec.Transmission),
		Colors:       []model.ColorOption{},
		Wheels:       []model.WheelOption{},
		Seats:        []model.SeatOption{},
		Accessories:  []model.AccessoryOption{},
	}

	var bad []string
	decode := func(column string, raw []byte, dst any) {
		if len(raw) == 0 || string(raw) == "null" {
			return
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			bad = append(bad, column)
		}
	}

	var images map[model.View]string
	decode("images", rec.Images, &images)
	v.Images = cleanImages(images)

	decode("interior", rec.Interior, &v.Interior)

	var colors []model.ColorOption
	decode("colors", rec.Colors, &colors)
	for _, c := range colors {
		c.Images = cleanImages(c.Images)
		v.Colors = append(v.Colors, c)
	}

	var wheels []model.WheelOption
	decode("wheels", rec.Wheels, &wheels)
	for i, w := range wheels {
		w.ID = fallbackID(w.ID, w.Name, i)
		v.Wheels = append(v.Wheels, w)
	}

	var seats []model.SeatOption
	decode("seat_types", rec.SeatTypes, &seats)
	for i, s := range seats {
		s.ID = fallbackID(s.ID, s.Name, i)
		v.Seats = append(v.Seats, s)
	}

	var accessories []model.AccessoryOption
	decode("accessories", rec.Accessories, &accessories)
	for i, a := range accessories {
		a.ID = fallbackID(a.ID, a.Name, i)
		if a.Category != model.AccessoryInterior {
			a.Category = model.AccessoryExterior
		}
		v.Accessories = append(v.Accessories, a)
	}

	if len(bad) > 0 {
		return v, fmt.Errorf("vehicle %s: malformed columns %s", rec.ID, strings.Join(bad, ","))
	}
	return v, nil
}

// ParseTransmission maps the free-text column to a capability.  Empty and
// unknown values mean both, which keeps legacy rows visible under either
// filter.
func ParseTransmission(s string) model.Transmission {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "automatic", "auto", "at", "automatico", "automático":
		return model.TransmissionAutomatic
	case "manual", "mt":
		return model.TransmissionManual
	default:
		return model.TransmissionBoth
	}
}

func cleanImages(in map[model.View]string) map[model.View]string {
	out := make(map[model.View]string, len(in))
	for k, u := range in {
		if u = strings.TrimSpace(u); u != "" {
			out[k] = u
		}
	}
	return out
}

// fallbackID gives id-less legacy options a stable id: the name, or the
// list position when the name is blank too.
func fallbackID(id model.FlexID, name string, i int) model.FlexID {
	if id != "" {
		return id
	}
	if name = strings.TrimSpace(name); name != "" {
		return model.FlexID(name)
	}
	return model.FlexID(strconv.Itoa(i))
}
