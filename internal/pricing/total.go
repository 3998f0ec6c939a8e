package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/iliyamo/vehicle-configurator/internal/model"
	"github.com/iliyamo/vehicle-configurator/internal/selection"
)

// Line is one priced item of a quote.
type Line struct {
	Kind  string          `json:"kind"`
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Quote itemizes a configuration.  Total is always the sum of Base and
// every line.
type Quote struct {
	Base  decimal.Decimal `json:"base"`
	Lines []Line          `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// ComputeTotal returns the price of variant v with selection s.
func ComputeTotal(v *model.VehicleVariant, s *selection.State) decimal.Decimal {
	return Itemize(v, s).Total
}

// Itemize prices the base vehicle and every selected option.  Accessory
// ids that the variant does not offer contribute nothing.
func Itemize(v *model.VehicleVariant, s *selection.State) Quote {
	q := Quote{Lines: []Line{}}
	if v == nil {
		q.Base, q.Total = decimal.Zero, decimal.Zero
		return q
	}
	q.Base = Coerce(v.BasePrice)
	total := q.Base

	add := func(l Line) {
		q.Lines = append(q.Lines, l)
		total = total.Add(l.Price)
	}
	if s != nil {
		if c := s.Color; c != nil {
			add(Line{Kind: "color", Name: c.Name, Price: Coerce(c.PriceDelta)})
		}
		if w := s.Wheel; w != nil {
			add(Line{Kind: "wheel", ID: string(w.ID), Name: w.Name, Price: Coerce(w.PriceDelta)})
		}
		if st := s.Seat; st != nil {
			add(Line{Kind: "seat", ID: string(st.ID), Name: st.Name, Price: Coerce(st.PriceDelta)})
		}
		for _, id := range s.AccessoryIDs() {
			a, ok := v.Accessory(id)
			if !ok {
				continue
			}
			add(Line{Kind: "accessory", ID: id, Name: a.Name, Price: Coerce(a.PriceDelta)})
		}
	}
	q.Total = total
	return q
}
