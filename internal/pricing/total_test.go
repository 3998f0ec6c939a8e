package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/vehicle-configurator/internal/model"
	"github.com/iliyamo/vehicle-configurator/internal/selection"
)

func testVariant() *model.VehicleVariant {
	return &model.VehicleVariant{
		ID:        "v1",
		BasePrice: model.PriceOf("100000"),
		Colors: []model.ColorOption{
			{Name: "Red", PriceDelta: model.PriceOf(0)},
			{Name: "Blue", PriceDelta: model.PriceOf("R$ 500,00")},
		},
		Wheels: []model.WheelOption{
			{ID: "std", Name: "Std"},
			{ID: "sport", Name: "Sport", PriceDelta: model.PriceOf(2000)},
		},
		Seats: []model.SeatOption{
			{ID: "leather", Name: "Leather", PriceDelta: model.PriceOf("abc")},
		},
		Accessories: []model.AccessoryOption{
			{ID: "spoiler", Name: "Spoiler", PriceDelta: model.PriceOf(1500), Category: model.AccessoryExterior},
			{ID: "mats", Name: "Mats", PriceDelta: model.PriceOf(120), Category: model.AccessoryInterior},
		},
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeTotalDefaults(t *testing.T) {
	v := testVariant()
	s := selection.New()
	if err := s.Apply(v, selection.Reset()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	// Red(0) + Std(0) + Leather(unparseable -> 0)
	if got := ComputeTotal(v, s); !got.Equal(dec("100000")) {
		t.Fatalf("total: want=100000 got=%s", got)
	}
}

func TestComputeTotalNilVariant(t *testing.T) {
	if got := ComputeTotal(nil, selection.New()); !got.IsZero() {
		t.Fatalf("nil variant: want=0 got=%s", got)
	}
}

func TestAccessoryRoundTrip(t *testing.T) {
	v := testVariant()
	s := selection.New()
	_ = s.Apply(v, selection.Reset())
	before := ComputeTotal(v, s)

	for _, a := range v.Accessories {
		id := string(a.ID)
		if err := s.Apply(v, selection.ToggleAccessory(id)); err != nil {
			t.Fatalf("toggle %s: %v", id, err)
		}
		with := ComputeTotal(v, s)
		if !with.GreaterThan(before) {
			t.Fatalf("adding %s: want > %s got=%s", id, before, with)
		}
		_ = s.Apply(v, selection.ToggleAccessory(id))
		if after := ComputeTotal(v, s); !after.Equal(before) {
			t.Fatalf("removing %s: want=%s got=%s", id, before, after)
		}
	}
}

func TestItemize(t *testing.T) {
	v := testVariant()
	s := selection.New()
	_ = s.Apply(v, selection.Reset())
	_ = s.Apply(v, selection.SelectColor("Blue"))
	_ = s.Apply(v, selection.SelectWheel("sport"))
	_ = s.Apply(v, selection.ToggleAccessory("spoiler"))
	_ = s.Apply(v, selection.ToggleAccessory("mats"))

	q := Itemize(v, s)
	if !q.Total.Equal(dec("104120")) {
		t.Fatalf("total: want=104120 got=%s", q.Total)
	}
	sum := q.Base
	for _, l := range q.Lines {
		sum = sum.Add(l.Price)
	}
	if !sum.Equal(q.Total) {
		t.Fatalf("lines do not add up: sum=%s total=%s", sum, q.Total)
	}
	// color, wheel, seat, then accessories in id order
	kinds := []string{"color", "wheel", "seat", "accessory", "accessory"}
	if len(q.Lines) != len(kinds) {
		t.Fatalf("lines: want=%d got=%d", len(kinds), len(q.Lines))
	}
	for i, k := range kinds {
		if q.Lines[i].Kind != k {
			t.Fatalf("line %d kind: want=%s got=%s", i, k, q.Lines[i].Kind)
		}
	}
	if q.Lines[3].ID != "mats" || q.Lines[4].ID != "spoiler" {
		t.Fatalf("accessory order: got=%s,%s", q.Lines[3].ID, q.Lines[4].ID)
	}
}

func TestStandardSeatIsFree(t *testing.T) {
	v := testVariant()
	v.Seats[0].PriceDelta = model.PriceOf(900)
	s := selection.New()
	_ = s.Apply(v, selection.Reset())
	withSeat := ComputeTotal(v, s)
	_ = s.Apply(v, selection.StandardSeat())
	if got := ComputeTotal(v, s); !got.Equal(withSeat.Sub(dec("900"))) {
		t.Fatalf("standard seat: want=%s got=%s", withSeat.Sub(dec("900")), got)
	}
}
