package pricing

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/vehicle-configurator/internal/model"
)

func TestCoerce(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "0"},
		{"int", 42, "42"},
		{"numeric string", "42", "42"},
		{"brazilian currency", "R$ 1.234,56", "1234.56"},
		{"us currency", "$1,234.56", "1234.56"},
		{"empty", "", "0"},
		{"letters", "abc", "0"},
		{"comma decimal", "12,5", "12.5"},
		{"dot grouping", "1.234", "1234"},
		{"repeated grouping", "1,234,567", "1234567"},
		{"leading dot", ".5", "0.5"},
		{"trailing separator", "100.", "100"},
		{"negative number", -5, "0"},
		{"negative string keeps digits", "-5", "5"},
		{"float", 99.5, "99.5"},
		{"nan", math.NaN(), "0"},
		{"inf", math.Inf(1), "0"},
		{"json number", json.Number("1500"), "1500"},
		{"decimal", decimal.RequireFromString("10.25"), "10.25"},
		{"unsupported type", struct{}{}, "0"},
		{"raw price string", model.PriceOf("R$ 2.000,00"), "2000"},
		{"raw price nil", model.RawPrice{}, "0"},
		{"nil raw price pointer", (*model.RawPrice)(nil), "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Coerce(tc.in)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("Coerce(%v): want=%s got=%s", tc.in, tc.want, got)
			}
			if got.IsNegative() {
				t.Fatalf("Coerce(%v): negative result %s", tc.in, got)
			}
		})
	}
}

func TestRawPriceFromJSON(t *testing.T) {
	var opts []model.WheelOption
	body := `[{"id":1,"name":"a","price":250},{"id":"b","name":"b","price":"R$ 1.000"},{"id":"c","name":"c","price":null}]`
	if err := json.Unmarshal([]byte(body), &opts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []string{"250", "1000", "0"}
	for i, o := range opts {
		if got := Coerce(o.PriceDelta); !got.Equal(decimal.RequireFromString(want[i])) {
			t.Fatalf("option %d: want=%s got=%s", i, want[i], got)
		}
	}
	if opts[0].ID != "1" {
		t.Fatalf("numeric id: want=1 got=%q", opts[0].ID)
	}
}
