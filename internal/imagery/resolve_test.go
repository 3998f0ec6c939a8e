package imagery

import (
	"testing"

	"github.com/iliyamo/vehicle-configurator/internal/model"
)

func resolveVariant() *model.VehicleVariant {
	return &model.VehicleVariant{
		CoverImage: "cover.jpg",
		Images: map[model.View]string{
			model.ViewFront: "v-front.jpg",
			model.ViewSide:  "v-side.jpg",
			model.ViewRear:  "v-rear.jpg",
		},
		Interior: model.InteriorImages{DashboardURL: "dash.jpg", SeatsURL: "seats.jpg"},
	}
}

func rotationOf(v model.View) int {
	for i, o := range ViewOrder {
		if o == v {
			return i
		}
	}
	return -1
}

func TestResolveExteriorPrecedence(t *testing.T) {
	v := resolveVariant()
	color := &model.ColorOption{
		Name:   "Red",
		Images: map[model.View]string{model.ViewSide: "red-side.jpg"},
		Image:  "red.jpg",
	}
	cases := []struct {
		name  string
		view  model.View
		color *model.ColorOption
		want  string
	}{
		{"color view beats variant view", model.ViewSide, color, "red-side.jpg"},
		{"variant view beats color generic", model.ViewRear, color, "v-rear.jpg"},
		{"color generic when no view image", model.ViewRearAngle, color, "red.jpg"},
		{"cover as last resort", model.ViewFrontDetail, nil, "cover.jpg"},
		{"variant view without color", model.ViewFront, nil, "v-front.jpg"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(Request{Tab: TabExterior, Rotation: rotationOf(tc.view), Color: tc.color, Variant: v})
			if got != tc.want {
				t.Fatalf("want=%s got=%s", tc.want, got)
			}
		})
	}
}

func TestResolveModelTabUsesExteriorRules(t *testing.T) {
	v := resolveVariant()
	if got := Resolve(Request{Tab: TabModel, Variant: v}); got != "v-front.jpg" {
		t.Fatalf("model tab: want=v-front.jpg got=%s", got)
	}
}

func TestResolveInterior(t *testing.T) {
	v := resolveVariant()
	seat := &model.SeatOption{ID: "s", Image: "seat-s.jpg"}
	plain := &model.SeatOption{ID: "p"}

	cases := []struct {
		name     string
		interior InteriorView
		seat     *model.SeatOption
		want     string
	}{
		{"dash", InteriorDash, seat, "dash.jpg"},
		{"seat image", InteriorSeats, seat, "seat-s.jpg"},
		{"seat without image", InteriorSeats, plain, "seats.jpg"},
		{"standard seat", InteriorSeats, nil, "seats.jpg"},
	}
	for _, tc := range cases {
		got := Resolve(Request{Tab: TabInterior, Interior: tc.interior, Seat: tc.seat, Variant: v})
		if got != tc.want {
			t.Fatalf("%s: want=%s got=%s", tc.name, tc.want, got)
		}
	}
}

func TestResolvePlaceholder(t *testing.T) {
	if got := Resolve(Request{Tab: TabExterior, Variant: &model.VehicleVariant{}}); got != "" {
		t.Fatalf("empty variant: want placeholder got=%s", got)
	}
	if got := Resolve(Request{Tab: TabExterior}); got != "" {
		t.Fatalf("nil variant: want placeholder got=%s", got)
	}
}
