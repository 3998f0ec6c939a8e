package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/vehicle-configurator/internal/model"
	"github.com/iliyamo/vehicle-configurator/internal/repository"
)

func rec(id, category, name string) *model.VehicleRecord {
	return &model.VehicleRecord{
		ID:           id,
		CategoryID:   category,
		Name:         name,
		BasePrice:    model.PriceOf("100000"),
		Transmission: "automatic",
		Colors:       []byte(`[{"name":"Red","hex":"#f00","price":0,"images":{"front":"r.jpg"}}]`),
	}
}

func TestNormalizeDefaultsEmptyLists(t *testing.T) {
	v, err := Normalize(&model.VehicleRecord{ID: "bare", Colors: []byte("null")})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if v.Colors == nil || v.Wheels == nil || v.Seats == nil || v.Accessories == nil || v.Images == nil {
		t.Fatalf("nil list after normalize: %+v", v)
	}
	if v.Transmission != model.TransmissionBoth {
		t.Fatalf("transmission: want=both got=%s", v.Transmission)
	}
}

func TestNormalizeOptions(t *testing.T) {
	r := &model.VehicleRecord{
		ID:          "x",
		Images:      []byte(`{"front":" f.jpg ","side":""}`),
		Interior:    []byte(`{"dashboard_url":"d.jpg","seats_url":"s.jpg"}`),
		Wheels:      []byte(`[{"id":7,"name":"Sport"},{"name":"Plain"},{"name":""}]`),
		SeatTypes:   []byte(`[{"id":"leather","name":"Leather","price":"R$ 900"}]`),
		Accessories: []byte(`[{"id":"a","category":"interior"},{"id":"b","category":"roof"},{"id":"c"}]`),
	}
	v, err := Normalize(r)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if v.Images[model.ViewFront] != "f.jpg" {
		t.Fatalf("front image: got=%q", v.Images[model.ViewFront])
	}
	if _, ok := v.Images[model.ViewSide]; ok {
		t.Fatalf("blank side image kept")
	}
	if v.Interior.DashboardURL != "d.jpg" || v.Interior.SeatsURL != "s.jpg" {
		t.Fatalf("interior: %+v", v.Interior)
	}
	wantWheels := []model.FlexID{"7", "Plain", "2"}
	for i, w := range v.Wheels {
		if w.ID != wantWheels[i] {
			t.Fatalf("wheel %d id: want=%s got=%s", i, wantWheels[i], w.ID)
		}
	}
	wantCats := []model.AccessoryCategory{model.AccessoryInterior, model.AccessoryExterior, model.AccessoryExterior}
	for i, a := range v.Accessories {
		if a.Category != wantCats[i] {
			t.Fatalf("accessory %d category: want=%s got=%s", i, wantCats[i], a.Category)
		}
	}
}

func TestNormalizeMalformedColumn(t *testing.T) {
	r := rec("x", "c", "X")
	r.Wheels = []byte(`{not json`)
	v, err := Normalize(r)
	if err == nil {
		t.Fatalf("want error for malformed wheels")
	}
	if v == nil || len(v.Wheels) != 0 || len(v.Colors) != 1 {
		t.Fatalf("malformed column should be empty, others intact: %+v", v)
	}
}

func TestParseTransmission(t *testing.T) {
	cases := map[string]model.Transmission{
		"Automatic": model.TransmissionAutomatic,
		" manual ":  model.TransmissionManual,
		"both":      model.TransmissionBoth,
		"":          model.TransmissionBoth,
		"cvt?":      model.TransmissionBoth,
	}
	for in, want := range cases {
		if got := ParseTransmission(in); got != want {
			t.Fatalf("ParseTransmission(%q): want=%s got=%s", in, want, got)
		}
	}
}

func TestLoaderLoadsSiblings(t *testing.T) {
	store := NewMemoryStore(
		rec("v1", "sedan", "Sedan Base"),
		rec("v2", "sedan", "Sedan Sport"),
		rec("v3", "suv", "SUV"),
	)
	l := NewLoader(store, nil)

	res, err := l.Load(context.Background(), "v1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Variant.ID != "v1" {
		t.Fatalf("variant: want=v1 got=%s", res.Variant.ID)
	}
	if len(res.Siblings) != 1 || res.Siblings[0].ID != "v2" {
		t.Fatalf("siblings: want [v2] got=%v", res.Siblings)
	}
}

func TestLoaderDefaultVariant(t *testing.T) {
	l := NewLoader(NewMemoryStore(rec("first", "c", "First"), rec("second", "c", "Second")), nil)
	res, err := l.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	if res.Variant.ID != "first" {
		t.Fatalf("default: want=first got=%s", res.Variant.ID)
	}
}

func TestLoaderNotFound(t *testing.T) {
	l := NewLoader(NewMemoryStore(), nil)
	if _, err := l.Load(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got=%v", err)
	}
	if _, err := l.Load(context.Background(), ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty store default: want ErrNotFound got=%v", err)
	}
}

type failingStore struct {
	*MemoryStore
	oneErr, manyErr error
}

func (f failingStore) ReadOne(ctx context.Context, id string) (*model.VehicleRecord, error) {
	if f.oneErr != nil {
		return nil, f.oneErr
	}
	return f.MemoryStore.ReadOne(ctx, id)
}

func (f failingStore) ReadMany(ctx context.Context, c, ex string) ([]*model.VehicleRecord, error) {
	if f.manyErr != nil {
		return nil, f.manyErr
	}
	return f.MemoryStore.ReadMany(ctx, c, ex)
}

func TestLoaderStorageErrors(t *testing.T) {
	boom := errors.New("connection reset")
	l := NewLoader(failingStore{MemoryStore: NewMemoryStore(rec("v1", "c", "V1")), oneErr: boom}, nil)
	_, err := l.Load(context.Background(), "v1")
	if !errors.Is(err, boom) || errors.Is(err, ErrNotFound) {
		t.Fatalf("storage error: want wrapped boom got=%v", err)
	}

	l = NewLoader(failingStore{MemoryStore: NewMemoryStore(rec("v1", "c", "V1")), manyErr: boom}, nil)
	res, err := l.Load(context.Background(), "v1")
	if err != nil {
		t.Fatalf("sibling failure must not fail the load: %v", err)
	}
	if res.Siblings == nil || len(res.Siblings) != 0 {
		t.Fatalf("siblings: want empty got=%v", res.Siblings)
	}
}

func TestToRecordRoundTrip(t *testing.T) {
	v, _ := Normalize(rec("v1", "sedan", "Sedan"))
	r, err := ToRecord(v)
	if err != nil {
		t.Fatalf("to record: %v", err)
	}
	back, err := Normalize(r)
	if err != nil {
		t.Fatalf("normalize back: %v", err)
	}
	if back.ID != v.ID || len(back.Colors) != 1 || back.Colors[0].Images[model.ViewFront] != "r.jpg" {
		t.Fatalf("round trip lost data: %+v", back)
	}
	if _, err := ToRecord(&model.VehicleVariant{}); err == nil {
		t.Fatalf("want error for missing id")
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.ReadOne(context.Background(), "x"); !errors.Is(err, repository.ErrVehicleNotFound) {
		t.Fatalf("want ErrVehicleNotFound got=%v", err)
	}
}
