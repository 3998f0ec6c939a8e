package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-configurator/internal/catalog"
	"github.com/iliyamo/vehicle-configurator/internal/model"
	"github.com/iliyamo/vehicle-configurator/internal/repository"
)

type writableStore struct {
	*catalog.MemoryStore
}

func (w writableStore) Upsert(_ context.Context, r *model.VehicleRecord) error {
	w.Put(r)
	return nil
}

func (w writableStore) Delete(ctx context.Context, id string) error {
	if _, err := w.ReadOne(ctx, id); err != nil {
		return err
	}
	return nil
}

type noLeads struct{}

func (noLeads) ListRecent(context.Context, int) ([]*model.Lead, error) { return []*model.Lead{}, nil }
func (noLeads) GetByID(context.Context, string) (*model.Lead, error) {
	return nil, repository.ErrLeadNotFound
}

func TestAdminPutVehicleIsLoadable(t *testing.T) {
	store := writableStore{catalog.NewMemoryStore()}
	h := NewAdminHandler(store, noLeads{}, nil)
	e := echo.New()
	e.PUT("/vehicles/:id", h.PutVehicle)
	e.DELETE("/vehicles/:id", h.DeleteVehicle)
	e.GET("/leads/:id", h.GetLead)

	body := `{"id":"ignored","name":"Hatch","category_id":"hatch","base_price":"R$ 99.900,00",
		"colors":[{"name":"Red","price":0,"images":{"front":"r.jpg"}}],"accessories":[{"id":3,"name":"Mats","price":"120"}]}`
	rec := do(e, http.MethodPut, "/vehicles/v9", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("put: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
	var out model.VehicleVariant
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID != "v9" || out.Transmission != model.TransmissionBoth || len(out.Colors) != 1 {
		t.Fatalf("saved variant: %+v", out)
	}

	res, err := catalog.NewLoader(store, nil).Load(context.Background(), "v9")
	if err != nil {
		t.Fatalf("load saved: %v", err)
	}
	if a, ok := res.Variant.Accessory("3"); !ok || a.Name != "Mats" {
		t.Fatalf("accessory id not preserved: %+v", res.Variant.Accessories)
	}

	if rec := do(e, http.MethodPut, "/vehicles/v10", `{"name":"No category"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing category: want=400 got=%d", rec.Code)
	}
	if rec := do(e, http.MethodDelete, "/vehicles/missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("delete missing: want=404 got=%d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/leads/x", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing lead: want=404 got=%d", rec.Code)
	}
}
