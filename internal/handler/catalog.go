package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-configurator/internal/catalog"
	"github.com/iliyamo/vehicle-configurator/internal/logger"
	"github.com/iliyamo/vehicle-configurator/internal/model"
	"github.com/iliyamo/vehicle-configurator/internal/pricing"
)

// VehicleLister pages through stored vehicles.  *repository.VehicleRepo
// satisfies it.
type VehicleLister interface {
	List(ctx context.Context, categoryID string, limit, offset int) ([]*model.VehicleRecord, error)
}

// VariantLoader loads one normalized variant with its siblings.
type VariantLoader interface {
	Load(ctx context.Context, id string) (*catalog.Result, error)
}

// CatalogHandler serves the public, read-only vehicle catalog.
type CatalogHandler struct {
	Vehicles VehicleLister
	Loader   VariantLoader
	Log      *logger.Logger
}

func NewCatalogHandler(v VehicleLister, l VariantLoader, log *logger.Logger) *CatalogHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogHandler{Vehicles: v, Loader: l, Log: log}
}

// VehicleCard is the list form of a variant.
type VehicleCard struct {
	ID           string             `json:"id"`
	CategoryID   string             `json:"category_id"`
	Name         string             `json:"name"`
	BasePrice    string             `json:"base_price"`
	CoverImage   string             `json:"cover_image,omitempty"`
	Transmission model.Transmission `json:"transmission"`
}

func cardOf(v *model.VehicleVariant) VehicleCard {
	return VehicleCard{
		ID:           v.ID,
		CategoryID:   v.CategoryID,
		Name:         v.Name,
		BasePrice:    pricing.Coerce(v.BasePrice).StringFixed(2),
		CoverImage:   v.CoverImage,
		Transmission: v.Transmission,
	}
}

// List handles GET /v1/vehicles?category=&limit=&offset=.
func (h *CatalogHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	recs, err := h.Vehicles.List(ctx, strings.TrimSpace(c.QueryParam("category")), limit, offset)
	if err != nil {
		h.Log.Error("vehicle list failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items := make([]VehicleCard, 0, len(recs))
	for _, r := range recs {
		v, err := catalog.Normalize(r)
		if err != nil {
			h.Log.Warn("vehicle row partially unreadable", "vehicle_id", r.ID, "error", err)
		}
		items = append(items, cardOf(v))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "limit": limit, "offset": offset})
}

// Get handles GET /v1/vehicles/:id and returns the full variant.
func (h *CatalogHandler) Get(c echo.Context) error {
	res, err := h.load(c)
	if err != nil {
		return err
	}
	if res == nil {
		return nil
	}
	return c.JSON(http.StatusOK, res.Variant)
}

// Siblings handles GET /v1/vehicles/:id/siblings[?transmission=].
func (h *CatalogHandler) Siblings(c echo.Context) error {
	res, err := h.load(c)
	if err != nil || res == nil {
		return err
	}
	filter := model.Transmission(strings.ToLower(c.QueryParam("transmission")))
	items := make([]VehicleCard, 0, len(res.Siblings))
	for _, s := range res.Siblings {
		if filter != "" && !s.Transmission.Accepts(filter) {
			continue
		}
		items = append(items, cardOf(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// load writes the error response itself and returns a nil result when it
// did.
func (h *CatalogHandler) load(c echo.Context) (*catalog.Result, error) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Loader.Load(ctx, id)
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, catalog.ErrNotFound):
		return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
	default:
		h.Log.Error("vehicle load failed", "vehicle_id", id, "error", err)
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}
