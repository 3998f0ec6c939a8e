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
	"github.com/iliyamo/vehicle-configurator/internal/repository"
)

// VehicleWriter is the write side of the vehicle store.
type VehicleWriter interface {
	Upsert(ctx context.Context, v *model.VehicleRecord) error
	Delete(ctx context.Context, id string) error
}

// LeadReader lists recorded leads.
type LeadReader interface {
	ListRecent(ctx context.Context, limit int) ([]*model.Lead, error)
	GetByID(ctx context.Context, id string) (*model.Lead, error)
}

// AdminHandler manages the catalog and reads leads.
type AdminHandler struct {
	Vehicles VehicleWriter
	Leads    LeadReader
	Log      *logger.Logger
}

func NewAdminHandler(v VehicleWriter, l LeadReader, log *logger.Logger) *AdminHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AdminHandler{Vehicles: v, Leads: l, Log: log}
}

// PutVehicle handles PUT /v1/admin/vehicles/:id.  The body is a variant in
// the same shape GET /v1/vehicles/:id returns; the path id wins over any
// id in the body.
func (h *AdminHandler) PutVehicle(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	var v model.VehicleVariant
	if err := c.Bind(&v); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	v.ID = id
	if strings.TrimSpace(v.Name) == "" || strings.TrimSpace(v.CategoryID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and category_id required"})
	}
	if v.Transmission == "" {
		v.Transmission = model.TransmissionBoth
	}
	rec, err := catalog.ToRecord(&v)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Vehicles.Upsert(ctx, rec); err != nil {
		h.Log.Error("vehicle upsert failed", "vehicle_id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	out, _ := catalog.Normalize(rec)
	return c.JSON(http.StatusOK, out)
}

// DeleteVehicle handles DELETE /v1/admin/vehicles/:id.
func (h *AdminHandler) DeleteVehicle(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	err := h.Vehicles.Delete(ctx, strings.TrimSpace(c.Param("id")))
	switch {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, repository.ErrVehicleNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
	default:
		h.Log.Error("vehicle delete failed", "vehicle_id", c.Param("id"), "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
}

// ListLeads handles GET /v1/admin/leads?limit=.
func (h *AdminHandler) ListLeads(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	leads, err := h.Leads.ListRecent(ctx, limit)
	if err != nil {
		h.Log.Error("lead list failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": leads})
}

// GetLead handles GET /v1/admin/leads/:id.
func (h *AdminHandler) GetLead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	l, err := h.Leads.GetByID(ctx, c.Param("id"))
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, l)
	case errors.Is(err, repository.ErrLeadNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "lead not found"})
	default:
		h.Log.Error("lead load failed", "lead_id", c.Param("id"), "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}
