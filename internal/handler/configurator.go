package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-configurator/internal/configurator"
	"github.com/iliyamo/vehicle-configurator/internal/imagery"
	"github.com/iliyamo/vehicle-configurator/internal/logger"
	"github.com/iliyamo/vehicle-configurator/internal/middleware"
	"github.com/iliyamo/vehicle-configurator/internal/model"
	"github.com/iliyamo/vehicle-configurator/internal/session"
)

// Sessions is the part of session.Registry the handler needs.
type Sessions interface {
	Create(ctx context.Context, vehicleID string) (*configurator.Controller, error)
	Get(id string) (*configurator.Controller, bool)
	Delete(id string) bool
}

var _ Sessions = (*session.Registry)(nil)

// ConfiguratorHandler exposes configurator sessions over HTTP.  Every
// mutating endpoint answers with the resulting view.
type ConfiguratorHandler struct {
	Sessions    Sessions
	LoadTimeout time.Duration
	Heartbeat   time.Duration
	Log         *logger.Logger
}

func NewConfiguratorHandler(s Sessions, log *logger.Logger) *ConfiguratorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ConfiguratorHandler{Sessions: s, LoadTimeout: 10 * time.Second, Heartbeat: 15 * time.Second, Log: log}
}

type createSessionReq struct {
	VehicleID string `json:"vehicle_id"`
}

type idReq struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type rotateReq struct {
	Direction string `json:"direction"`
}

type tabReq struct {
	Tab string `json:"tab"`
}

type vehicleReq struct {
	VehicleID string `json:"vehicle_id"`
}

type transmissionReq struct {
	Transmission string `json:"transmission"`
}

type interiorReq struct {
	View string `json:"view"`
}

// loadContext detaches a variant load from the request so a client
// disconnect does not leave the session half switched.
func (h *ConfiguratorHandler) loadContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(c.Request().Context()), h.LoadTimeout)
}

// Create opens a session and loads the requested (or default) vehicle.
// An unknown vehicle still yields a session, in the unavailable state.
func (h *ConfiguratorHandler) Create(c echo.Context) error {
	var req createSessionReq
	if err := bindOptional(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := h.loadContext(c)
	defer cancel()

	ctrl, err := h.Sessions.Create(ctx, strings.TrimSpace(req.VehicleID))
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, ctrl.View())
	case errors.Is(err, configurator.ErrUnavailable):
		return c.JSON(http.StatusNotFound, ctrl.View())
	default:
		h.Sessions.Delete(ctrl.ID())
		h.Log.Error("session create failed", "vehicle_id", req.VehicleID, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "vehicle load failed"})
	}
}

// Get returns the current view of a session.
func (h *ConfiguratorHandler) Get(c echo.Context) error {
	ctrl, ok := h.Sessions.Get(c.Param("sid"))
	if !ok {
		return sessionNotFound(c)
	}
	return c.JSON(http.StatusOK, ctrl.View())
}

// Delete ends a session.
func (h *ConfiguratorHandler) Delete(c echo.Context) error {
	if !h.Sessions.Delete(c.Param("sid")) {
		return sessionNotFound(c)
	}
	return c.NoContent(http.StatusNoContent)
}

// Events streams the session view as server-sent events.  The first event
// is the current view; later events follow every change.  Views that are
// superseded before the client reads them are skipped.
func (h *ConfiguratorHandler) Events(c echo.Context) error {
	ctrl, ok := h.Sessions.Get(c.Param("sid"))
	if !ok {
		return sessionNotFound(c)
	}
	views, cancel := ctrl.Subscribe()
	defer cancel()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	beat := time.NewTicker(h.Heartbeat)
	defer beat.Stop()
	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-beat.C:
			if _, err := fmt.Fprint(res, ": ping\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case v, ok := <-views:
			if !ok {
				_, _ = fmt.Fprint(res, "event: closed\ndata: {}\n\n")
				res.Flush()
				return nil
			}
			if err := writeEvent(res, v); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}

func writeEvent(w *echo.Response, v configurator.View) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: view\ndata: %s\n\n", v.Version, body)
	return err
}

// SelectColor handles {"name": "..."}.
func (h *ConfiguratorHandler) SelectColor(c echo.Context) error {
	return h.withID(c, func(ctrl *configurator.Controller, r idReq) error {
		name := r.Name
		if name == "" {
			name = r.ID
		}
		return ctrl.SelectColor(name)
	})
}

// SelectWheel handles {"id": "..."}.
func (h *ConfiguratorHandler) SelectWheel(c echo.Context) error {
	return h.withID(c, func(ctrl *configurator.Controller, r idReq) error { return ctrl.SelectWheel(r.ID) })
}

// SelectSeat handles {"id": "..."}; an empty or missing id picks the
// standard seat.
func (h *ConfiguratorHandler) SelectSeat(c echo.Context) error {
	return h.withID(c, func(ctrl *configurator.Controller, r idReq) error { return ctrl.SelectSeat(r.ID) })
}

// ToggleAccessory handles {"id": "..."}.
func (h *ConfiguratorHandler) ToggleAccessory(c echo.Context) error {
	return h.withID(c, func(ctrl *configurator.Controller, r idReq) error { return ctrl.ToggleAccessory(r.ID) })
}

// Rotate handles {"direction": "next"|"prev"}.
func (h *ConfiguratorHandler) Rotate(c echo.Context) error {
	ctrl, ok := h.Sessions.Get(c.Param("sid"))
	if !ok {
		return sessionNotFound(c)
	}
	var req rotateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var dir imagery.Direction
	switch strings.ToLower(req.Direction) {
	case "next", "right", "":
		dir = imagery.Next
	case "prev", "previous", "left":
		dir = imagery.Prev
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "direction must be next or prev"})
	}
	return h.respond(c, ctrl, ctrl.Rotate(dir))
}

// JumpTo handles {"tab": "model"|"exterior"|"interior"}.
func (h *ConfiguratorHandler) JumpTo(c echo.Context) error {
	ctrl, ok := h.Sessions.Get(c.Param("sid"))
	if !ok {
		return sessionNotFound(c)
	}
	var req tabReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	tab, ok := imagery.ParseTab(strings.ToLower(strings.TrimSpace(req.Tab)))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown tab"})
	}
	return h.respond(c, ctrl, ctrl.JumpTo(tab))
}

// Next advances the workflow; from Interior it finishes like Finish.
func (h *ConfiguratorHandler) Next(c echo.Context) error {
	ctrl, ok := h.Sessions.Get(c.Param("sid"))
	if !ok {
		return sessionNotFound(c)
	}
	ctx, cancel := h.loadContext(c)
	defer cancel()
	return h.respond(c, ctrl, ctrl.Next(ctx, middleware.CurrentUser(c)))
}

// Finish records the lead and moves to Summary.  The view's summary holds
// the lead id.
func (h *ConfiguratorHandler) Finish(c echo.Context) error {
	ctrl, ok := h.Sessions.Get(c.Param("sid"))
	if !ok {
		return sessionNotFound(c)
	}
	ctx, cancel := h.loadContext(c)
	defer cancel()
	_, err := ctrl.Finish(ctx, middleware.CurrentUser(c))
	return h.respond(c, ctrl, err)
}

// Edit returns from Summary to Interior.
func (h *ConfiguratorHandler) Edit(c echo.Context) error {
	ctrl, ok := h.Sessions.Get(c.Param("sid"))
	if !ok {
		return sessionNotFound(c)
	}
	return h.respond(c, ctrl, ctrl.Edit())
}

// SwitchVehicle handles {"vehicle_id": "..."}.  While another switch is in
// flight the request is queued and the returned view shows the switch in
// progress.
func (h *ConfiguratorHandler) SwitchVehicle(c echo.Context) error {
	ctrl, ok := h.Sessions.Get(c.Param("sid"))
	if !ok {
		return sessionNotFound(c)
	}
	var req vehicleReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.VehicleID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicle_id required"})
	}
	ctx, cancel := h.loadContext(c)
	defer cancel()
	return h.respond(c, ctrl, ctrl.SwitchVehicle(ctx, strings.TrimSpace(req.VehicleID)))
}

// SetTransmission handles {"transmission": "automatic"|"manual"}.
func (h *ConfiguratorHandler) SetTransmission(c echo.Context) error {
	ctrl, ok := h.Sessions.Get(c.Param("sid"))
	if !ok {
		return sessionNotFound(c)
	}
	var req transmissionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	t := model.Transmission(strings.ToLower(strings.TrimSpace(req.Transmission)))
	return h.respond(c, ctrl, ctrl.SetTransmissionFilter(t))
}

// SetInterior handles {"view": "dash"|"seats"}.
func (h *ConfiguratorHandler) SetInterior(c echo.Context) error {
	ctrl, ok := h.Sessions.Get(c.Param("sid"))
	if !ok {
		return sessionNotFound(c)
	}
	var req interiorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	v := imagery.InteriorView(strings.ToLower(strings.TrimSpace(req.View)))
	return h.respond(c, ctrl, ctrl.SetInterior(v))
}

func (h *ConfiguratorHandler) withID(c echo.Context, apply func(*configurator.Controller, idReq) error) error {
	ctrl, ok := h.Sessions.Get(c.Param("sid"))
	if !ok {
		return sessionNotFound(c)
	}
	var req idReq
	if err := bindOptional(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.ID, req.Name = strings.TrimSpace(req.ID), strings.TrimSpace(req.Name)
	return h.respond(c, ctrl, apply(ctrl, req))
}

// respond maps a controller error to a status and always includes the
// current view, so clients can resynchronize after a rejected action.
func (h *ConfiguratorHandler) respond(c echo.Context, ctrl *configurator.Controller, err error) error {
	if err == nil {
		return c.JSON(http.StatusOK, ctrl.View())
	}
	status, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, configurator.ErrUnknownOption):
		status, msg = http.StatusBadRequest, "unknown option"
	case errors.Is(err, configurator.ErrUnavailable):
		status, msg = http.StatusNotFound, "vehicle unavailable"
	case errors.Is(err, configurator.ErrInvalidTransition):
		status, msg = http.StatusConflict, "invalid transition"
	case errors.Is(err, configurator.ErrNotReady):
		status, msg = http.StatusConflict, "no vehicle loaded"
	case errors.Is(err, configurator.ErrConcurrentEdit):
		status, msg = http.StatusConflict, "configuration changed, try again"
	default:
		h.Log.Error("configurator action failed", "session_id", ctrl.ID(), "path", c.Path(), "error", err)
	}
	return c.JSON(status, echo.Map{"error": msg, "view": ctrl.View()})
}

// bindOptional binds a JSON body when one is sent and accepts an empty body.
func bindOptional(c echo.Context, dst any) error {
	if c.Request().ContentLength == 0 {
		return nil
	}
	return c.Bind(dst)
}

func sessionNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
}
