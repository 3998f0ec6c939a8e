package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-configurator/internal/handler"
	"github.com/iliyamo/vehicle-configurator/internal/middleware"
)

// RegisterConfigurator registers the session API under /v1/configurator.
// Guests may configure; a valid bearer token attaches the user to the
// resulting lead.  limiter may be nil.
func RegisterConfigurator(e *echo.Echo, h *handler.ConfiguratorHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/configurator", middleware.OptionalAuth(jwtSecret))
	if limiter != nil {
		g.Use(limiter)
	}

	g.POST("", h.Create)
	g.GET("/:sid", h.Get)
	g.DELETE("/:sid", h.Delete)
	g.GET("/:sid/events", h.Events)

	// selection
	g.POST("/:sid/color", h.SelectColor)
	g.POST("/:sid/wheel", h.SelectWheel)
	g.POST("/:sid/seat", h.SelectSeat)
	g.POST("/:sid/accessory", h.ToggleAccessory)
	g.POST("/:sid/rotate", h.Rotate)
	g.POST("/:sid/interior", h.SetInterior)

	// workflow
	g.POST("/:sid/tab", h.JumpTo)
	g.POST("/:sid/next", h.Next)
	g.POST("/:sid/finish", h.Finish)
	g.POST("/:sid/edit", h.Edit)

	// variant navigation
	g.POST("/:sid/vehicle", h.SwitchVehicle)
	g.POST("/:sid/transmission", h.SetTransmission)
}
