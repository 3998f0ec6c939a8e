package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-configurator/internal/handler"
	"github.com/iliyamo/vehicle-configurator/internal/middleware"
	"github.com/iliyamo/vehicle-configurator/internal/model"
)

// RegisterAdmin registers catalog management and lead access under
// /v1/admin.  Catalog writes need ADMIN; leads are readable by SALES too.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin", middleware.JWTAuth(jwtSecret))

	vehicles := g.Group("/vehicles", middleware.RequireRole(model.RoleAdmin))
	vehicles.PUT("/:id", h.PutVehicle)
	vehicles.DELETE("/:id", h.DeleteVehicle)

	leads := g.Group("/leads", middleware.RequireRole(model.RoleAdmin, model.RoleSales))
	leads.GET("", h.ListLeads)
	leads.GET("/:id", h.GetLead)
}
