// Package router registers the HTTP routes and their middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-configurator/internal/handler"
	"github.com/iliyamo/vehicle-configurator/internal/middleware"
	"github.com/iliyamo/vehicle-configurator/internal/model"
)

// RegisterRoutes registers the unauthenticated probes.
func RegisterRoutes(e *echo.Echo, ready echo.HandlerFunc) {
	e.GET("/healthz", handler.Health)
	if ready != nil {
		e.GET("/readyz", ready)
	}
}

// RegisterAuth registers token issuance under /v1/auth and the
// authenticated /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// logout works with either a refresh token or a bearer, so no JWTAuth
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleSales, model.RoleAdmin))
}

// RegisterPublic registers the read-only catalog.  cache wraps every
// route; pass nil to disable it.
func RegisterPublic(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/vehicles")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.GET("/:id/siblings", h.Siblings)
}
