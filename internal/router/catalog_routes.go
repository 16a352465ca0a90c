package router

import (
	"github.com/labstack/echo/v4"

	"github.com/propertyvision/api/internal/handler"
	"github.com/propertyvision/api/internal/middleware"
)

// RegisterCatalog registers the property, floor and unit endpoints under
// /v1. Both roles may manage the catalog; extra middlewares (response
// cache, rate limiting) are appended by the caller so tests can register
// routes without Redis.
func RegisterCatalog(e *echo.Echo, p *handler.PropertyHandler, f *handler.FloorHandler, u *handler.UnitHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	mws := append([]echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("admin", "subadmin"),
	}, extra...)
	g := e.Group("/v1", mws...)

	// ---- Properties ----
	g.POST("/properties", p.Create)
	g.GET("/properties", p.List)
	g.GET("/properties/:id", p.Get)
	g.PUT("/properties/:id", p.Update)
	g.DELETE("/properties/:id", p.Delete)

	// ---- Floors ----
	g.POST("/floors", f.Create)
	g.GET("/floors", f.List)
	g.GET("/floors/property/:propertyId", f.ListByProperty)
	g.GET("/floors/:id", f.Get)
	g.PUT("/floors/:id", f.Update)
	g.DELETE("/floors/:id", f.Delete)

	// ---- Units ----
	g.POST("/units", u.Create)
	g.GET("/units/property/:propertyId", u.ListByProperty)
	g.GET("/units/:unitId", u.Get)
	g.PUT("/units/:unitId", u.Update)
	g.DELETE("/units/:unitId", u.Delete)
}
