package router

// This file registers the tenancy-facing routes: tenant lifecycle, the rent
// ledger with its receipt download, the payments listing and labors. They
// are kept separate from the catalog routes because every write here runs
// through the lifecycle engine rather than a plain repository.

import (
	"github.com/labstack/echo/v4"

	"github.com/propertyvision/api/internal/handler"
	"github.com/propertyvision/api/internal/middleware"
)

// RegisterTenancy registers tenant, rent, payment and labor endpoints under
// /v1. Both roles have access; extra middlewares are appended by the caller.
func RegisterTenancy(e *echo.Echo, t *handler.TenantHandler, r *handler.RentHandler, l *handler.LaborHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	mws := append([]echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("admin", "subadmin"),
	}, extra...)
	g := e.Group("/v1", mws...)

	// ---- Tenants ----
	g.POST("/tenants", t.Onboard)
	g.GET("/tenants", t.List)
	g.GET("/tenants/:id", t.Get)
	g.PUT("/tenants/:id", t.Update)
	g.DELETE("/tenants/:id", t.Vacate)

	// ---- Rents ----
	// Rent rows are addressed by their own id once created; the tenant
	// prefix only scopes creation and listing.
	g.POST("/tenants/:tenantId/rents", r.Create)
	g.GET("/tenants/:tenantId/rents", r.ListByTenant)
	g.PUT("/tenants/rents/:rentId", r.Update)
	g.DELETE("/tenants/rents/:rentId", r.Delete)
	g.GET("/tenants/rents/:rentId/receipt", r.Receipt)

	// ---- Payments ----
	g.GET("/payments", r.Payments)

	// ---- Labors ----
	g.POST("/labors", l.Create)
	g.GET("/labors", l.List)
	g.GET("/labors/:id", l.Get)
	g.PUT("/labors/:id", l.Update)
	g.DELETE("/labors/:id", l.Delete)
}
