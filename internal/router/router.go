package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/propertyvision/api/internal/handler"
	"github.com/propertyvision/api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication:
// the health check and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the admin account routes. Register, login and the
// password-reset pair are public; everything else under /auth/v1/admin
// requires a valid token, and account administration additionally requires
// the admin role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/auth/v1/admin")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password", a.ResetPassword)

	auth := e.Group("/auth/v1/admin", middleware.JWTAuth(jwtSecret))
	auth.GET("/profile", a.Profile)
	auth.PUT("/change-password", a.ChangePassword)

	adm := e.Group("/auth/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("admin"),
	)
	adm.GET("/admins", a.ListAdmins)
	adm.PUT("/admin/:id", a.UpdateAdmin)
	adm.DELETE("/admin/:id", a.DeleteAdmin)
}
