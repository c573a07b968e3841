package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/glamping-reservation/internal/handler"
	"github.com/iliyamo/glamping-reservation/internal/middleware"
	"github.com/iliyamo/glamping-reservation/internal/utils"
)

// RegisterAdmin registers the back office under /api/admin.  setup, login,
// refresh and logout are open; everything else requires a valid JWT and
// the ADMIN role.  limit, when non-nil, applies to every admin route.
func RegisterAdmin(e *echo.Echo, a *handler.AuthHandler, h *handler.AdminHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	open := e.Group("/api/admin", nonNil(limit)...)
	open.POST("/setup", a.Setup)
	open.POST("/login", a.Login)
	open.POST("/refresh", a.Refresh)
	open.POST("/logout", a.Logout)

	g := e.Group("/api/admin", append(
		nonNil(limit),
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleAdmin),
	)...)
	g.GET("/me", a.Me)

	// ---- Reservations ----
	g.GET("/reservations", h.ListReservations)
	g.GET("/reservations/:id", h.GetReservation)
	g.POST("/quick-reservation", h.QuickReservation)
	g.POST("/reservations/:id/confirm", h.Confirm)
	g.PATCH("/reservations/:id/status", h.UpdateStatus)
	g.PATCH("/reservations/:id/cancel", h.Cancel)
	g.DELETE("/reservations/:id", h.Delete)
	g.POST("/reservations/process-expired", h.ProcessExpired)

	// ---- Dashboard ----
	g.GET("/dashboard/stats", h.DashboardStats)
}
