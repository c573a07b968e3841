package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/glamping-reservation/internal/handler"
	"github.com/iliyamo/glamping-reservation/internal/middleware"
	"github.com/iliyamo/glamping-reservation/internal/utils"
)

// RegisterContent registers the site content API.  Public lists share the
// guest middleware and are cached, so admin edits show up once the cache
// entry expires.  Management routes sit under /api/admin behind the same
// JWT and role checks as the reservation back office.
func RegisterContent(e *echo.Echo, h *handler.ContentHandler, jwtSecret string, public PublicMiddleware, limit echo.MiddlewareFunc) {
	pub := e.Group("/api", nonNil(public.RateLimit)...)
	cache := nonNil(public.Cache)
	pub.GET("/activities", h.ListActivities, cache...)
	pub.GET("/gallery", h.ListGallery, cache...)
	pub.GET("/reviews", h.ListReviews, cache...)
	pub.GET("/hero-banners", h.ListBanners, cache...)

	g := e.Group("/api/admin", append(
		nonNil(limit),
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleAdmin),
	)...)

	g.GET("/activities", h.AdminListActivities)
	g.POST("/activities", h.CreateActivity)
	g.PATCH("/activities/:id", h.UpdateActivity)
	g.DELETE("/activities/:id", h.DeleteActivity)
	g.POST("/activities/:id/images", h.AddActivityImage)
	g.DELETE("/activities/:id/images", h.RemoveActivityImage)

	g.GET("/gallery", h.AdminListGallery)
	g.POST("/gallery", h.CreateGalleryImage)
	g.PATCH("/gallery/:id", h.UpdateGalleryImage)
	g.DELETE("/gallery/:id", h.DeleteGalleryImage)

	g.GET("/reviews", h.AdminListReviews)
	g.POST("/reviews", h.CreateReview)
	g.PATCH("/reviews/:id", h.UpdateReview)
	g.DELETE("/reviews/:id", h.DeleteReview)

	g.GET("/hero-banners", h.AdminListBanners)
	g.POST("/hero-banners", h.CreateBanner)
	g.PATCH("/hero-banners/:id", h.UpdateBanner)
	g.DELETE("/hero-banners/:id", h.DeleteBanner)
}
