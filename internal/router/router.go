package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/glamping-reservation/internal/handler"
)

// RegisterRoutes registers the probes.  /healthz is liveness; /readyz pings
// the database and Redis.
func RegisterRoutes(e *echo.Echo, ready *handler.Readiness) {
	e.GET("/healthz", handler.Health)
	if ready != nil {
		e.GET("/readyz", ready.Check)
	}
}

// PublicMiddleware is the middleware applied to the guest API.  Nil entries
// are skipped.
type PublicMiddleware struct {
	RateLimit    echo.MiddlewareFunc // every /api route
	Cache        echo.MiddlewareFunc // cabins and holidays only
	BookingLimit echo.MiddlewareFunc // reservation creation only
}

// RegisterPublic registers the guest API under /api.  Availability is never
// cached since it moves with every booking.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw PublicMiddleware) {
	g := e.Group("/api", nonNil(mw.RateLimit)...)
	cache := nonNil(mw.Cache)
	g.GET("/cabins", p.ListCabins, cache...)
	g.GET("/holidays/:year", p.Holidays, cache...)
	g.GET("/cabins/availability", p.CabinAvailability)
	g.GET("/availability", p.BookedDates)
	g.POST("/reservations", p.CreateReservation, nonNil(mw.BookingLimit)...)
	g.GET("/reservations/code/:code", p.ReservationByCode)
}

func nonNil(mw ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := mw[:0]
	for _, m := range mw {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}
