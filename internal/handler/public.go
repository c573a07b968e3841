package handler

import (
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/glamping-reservation/internal/booking"
    "github.com/iliyamo/glamping-reservation/internal/holiday"
    "github.com/iliyamo/glamping-reservation/internal/pricing"
    "github.com/iliyamo/glamping-reservation/internal/repository"
)

// Years served by the holiday endpoint.
const (
    minHolidayYear = 2020
    maxHolidayYear = 2030
)

// PublicHandler serves the guest-facing API.  None of its routes require
// authentication.
type PublicHandler struct {
    Manager *booking.Manager
    Cabins  repository.CabinStore
}

func NewPublicHandler(m *booking.Manager, cabins repository.CabinStore) *PublicHandler {
    if m == nil || cabins == nil {
        panic("nil dependency passed to NewPublicHandler")
    }
    return &PublicHandler{Manager: m, Cabins: cabins}
}

// ListCabins handles GET /api/cabins.
func (h *PublicHandler) ListCabins(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()
    cabins, err := h.Cabins.ListCabins(ctx, true)
    if err != nil {
        return writeError(c, err)
    }
    out := make([]cabinResp, 0, len(cabins))
    for _, cb := range cabins {
        out = append(out, toCabinResp(cb))
    }
    return c.JSON(http.StatusOK, out)
}

// Holidays handles GET /api/holidays/:year.
func (h *PublicHandler) Holidays(c echo.Context) error {
    year, err := strconv.Atoi(c.Param("year"))
    if err != nil || year < minHolidayYear || year > maxHolidayYear {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid year"})
    }
    days := holiday.ForYear(year)
    out := make([]string, 0, len(days))
    for _, d := range days {
        out = append(out, d.String())
    }
    return c.JSON(http.StatusOK, echo.Map{"year": year, "holidays": out})
}

type cabinAvailability struct {
    Cabin        cabinResp       `json:"cabin"`
    IsAvailable  bool            `json:"is_available"`
    TotalPrice   int64           `json:"total_price"`
    Nights       int             `json:"nights"`
    Guests       int             `json:"guests"`
    Breakdown    []pricing.Night `json:"breakdown"`
    Reservations []booking.Range `json:"reservations"`
}

// CabinAvailability handles GET /api/cabins/availability: for every active
// cabin that can host the party, whether the stay is free and what it costs.
func (h *PublicHandler) CabinAvailability(c echo.Context) error {
    in, err := parseDateParam(c, "startDate")
    if err != nil {
        return writeError(c, err)
    }
    out, err := parseDateParam(c, "endDate")
    if err != nil {
        return writeError(c, err)
    }
    guests := 2
    if raw := c.QueryParam("guests"); raw != "" {
        if guests, err = strconv.Atoi(raw); err != nil || guests < 1 {
            return writeError(c, &booking.ValidationError{Field: "guests", Message: "must be a positive number"})
        }
    }
    if !in.Before(out) {
        return writeError(c, &booking.ValidationError{Field: "endDate", Message: "must be after startDate"})
    }

    ctx, cancel := withTimeout(c)
    defer cancel()
    cabins, err := h.Cabins.ListCabins(ctx, true)
    if err != nil {
        return writeError(c, err)
    }
    engine := h.Manager.Pricing()
    checker := h.Manager.Checker()
    result := make([]cabinAvailability, 0, len(cabins))
    for _, cb := range cabins {
        if guests > engine.Capacity(cb) {
            continue
        }
        quote, err := engine.Quote(cb, in, out, guests)
        if err != nil {
            return writeError(c, err)
        }
        conflicts, err := checker.FindConflicts(ctx, cb.ID, in, out)
        if err != nil {
            return writeError(c, err)
        }
        ranges := make([]booking.Range, 0, len(conflicts))
        for _, r := range conflicts {
            ranges = append(ranges, booking.Range{CheckIn: r.CheckIn, CheckOut: r.CheckOut, Status: r.Status, Source: "reservation"})
        }
        result = append(result, cabinAvailability{
            Cabin:        toCabinResp(cb),
            IsAvailable:  len(ranges) == 0,
            TotalPrice:   quote.Total,
            Nights:       len(quote.Nights),
            Guests:       guests,
            Breakdown:    quote.Nights,
            Reservations: ranges,
        })
    }
    return c.JSON(http.StatusOK, result)
}

// BookedDates handles GET /api/availability: every day in the window taken by
// a reservation or blocked in the external calendar.
func (h *PublicHandler) BookedDates(c echo.Context) error {
    from, err := parseDateParam(c, "startDate")
    if err != nil {
        return writeError(c, err)
    }
    to, err := parseDateParam(c, "endDate")
    if err != nil {
        return writeError(c, err)
    }
    if to.Before(from) {
        return writeError(c, &booking.ValidationError{Field: "endDate", Message: "must not be before startDate"})
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    days, err := h.Manager.Checker().BookedDates(ctx, from, to)
    if err != nil {
        return writeError(c, err)
    }
    out := make([]string, 0, len(days))
    for _, d := range days {
        out = append(out, d.String())
    }
    return c.JSON(http.StatusOK, echo.Map{"available": len(out) == 0, "booked_dates": out})
}

// CreateReservation handles POST /api/reservations.
func (h *PublicHandler) CreateReservation(c echo.Context) error {
    var req reservationReq
    if err := bindAndValidate(c, &req); err != nil {
        return writeError(c, err)
    }
    create, err := req.toCreate()
    if err != nil {
        return writeError(c, err)
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    r, err := h.Manager.Create(ctx, create)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, createdResp{
        ID:                  r.ID,
        ConfirmationCode:    r.ConfirmationCode,
        Status:              string(r.Status),
        HoldUntil:           r.HoldUntil,
        TotalPrice:          r.TotalPrice,
        PaymentInstructions: r.PaymentInstructions,
    })
}

// ReservationByCode handles GET /api/reservations/code/:code.
func (h *PublicHandler) ReservationByCode(c echo.Context) error {
    code := strings.TrimSpace(c.Param("code"))
    if code == "" {
        return writeError(c, &booking.ValidationError{Field: "code", Message: "is required"})
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    r, err := h.Manager.GetByCode(ctx, code)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, toReservationResp(r))
}
