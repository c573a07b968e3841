package handler

import (
    "context"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/glamping-reservation/internal/booking"
    "github.com/iliyamo/glamping-reservation/internal/model"
    "github.com/iliyamo/glamping-reservation/internal/repository"
)

// AdminHandler serves the reservation back office.  Every route sits behind
// JWTAuth and RequireRole("ADMIN").
type AdminHandler struct {
    Manager *booking.Manager
    Now     func() time.Time
}

func NewAdminHandler(m *booking.Manager) *AdminHandler {
    if m == nil {
        panic("nil manager passed to NewAdminHandler")
    }
    return &AdminHandler{Manager: m, Now: time.Now}
}

// ListReservations handles GET /api/admin/reservations with optional
// ?status= and ?cabin_id= filters.
func (h *AdminHandler) ListReservations(c echo.Context) error {
    var f repository.ReservationFilter
    if raw := c.QueryParam("status"); raw != "" {
        st, ok := model.ParseStatus(raw)
        if !ok {
            return writeError(c, &booking.ValidationError{Field: "status", Message: "unknown status"})
        }
        f.Status = st
    }
    if raw := c.QueryParam("cabin_id"); raw != "" {
        id, err := strconv.ParseUint(raw, 10, 64)
        if err != nil {
            return writeError(c, &booking.ValidationError{Field: "cabin_id", Message: "must be a number"})
        }
        f.CabinID = id
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    list, err := h.Manager.List(ctx, f)
    if err != nil {
        return writeError(c, err)
    }
    out := make([]reservationResp, 0, len(list))
    for _, d := range list {
        out = append(out, toDetailResp(d))
    }
    return c.JSON(http.StatusOK, out)
}

// GetReservation handles GET /api/admin/reservations/:id.
func (h *AdminHandler) GetReservation(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    r, err := h.Manager.Get(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, toReservationResp(r))
}

// QuickReservation handles POST /api/admin/quick-reservation: a confirmed
// booking with no hold and no emails.
func (h *AdminHandler) QuickReservation(c echo.Context) error {
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
    r, err := h.Manager.QuickBook(ctx, create)
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

// Confirm handles POST /api/admin/reservations/:id/confirm.
func (h *AdminHandler) Confirm(c echo.Context) error {
    return h.apply(c, h.Manager.Confirm)
}

// Cancel handles PATCH /api/admin/reservations/:id/cancel.
func (h *AdminHandler) Cancel(c echo.Context) error {
    return h.apply(c, h.Manager.Cancel)
}

type statusReq struct {
    Status string `json:"status" validate:"required,oneof=confirmed cancelled expired"`
}

// UpdateStatus handles PATCH /api/admin/reservations/:id/status.
func (h *AdminHandler) UpdateStatus(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    var req statusReq
    if err := bindAndValidate(c, &req); err != nil {
        return writeError(c, err)
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    r, err := h.Manager.UpdateStatus(ctx, id, model.Status(req.Status))
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, toReservationResp(r))
}

// Delete handles DELETE /api/admin/reservations/:id.
func (h *AdminHandler) Delete(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    if err := h.Manager.Delete(ctx, id); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// ProcessExpired handles POST /api/admin/reservations/process-expired: one
// sweep on demand.
func (h *AdminHandler) ProcessExpired(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()
    n, err := h.Manager.ExpireOverdue(ctx)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message": "Processed " + strconv.Itoa(n) + " expired reservations",
        "count":   n,
    })
}

// DashboardStats handles GET /api/admin/dashboard/stats.
func (h *AdminHandler) DashboardStats(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()
    list, err := h.Manager.List(ctx, repository.ReservationFilter{})
    if err != nil {
        return writeError(c, err)
    }
    cabins, err := h.Manager.Cabins(ctx, true)
    if err != nil {
        return writeError(c, err)
    }
    rs := make([]model.Reservation, 0, len(list))
    for _, d := range list {
        rs = append(rs, d.Reservation)
    }
    return c.JSON(http.StatusOK, booking.Stats(rs, len(cabins), h.Now()))
}

func (h *AdminHandler) apply(c echo.Context, op func(ctx context.Context, id uint64) (model.Reservation, error)) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    r, err := op(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, toReservationResp(r))
}
