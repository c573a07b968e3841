package handler

import (
    "time"

    "github.com/iliyamo/glamping-reservation/internal/booking"
    "github.com/iliyamo/glamping-reservation/internal/model"
)

type cabinResp struct {
    ID           uint64 `json:"id"`
    Name         string `json:"name"`
    WeekdayPrice int64  `json:"weekday_price"`
    WeekendPrice int64  `json:"weekend_price"`
    MaxGuests    int    `json:"max_guests"`
    IsActive     bool   `json:"is_active"`
}

func toCabinResp(c model.Cabin) cabinResp {
    return cabinResp{
        ID:           c.ID,
        Name:         c.Name,
        WeekdayPrice: c.WeekdayPrice,
        WeekendPrice: c.WeekendPrice,
        MaxGuests:    c.MaxGuests,
        IsActive:     c.IsActive,
    }
}

type reservationResp struct {
    ID                  uint64     `json:"id"`
    CabinID             uint64     `json:"cabin_id"`
    GuestName           string     `json:"guest_name"`
    GuestEmail          string     `json:"guest_email"`
    GuestPhone          string     `json:"guest_phone"`
    CheckIn             model.Date `json:"check_in"`
    CheckOut            model.Date `json:"check_out"`
    Nights              int        `json:"nights"`
    Guests              int        `json:"guests"`
    TotalPrice          int64      `json:"total_price"`
    Status              string     `json:"status"`
    ConfirmationCode    string     `json:"confirmation_code"`
    HoldUntil           *time.Time `json:"hold_until"`
    PaymentInstructions string     `json:"payment_instructions,omitempty"`
    CalendarEventID     *string    `json:"calendar_event_id,omitempty"`
    CreatedAt           time.Time  `json:"created_at"`
    UpdatedAt           time.Time  `json:"updated_at"`
    Cabin               *cabinResp `json:"cabin,omitempty"`
}

func toReservationResp(r model.Reservation) reservationResp {
    return reservationResp{
        ID:                  r.ID,
        CabinID:             r.CabinID,
        GuestName:           r.GuestName,
        GuestEmail:          r.GuestEmail,
        GuestPhone:          r.GuestPhone,
        CheckIn:             r.CheckIn,
        CheckOut:            r.CheckOut,
        Nights:              r.Nights(),
        Guests:              r.Guests,
        TotalPrice:          r.TotalPrice,
        Status:              string(r.Status),
        ConfirmationCode:    r.ConfirmationCode,
        HoldUntil:           r.HoldUntil,
        PaymentInstructions: r.PaymentInstructions,
        CalendarEventID:     r.CalendarEventID,
        CreatedAt:           r.CreatedAt,
        UpdatedAt:           r.UpdatedAt,
    }
}

func toDetailResp(d booking.Detail) reservationResp {
    out := toReservationResp(d.Reservation)
    if d.Cabin.ID != 0 {
        c := toCabinResp(d.Cabin)
        out.Cabin = &c
    }
    return out
}

// createdResp is what a guest gets back after booking.
type createdResp struct {
    ID                  uint64     `json:"id"`
    ConfirmationCode    string     `json:"confirmation_code"`
    Status              string     `json:"status"`
    HoldUntil           *time.Time `json:"hold_until"`
    TotalPrice          int64      `json:"total_price"`
    PaymentInstructions string     `json:"payment_instructions"`
}

// reservationReq is the body of guest and quick bookings.
type reservationReq struct {
    CabinID    uint64 `json:"cabin_id" validate:"required"`
    GuestName  string `json:"guest_name" validate:"required"`
    GuestEmail string `json:"guest_email" validate:"required"`
    GuestPhone string `json:"guest_phone" validate:"required"`
    CheckIn    string `json:"check_in" validate:"required,datetime=2006-01-02"`
    CheckOut   string `json:"check_out" validate:"required,datetime=2006-01-02"`
    Guests     int    `json:"guests" validate:"required,min=1"`
}

func (r reservationReq) toCreate() (booking.CreateRequest, error) {
    in, err := model.ParseDate(r.CheckIn)
    if err != nil {
        return booking.CreateRequest{}, &booking.ValidationError{Field: "check_in", Message: "must be a YYYY-MM-DD date"}
    }
    out, err := model.ParseDate(r.CheckOut)
    if err != nil {
        return booking.CreateRequest{}, &booking.ValidationError{Field: "check_out", Message: "must be a YYYY-MM-DD date"}
    }
    return booking.CreateRequest{
        CabinID:  r.CabinID,
        Guest:    booking.GuestInfo{Name: r.GuestName, Email: r.GuestEmail, Phone: r.GuestPhone},
        CheckIn:  in,
        CheckOut: out,
        Guests:   r.Guests,
    }, nil
}
