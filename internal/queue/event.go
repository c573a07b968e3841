// Package queue defines the reservation events exchanged over the message
// broker and the audit consumer that records them.
package queue

import (
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/glamping-reservation/internal/booking"
)

// ReservationQueue is the durable queue carrying every lifecycle event.
const ReservationQueue = "reservation.events"

// ReservationEvent is published whenever a reservation changes state.  It
// carries enough of the reservation for consumers to log or notify without
// querying the primary database.
type ReservationEvent struct {
    EventID          string `json:"event_id"`
    Type             string `json:"type"`
    ReservationID    uint64 `json:"reservation_id"`
    ConfirmationCode string `json:"confirmation_code"`
    CabinID          uint64 `json:"cabin_id"`
    CabinName        string `json:"cabin_name"`
    GuestName        string `json:"guest_name"`
    GuestEmail       string `json:"guest_email"`
    CheckIn          string `json:"check_in"`
    CheckOut         string `json:"check_out"`
    Guests           int    `json:"guests"`
    TotalPrice       int64  `json:"total_price"`
    Status           string `json:"status"`
    OccurredAt       string `json:"occurred_at"`
}

// NewReservationEvent flattens a booking event and stamps it with a fresh id.
func NewReservationEvent(ev booking.Event) ReservationEvent {
    r := ev.Reservation
    at := ev.OccurredAt
    if at.IsZero() {
        at = time.Now()
    }
    return ReservationEvent{
        EventID:          uuid.NewString(),
        Type:             string(ev.Type),
        ReservationID:    r.ID,
        ConfirmationCode: r.ConfirmationCode,
        CabinID:          r.CabinID,
        CabinName:        ev.Cabin.Name,
        GuestName:        r.GuestName,
        GuestEmail:       r.GuestEmail,
        CheckIn:          r.CheckIn.String(),
        CheckOut:         r.CheckOut.String(),
        Guests:           r.Guests,
        TotalPrice:       r.TotalPrice,
        Status:           string(r.Status),
        OccurredAt:       at.UTC().Format(time.RFC3339),
    }
}
