package model

import (
    "strings"
    "time"
)

// Status is the lifecycle state of a reservation.
type Status string

const (
    StatusPending   Status = "pending"
    StatusConfirmed Status = "confirmed"
    StatusCancelled Status = "cancelled"
    StatusExpired   Status = "expired"
)

// ActiveStatuses are the states that occupy a cabin's calendar.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed}

// ParseStatus normalises s and reports whether it names a known status.
func ParseStatus(s string) (Status, bool) {
    st := Status(strings.ToLower(strings.TrimSpace(s)))
    switch st {
    case StatusPending, StatusConfirmed, StatusCancelled, StatusExpired:
        return st, true
    }
    return "", false
}

// Active reports whether a reservation in this state blocks its dates.
func (s Status) Active() bool {
    return s == StatusPending || s == StatusConfirmed
}

// Terminal reports whether no transition leaves this state.
func (s Status) Terminal() bool {
    return s == StatusCancelled || s == StatusExpired
}

// transitions lists, for every target state, the states it may be entered
// from.
var transitions = map[Status][]Status{
    StatusConfirmed: {StatusPending},
    StatusCancelled: {StatusPending, StatusConfirmed},
    StatusExpired:   {StatusPending},
}

// TransitionSources returns the states from which to may be entered.  It is
// empty for pending, which is only ever an initial state.
func TransitionSources(to Status) []Status {
    return transitions[to]
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to Status) bool {
    for _, s := range transitions[to] {
        if s == from {
            return true
        }
    }
    return false
}

// Reservation is a guest's booking of a cabin for the half-open stay
// [CheckIn, CheckOut).  TotalPrice is fixed at creation time.
//
// Fields:
//  ID                  – primary key identifier.
//  CabinID             – booked cabin.
//  GuestName           – guest full name.
//  GuestEmail          – guest contact email.
//  GuestPhone          – guest contact phone.
//  CheckIn             – first night of the stay.
//  CheckOut            – departure day (exclusive).
//  Guests              – number of guests.
//  TotalPrice          – price in COP computed at creation.
//  Status              – lifecycle state.
//  ConfirmationCode    – unique guest-facing lookup code.
//  HoldUntil           – soft-hold deadline (nil for admin bookings).
//  PaymentInstructions – deposit instructions shown to the guest.
//  CalendarEventID     – external calendar event, if one was created.
//  CreatedAt           – creation timestamp.
//  UpdatedAt           – last update timestamp.
type Reservation struct {
    ID                  uint64     // reservations.id
    CabinID             uint64     // reservations.cabin_id
    GuestName           string     // reservations.guest_name
    GuestEmail          string     // reservations.guest_email
    GuestPhone          string     // reservations.guest_phone
    CheckIn             Date       // reservations.check_in
    CheckOut            Date       // reservations.check_out
    Guests              int        // reservations.guests
    TotalPrice          int64      // reservations.total_price
    Status              Status     // reservations.status
    ConfirmationCode    string     // reservations.confirmation_code
    HoldUntil           *time.Time // reservations.hold_until (nullable)
    PaymentInstructions string     // reservations.payment_instructions
    CalendarEventID     *string    // reservations.calendar_event_id (nullable)
    CreatedAt           time.Time  // reservations.created_at
    UpdatedAt           time.Time  // reservations.updated_at
}

// Nights is the number of nights in the stay.
func (r Reservation) Nights() int {
    return r.CheckIn.DaysUntil(r.CheckOut)
}

// Overlaps reports whether the half-open ranges [aIn, aOut) and [bIn, bOut)
// intersect.  A stay ending on the day another begins does not overlap it.
func Overlaps(aIn, aOut, bIn, bOut Date) bool {
    return aIn.Before(bOut) && aOut.After(bIn)
}

// OverlapsRange reports whether r occupies any night of [in, out).
func (r Reservation) OverlapsRange(in, out Date) bool {
    return Overlaps(r.CheckIn, r.CheckOut, in, out)
}
