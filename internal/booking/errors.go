package booking

import (
	"fmt"
	"strings"

	"github.com/iliyamo/glamping-reservation/internal/model"
)

// ValidationError reports malformed input such as an empty date range or a
// guest count outside the cabin's capacity.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NotFoundError reports a missing (or inactive) cabin or reservation.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.Key)
}

// Range is an occupied stay interval reported back to the caller.
type Range struct {
	CheckIn  model.Date   `json:"check_in"`
	CheckOut model.Date   `json:"check_out"`
	Status   model.Status `json:"status,omitempty"`
	Source   string       `json:"source"` // "reservation" or "calendar"
}

// ConflictError reports that the requested stay overlaps existing bookings.
type ConflictError struct {
	Ranges []Range
}

func (e *ConflictError) Error() string {
	parts := make([]string, 0, len(e.Ranges))
	for _, r := range e.Ranges {
		if r.Status != "" {
			parts = append(parts, fmt.Sprintf("%s a %s (%s)", r.CheckIn, r.CheckOut, r.Status))
		} else {
			parts = append(parts, fmt.Sprintf("%s a %s (%s)", r.CheckIn, r.CheckOut, r.Source))
		}
	}
	return "Las fechas seleccionadas no están disponibles. Reservas existentes: " + strings.Join(parts, ", ")
}

// InvalidStateError reports a status transition the state machine forbids.
type InvalidStateError struct {
	From model.Status
	To   model.Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot move reservation from %s to %s", e.From, e.To)
}

// NotificationError wraps a failed email or calendar call.  It is logged and
// never returned from a Manager operation.
type NotificationError struct {
	Kind string
	Code string
	Err  error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("%s for %s: %v", e.Kind, e.Code, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

func rangesOf(rs []model.Reservation) []Range {
	out := make([]Range, 0, len(rs))
	for _, r := range rs {
		out = append(out, Range{CheckIn: r.CheckIn, CheckOut: r.CheckOut, Status: r.Status, Source: "reservation"})
	}
	return out
}
