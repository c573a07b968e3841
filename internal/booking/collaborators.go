// Package booking is the reservation core: availability checks, the
// reservation lifecycle and the expiry sweeper.  It talks to storage,
// email, the external calendar and the event bus only through the
// interfaces declared here.
package booking

import (
	"context"
	"time"

	"github.com/iliyamo/glamping-reservation/internal/model"
)

// Notifier sends the transactional emails of the reservation lifecycle.
// Each call reports only success or failure.
type Notifier interface {
	GuestReceived(ctx context.Context, r model.Reservation, c model.Cabin) error
	GuestConfirmed(ctx context.Context, r model.Reservation, c model.Cabin) error
	GuestExpired(ctx context.Context, r model.Reservation, c model.Cabin) error
	OwnerNotified(ctx context.Context, r model.Reservation, c model.Cabin) error
}

// ExternalEvent is a block of days taken in the property's external calendar.
// End is exclusive, as in all-day calendar events.
type ExternalEvent struct {
	ID      string
	Summary string
	Start   model.Date
	End     model.Date
}

// Calendar is the optional external calendar.  A nil Calendar disables every
// calendar feature.
type Calendar interface {
	ListEvents(ctx context.Context, from, to model.Date) ([]ExternalEvent, error)
	CreateEvent(ctx context.Context, r model.Reservation, c model.Cabin) (string, error)
}

// EventType names a lifecycle event published to the event bus.
type EventType string

const (
	EventCreated   EventType = "reservation.created"
	EventConfirmed EventType = "reservation.confirmed"
	EventCancelled EventType = "reservation.cancelled"
	EventExpired   EventType = "reservation.expired"
	EventDeleted   EventType = "reservation.deleted"
)

// Event is a lifecycle change handed to the EventPublisher.
type Event struct {
	Type        EventType
	Reservation model.Reservation
	Cabin       model.Cabin
	OccurredAt  time.Time
}

// EventPublisher forwards lifecycle events.  Publishing is best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
}

type nopNotifier struct{}

func (nopNotifier) GuestReceived(context.Context, model.Reservation, model.Cabin) error  { return nil }
func (nopNotifier) GuestConfirmed(context.Context, model.Reservation, model.Cabin) error { return nil }
func (nopNotifier) GuestExpired(context.Context, model.Reservation, model.Cabin) error   { return nil }
func (nopNotifier) OwnerNotified(context.Context, model.Reservation, model.Cabin) error  { return nil }
