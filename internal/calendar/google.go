// Package calendar connects the booking core to the property's Google
// Calendar: days blocked there count as taken, and confirmed reservations are
// written back as all-day events.
package calendar

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/iliyamo/glamping-reservation/internal/booking"
	"github.com/iliyamo/glamping-reservation/internal/model"
)

// TimeZone is the zone of every all-day event the property writes.
const TimeZone = "America/Bogota"

// bogota is fixed at UTC-5; Colombia has no daylight saving.
var bogota = time.FixedZone(TimeZone, -5*60*60)

// Config holds the service-account credentials.
type Config struct {
	ServiceAccountEmail string
	PrivateKey          string // PEM; literal "\n" sequences are accepted
	CalendarID          string // defaults to "primary"
	Brand               string
}

// Google implements booking.Calendar on the Calendar v3 API.
type Google struct {
	svc        *gcal.Service
	calendarID string
	brand      string
}

// New returns nil, nil when the credentials are absent, which disables the
// calendar.
func New(ctx context.Context, cfg Config) (*Google, error) {
	if cfg.ServiceAccountEmail == "" || cfg.PrivateKey == "" {
		log.Println("calendar: credentials not provided, integration disabled")
		return nil, nil
	}
	conf := &jwt.Config{
		Email:      cfg.ServiceAccountEmail,
		PrivateKey: []byte(strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n")),
		Scopes:     []string{gcal.CalendarScope},
		TokenURL:   google.JWTTokenURL,
	}
	svc, err := gcal.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("calendar: %w", err)
	}
	id := cfg.CalendarID
	if id == "" {
		id = "primary"
	}
	return &Google{svc: svc, calendarID: id, brand: cfg.Brand}, nil
}

// ListEvents returns the events overlapping [from, to).
func (g *Google) ListEvents(ctx context.Context, from, to model.Date) ([]booking.ExternalEvent, error) {
	var out []booking.ExternalEvent
	call := g.svc.Events.List(g.calendarID).
		TimeMin(startOfDay(from).Format(time.RFC3339)).
		TimeMax(startOfDay(to).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")
	err := call.Pages(ctx, func(page *gcal.Events) error {
		for _, item := range page.Items {
			if item.Status == "cancelled" {
				continue
			}
			ev, ok := toExternal(item)
			if ok {
				out = append(out, ev)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("calendar: list events: %w", err)
	}
	return out, nil
}

// CreateEvent writes a confirmed stay as an all-day event and returns its id.
func (g *Google) CreateEvent(ctx context.Context, r model.Reservation, c model.Cabin) (string, error) {
	ev, err := g.svc.Events.Insert(g.calendarID, NewEvent(g.brand, r, c)).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("calendar: insert event: %w", err)
	}
	return ev.Id, nil
}

// NewEvent builds the calendar entry for a reservation.  The end date is the
// check-out day, exclusive as all-day events are.
func NewEvent(brand string, r model.Reservation, c model.Cabin) *gcal.Event {
	cabin := c.Name
	if cabin == "" {
		cabin = "Cabaña"
	}
	return &gcal.Event{
		Summary: fmt.Sprintf("%s - %s (%s)", brand, r.GuestName, cabin),
		Description: fmt.Sprintf("Huésped: %s\nEmail: %s\nPersonas: %d\nTotal: $%s COP\nCódigo: %s",
			r.GuestName, r.GuestEmail, r.Guests, booking.FormatCOP(r.TotalPrice), r.ConfirmationCode),
		Start: &gcal.EventDateTime{Date: r.CheckIn.String(), TimeZone: TimeZone},
		End:   &gcal.EventDateTime{Date: r.CheckOut.String(), TimeZone: TimeZone},
	}
}

// toExternal converts an API event into the day range it blocks.  Timed
// events block every day they touch in Bogota time.
func toExternal(e *gcal.Event) (booking.ExternalEvent, bool) {
	if e == nil || e.Start == nil || e.End == nil {
		return booking.ExternalEvent{}, false
	}
	start, ok := eventDay(e.Start, false)
	if !ok {
		return booking.ExternalEvent{}, false
	}
	end, ok := eventDay(e.End, true)
	if !ok {
		return booking.ExternalEvent{}, false
	}
	if !end.After(start) {
		end = start.AddDays(1)
	}
	return booking.ExternalEvent{ID: e.Id, Summary: e.Summary, Start: start, End: end}, true
}

func eventDay(dt *gcal.EventDateTime, isEnd bool) (model.Date, bool) {
	if dt.Date != "" {
		d, err := model.ParseDate(dt.Date)
		return d, err == nil
	}
	if dt.DateTime == "" {
		return model.Date{}, false
	}
	t, err := time.Parse(time.RFC3339, dt.DateTime)
	if err != nil {
		return model.Date{}, false
	}
	local := t.In(bogota)
	d := model.DateOf(local)
	if isEnd && !local.Equal(startOfDay(d)) {
		d = d.AddDays(1)
	}
	return d, true
}

func startOfDay(d model.Date) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, bogota)
}

var _ booking.Calendar = (*Google)(nil)
