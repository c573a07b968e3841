package pricing

import (
	"errors"
	"testing"

	"github.com/iliyamo/glamping-reservation/internal/model"
)

var cabin = model.Cabin{ID: 1, Name: "Montesereno Glamping", WeekdayPrice: 350000, WeekendPrice: 450000, MaxGuests: 6, IsActive: true}

func date(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func noHolidays(model.Date) bool { return false }

func TestTotalScenarios(t *testing.T) {
	e := New(DefaultConfig()).WithHolidays(noHolidays)
	cases := []struct {
		name    string
		in, out string
		guests  int
		want    int64
	}{
		{"weekday nights", "2024-03-04", "2024-03-06", 2, 700000},   // Mon-Wed
		{"weekend nights", "2024-03-08", "2024-03-10", 2, 900000},   // Fri-Sun
		{"extra guests", "2024-03-04", "2024-03-05", 4, 450000},     // Mon-Tue
		{"single guest", "2024-03-04", "2024-03-05", 1, 350000},
		{"full week", "2024-03-04", "2024-03-11", 2, 5*350000 + 2*450000},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := e.Total(cabin, date(t, c.in), date(t, c.out), c.guests)
			if err != nil {
				t.Fatal(err)
			}
			if got != c.want {
				t.Fatalf("total = %d, want %d", got, c.want)
			}
		})
	}
}

func TestHolidayEveUsesWeekendRate(t *testing.T) {
	e := New(DefaultConfig())
	// Sunday 2024-01-07 precedes the moved Epiphany holiday on Monday 2024-01-08.
	q, err := e.Quote(cabin, date(t, "2024-01-07"), date(t, "2024-01-09"), 2)
	if err != nil {
		t.Fatal(err)
	}
	if q.Nights[0].Tier != TierWeekend {
		t.Fatalf("holiday eve tier = %s", q.Nights[0].Tier)
	}
	// The holiday night itself is a Monday followed by an ordinary Tuesday.
	if q.Nights[1].Tier != TierWeekday {
		t.Fatalf("holiday night tier = %s", q.Nights[1].Tier)
	}
	if q.Total != 800000 {
		t.Fatalf("total = %d, want 800000", q.Total)
	}
}

func TestQuoteBreakdown(t *testing.T) {
	e := New(DefaultConfig()).WithHolidays(noHolidays)
	q, err := e.Quote(cabin, date(t, "2024-03-07"), date(t, "2024-03-09"), 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(q.Nights) != 2 {
		t.Fatalf("nights = %d", len(q.Nights))
	}
	thu, fri := q.Nights[0], q.Nights[1]
	if thu.Tier != TierWeekday || thu.Price != 400000 {
		t.Errorf("thursday = %+v", thu)
	}
	if fri.Tier != TierWeekend || fri.Price != 500000 {
		t.Errorf("friday = %+v", fri)
	}
	if q.Total != 900000 {
		t.Errorf("total = %d", q.Total)
	}
}

func TestValidation(t *testing.T) {
	e := New(DefaultConfig()).WithHolidays(noHolidays)
	mon, tue := date(t, "2024-03-04"), date(t, "2024-03-05")

	if _, err := e.Total(cabin, tue, mon, 2); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("reversed range: %v", err)
	}
	if _, err := e.Total(cabin, mon, mon, 2); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("empty range: %v", err)
	}
	if _, err := e.Total(cabin, mon, tue, 0); !errors.Is(err, ErrInvalidGuests) {
		t.Errorf("zero guests: %v", err)
	}
	if _, err := e.Total(cabin, mon, tue, 7); !errors.Is(err, ErrTooManyGuests) {
		t.Errorf("seven guests: %v", err)
	}
}

func TestCapacityFallsBackToConfig(t *testing.T) {
	e := New(Config{ExtraGuestNightly: 50000, IncludedGuests: 2, MaxGuests: 4})
	if got := e.Capacity(model.Cabin{}); got != 4 {
		t.Fatalf("capacity = %d", got)
	}
	if got := e.Capacity(cabin); got != 6 {
		t.Fatalf("capacity = %d", got)
	}
}

func TestTotalIsDeterministic(t *testing.T) {
	e := New(DefaultConfig())
	in, out := date(t, "2025-12-20"), date(t, "2026-01-03")
	first, err := e.Total(cabin, in, out, 5)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if got, _ := e.Total(cabin, in, out, 5); got != first {
			t.Fatalf("run %d: %d != %d", i, got, first)
		}
	}
}
