package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusPending, StatusExpired}:     true,
		{StatusConfirmed, StatusCancelled}: true,
	}
	all := []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusExpired}
	for _, from := range all {
		for _, to := range all {
			if got := CanTransition(from, to); got != allowed[[2]Status{from, to}] {
				t.Errorf("CanTransition(%s, %s) = %v", from, to, got)
			}
		}
	}
}

func TestOverlapsHalfOpen(t *testing.T) {
	d := func(day int) Date { return NewDate(2024, time.June, day) }
	cases := []struct {
		aIn, aOut, bIn, bOut int
		want                 bool
	}{
		{1, 5, 3, 7, true},
		{3, 7, 1, 5, true},
		{1, 5, 5, 7, false}, // same-day turnover
		{5, 7, 1, 5, false},
		{1, 10, 3, 4, true},
		{1, 2, 2, 3, false},
	}
	for _, c := range cases {
		if got := Overlaps(d(c.aIn), d(c.aOut), d(c.bIn), d(c.bOut)); got != c.want {
			t.Errorf("Overlaps(%d-%d, %d-%d) = %v", c.aIn, c.aOut, c.bIn, c.bOut, got)
		}
	}
}

func TestDateJSONAndScan(t *testing.T) {
	var v struct {
		D Date `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"d":"2024-02-29"}`), &v); err != nil {
		t.Fatal(err)
	}
	if v.D.String() != "2024-02-29" || v.D.Weekday() != time.Thursday {
		t.Fatalf("parsed %s (%s)", v.D, v.D.Weekday())
	}
	if err := json.Unmarshal([]byte(`{"d":"29/02/2024"}`), &v); err == nil {
		t.Fatal("expected error for non ISO date")
	}

	var s Date
	if err := s.Scan(time.Date(2024, 6, 1, 23, 0, 0, 0, time.FixedZone("COT", -5*3600))); err != nil {
		t.Fatal(err)
	}
	if s.String() != "2024-06-01" {
		t.Fatalf("scan kept the wrong day: %s", s)
	}
	if err := s.Scan([]byte("2024-06-02")); err != nil || s.String() != "2024-06-02" {
		t.Fatalf("scan bytes: %s %v", s, err)
	}
}

func TestDateArithmetic(t *testing.T) {
	a := NewDate(2024, time.February, 28)
	if got := a.AddDays(2).String(); got != "2024-03-01" {
		t.Fatalf("AddDays = %s", got)
	}
	if n := a.DaysUntil(NewDate(2024, time.March, 5)); n != 6 {
		t.Fatalf("DaysUntil = %d", n)
	}
	r := Reservation{CheckIn: a, CheckOut: a.AddDays(3)}
	if r.Nights() != 3 {
		t.Fatalf("Nights = %d", r.Nights())
	}
}

func TestParseStatus(t *testing.T) {
	if s, ok := ParseStatus(" Confirmed "); !ok || s != StatusConfirmed {
		t.Fatalf("ParseStatus = %q, %v", s, ok)
	}
	if _, ok := ParseStatus("archived"); ok {
		t.Fatal("unknown status accepted")
	}
}
