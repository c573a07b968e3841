package model

import (
    "database/sql/driver"
    "encoding/json"
    "fmt"
    "strings"
    "time"
)

// DateLayout is the canonical YYYY-MM-DD representation used for stay
// dates, holiday lists and API payloads.
const DateLayout = "2006-01-02"

// Date is a calendar day.  The wrapped time is always midnight UTC so that
// weekday arithmetic never depends on the server's local zone.
type Date struct {
    time.Time
}

// NewDate returns the Date for the given year, month and day.  Out of range
// values are normalised the same way time.Date does (e.g. Feb 30 -> Mar 2).
func NewDate(year int, month time.Month, day int) Date {
    return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
    return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.  Surrounding whitespace is ignored.
func ParseDate(s string) (Date, error) {
    t, err := time.Parse(DateLayout, strings.TrimSpace(s))
    if err != nil {
        return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
    }
    return Date{t}, nil
}

func (d Date) String() string { return d.Format(DateLayout) }

// AddDays moves the date n days forward (or backward when n is negative).
func (d Date) AddDays(n int) Date { return Date{d.Time.AddDate(0, 0, n)} }

func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }
func (d Date) Equal(o Date) bool  { return d.Time.Equal(o.Time) }

// DaysUntil returns the number of whole days from d to o (negative if o is
// earlier).
func (d Date) DaysUntil(o Date) int {
    return int(o.Time.Sub(d.Time).Hours() / 24)
}

func (d Date) MarshalJSON() ([]byte, error) {
    return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
    var s string
    if err := json.Unmarshal(b, &s); err != nil {
        return err
    }
    parsed, err := ParseDate(s)
    if err != nil {
        return err
    }
    *d = parsed
    return nil
}

// Value stores the date as a DATE literal.
func (d Date) Value() (driver.Value, error) {
    return d.String(), nil
}

// Scan accepts DATE columns decoded either as time.Time (parseTime=true) or
// as raw text.
func (d *Date) Scan(src interface{}) error {
    switch v := src.(type) {
    case time.Time:
        *d = DateOf(v)
        return nil
    case []byte:
        parsed, err := ParseDate(string(v))
        if err != nil {
            return err
        }
        *d = parsed
        return nil
    case string:
        parsed, err := ParseDate(v)
        if err != nil {
            return err
        }
        *d = parsed
        return nil
    }
    return fmt.Errorf("cannot scan %T into model.Date", src)
}
