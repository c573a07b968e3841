// Package holiday computes Colombian public holidays.  Colombia observes a
// handful of fixed-date holidays, two holidays tied to Easter Sunday that are
// never moved, and a larger group (the "Ley Emiliani" holidays) that are
// observed on the following Monday whenever they do not already fall on one.
package holiday

import (
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/glamping-reservation/internal/model"
)

// fixed holidays are observed on their calendar date.
var fixed = []struct {
	month time.Month
	day   int
}{
	{time.January, 1},   // Año Nuevo
	{time.May, 1},       // Día del Trabajo
	{time.July, 20},     // Independencia
	{time.August, 7},    // Batalla de Boyacá
	{time.December, 8},  // Inmaculada Concepción
	{time.December, 25}, // Navidad
}

// movable holidays are moved to the next Monday.
var movable = []struct {
	month time.Month
	day   int
}{
	{time.January, 6},   // Reyes Magos
	{time.March, 19},    // San José
	{time.June, 29},     // San Pedro y San Pablo
	{time.August, 15},   // Asunción
	{time.October, 12},  // Día de la Raza
	{time.November, 1},  // Todos los Santos
	{time.November, 11}, // Independencia de Cartagena
}

// easterFixed are offsets from Easter Sunday observed as-is.
var easterFixed = []int{
	-3, // Jueves Santo
	-2, // Viernes Santo
}

// easterMoved are offsets from Easter Sunday moved to the next Monday.
var easterMoved = []int{
	39, // Ascensión
	60, // Corpus Christi
	68, // Sagrado Corazón
}

// Easter returns Easter Sunday of the given Gregorian year using the
// anonymous (Meeus/Jones/Butcher) algorithm.
func Easter(year int) model.Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	n := h + l - 7*m + 114
	return model.NewDate(year, time.Month(n/31), n%31+1)
}

// MoveToMonday returns d when it is a Monday, otherwise the next Monday.
func MoveToMonday(d model.Date) model.Date {
	switch wd := d.Weekday(); wd {
	case time.Monday:
		return d
	case time.Sunday:
		return d.AddDays(1)
	default:
		return d.AddDays(8 - int(wd))
	}
}

var (
	mu    sync.RWMutex
	years = map[int][]model.Date{}
)

// ForYear returns the sorted, de-duplicated holidays of year.  Results are
// memoised; callers receive a copy they may modify.
func ForYear(year int) []model.Date {
	mu.RLock()
	list, ok := years[year]
	mu.RUnlock()
	if !ok {
		list = compute(year)
		mu.Lock()
		years[year] = list
		mu.Unlock()
	}
	out := make([]model.Date, len(list))
	copy(out, list)
	return out
}

// IsHoliday reports whether d is a Colombian public holiday.
func IsHoliday(d model.Date) bool {
	for _, h := range ForYear(d.Year()) {
		if h.Equal(d) {
			return true
		}
	}
	return false
}

func compute(year int) []model.Date {
	seen := map[string]model.Date{}
	add := func(d model.Date) { seen[d.String()] = d }

	for _, f := range fixed {
		add(model.NewDate(year, f.month, f.day))
	}
	for _, m := range movable {
		add(MoveToMonday(model.NewDate(year, m.month, m.day)))
	}
	easter := Easter(year)
	for _, off := range easterFixed {
		add(easter.AddDays(off))
	}
	for _, off := range easterMoved {
		add(MoveToMonday(easter.AddDays(off)))
	}

	out := make([]model.Date, 0, len(seen))
	for _, d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
