package booking

import (
	"math"
	"time"

	"github.com/iliyamo/glamping-reservation/internal/model"
)

var monthLabels = [12]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

// MonthCount is one month of the reservations chart.
type MonthCount struct {
	Month     string `json:"month"`
	Total     int    `json:"total"`
	Confirmed int    `json:"aprobadas"`
	Cancelled int    `json:"canceladas"`
}

// MonthRevenue is one month of confirmed revenue.
type MonthRevenue struct {
	Month   string `json:"month"`
	Revenue int64  `json:"revenue"`
}

// MonthOccupancy is the share of a month's cabin-nights sold.  TotalDays
// is the month's length times the number of active cabins.
type MonthOccupancy struct {
	Month         string `json:"month"`
	OccupancyRate int    `json:"occupancyRate"` // percent, 0-100
	BookedDays    int    `json:"bookedDays"`
	TotalDays     int    `json:"totalDays"`
}

// DashboardStats feeds the admin dashboard.
type DashboardStats struct {
	TotalReservations     int              `json:"totalReservations"`
	PendingReservations   int              `json:"pendingReservations"`
	ConfirmedReservations int              `json:"confirmedReservations"`
	TotalRevenue          int64            `json:"totalRevenue"`
	ThisYearReservations  int              `json:"thisYearReservations"`
	MonthlyData           []MonthCount     `json:"monthlyData"`
	RevenueData           []MonthRevenue   `json:"revenueData"`
	OccupancyRate         []MonthOccupancy `json:"occupancyRate"`
}

// Stats summarises reservations for the current year of now.  Monthly counts
// and revenue are bucketed by creation month; occupancy counts the nights
// of confirmed stays that fall in each month against the capacity of
// `cabins` active cabins (at least one).
func Stats(rs []model.Reservation, cabins int, now time.Time) DashboardStats {
	year := now.Year()
	cabins = max(cabins, 1)
	s := DashboardStats{
		TotalReservations: len(rs),
		MonthlyData:       make([]MonthCount, 12),
		RevenueData:       make([]MonthRevenue, 12),
		OccupancyRate:     make([]MonthOccupancy, 12),
	}
	var booked [12]int
	for i := range monthLabels {
		s.MonthlyData[i].Month = monthLabels[i]
		s.RevenueData[i].Month = monthLabels[i]
		s.OccupancyRate[i].Month = monthLabels[i]
	}

	for _, r := range rs {
		switch r.Status {
		case model.StatusPending:
			s.PendingReservations++
		case model.StatusConfirmed:
			s.ConfirmedReservations++
			s.TotalRevenue += r.TotalPrice
		}
		if r.CreatedAt.Year() == year {
			s.ThisYearReservations++
			m := int(r.CreatedAt.Month()) - 1
			s.MonthlyData[m].Total++
			switch r.Status {
			case model.StatusConfirmed:
				s.MonthlyData[m].Confirmed++
				s.RevenueData[m].Revenue += r.TotalPrice
			case model.StatusCancelled, model.StatusExpired:
				s.MonthlyData[m].Cancelled++
			}
		}
		if r.Status == model.StatusConfirmed {
			for d := r.CheckIn; d.Before(r.CheckOut); d = d.AddDays(1) {
				if d.Year() == year {
					booked[int(d.Month())-1]++
				}
			}
		}
	}

	for i := range booked {
		total := model.NewDate(year, time.Month(i+2), 0).Day() * cabins
		o := &s.OccupancyRate[i]
		o.BookedDays, o.TotalDays = booked[i], total
		o.OccupancyRate = int(math.Round(float64(booked[i]) * 100 / float64(total)))
	}
	return s
}
