package model

import "time"

// Cabin is a bookable lodging unit.  Cabins are seeded from configuration
// and are never hard-deleted; IsActive=false hides them from booking.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – display name.
//  WeekdayPrice – nightly rate in COP for weekday nights.
//  WeekendPrice – nightly rate in COP for Friday, Saturday and holiday-eve
//                 nights.
//  MaxGuests    – capacity; bookings above it are rejected.
//  IsActive     – whether the cabin can be booked.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Cabin struct {
    ID           uint64    // cabins.id
    Name         string    // cabins.name
    WeekdayPrice int64     // cabins.weekday_price
    WeekendPrice int64     // cabins.weekend_price
    MaxGuests    int       // cabins.max_guests
    IsActive     bool      // cabins.is_active
    CreatedAt    time.Time // cabins.created_at
    UpdatedAt    time.Time // cabins.updated_at
}
