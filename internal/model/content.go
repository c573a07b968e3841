package model

import "time"

// GalleryImage is one photo of the public gallery.  ImageURL points at an
// externally hosted file.
type GalleryImage struct {
    ID           uint64
    Title        string
    Description  string
    ImageURL     string
    DisplayOrder int
    IsActive     bool
    CreatedAt    time.Time
}

// Review is a guest testimonial.  Only approved reviews are public.
type Review struct {
    ID           uint64
    GuestName    string
    Rating       int // 1..5
    Comment      string
    IsApproved   bool
    DisplayOrder int
    CreatedAt    time.Time
}

// HeroBanner is a slide of the landing page carousel.
type HeroBanner struct {
    ID           uint64
    Title        string
    Description  string
    ImageURL     string
    ButtonText   string
    ButtonURL    string
    IsActive     bool
    DisplayOrder int
    CreatedAt    time.Time
    UpdatedAt    time.Time
}
