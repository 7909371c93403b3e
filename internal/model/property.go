package model

import (
	"math"
	"time"

	"github.com/paulmach/orb"
)

// Coordinate is a WGS 84 point.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether both axes are finite and within range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) ||
		math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Point converts to an orb point ([lng, lat] order).
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}

// Region describes the visible map span around a center coordinate.
type Region struct {
	Center   Coordinate
	LatDelta float64
	LngDelta float64
}

// Bound returns the region as an orb bounding box.
func (r Region) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{r.Center.Longitude - r.LngDelta/2, r.Center.Latitude - r.LatDelta/2},
		Max: orb.Point{r.Center.Longitude + r.LngDelta/2, r.Center.Latitude + r.LatDelta/2},
	}
}

// Contains reports whether the coordinate falls inside the region.
func (r Region) Contains(c Coordinate) bool {
	return r.Bound().Contains(c.Point())
}

// Marker is a synthetic listing pin around an anchor coordinate.
// Markers are immutable once generated and replaced wholesale.
type Marker struct {
	ID         int
	Coordinate Coordinate
	Price      int    // whole AED
	PriceLabel string // rendered label, matched by the filter
}

// MapMode is the map rendering mode.
type MapMode int

const (
	MapStandard MapMode = iota
	MapSatellite
	MapTerrain
	MapHybrid
)

// Next returns the following mode in the fixed cycle
// standard → satellite → terrain → hybrid → standard.
func (m MapMode) Next() MapMode {
	return (m + 1) % 4
}

func (m MapMode) String() string {
	switch m {
	case MapStandard:
		return "standard"
	case MapSatellite:
		return "satellite"
	case MapTerrain:
		return "terrain"
	case MapHybrid:
		return "hybrid"
	}
	return "unknown"
}

// MediaRef is a handle to a locally selected or captured photo.
// Pixel data is never inspected.
type MediaRef struct {
	Path     string
	MimeType string
	Filename string
}

// PropertyDraft is the in-progress listing for one submission session.
// Form fields are kept as entered; validation is deferred to the server.
type PropertyDraft struct {
	Title       string
	Price       string
	City        string
	Type        string
	Description string
	Zipcode     string
	Location    *Coordinate
	Media       *MediaRef
	OwnerID     string
}

// SetLocation is invoked by the picker bridge callback.
func (d *PropertyDraft) SetLocation(c Coordinate) {
	d.Location = &c
}

// SetMedia replaces the selected photo wholesale.
func (d *PropertyDraft) SetMedia(m MediaRef) {
	d.Media = &m
}

// Listing is a locally recorded, submitted property.
type Listing struct {
	ID          int64     `json:"id"`
	ServerID    string    `json:"server_id"`
	Title       string    `json:"title"`
	Price       string    `json:"price"`
	City        string    `json:"city"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Zipcode     string    `json:"zipcode"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	ImagePath   string    `json:"image_path"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}
