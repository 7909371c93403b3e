package geo

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/nbilal/homepin/internal/model"
)

const (
	// DefaultMarkerCount is how many synthetic listings surround an anchor.
	DefaultMarkerCount = 25

	// jitterSpan is the total degree spread around the anchor, per axis.
	jitterSpan = 0.01

	priceMin  = 5000
	priceSpan = 50000
)

// Generate creates count synthetic listing markers around the anchor.
// The draw is seeded from the anchor itself, so the same anchor always
// reproduces the same batch; a new anchor replaces the set wholesale.
func Generate(anchor model.Coordinate, count int) []model.Marker {
	rng := rand.New(rand.NewPCG(
		math.Float64bits(anchor.Latitude),
		math.Float64bits(anchor.Longitude),
	))

	markers := make([]model.Marker, count)
	for i := range markers {
		price := priceMin + int(rng.Float64()*priceSpan)
		markers[i] = model.Marker{
			ID: i,
			Coordinate: model.Coordinate{
				Latitude:  anchor.Latitude + (rng.Float64()-0.5)*jitterSpan,
				Longitude: anchor.Longitude + (rng.Float64()-0.5)*jitterSpan,
			},
			Price:      price,
			PriceLabel: FormatPrice(price),
		}
	}
	return markers
}

// FormatPrice renders a price in AED the way markers display it.
// The filter matches against this rendering, so the format is contract.
func FormatPrice(price int) string {
	if price >= 1000 {
		return fmt.Sprintf("%.1fk AED", float64(price)/1000)
	}
	return fmt.Sprintf("%d AED", price)
}

// AnchorRegion returns the initial viewport around a freshly obtained fix.
func AnchorRegion(anchor model.Coordinate) model.Region {
	return model.Region{
		Center:   anchor,
		LatDelta: 0.005,
		LngDelta: 0.005,
	}
}
