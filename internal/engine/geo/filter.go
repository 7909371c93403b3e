package geo

import (
	"strings"

	"github.com/nbilal/homepin/internal/model"
)

// FilterByLabel keeps markers whose rendered price label contains token,
// preserving order. The empty token is the identity filter. Matching is
// case-sensitive, so category tokens like "Cheap" that never occur in a
// label yield an empty result.
func FilterByLabel(markers []model.Marker, token string) []model.Marker {
	if token == "" {
		return markers
	}
	var kept []model.Marker
	for _, m := range markers {
		if strings.Contains(m.PriceLabel, token) {
			kept = append(kept, m)
		}
	}
	return kept
}

// ClipToRegion keeps markers that fall inside the region's bounding box.
func ClipToRegion(markers []model.Marker, region model.Region) []model.Marker {
	bound := region.Bound()
	var kept []model.Marker
	for _, m := range markers {
		if bound.Contains(m.Coordinate.Point()) {
			kept = append(kept, m)
		}
	}
	return kept
}
