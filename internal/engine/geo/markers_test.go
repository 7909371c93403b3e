package geo

import (
	"math"
	"testing"

	"github.com/nbilal/homepin/internal/model"
)

var dubai = model.Coordinate{Latitude: 25.2048, Longitude: 55.2708}

func TestGenerateCount(t *testing.T) {
	markers := Generate(dubai, DefaultMarkerCount)
	if len(markers) != 25 {
		t.Fatalf("got %d markers, want 25", len(markers))
	}
}

func TestGenerateJitterBounds(t *testing.T) {
	markers := Generate(dubai, DefaultMarkerCount)
	for _, m := range markers {
		if math.Abs(m.Coordinate.Latitude-dubai.Latitude) > 0.005 {
			t.Errorf("marker %d latitude %.6f outside ±0.005 of anchor", m.ID, m.Coordinate.Latitude)
		}
		if math.Abs(m.Coordinate.Longitude-dubai.Longitude) > 0.005 {
			t.Errorf("marker %d longitude %.6f outside ±0.005 of anchor", m.ID, m.Coordinate.Longitude)
		}
	}
}

func TestGeneratePriceRange(t *testing.T) {
	markers := Generate(dubai, DefaultMarkerCount)
	for _, m := range markers {
		if m.Price < 5000 || m.Price >= 55000 {
			t.Errorf("marker %d price %d outside [5000, 55000)", m.ID, m.Price)
		}
		if m.PriceLabel != FormatPrice(m.Price) {
			t.Errorf("marker %d label %q does not match price %d", m.ID, m.PriceLabel, m.Price)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(dubai, DefaultMarkerCount)
	b := Generate(dubai, DefaultMarkerCount)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("marker %d differs between identical anchors: %+v vs %+v", i, a[i], b[i])
		}
	}

	other := Generate(model.Coordinate{Latitude: 24.4539, Longitude: 54.3773}, DefaultMarkerCount)
	same := true
	for i := range a {
		if a[i].Price != other[i].Price {
			same = false
			break
		}
	}
	if same {
		t.Error("different anchors produced identical price sequences")
	}
}

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		price int
		want  string
	}{
		{999, "999 AED"},
		{1000, "1.0k AED"},
		{52500, "52.5k AED"},
		{5000, "5.0k AED"},
	}
	for _, c := range cases {
		if got := FormatPrice(c.price); got != c.want {
			t.Errorf("FormatPrice(%d) = %q, want %q", c.price, got, c.want)
		}
	}
}

func TestAnchorRegion(t *testing.T) {
	r := AnchorRegion(dubai)
	if r.Center != dubai {
		t.Errorf("region center %+v, want anchor", r.Center)
	}
	if r.LatDelta != 0.005 || r.LngDelta != 0.005 {
		t.Errorf("region deltas %.4f/%.4f, want 0.005/0.005", r.LatDelta, r.LngDelta)
	}
	if !r.Contains(dubai) {
		t.Error("region does not contain its own center")
	}
}
