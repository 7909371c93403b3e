package location

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/nbilal/homepin/internal/model"
)

type cachedFix struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	ObtainedAt time.Time `json:"obtained_at"`
}

// FixCache persists the last obtained fix so a fresh run within the max age
// can skip the provider round trip.
type FixCache struct {
	path string
	now  func() time.Time
}

func NewFixCache(dataDir string) *FixCache {
	return &FixCache{
		path: filepath.Join(dataDir, "lastfix.json"),
		now:  time.Now,
	}
}

func (c *FixCache) Load() (model.Coordinate, time.Time, bool) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return model.Coordinate{}, time.Time{}, false
	}
	var f cachedFix
	if err := json.Unmarshal(data, &f); err != nil {
		return model.Coordinate{}, time.Time{}, false
	}
	coord := model.Coordinate{Latitude: f.Latitude, Longitude: f.Longitude}
	if !coord.Valid() {
		return model.Coordinate{}, time.Time{}, false
	}
	return coord, f.ObtainedAt, true
}

func (c *FixCache) Save(coord model.Coordinate) {
	data, err := json.MarshalIndent(cachedFix{
		Latitude:   coord.Latitude,
		Longitude:  coord.Longitude,
		ObtainedAt: c.now(),
	}, "", "  ")
	if err != nil {
		return
	}
	os.MkdirAll(filepath.Dir(c.path), 0755)
	os.WriteFile(c.path, data, 0644)
}
