package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nbilal/homepin/internal/engine/geo"
	"github.com/nbilal/homepin/internal/model"
	"github.com/nbilal/homepin/internal/tui/styles"
)

// RecenterDuration is how long the recenter animation runs.
const RecenterDuration = 1000 * time.Millisecond

// MapView renders listing markers as a braille scatter plot. It owns the
// visible region and rendering mode; markers never mutate the region.
type MapView struct {
	width  int
	height int

	markers  []model.Marker
	selected int // index into markers, -1 if none

	mode model.MapMode

	// home is the anchor region recenter returns to.
	home    model.Region
	hasHome bool

	// Viewport bounds (derived from home + zoom/pan, or animation)
	minLat, maxLat float64
	minLng, maxLng float64
	zoomLevel      float64
	panLat, panLng float64

	// Crosshair for pick mode
	cross     model.Coordinate
	showCross bool

	anim *recenterAnim
}

type recenterAnim struct {
	fromMinLat, fromMaxLat float64
	fromMinLng, fromMaxLng float64
	start                  time.Time
}

func NewMapView(width, height int) MapView {
	return MapView{
		width:     width,
		height:    height,
		selected:  -1,
		zoomLevel: 1.0,
	}
}

func (m *MapView) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetRegion installs the anchor region (from a location fix) and resets the
// viewport to it.
func (m *MapView) SetRegion(r model.Region) {
	m.home = r
	m.hasHome = true
	m.zoomLevel = 1.0
	m.panLat, m.panLng = 0, 0
	m.anim = nil
	m.applyZoom()
}

func (m *MapView) Region() model.Region { return m.home }

// Viewport returns the region currently on screen, after zoom and pan.
func (m *MapView) Viewport() model.Region {
	return model.Region{
		Center: model.Coordinate{
			Latitude:  (m.minLat + m.maxLat) / 2,
			Longitude: (m.minLng + m.maxLng) / 2,
		},
		LatDelta: m.maxLat - m.minLat,
		LngDelta: m.maxLng - m.minLng,
	}
}

func (m *MapView) HasRegion() bool      { return m.hasHome }
func (m *MapView) Mode() model.MapMode  { return m.mode }

func (m *MapView) SetMarkers(markers []model.Marker) {
	m.markers = markers
	if m.selected >= len(markers) {
		m.selected = -1
	}
}

func (m *MapView) SetSelected(idx int) {
	if idx < -1 || idx >= len(m.markers) {
		idx = -1
	}
	m.selected = idx
}

func (m *MapView) Selected() int { return m.selected }

// CycleMode advances to the next map type in the fixed cycle.
func (m *MapView) CycleMode() {
	m.mode = m.mode.Next()
}

func (m *MapView) ZoomIn() {
	m.zoomLevel *= 1.5
	if m.zoomLevel > 20 {
		m.zoomLevel = 20
	}
	m.applyZoom()
}

func (m *MapView) ZoomOut() {
	m.zoomLevel /= 1.5
	if m.zoomLevel < 0.5 {
		m.zoomLevel = 0.5
	}
	m.applyZoom()
}

func (m *MapView) Pan(dLat, dLng float64) {
	latRange := m.home.LatDelta
	lngRange := m.home.LngDelta
	m.panLat += dLat * latRange * 0.1 / m.zoomLevel
	m.panLng += dLng * lngRange * 0.1 / m.zoomLevel
	m.applyZoom()
}

// StartRecenter begins animating the viewport back to the anchor region.
// No-op while the region is unset.
func (m *MapView) StartRecenter(now time.Time) {
	if !m.hasHome {
		return
	}
	m.anim = &recenterAnim{
		fromMinLat: m.minLat, fromMaxLat: m.maxLat,
		fromMinLng: m.minLng, fromMaxLng: m.maxLng,
		start: now,
	}
	m.panLat, m.panLng = 0, 0
	m.zoomLevel = 1.0
}

// Animating reports whether a recenter animation is in flight.
func (m *MapView) Animating() bool { return m.anim != nil }

// Tick advances the recenter animation.
func (m *MapView) Tick(now time.Time) {
	if m.anim == nil {
		return
	}
	t := float64(now.Sub(m.anim.start)) / float64(RecenterDuration)
	if t >= 1 {
		m.anim = nil
		m.applyZoom()
		return
	}
	// Ease-out interpolation toward the home bound.
	t = 1 - (1-t)*(1-t)
	target := m.home.Bound()
	m.minLat = lerp(m.anim.fromMinLat, target.Min.Lat(), t)
	m.maxLat = lerp(m.anim.fromMaxLat, target.Max.Lat(), t)
	m.minLng = lerp(m.anim.fromMinLng, target.Min.Lon(), t)
	m.maxLng = lerp(m.anim.fromMaxLng, target.Max.Lon(), t)
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func (m *MapView) applyZoom() {
	if !m.hasHome {
		return
	}
	centerLat := m.home.Center.Latitude + m.panLat
	centerLng := m.home.Center.Longitude + m.panLng
	halfLat := m.home.LatDelta / 2 / m.zoomLevel
	halfLng := m.home.LngDelta / 2 / m.zoomLevel
	m.minLat = centerLat - halfLat
	m.maxLat = centerLat + halfLat
	m.minLng = centerLng - halfLng
	m.maxLng = centerLng + halfLng
}

// ShowCrosshair enables the pick-mode crosshair at the viewport center.
func (m *MapView) ShowCrosshair() {
	if m.hasHome {
		m.cross = m.home.Center
	}
	m.showCross = true
}

func (m *MapView) HideCrosshair() { m.showCross = false }

// Crosshair returns the current pick coordinate.
func (m *MapView) Crosshair() model.Coordinate { return m.cross }

// MoveCrosshair nudges the crosshair by a fraction of the visible span.
func (m *MapView) MoveCrosshair(dLat, dLng float64) {
	m.cross.Latitude += dLat * (m.maxLat - m.minLat) * 0.05
	m.cross.Longitude += dLng * (m.maxLng - m.minLng) * 0.05
}

// Braille character encoding: each char is a 2x4 dot grid, 0x2800 plus the
// raised dot bits.
var brailleDots = [8]rune{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80}

var dotPositions = [8][2]int{
	{0, 0}, {1, 0}, {2, 0}, {0, 1},
	{1, 1}, {2, 1}, {3, 0}, {3, 1},
}

// palette returns the marker color and backdrop speckle for the current
// rendering mode.
func (m MapView) palette() (marker lipgloss.Color, speckle bool) {
	switch m.mode {
	case model.MapSatellite:
		return styles.Success, true
	case model.MapTerrain:
		return styles.Warning, true
	case model.MapHybrid:
		return styles.Secondary, true
	default:
		return styles.Primary, false
	}
}

func (m MapView) View() string {
	if m.width <= 0 || m.height <= 0 || !m.hasHome {
		return ""
	}

	cols := m.width
	rows := m.height
	dotW := cols * 2
	dotH := rows * 4

	latRange := m.maxLat - m.minLat
	lngRange := m.maxLng - m.minLng
	if latRange <= 0 || lngRange <= 0 {
		return strings.Repeat(strings.Repeat(" ", cols)+"\n", rows)
	}

	toDot := func(lat, lng float64) (int, int) {
		x := int((lng - m.minLng) / lngRange * float64(dotW-1))
		y := int((m.maxLat - lat) / latRange * float64(dotH-1))
		return x, y
	}

	grid := make([][]bool, dotH)
	for i := range grid {
		grid[i] = make([]bool, dotW)
	}

	// The selected marker dots the grid too; its overlay replaces the whole
	// character cell below.
	for _, p := range geo.ClipToRegion(m.markers, m.Viewport()) {
		x, y := toDot(p.Coordinate.Latitude, p.Coordinate.Longitude)
		if x >= 0 && x < dotW && y >= 0 && y < dotH {
			grid[y][x] = true
		}
	}

	// Overlay cells (character resolution, not dot resolution)
	selCol, selRow := -1, -1
	if m.selected >= 0 && m.selected < len(m.markers) {
		c := m.markers[m.selected].Coordinate
		x, y := toDot(c.Latitude, c.Longitude)
		if x >= 0 && x < dotW && y >= 0 && y < dotH {
			selCol, selRow = x/2, y/4
		}
	}
	crossCol, crossRow := -1, -1
	if m.showCross {
		x, y := toDot(m.cross.Latitude, m.cross.Longitude)
		if x >= 0 && x < dotW && y >= 0 && y < dotH {
			crossCol, crossRow = x/2, y/4
		}
	}

	markerColor, speckle := m.palette()
	markerStyle := lipgloss.NewStyle().Foreground(markerColor)
	speckleStyle := lipgloss.NewStyle().Foreground(styles.Muted).Faint(true)
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(markerColor).Bold(true)
	crossStyle := lipgloss.NewStyle().Foreground(styles.Error).Bold(true)

	var sb strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if row == crossRow && col == crossCol {
				sb.WriteString(crossStyle.Render("+"))
				continue
			}
			if row == selRow && col == selCol {
				sb.WriteString(selectedStyle.Render("◉"))
				continue
			}

			var val rune = 0x2800
			for dot := 0; dot < 8; dot++ {
				dy := row*4 + dotPositions[dot][0]
				dx := col*2 + dotPositions[dot][1]
				if dy < dotH && dx < dotW && grid[dy][dx] {
					val |= brailleDots[dot]
				}
			}

			switch {
			case val != 0x2800:
				sb.WriteString(markerStyle.Render(string(val)))
			case speckle && (col*31+row*17)%13 == 0:
				sb.WriteString(speckleStyle.Render("·"))
			default:
				sb.WriteRune(' ')
			}
		}
		if row < rows-1 {
			sb.WriteRune('\n')
		}
	}

	return sb.String()
}
