package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nbilal/homepin/internal/engine/geo"
	"github.com/nbilal/homepin/internal/engine/location"
	"github.com/nbilal/homepin/internal/model"
	"github.com/nbilal/homepin/internal/tui/components"
	"github.com/nbilal/homepin/internal/tui/styles"
)

// PickSession identifies one single-shot location pick delegated to the map.
// The coordinate travels back tagged with the session id; everything else is
// dropped as stale.
type PickSession struct {
	ID uuid.UUID
}

func NewPickSession() PickSession {
	return PickSession{ID: uuid.New()}
}

// LocationPickedMsg carries the picked coordinate back to the form.
// Emitted at most once per session.
type LocationPickedMsg struct {
	Session    uuid.UUID
	Coordinate model.Coordinate
}

// PickDismissedMsg signals the picker was left without a selection.
type PickDismissedMsg struct {
	Session uuid.UUID
}

var categories = []string{"All", "Cheap", "Expensive"}

// Messages internal to the map view
type fixMsg struct {
	coord model.Coordinate
	err   error
}

type recenterTickMsg time.Time

// MapModel drives the discovery map: permission → fix → synthetic markers,
// filtered by price label. With a pick session it instead offers a crosshair
// and hands one coordinate back.
type MapModel struct {
	gate *location.Gate
	log  *zap.Logger

	pick   *PickSession
	picked bool

	mapview components.MapView
	markers []model.Marker
	visible []model.Marker

	filter        textinput.Model
	filterFocused bool
	category      int

	alert     string
	retryable bool
	modalOpen bool

	width  int
	height int
}

func NewMapModel(gate *location.Gate, pick *PickSession, log *zap.Logger) MapModel {
	filter := textinput.New()
	filter.Placeholder = "Search for Properties..."
	filter.CharLimit = 50
	filter.Width = 30

	if log == nil {
		log = zap.NewNop()
	}

	return MapModel{
		gate:    gate,
		log:     log,
		pick:    pick,
		mapview: components.NewMapView(60, 18),
		filter:  filter,
	}
}

func (m MapModel) Init() tea.Cmd {
	// Permission dialog opens on first visit; a gate that already holds a
	// grant goes straight to fix acquisition.
	switch m.gate.State() {
	case location.StateIdle:
		if err := m.gate.RequestPermission(); err != nil {
			m.log.Warn("permission request", zap.Error(err))
		}
		return nil
	case location.StatePermissionGranted, location.StateFixObtained, location.StateFixFailed:
		return m.acquireFixCmd()
	}
	return nil
}

func (m MapModel) acquireFixCmd() tea.Cmd {
	gate := m.gate
	return func() tea.Msg {
		coord, err := gate.AcquireFix(context.Background())
		return fixMsg{coord: coord, err: err}
	}
}

func recenterTick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return recenterTickMsg(t)
	})
}

func (m MapModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := msg.Width - 6
		h := msg.Height - 10
		if w < 20 {
			w = 20
		}
		if h < 6 {
			h = 6
		}
		m.mapview.SetSize(w, h)
		return m, nil

	case fixMsg:
		if msg.err != nil {
			m.log.Warn("location fix failed", zap.Error(msg.err))
			if errors.Is(msg.err, location.ErrFixTimeout) {
				m.alert = "Could not get your location: timed out."
				m.retryable = true
			} else {
				m.alert = "Could not get your location."
				m.retryable = true
			}
			return m, nil
		}
		// The fix seeds the viewport and the marker batch exactly once.
		m.mapview.SetRegion(geo.AnchorRegion(msg.coord))
		if m.pick != nil {
			m.mapview.ShowCrosshair()
		} else {
			m.markers = geo.Generate(msg.coord, geo.DefaultMarkerCount)
			m.applyFilter()
		}
		return m, nil

	case recenterTickMsg:
		m.mapview.Tick(time.Time(msg))
		if m.mapview.Animating() {
			return m, recenterTick()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.filterFocused {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	return m, nil
}

func (m MapModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Permission prompt is modal: only y/n (and esc) work.
	if m.gate.State() == location.StatePermissionRequested {
		switch key {
		case "y", "Y":
			if err := m.gate.Grant(); err == nil {
				return m, m.acquireFixCmd()
			}
			return m, nil
		case "n", "N", "esc":
			m.gate.Deny()
			m.alert = "Location permission denied. App cannot fetch location."
			m.retryable = false
			return m, nil
		}
		return m, nil
	}

	if m.alert != "" {
		switch key {
		case "r":
			if m.retryable {
				m.alert = ""
				return m, m.acquireFixCmd()
			}
		case "esc", "enter":
			return m, m.leave()
		}
		return m, nil
	}

	if m.modalOpen {
		switch key {
		case "esc", "enter":
			m.modalOpen = false
		}
		return m, nil
	}

	if m.filterFocused {
		switch key {
		case "esc", "enter":
			m.filterFocused = false
			m.filter.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	// Pick mode: crosshair navigation, enter selects once.
	if m.pick != nil {
		switch key {
		case "up":
			m.mapview.MoveCrosshair(1, 0)
			return m, nil
		case "down":
			m.mapview.MoveCrosshair(-1, 0)
			return m, nil
		case "left":
			m.mapview.MoveCrosshair(0, -1)
			return m, nil
		case "right":
			m.mapview.MoveCrosshair(0, 1)
			return m, nil
		case "enter":
			if m.picked {
				return m, nil
			}
			m.picked = true
			session := m.pick.ID
			coord := m.mapview.Crosshair()
			return m, func() tea.Msg {
				return LocationPickedMsg{Session: session, Coordinate: coord}
			}
		case "esc":
			return m, m.leave()
		}
		return m, m.commonKey(key)
	}

	switch key {
	case "esc", "q":
		return m, m.leave()
	case "/":
		m.filterFocused = true
		m.filter.Focus()
		return m, textinput.Blink
	case "1", "2", "3":
		m.category = int(key[0] - '1')
		token := ""
		if m.category > 0 {
			token = categories[m.category]
		}
		m.filter.SetValue(token)
		m.applyFilter()
		return m, nil
	case "n":
		m.selectNext(1)
		return m, nil
	case "p":
		m.selectNext(-1)
		return m, nil
	case "enter":
		if m.mapview.Selected() >= 0 {
			m.modalOpen = true
		}
		return m, nil
	case "up":
		m.mapview.Pan(1, 0)
		return m, nil
	case "down":
		m.mapview.Pan(-1, 0)
		return m, nil
	case "left":
		m.mapview.Pan(0, -1)
		return m, nil
	case "right":
		m.mapview.Pan(0, 1)
		return m, nil
	}
	return m, m.commonKey(key)
}

// commonKey handles keys shared by browse and pick modes.
func (m *MapModel) commonKey(key string) tea.Cmd {
	switch key {
	case "t":
		m.mapview.CycleMode()
	case "r":
		if m.mapview.HasRegion() {
			m.mapview.StartRecenter(time.Now())
			return recenterTick()
		}
	case "+", "=":
		m.mapview.ZoomIn()
	case "-":
		m.mapview.ZoomOut()
	}
	return nil
}

func (m MapModel) leave() tea.Cmd {
	if m.pick != nil {
		session := m.pick.ID
		return func() tea.Msg { return PickDismissedMsg{Session: session} }
	}
	return func() tea.Msg { return NavigateToHome{} }
}

func (m *MapModel) applyFilter() {
	m.visible = geo.FilterByLabel(m.markers, m.filter.Value())
	m.mapview.SetMarkers(m.visible)
}

func (m *MapModel) selectNext(dir int) {
	if len(m.visible) == 0 {
		m.mapview.SetSelected(-1)
		return
	}
	idx := m.mapview.Selected() + dir
	if idx < 0 {
		idx = len(m.visible) - 1
	}
	if idx >= len(m.visible) {
		idx = 0
	}
	m.mapview.SetSelected(idx)
}

func (m MapModel) View() string {
	var b strings.Builder

	title := "Map"
	if m.pick != nil {
		title = "Select Location"
	}
	b.WriteString(styles.Title.Render(title) + "\n")

	switch {
	case m.gate.State() == location.StatePermissionRequested:
		b.WriteString(m.viewPermissionPrompt())
	case m.alert != "":
		b.WriteString(m.viewAlert())
	case m.gate.State() == location.StatePermissionDenied:
		m.alert = "Location permission denied. App cannot fetch location."
		b.WriteString(m.viewAlert())
	case !m.mapview.HasRegion():
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).
			Render("Locating you...") + "\n")
	default:
		b.WriteString(m.viewMap())
	}

	return b.String()
}

func (m MapModel) viewPermissionPrompt() string {
	var b strings.Builder
	b.WriteString("Location Permission\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(styles.Text).
		Render("This app needs access to your location.") + "\n\n")
	b.WriteString(styles.StatusBar.Render("y allow • n deny"))
	return styles.FocusedBorder.Render(b.String())
}

func (m MapModel) viewAlert() string {
	var b strings.Builder
	b.WriteString(styles.ErrorText.Render(m.alert) + "\n\n")
	if m.retryable {
		b.WriteString(styles.StatusBar.Render("r retry • esc back"))
	} else {
		b.WriteString(styles.StatusBar.Render("esc back"))
	}
	return styles.Border.Render(b.String())
}

func (m MapModel) viewMap() string {
	var b strings.Builder

	if m.pick == nil {
		// Filter bar + category buttons
		filterStyle := lipgloss.NewStyle().Foreground(styles.Muted)
		if m.filterFocused {
			filterStyle = lipgloss.NewStyle().Foreground(styles.Primary)
		}
		b.WriteString(filterStyle.Render("Filter: "))
		b.WriteString(m.filter.View())
		b.WriteString("\n")

		for i, c := range categories {
			style := styles.InactiveItem
			if i == m.category {
				style = styles.ActiveItem
			}
			b.WriteString(fmt.Sprintf("[%d] %s  ", i+1, style.Render(c)))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.mapview.View())
	b.WriteString("\n")

	mode := lipgloss.NewStyle().Foreground(styles.Muted).
		Render(fmt.Sprintf("mode: %s", m.mapview.Mode()))
	if m.pick == nil {
		count := lipgloss.NewStyle().Foreground(styles.Muted).
			Render(fmt.Sprintf("  %d/%d listings", len(m.visible), len(m.markers)))
		b.WriteString(mode + count + "\n")
	} else {
		cross := m.mapview.Crosshair()
		pos := lipgloss.NewStyle().Foreground(styles.Text).
			Render(fmt.Sprintf("  %.6f, %.6f", cross.Latitude, cross.Longitude))
		b.WriteString(mode + pos + "\n")
	}

	if m.modalOpen {
		if idx := m.mapview.Selected(); idx >= 0 && idx < len(m.visible) {
			modal := fmt.Sprintf("Property Price: %s", m.visible[idx].PriceLabel)
			b.WriteString(styles.FocusedBorder.Render(modal+"\n\n"+
				styles.StatusBar.Render("esc close")) + "\n")
		}
	}

	if m.pick != nil {
		b.WriteString(styles.StatusBar.Render("←↑↓→ move • enter select • t map type • r recenter • +/- zoom • esc cancel"))
	} else {
		b.WriteString(styles.StatusBar.Render("/ search • 1-3 category • n/p marker • enter details • t map type • r recenter • +/- zoom • esc back"))
	}

	return b.String()
}
