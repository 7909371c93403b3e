package views

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/nbilal/homepin/internal/engine/location"
	"github.com/nbilal/homepin/internal/engine/media"
	"github.com/nbilal/homepin/internal/model"
)

type stubProvider struct {
	coord model.Coordinate
}

func (s stubProvider) Locate(ctx context.Context) (model.Coordinate, error) {
	return s.coord, nil
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg(tea.Key{Type: tea.KeyRunes, Runes: []rune{r}})
}

func keyEnter() tea.KeyMsg {
	return tea.KeyMsg(tea.Key{Type: tea.KeyEnter})
}

func keyEsc() tea.KeyMsg {
	return tea.KeyMsg(tea.Key{Type: tea.KeyEscape})
}

// drive grants permission and feeds the resulting fix back into the model.
func drive(t *testing.T, m MapModel) MapModel {
	t.Helper()
	m.Init()
	if m.gate.State() != location.StatePermissionRequested {
		t.Fatalf("gate state %s after init, want permission-requested", m.gate.State())
	}

	next, cmd := m.Update(keyRune('y'))
	m = next.(MapModel)
	if cmd == nil {
		t.Fatal("granting permission produced no fix command")
	}

	next, _ = m.Update(cmd())
	return next.(MapModel)
}

func pickModel(t *testing.T, fix model.Coordinate) (MapModel, PickSession) {
	t.Helper()
	session := NewPickSession()
	gate := location.NewGate(stubProvider{coord: fix}, nil)
	m := NewMapModel(gate, &session, nil)
	return drive(t, m), session
}

func TestPickEmitsCoordinateOnce(t *testing.T) {
	fix := model.Coordinate{Latitude: 25.2048, Longitude: 55.2708}
	m, session := pickModel(t, fix)

	next, cmd := m.Update(keyEnter())
	m = next.(MapModel)
	if cmd == nil {
		t.Fatal("enter in pick mode produced no command")
	}

	msg, ok := cmd().(LocationPickedMsg)
	if !ok {
		t.Fatalf("got %T, want LocationPickedMsg", cmd())
	}
	if msg.Session != session.ID {
		t.Errorf("session %s, want %s", msg.Session, session.ID)
	}
	// Crosshair starts on the fix.
	if msg.Coordinate != fix {
		t.Errorf("coordinate %+v, want fix %+v", msg.Coordinate, fix)
	}

	// A second enter must not emit again.
	_, cmd = m.Update(keyEnter())
	if cmd != nil {
		t.Error("second enter emitted another command")
	}
}

func TestPickDismissal(t *testing.T) {
	m, session := pickModel(t, model.Coordinate{Latitude: 25.2, Longitude: 55.27})

	_, cmd := m.Update(keyEsc())
	if cmd == nil {
		t.Fatal("esc in pick mode produced no command")
	}
	msg, ok := cmd().(PickDismissedMsg)
	if !ok {
		t.Fatalf("got %T, want PickDismissedMsg", cmd())
	}
	if msg.Session != session.ID {
		t.Errorf("session %s, want %s", msg.Session, session.ID)
	}
}

func TestBrowseGeneratesMarkers(t *testing.T) {
	gate := location.NewGate(stubProvider{coord: model.Coordinate{Latitude: 25.2, Longitude: 55.27}}, nil)
	m := drive(t, NewMapModel(gate, nil, nil))

	if len(m.markers) != 25 {
		t.Fatalf("browse mode generated %d markers, want 25", len(m.markers))
	}
	if len(m.visible) != len(m.markers) {
		t.Errorf("unfiltered view shows %d of %d markers", len(m.visible), len(m.markers))
	}
	if !m.mapview.HasRegion() {
		t.Error("fix did not install a viewport region")
	}
}

func TestBrowseCategoryFilterConflatesNames(t *testing.T) {
	gate := location.NewGate(stubProvider{coord: model.Coordinate{Latitude: 25.2, Longitude: 55.27}}, nil)
	m := drive(t, NewMapModel(gate, nil, nil))

	// Category names are matched against price labels verbatim, so they
	// never match the synthetic listings.
	next, _ := m.Update(keyRune('2'))
	m = next.(MapModel)
	if len(m.visible) != 0 {
		t.Errorf("Cheap category shows %d markers, want 0", len(m.visible))
	}

	next, _ = m.Update(keyRune('1'))
	m = next.(MapModel)
	if len(m.visible) != len(m.markers) {
		t.Errorf("All category shows %d of %d markers", len(m.visible), len(m.markers))
	}
}

func TestPermissionDenied(t *testing.T) {
	gate := location.NewGate(stubProvider{coord: model.Coordinate{Latitude: 1, Longitude: 1}}, nil)
	m := NewMapModel(gate, nil, nil)
	m.Init()

	next, _ := m.Update(keyRune('n'))
	m = next.(MapModel)

	if gate.State() != location.StatePermissionDenied {
		t.Errorf("gate state %s, want permission-denied", gate.State())
	}
	if len(m.markers) != 0 {
		t.Errorf("denied flow generated %d markers, want 0", len(m.markers))
	}
	if m.alert == "" {
		t.Error("denied flow shows no explanation")
	}
}

func TestMapModeCycling(t *testing.T) {
	gate := location.NewGate(stubProvider{coord: model.Coordinate{Latitude: 25.2, Longitude: 55.27}}, nil)
	m := drive(t, NewMapModel(gate, nil, nil))

	if m.mapview.Mode() != model.MapStandard {
		t.Fatalf("initial mode %s, want standard", m.mapview.Mode())
	}
	next, _ := m.Update(keyRune('t'))
	m = next.(MapModel)
	if m.mapview.Mode() != model.MapSatellite {
		t.Errorf("mode after one cycle %s, want satellite", m.mapview.Mode())
	}
}

func TestAddPropertyPickDeliveredOnce(t *testing.T) {
	m := NewAddPropertyModel(nil, nil, media.Camera{}, "user-1", nil)

	next, cmd := m.Update(tea.KeyMsg(tea.Key{Type: tea.KeyCtrlL}))
	m = next.(AddPropertyModel)
	if cmd == nil {
		t.Fatal("ctrl+l produced no command")
	}
	open, ok := cmd().(OpenLocationPicker)
	if !ok {
		t.Fatalf("got %T, want OpenLocationPicker", cmd())
	}

	first := model.Coordinate{Latitude: 25.2, Longitude: 55.27}
	next, _ = m.Update(LocationPickedMsg{Session: open.Session.ID, Coordinate: first})
	m = next.(AddPropertyModel)
	if m.draft.Location == nil || *m.draft.Location != first {
		t.Fatalf("picked coordinate not recorded: %+v", m.draft.Location)
	}

	// Replays of the same session and unknown sessions are both dropped.
	second := model.Coordinate{Latitude: 1, Longitude: 1}
	next, _ = m.Update(LocationPickedMsg{Session: open.Session.ID, Coordinate: second})
	m = next.(AddPropertyModel)
	next, _ = m.Update(LocationPickedMsg{Session: uuid.New(), Coordinate: second})
	m = next.(AddPropertyModel)
	if *m.draft.Location != first {
		t.Errorf("location overwritten by stale pick: %+v", m.draft.Location)
	}
}

func TestAddPropertyDismissalLeavesLocationUnset(t *testing.T) {
	m := NewAddPropertyModel(nil, nil, media.Camera{}, "user-1", nil)

	next, cmd := m.Update(tea.KeyMsg(tea.Key{Type: tea.KeyCtrlL}))
	m = next.(AddPropertyModel)
	open := cmd().(OpenLocationPicker)

	next, _ = m.Update(PickDismissedMsg{Session: open.Session.ID})
	m = next.(AddPropertyModel)
	if m.draft.Location != nil {
		t.Errorf("dismissal set a location: %+v", m.draft.Location)
	}

	// The session is closed; a late pick must not land.
	next, _ = m.Update(LocationPickedMsg{Session: open.Session.ID, Coordinate: model.Coordinate{Latitude: 1, Longitude: 1}})
	m = next.(AddPropertyModel)
	if m.draft.Location != nil {
		t.Errorf("pick landed after dismissal: %+v", m.draft.Location)
	}
}
