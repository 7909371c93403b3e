package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nbilal/homepin/internal/engine/media"
	"github.com/nbilal/homepin/internal/engine/storage"
	"github.com/nbilal/homepin/internal/engine/submit"
	"github.com/nbilal/homepin/internal/model"
	"github.com/nbilal/homepin/internal/tui/styles"
)

// Field indices
const (
	fieldTitle = iota
	fieldPrice
	fieldCity
	fieldType
	fieldDescription
	fieldZipcode
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Title:",
	"Price:",
	"City:",
	"Type:",
	"Description:",
	"Zipcode:",
}

// OpenLocationPicker asks the root model to open the map in pick mode.
type OpenLocationPicker struct {
	Session PickSession
}

// OpenImagePicker asks the root model to open the gallery browser.
type OpenImagePicker struct{}

type cameraResultMsg struct {
	media model.MediaRef
	err   error
}

type submitResultMsg struct {
	serverID string
	err      error
	saveErr  error
}

// AddPropertyModel is the listing submission form. Longitude and latitude
// are display-only; they come back from the location picker.
type AddPropertyModel struct {
	inputs  [fieldCount]textinput.Model
	focused int

	draft model.PropertyDraft

	submitter *submit.Submitter
	store     *storage.Store
	camera    media.Camera
	log       *zap.Logger

	// pendingPick is the live picker session, if any. A picked coordinate
	// with any other id is stale and dropped.
	pendingPick uuid.UUID
	hasPending  bool

	submitting bool
	status     string
	errMsg     string
}

func NewAddPropertyModel(submitter *submit.Submitter, store *storage.Store, camera media.Camera, userID string, log *zap.Logger) AddPropertyModel {
	var inputs [fieldCount]textinput.Model
	inputs[fieldTitle] = newInput("Cozy 2BR apartment", 60)
	inputs[fieldPrice] = newInput("12000", 15)
	inputs[fieldCity] = newInput("Dubai", 30)
	inputs[fieldType] = newInput("apartment, villa...", 30)
	inputs[fieldDescription] = newInput("describe the property", 60)
	inputs[fieldZipcode] = newInput("00000", 10)
	inputs[fieldTitle].Focus()

	if log == nil {
		log = zap.NewNop()
	}

	return AddPropertyModel{
		inputs:    inputs,
		submitter: submitter,
		store:     store,
		camera:    camera,
		draft:     model.PropertyDraft{OwnerID: userID},
		log:       log,
	}
}

func newInput(placeholder string, width int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	if width > 0 {
		ti.Width = width
	}
	return ti
}

func (m AddPropertyModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m AddPropertyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LocationPickedMsg:
		if !m.hasPending || msg.Session != m.pendingPick {
			return m, nil
		}
		m.hasPending = false
		m.draft.SetLocation(msg.Coordinate)
		m.status = "Location set."
		return m, nil

	case PickDismissedMsg:
		if m.hasPending && msg.Session == m.pendingPick {
			m.hasPending = false
		}
		return m, nil

	case ImagePickedMsg:
		ref, err := media.FromFile(msg.Path)
		if err != nil {
			m.errMsg = fmt.Sprintf("Could not read image: %v", err)
			return m, nil
		}
		m.draft.SetMedia(ref)
		m.errMsg = ""
		m.status = "Photo attached."
		return m, nil

	case ImagePickCancelledMsg:
		return m, nil

	case cameraResultMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Camera capture failed: %v", msg.err)
			return m, nil
		}
		m.draft.Media = &msg.media
		m.errMsg = ""
		m.status = "Photo captured."
		return m, nil

	case submitResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = submitErrorText(msg.err)
			return m, nil
		}
		if msg.saveErr != nil {
			m.log.Warn("local listing save failed", zap.Error(msg.saveErr))
		}
		return m, func() tea.Msg { return NavigateToListings{} }

	case tea.KeyMsg:
		if m.submitting {
			// Form is frozen until the server answers.
			return m, nil
		}
		key := msg.String()

		switch key {
		case "esc":
			return m, func() tea.Msg { return NavigateToHome{} }

		case "up", "shift+tab":
			m.errMsg = ""
			m.focusPrev()
			return m, textinput.Blink

		case "down", "tab":
			m.errMsg = ""
			m.focusNext()
			return m, textinput.Blink

		case "enter":
			return m.startSubmit()

		case "ctrl+l":
			session := NewPickSession()
			m.pendingPick = session.ID
			m.hasPending = true
			return m, func() tea.Msg { return OpenLocationPicker{Session: session} }

		case "ctrl+g":
			return m, func() tea.Msg { return OpenImagePicker{} }

		case "ctrl+t":
			camera := m.camera
			return m, func() tea.Msg {
				ref, err := camera.Capture(context.Background())
				return cameraResultMsg{media: ref, err: err}
			}
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m *AddPropertyModel) focusNext() {
	m.inputs[m.focused].Blur()
	m.focused++
	if m.focused >= fieldCount {
		m.focused = 0
	}
	m.inputs[m.focused].Focus()
}

func (m *AddPropertyModel) focusPrev() {
	m.inputs[m.focused].Blur()
	m.focused--
	if m.focused < 0 {
		m.focused = fieldCount - 1
	}
	m.inputs[m.focused].Focus()
}

func (m AddPropertyModel) startSubmit() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	draft := m.draft
	draft.Title = strings.TrimSpace(m.inputs[fieldTitle].Value())
	draft.Price = strings.TrimSpace(m.inputs[fieldPrice].Value())
	draft.City = strings.TrimSpace(m.inputs[fieldCity].Value())
	draft.Type = strings.TrimSpace(m.inputs[fieldType].Value())
	draft.Description = strings.TrimSpace(m.inputs[fieldDescription].Value())
	draft.Zipcode = strings.TrimSpace(m.inputs[fieldZipcode].Value())

	m.submitting = true
	m.errMsg = ""
	m.status = ""

	submitter := m.submitter
	store := m.store
	return m, func() tea.Msg {
		serverID, err := submitter.Submit(context.Background(), draft)
		if err != nil {
			return submitResultMsg{err: err}
		}
		var saveErr error
		if store != nil {
			_, saveErr = store.InsertListing(listingFromDraft(draft, serverID))
		}
		return submitResultMsg{serverID: serverID, saveErr: saveErr}
	}
}

func listingFromDraft(draft model.PropertyDraft, serverID string) model.Listing {
	l := model.Listing{
		ServerID:    serverID,
		Title:       draft.Title,
		Price:       draft.Price,
		City:        draft.City,
		Type:        draft.Type,
		Description: draft.Description,
		Zipcode:     draft.Zipcode,
		OwnerID:     draft.OwnerID,
	}
	if draft.Location != nil {
		l.Lat = draft.Location.Latitude
		l.Lng = draft.Location.Longitude
	}
	if draft.Media != nil {
		l.ImagePath = draft.Media.Path
	}
	return l
}

func submitErrorText(err error) string {
	var serr *submit.Error
	if errors.As(err, &serr) {
		switch serr.Kind {
		case submit.ServerRejected:
			return fmt.Sprintf("Server rejected the listing: %s", serr.Detail)
		case submit.NoResponse:
			return "No response from server. Check your connection and try again."
		}
		return fmt.Sprintf("Could not build the request: %s", serr.Detail)
	}
	return fmt.Sprintf("Submission failed: %v", err)
}

func (m AddPropertyModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Add Property") + "\n\n")

	for i := 0; i < fieldCount; i++ {
		l := styles.Label.Render(fieldLabels[i])
		b.WriteString(fmt.Sprintf("%s %s\n", l, m.inputs[i].View()))
	}

	b.WriteString("\n")
	b.WriteString(m.renderLocation())
	b.WriteString(m.renderMedia())

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorText.Render("  " + m.errMsg))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Success).Render("  " + m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.submitting {
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Warning).Italic(true).
			Render("  Submitting...") + "\n")
	}
	b.WriteString(styles.StatusBar.Render("enter submit • ^L location • ^G gallery • ^T camera • tab next • esc back"))

	return styles.Border.Render(b.String())
}

func (m AddPropertyModel) renderLocation() string {
	label := styles.Label.Render("Location:")
	if m.draft.Location == nil {
		hint := lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).
			Render("not set (ctrl+l to pick on the map)")
		return fmt.Sprintf("%s %s\n", label, hint)
	}
	// Longitude first, matching the wire field order.
	v := styles.Value.Render(fmt.Sprintf("lng %.6f  lat %.6f",
		m.draft.Location.Longitude, m.draft.Location.Latitude))
	return fmt.Sprintf("%s %s\n", label, v)
}

func (m AddPropertyModel) renderMedia() string {
	label := styles.Label.Render("Photo:")
	if m.draft.Media == nil {
		hint := lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).
			Render("none (ctrl+g gallery, ctrl+t camera)")
		return fmt.Sprintf("%s %s\n", label, hint)
	}
	return fmt.Sprintf("%s %s\n", label, styles.Value.Render(m.draft.Media.Path))
}
