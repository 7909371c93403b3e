package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/nbilal/homepin/internal/config"
	"github.com/nbilal/homepin/internal/engine/location"
	"github.com/nbilal/homepin/internal/engine/media"
	"github.com/nbilal/homepin/internal/engine/storage"
	"github.com/nbilal/homepin/internal/engine/submit"
	"github.com/nbilal/homepin/internal/tui/views"
)

type viewID int

const (
	viewHome viewID = iota
	viewMap
	viewAddProperty
	viewImagePicker
	viewListings
)

// App is the root bubbletea model. The add-property form stays alive while
// the map picker or the gallery is on screen, so picked values land back in
// the same form session.
type App struct {
	cfg  *config.Config
	log  *zap.Logger
	gate *location.Gate

	submitter *submit.Submitter
	store     *storage.Store
	camera    media.Camera

	currentView viewID
	width       int
	height      int

	home        views.HomeModel
	mapView     views.MapModel
	addProperty views.AddPropertyModel
	imagePicker views.ImagePickerModel
	listings    views.ListingsModel
}

func NewApp(cfg *config.Config, log *zap.Logger, store *storage.Store) App {
	if log == nil {
		log = zap.NewNop()
	}
	gate := location.NewGate(
		location.NewIPLocator(cfg.LocateURL),
		location.NewFixCache(cfg.DataDir),
	)
	return App{
		cfg:         cfg,
		log:         log,
		gate:        gate,
		submitter:   submit.NewSubmitter(cfg.BaseURL, cfg.ProxyURL, log),
		store:       store,
		camera:      media.Camera{Command: cfg.CameraCommand, OutDir: cfg.DataDir},
		currentView: viewHome,
		home:        views.NewHomeModel(),
	}
}

func (a App) Init() tea.Cmd {
	return a.home.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case views.NavigateToHome:
		a.currentView = viewHome
		return a, nil

	case views.NavigateToMap:
		a.currentView = viewMap
		a.mapView = views.NewMapModel(a.gate, nil, a.log)
		return a, tea.Batch(a.mapView.Init(), a.sizeCmd())

	case views.NavigateToAddProperty:
		a.currentView = viewAddProperty
		a.addProperty = views.NewAddPropertyModel(a.submitter, a.store, a.camera, a.cfg.UserID, a.log)
		return a, tea.Batch(a.addProperty.Init(), a.sizeCmd())

	case views.NavigateToListings:
		a.currentView = viewListings
		a.listings = views.NewListingsModel(a.store, a.cfg.DataDir)
		return a, tea.Batch(a.listings.Init(), a.sizeCmd())

	case views.OpenLocationPicker:
		a.currentView = viewMap
		session := msg.Session
		a.mapView = views.NewMapModel(a.gate, &session, a.log)
		return a, tea.Batch(a.mapView.Init(), a.sizeCmd())

	case views.OpenImagePicker:
		a.currentView = viewImagePicker
		a.imagePicker = views.NewImagePickerModel("")
		return a, a.imagePicker.Init()

	case views.LocationPickedMsg:
		// Delivered to the waiting form exactly once; the form drops
		// sessions it does not recognize.
		a.currentView = viewAddProperty
		var m tea.Model
		var cmd tea.Cmd
		m, cmd = a.addProperty.Update(msg)
		a.addProperty = m.(views.AddPropertyModel)
		return a, cmd

	case views.PickDismissedMsg:
		a.currentView = viewAddProperty
		var m tea.Model
		var cmd tea.Cmd
		m, cmd = a.addProperty.Update(msg)
		a.addProperty = m.(views.AddPropertyModel)
		return a, cmd

	case views.ImagePickedMsg:
		a.currentView = viewAddProperty
		var m tea.Model
		var cmd tea.Cmd
		m, cmd = a.addProperty.Update(msg)
		a.addProperty = m.(views.AddPropertyModel)
		return a, cmd

	case views.ImagePickCancelledMsg:
		a.currentView = viewAddProperty
		return a, nil
	}

	var cmd tea.Cmd
	switch a.currentView {
	case viewHome:
		var m tea.Model
		m, cmd = a.home.Update(msg)
		a.home = m.(views.HomeModel)
	case viewMap:
		var m tea.Model
		m, cmd = a.mapView.Update(msg)
		a.mapView = m.(views.MapModel)
	case viewAddProperty:
		var m tea.Model
		m, cmd = a.addProperty.Update(msg)
		a.addProperty = m.(views.AddPropertyModel)
	case viewImagePicker:
		var m tea.Model
		m, cmd = a.imagePicker.Update(msg)
		a.imagePicker = m.(views.ImagePickerModel)
	case viewListings:
		var m tea.Model
		m, cmd = a.listings.Update(msg)
		a.listings = m.(views.ListingsModel)
	}

	return a, cmd
}

func (a App) View() string {
	var content string
	switch a.currentView {
	case viewHome:
		content = a.home.View()
	case viewMap:
		content = a.mapView.View()
	case viewAddProperty:
		content = a.addProperty.View()
	case viewImagePicker:
		content = a.imagePicker.View()
	case viewListings:
		content = a.listings.View()
	}

	return lipgloss.Place(
		a.width, a.height,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// sizeCmd sends a WindowSizeMsg so newly created views get the current terminal size.
func (a App) sizeCmd() tea.Cmd {
	w, h := a.width, a.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}

// Run starts the TUI.
func Run(cfg *config.Config, log *zap.Logger, store *storage.Store) error {
	p := tea.NewProgram(NewApp(cfg, log, store), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
