package views

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/nbilal/homepin/internal/engine/storage"
	"github.com/nbilal/homepin/internal/model"
	"github.com/nbilal/homepin/internal/tui/styles"
)

type listingsFocus int

const (
	listingsFocusTable listingsFocus = iota
	listingsFocusFilter
)

// ListingsModel displays locally recorded submissions with table + detail card.
type ListingsModel struct {
	store     *storage.Store
	dataDir   string
	listings  []model.Listing
	filtered  []model.Listing
	table     table.Model
	filter    textinput.Model
	focus     listingsFocus
	selected  int
	width     int
	height    int
	err       error
	exportMsg string
}

type listingsLoadedMsg struct {
	Listings []model.Listing
	Err      error
}

func NewListingsModel(store *storage.Store, dataDir string) ListingsModel {
	filter := textinput.New()
	filter.Placeholder = "Type to filter..."
	filter.CharLimit = 50

	return ListingsModel{
		store:    store,
		dataDir:  dataDir,
		filter:   filter,
		selected: -1,
	}
}

func (m ListingsModel) Init() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		if store == nil {
			return listingsLoadedMsg{Err: fmt.Errorf("listings store unavailable")}
		}
		listings, err := store.ListListings()
		return listingsLoadedMsg{Listings: listings, Err: err}
	}
}

func (m ListingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()

	case listingsLoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.listings = msg.Listings
		m.filtered = msg.Listings
		m.buildTable(m.filtered)
		m.updateLayout()
		if len(m.filtered) > 0 {
			m.selected = 0
		}
		return m, nil

	case tea.KeyMsg:
		key := msg.String()

		switch m.focus {
		case listingsFocusTable:
			switch key {
			case "esc", "q":
				return m, func() tea.Msg { return NavigateToHome{} }
			case "/", "tab":
				m.focus = listingsFocusFilter
				m.filter.Focus()
				return m, textinput.Blink
			case "e":
				m.exportCSV()
				return m, nil
			}

		case listingsFocusFilter:
			switch key {
			case "esc", "enter", "tab":
				m.focus = listingsFocusTable
				m.filter.Blur()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case listingsFocusTable:
		m.table, cmd = m.table.Update(msg)
		cursor := m.table.Cursor()
		if cursor != m.selected && cursor < len(m.filtered) {
			m.selected = cursor
		}
	case listingsFocusFilter:
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
	}

	return m, cmd
}

func (m *ListingsModel) buildTable(listings []model.Listing) {
	titleW := 28
	priceW := 12
	cityW := 14
	typeW := 14
	zipW := 8
	if m.width > 100 {
		extra := m.width - 100
		titleW += extra * 4 / 10
		cityW += extra * 2 / 10
		typeW += extra * 2 / 10
	}

	columns := []table.Column{
		{Title: "Title", Width: titleW},
		{Title: "Price", Width: priceW},
		{Title: "City", Width: cityW},
		{Title: "Type", Width: typeW},
		{Title: "Zipcode", Width: zipW},
	}

	rows := make([]table.Row, len(listings))
	for i, l := range listings {
		rows[i] = table.Row{
			truncate(l.Title, titleW),
			truncate(l.Price, priceW),
			truncate(l.City, cityW),
			truncate(l.Type, typeW),
			l.Zipcode,
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Secondary)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(styles.Primary).
		Bold(true)
	t.SetStyles(s)
	m.table = t
}

func (m *ListingsModel) updateLayout() {
	if m.width <= 0 {
		return
	}
	tableH := m.height/2 - 4
	if tableH < 5 {
		tableH = 5
	}
	m.table.SetHeight(tableH)
	m.buildTable(m.filtered)
}

// normalize removes accents/diacritics and lowercases text for fuzzy matching.
func normalize(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	result, _, _ := transform.String(t, strings.ToLower(s))
	return result
}

func (m *ListingsModel) applyFilter() {
	raw := strings.TrimSpace(m.filter.Value())
	if raw == "" {
		m.filtered = m.listings
		m.buildTable(m.filtered)
		if len(m.filtered) > 0 {
			m.selected = 0
		}
		return
	}

	words := strings.Fields(normalize(raw))
	m.filtered = nil
	for _, l := range m.listings {
		haystack := normalize(strings.Join([]string{
			l.Title, l.Price, l.City, l.Type, l.Description, l.Zipcode,
		}, " "))
		match := true
		for _, w := range words {
			if !strings.Contains(haystack, w) {
				match = false
				break
			}
		}
		if match {
			m.filtered = append(m.filtered, l)
		}
	}
	m.buildTable(m.filtered)
	if len(m.filtered) > 0 {
		m.selected = 0
	} else {
		m.selected = -1
	}
}

func (m ListingsModel) View() string {
	if m.err != nil {
		return styles.ErrorText.Render(fmt.Sprintf("Error loading listings: %v", m.err))
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render(fmt.Sprintf("My Listings: %d", len(m.listings))))
	if len(m.filtered) != len(m.listings) {
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).
			Render(fmt.Sprintf(" (showing %d)", len(m.filtered))))
	}
	b.WriteString("\n\n")

	filterStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	if m.focus == listingsFocusFilter {
		filterStyle = lipgloss.NewStyle().Foreground(styles.Primary)
	}
	b.WriteString(filterStyle.Render("Filter: "))
	b.WriteString(m.filter.View())
	b.WriteString("\n")

	b.WriteString(m.table.View())
	b.WriteString("\n\n")

	b.WriteString(m.viewCard())
	b.WriteString("\n")

	if m.exportMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Success).Render(m.exportMsg))
		b.WriteString("\n")
	}

	var statusText string
	switch m.focus {
	case listingsFocusTable:
		statusText = "↑↓ navigate • / filter • e export • esc back"
	case listingsFocusFilter:
		statusText = "type to filter • esc back"
	}
	b.WriteString(styles.StatusBar.Render(statusText))

	return b.String()
}

func (m ListingsModel) viewCard() string {
	if m.selected < 0 || m.selected >= len(m.filtered) {
		return styles.Border.Render(lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).
			Render("Select a listing to view details"))
	}

	l := m.filtered[m.selected]
	var sb strings.Builder

	sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(styles.Text).Render(l.Title))
	sb.WriteString("\n\n")

	addRow := func(label, value string) {
		if value != "" {
			sb.WriteString(styles.Label.Render(fmt.Sprintf("%-12s", label)))
			sb.WriteString(styles.Value.Render(value))
			sb.WriteString("\n")
		}
	}

	addRow("Price:", l.Price)
	addRow("City:", l.City)
	addRow("Type:", l.Type)
	addRow("Zipcode:", l.Zipcode)
	if l.Lat != 0 || l.Lng != 0 {
		addRow("Coords:", fmt.Sprintf("%.6f, %.6f", l.Lat, l.Lng))
	}
	addRow("Photo:", l.ImagePath)
	addRow("Server ID:", l.ServerID)
	if !l.CreatedAt.IsZero() {
		addRow("Created:", l.CreatedAt.Format(time.RFC3339))
	}
	if l.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(lipgloss.NewStyle().Foreground(styles.Text).Render(l.Description))
		sb.WriteString("\n")
	}

	return styles.Border.Render(sb.String())
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func (m *ListingsModel) exportCSV() {
	csvPath := filepath.Join(m.dataDir, "listings.csv")

	f, err := os.Create(csvPath)
	if err != nil {
		m.exportMsg = fmt.Sprintf("Export error: %v", err)
		return
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	w.Write([]string{
		"server_id", "title", "price", "city", "type",
		"description", "zipcode", "lat", "lng", "image_path",
		"owner_id", "created_at",
	})

	data := m.filtered
	if len(data) == 0 {
		data = m.listings
	}

	for _, l := range data {
		w.Write([]string{
			l.ServerID,
			l.Title,
			l.Price,
			l.City,
			l.Type,
			l.Description,
			l.Zipcode,
			fmt.Sprintf("%.6f", l.Lat),
			fmt.Sprintf("%.6f", l.Lng),
			l.ImagePath,
			l.OwnerID,
			l.CreatedAt.Format(time.RFC3339),
		})
	}

	m.exportMsg = fmt.Sprintf("Exported %d rows to %s", len(data), csvPath)
}
