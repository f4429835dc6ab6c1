// Package locationmgr implements the geofenced-location management view.
package locationmgr

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"taskmaster-tui/internal/api"
	"taskmaster-tui/internal/geo"
	"taskmaster-tui/internal/keys"
	"taskmaster-tui/internal/model"
	"taskmaster-tui/internal/theme"
)

// CloseMsg signals the parent to close the location view.
type CloseMsg struct{}

// ChangedMsg signals that locations were modified; the parent should
// refetch.
type ChangedMsg struct{}

type viewMode int

const (
	modeList viewMode = iota
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	name       string
	latitude   string
	longitude  string
	radius     string
	categoryID int
	confirm    bool
}

// noCategory is the sentinel select value for locations without a
// bound category.
const noCategory = 0

type savedMsg struct{ err error }
type deletedMsg struct{ err error }

// Model is the Bubble Tea model for location management.
type Model struct {
	mode        viewMode
	client      *api.Client
	keys        *keys.KeyMap
	locations   []model.Location
	categories  []model.Category
	position    *geo.Position
	selectedIdx int
	editingID   int
	isNew       bool
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new location manager model.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:   modeList,
		client: client,
		keys:   k,
		fb:     &formBindings{},
		width:  width, height: height,
	}
}

// SetLocations replaces the listed locations.
func (m *Model) SetLocations(locations []model.Location) {
	m.locations = locations
	if m.selectedIdx >= len(m.locations) && m.selectedIdx > 0 {
		m.selectedIdx = len(m.locations) - 1
	}
}

// SetCategories sets the categories available in the binding selector.
func (m *Model) SetCategories(categories []model.Category) {
	m.categories = categories
}

// SetPosition sets the last known position so the list can show the
// distance to each fence.
func (m *Model) SetPosition(pos *geo.Position) {
	m.position = pos
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Location saved"
		}
		m.mode = modeList
		return m, func() tea.Msg { return ChangedMsg{} }

	case deletedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Location deleted"
		}
		m.mode = modeList
		return m, func() tea.Msg { return ChangedMsg{} }

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveForm(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case modeList:
		return m.handleListKey(msg)
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.locations) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.locations)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.locations) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.locations) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.isNew = true
		m.editingID = 0
		m.fb.name = ""
		m.fb.latitude = ""
		m.fb.longitude = ""
		m.fb.radius = strconv.Itoa(int(model.DefaultLocationRadius))
		m.fb.categoryID = noCategory
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Edit):
		if len(m.locations) == 0 {
			return m, nil
		}
		loc := m.locations[m.selectedIdx]
		m.isNew = false
		m.editingID = loc.ID
		m.fb.name = loc.Name
		m.fb.latitude = strconv.FormatFloat(loc.Latitude, 'f', -1, 64)
		m.fb.longitude = strconv.FormatFloat(loc.Longitude, 'f', -1, 64)
		m.fb.radius = strconv.FormatFloat(loc.Radius, 'f', -1, 64)
		if loc.CategoryID != nil {
			m.fb.categoryID = *loc.CategoryID
		} else {
			m.fb.categoryID = noCategory
		}
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Delete):
		if len(m.locations) == 0 {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) buildForm() *huh.Form {
	categoryOpts := []huh.Option[int]{
		huh.NewOption("No category", noCategory),
	}
	for _, c := range m.categories {
		categoryOpts = append(categoryOpts, huh.NewOption(c.Name, c.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Office, home, gym...").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Latitude").
				Placeholder("35.6812").
				Value(&m.fb.latitude).
				Validate(validateCoordinate(-90, 90)),
			huh.NewInput().
				Title("Longitude").
				Placeholder("139.7671").
				Value(&m.fb.longitude).
				Validate(validateCoordinate(-180, 180)),
			huh.NewInput().
				Title("Radius (m)").
				Placeholder("500").
				Value(&m.fb.radius).
				Validate(validateRadius),
			huh.NewSelect[int]().
				Title("Category").
				Options(categoryOpts...).
				Value(&m.fb.categoryID),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildConfirmForm() *huh.Form {
	name := ""
	if m.selectedIdx < len(m.locations) {
		name = m.locations[m.selectedIdx].Name
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete location %q?", name)).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, m.saveLocation()
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		if m.fb.confirm {
			loc := m.locations[m.selectedIdx]
			return m, m.deleteLocation(loc.ID)
		}
		m.mode = modeList
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

// View renders the location manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Locations"))
	b.WriteString("\n\n")

	if len(m.locations) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No locations yet. Press 'n' to register one."))
	} else {
		for i, loc := range m.locations {
			label := fmt.Sprintf("📍 %s (r=%.0fm)", loc.Name, loc.Radius)

			if m.position != nil {
				d := geo.Distance(
					m.position.Latitude, m.position.Longitude,
					loc.Latitude, loc.Longitude,
				)
				inside := ""
				if d <= loc.Radius {
					inside = lipgloss.NewStyle().Foreground(theme.ColorGreen).Render(" ● here")
				}
				label += theme.HelpStyle.Render(fmt.Sprintf(" %.0fm away", d)) + inside
			}

			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"n new | e edit | d delete | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func (m Model) saveLocation() tea.Cmd {
	client := m.client
	fb := *m.fb
	editID := m.editingID
	isNew := m.isNew
	return func() tea.Msg {
		lat, _ := strconv.ParseFloat(strings.TrimSpace(fb.latitude), 64)
		lon, _ := strconv.ParseFloat(strings.TrimSpace(fb.longitude), 64)
		radius, _ := strconv.ParseFloat(strings.TrimSpace(fb.radius), 64)

		var categoryID *int
		if fb.categoryID != noCategory {
			id := fb.categoryID
			categoryID = &id
		}

		ctx := context.Background()
		if isNew {
			create := api.LocationCreate{
				Name:       fb.name,
				Latitude:   lat,
				Longitude:  lon,
				CategoryID: categoryID,
			}
			if radius > 0 {
				create.Radius = &radius
			}
			_, err := client.CreateLocation(ctx, create)
			return savedMsg{err: err}
		}

		_, err := client.UpdateLocation(ctx, editID, api.LocationUpdate{
			Name:       &fb.name,
			Latitude:   &lat,
			Longitude:  &lon,
			Radius:     &radius,
			CategoryID: categoryID,
		})
		return savedMsg{err: err}
	}
}

func (m Model) deleteLocation(id int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.DeleteLocation(context.Background(), id)
		return deletedMsg{err: err}
	}
}

func validateCoordinate(minVal, maxVal float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("must be a decimal number")
		}
		if v < minVal || v > maxVal {
			return fmt.Errorf("must be between %g and %g", minVal, maxVal)
		}
		return nil
	}
}

func validateRadius(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("must be a number of meters")
	}
	if v <= 0 {
		return fmt.Errorf("radius must be positive")
	}
	return nil
}
