package ui

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"maree/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	HouseholdListView ViewState = iota
	HouseholdDetailView
	SongListView
)

// Directory lists the invited guests.
type Directory interface {
	List(ctx context.Context) ([]models.Guest, error)
}

// Responses lists the submitted RSVPs.
type Responses interface {
	List(ctx context.Context) ([]models.GuestResponse, error)
}

// Requests lists the logged song requests.
type Requests interface {
	List(ctx context.Context) ([]models.SongRequest, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx           context.Context
	view          ViewState
	guests        Directory
	responses     Responses
	requests      Requests
	width         int
	height        int
	householdList list.Model
	households    []household
	guestList     list.Model
	selected      *household
	songList      list.Model
	err           error
	help          help.Model
	keys          keyMap
}

type dataLoadedMsg struct {
	households []household
	songs      []models.SongRequest
	err        error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, guests Directory, responses Responses, requests Requests) *Model {
	return &Model{
		ctx:       ctx,
		view:      HouseholdListView,
		guests:    guests,
		responses: responses,
		requests:  requests,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init loads the guest directory, responses and song requests.
func (m *Model) Init() tea.Cmd {
	return m.loadData()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.householdList.Width() == 0 {
			m.householdList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.guestList.Width() == 0 {
			m.guestList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.songList.Width() == 0 {
			m.songList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case HouseholdListView:
			return m.handleHouseholdListKeys(msg)
		case HouseholdDetailView:
			return m.handleDetailKeys(msg)
		case SongListView:
			return m.handleSongListKeys(msg)
		}

	case dataLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.households = msg.households
		items := make([]list.Item, len(msg.households))
		for i, h := range msg.households {
			items[i] = householdItem{household: h}
		}
		m.householdList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.householdList.Title = "Households"
		m.householdList.SetSize(m.width-4, m.height-8)

		songs := make([]list.Item, len(msg.songs))
		for i, s := range msg.songs {
			songs[i] = songItem{request: s}
		}
		m.songList = list.New(songs, list.NewDefaultDelegate(), 0, 0)
		m.songList.Title = "Song Requests"
		m.songList.SetSize(m.width-4, m.height-8)
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case HouseholdListView:
		return m.renderHouseholdList()
	case HouseholdDetailView:
		return m.renderDetail()
	case SongListView:
		return m.renderSongList()
	default:
		return ""
	}
}

// Err reports the error that terminated the TUI, if any.
func (m *Model) Err() error {
	return m.err
}

func (m *Model) handleHouseholdListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "s":
		m.view = SongListView
		return m, nil
	case "r":
		return m, m.loadData()
	case "enter":
		selected := m.householdList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(householdItem); ok {
				m.openHousehold(item.household)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.householdList, cmd = m.householdList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = HouseholdListView
		m.selected = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.guestList, cmd = m.guestList.Update(msg)
	return m, cmd
}

func (m *Model) handleSongListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = HouseholdListView
		return m, nil
	case "r":
		return m, m.loadData()
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case HouseholdListView:
		m.householdList, cmd = m.householdList.Update(msg)
	case HouseholdDetailView:
		m.guestList, cmd = m.guestList.Update(msg)
	case SongListView:
		m.songList, cmd = m.songList.Update(msg)
	}
	return m, cmd
}

func (m *Model) openHousehold(h household) {
	m.selected = &h
	items := make([]list.Item, len(h.records))
	for i, rec := range h.records {
		items[i] = guestItem{record: rec}
	}
	m.guestList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.guestList.Title = h.group
	m.guestList.SetSize(m.width-4, m.height-8)
	m.view = HouseholdDetailView
}

func (m *Model) loadData() tea.Cmd {
	return func() tea.Msg {
		households, err := m.buildHouseholds()
		if err != nil {
			return dataLoadedMsg{err: err}
		}
		songs, err := m.requests.List(m.ctx)
		if err != nil {
			return dataLoadedMsg{err: err}
		}
		return dataLoadedMsg{households: households, songs: songs}
	}
}

// buildHouseholds joins the guest directory with the response table, grouped
// by group name and sorted alphabetically.
func (m *Model) buildHouseholds() ([]household, error) {
	guests, err := m.guests.List(m.ctx)
	if err != nil {
		return nil, err
	}
	responses, err := m.responses.List(m.ctx)
	if err != nil {
		return nil, err
	}

	byGuest := make(map[int64]*models.GuestResponse, len(responses))
	for i := range responses {
		byGuest[responses[i].GuestID] = &responses[i]
	}

	grouped := make(map[string]*household)
	order := []string{}
	for _, g := range guests {
		h, ok := grouped[g.GroupName]
		if !ok {
			h = &household{group: g.GroupName}
			grouped[g.GroupName] = h
			order = append(order, g.GroupName)
		}
		h.records = append(h.records, models.ResponseRecord{Guest: g, Response: byGuest[g.ID]})
	}

	sort.Strings(order)
	households := make([]household, 0, len(order))
	for _, name := range order {
		households = append(households, *grouped[name])
	}
	return households, nil
}

func (m *Model) renderHouseholdList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.songs, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.householdList.View(), helpView)
}

func (m *Model) renderDetail() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.guestList.View(), helpView)
}

func (m *Model) renderSongList() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.songList.View(), helpView)
}
