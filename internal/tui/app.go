// internal/tui/app.go
//
// Interactive menu for the ledger. Every store call runs as a tea.Cmd and
// reports back through one of the *Msg types below; Update never blocks.

package tui

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kickerledger/internal/model"
	"kickerledger/internal/service"
)

type appState int

const (
	stateMenu       appState = iota
	stateUserName            // add user: name prompt
	stateUserRating          // add user: initial rating prompt
	statePickPlayer          // add match: one of four player slots
	stateResultA             // add match: goals of team A
	stateResultB             // add match: goals of team B
	stateBusy                // waiting for a store call
)

const (
	actionAddUser     = "add user"
	actionListUser    = "list user"
	actionAddMatch    = "add match"
	actionListMatches = "list matches"
	actionExit        = "exit"

	defaultInitialRating = "1000"
)

var slotLabels = [4]string{
	"Team A Player 1",
	"Team A Player 2",
	"Team B Player 1",
	"Team B Player 2",
}

// Messages produced by the store commands
type (
	usersLoadedMsg struct {
		users []*model.User
		next  appState
		err   error
	}
	userAddedMsg struct {
		user *model.User
		err  error
	}
	matchRecordedMsg struct {
		match *model.Match
		err   error
	}
	tableMsg struct {
		table string
		err   error
	}
)

// App is the bubbletea model behind cmd/kicker
type App struct {
	state    appState
	registry *service.UserRegistry
	ledger   *service.MatchLedger
	query    *service.QueryService

	menu   list.Model
	picker list.Model
	input  textinput.Model

	users []*model.User
	name  string

	chosen  []*model.User
	resultA int

	output    string // last rendered table
	statusMsg string
	promptErr string
	fatal     error

	width  int
	height int
}

type menuItem struct {
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

type userItem struct {
	user *model.User
}

func (i userItem) Title() string       { return i.user.Name }
func (i userItem) Description() string { return fmt.Sprintf("ELO %d", i.user.Rating) }
func (i userItem) FilterValue() string { return i.user.Name }

// NewApp creates the menu model over the wired services
func NewApp(registry *service.UserRegistry, ledger *service.MatchLedger, query *service.QueryService) *App {
	menu := list.New([]list.Item{
		menuItem{title: actionAddUser, desc: "Register a player with an initial ELO"},
		menuItem{title: actionListUser, desc: "Players ranked by ELO"},
		menuItem{title: actionAddMatch, desc: "Record a doubles match and update ratings"},
		menuItem{title: actionListMatches, desc: "All matches, oldest first"},
		menuItem{title: actionExit, desc: "Quit"},
	}, list.NewDefaultDelegate(), 60, 16)
	menu.Title = "Do"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)

	picker := list.New(nil, list.NewDefaultDelegate(), 60, 16)
	picker.SetShowStatusBar(false)
	picker.KeyMap.Quit.SetEnabled(false)

	input := textinput.New()
	input.CharLimit = 64
	input.Cursor.SetMode(cursor.CursorStatic)

	return &App{
		state:    stateMenu,
		registry: registry,
		ledger:   ledger,
		query:    query,
		menu:     menu,
		picker:   picker,
		input:    input,
	}
}

// Err returns the store failure that ended the session, if any
func (a *App) Err() error {
	return a.fatal
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.menu.SetSize(max(20, msg.Width-4), max(8, msg.Height/2))
		a.picker.SetSize(max(20, msg.Width-4), max(8, msg.Height/2))
		return a, nil

	case usersLoadedMsg:
		return a.handleUsersLoaded(msg)
	case userAddedMsg:
		return a.handleUserAdded(msg)
	case matchRecordedMsg:
		return a.handleMatchRecorded(msg)
	case tableMsg:
		if msg.err != nil {
			return a.fail(msg.err)
		}
		a.state = stateMenu
		a.output = msg.table
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "esc":
			if a.state != stateMenu && a.state != stateBusy && a.picker.FilterState() != list.Filtering {
				a.reset("Cancelled")
				return a, nil
			}
		case "enter":
			if a.state == statePickPlayer && a.picker.FilterState() == list.Filtering {
				break
			}
			return a.submit()
		}
	}

	var cmd tea.Cmd
	switch a.state {
	case stateMenu:
		a.menu, cmd = a.menu.Update(msg)
	case statePickPlayer:
		a.picker, cmd = a.picker.Update(msg)
	case stateUserName, stateUserRating, stateResultA, stateResultB:
		a.input, cmd = a.input.Update(msg)
	}
	return a, cmd
}

// submit handles enter for the current screen
func (a *App) submit() (tea.Model, tea.Cmd) {
	switch a.state {
	case stateMenu:
		return a.handleMenuSelection()
	case stateUserName:
		return a.submitName()
	case stateUserRating:
		return a.submitRating()
	case statePickPlayer:
		return a.submitPlayer()
	case stateResultA, stateResultB:
		return a.submitResult()
	}
	return a, nil
}

func (a *App) handleMenuSelection() (tea.Model, tea.Cmd) {
	item, ok := a.menu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}
	a.statusMsg = ""
	a.promptErr = ""

	switch item.title {
	case actionAddUser:
		a.state = stateBusy
		return a, a.loadUsers(stateUserName)
	case actionListUser:
		a.state = stateBusy
		return a, a.renderUsers()
	case actionAddMatch:
		a.state = stateBusy
		return a, a.loadUsers(statePickPlayer)
	case actionListMatches:
		a.state = stateBusy
		return a, a.renderMatches()
	case actionExit:
		log.Println("exit selected")
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleUsersLoaded(msg usersLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return a.fail(msg.err)
	}
	a.users = msg.users
	a.output = ""

	switch msg.next {
	case stateUserName:
		a.name = ""
		a.prompt(stateUserName, "Name", "")
	case statePickPlayer:
		if len(a.users) < 4 {
			a.reset(fmt.Sprintf("A match needs four players, only %d registered", len(a.users)))
			return a, nil
		}
		a.chosen = a.chosen[:0]
		a.showPicker()
	}
	return a, nil
}

func (a *App) submitName() (tea.Model, tea.Cmd) {
	name := a.input.Value()
	if name == "" {
		a.promptErr = service.ErrEmptyName.Error()
		return a, nil
	}
	for _, u := range a.users {
		if u.Name == name {
			a.promptErr = fmt.Sprintf("User '%s' already exists.", name)
			return a, nil
		}
	}
	a.name = name
	a.prompt(stateUserRating, "Initial ELO", defaultInitialRating)
	return a, nil
}

func (a *App) submitRating() (tea.Model, tea.Cmd) {
	r, err := strconv.Atoi(strings.TrimSpace(a.input.Value()))
	if err != nil {
		a.promptErr = "ELO must be a whole number"
		return a, nil
	}
	if r < 0 {
		a.promptErr = "ELO must be positive"
		return a, nil
	}
	a.state = stateBusy
	return a, a.addUser(a.name, r)
}

func (a *App) handleUserAdded(msg userAddedMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err == nil:
		log.Printf("registered user %s (%s)", msg.user.Name, msg.user.ID)
		a.reset(fmt.Sprintf("Added %s with ELO %d", msg.user.Name, msg.user.Rating))
		return a, nil
	case errors.Is(msg.err, service.ErrDuplicateName), errors.Is(msg.err, service.ErrEmptyName):
		a.prompt(stateUserName, "Name", a.name)
		a.promptErr = msg.err.Error()
		return a, nil
	case errors.Is(msg.err, service.ErrInvalidRating):
		a.prompt(stateUserRating, "Initial ELO", defaultInitialRating)
		a.promptErr = msg.err.Error()
		return a, nil
	}
	return a.fail(msg.err)
}

// showPicker lists the players not yet placed in an earlier slot
func (a *App) showPicker() {
	taken := make(map[string]bool, len(a.chosen))
	for _, u := range a.chosen {
		taken[u.ID] = true
	}
	items := []list.Item{}
	for _, u := range a.users {
		if !taken[u.ID] {
			items = append(items, userItem{user: u})
		}
	}
	a.picker.ResetFilter()
	a.picker.SetItems(items)
	a.picker.Select(0)
	a.picker.Title = slotLabels[len(a.chosen)]
	a.state = statePickPlayer
}

func (a *App) submitPlayer() (tea.Model, tea.Cmd) {
	item, ok := a.picker.SelectedItem().(userItem)
	if !ok {
		return a, nil
	}
	a.chosen = append(a.chosen, item.user)
	if len(a.chosen) < 4 {
		a.showPicker()
		return a, nil
	}
	a.prompt(stateResultA, "Result Team A", "0")
	return a, nil
}

func (a *App) submitResult() (tea.Model, tea.Cmd) {
	n, err := strconv.Atoi(strings.TrimSpace(a.input.Value()))
	if err != nil {
		a.promptErr = "result must be a whole number"
		return a, nil
	}
	if n < 0 {
		a.promptErr = service.ErrInvalidResult.Error()
		return a, nil
	}
	if a.state == stateResultA {
		a.resultA = n
		a.prompt(stateResultB, "Result Team B", "0")
		return a, nil
	}
	a.state = stateBusy
	teamA := [2]string{a.chosen[0].ID, a.chosen[1].ID}
	teamB := [2]string{a.chosen[2].ID, a.chosen[3].ID}
	return a, a.recordMatch(teamA, teamB, a.resultA, n)
}

func (a *App) handleMatchRecorded(msg matchRecordedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if service.IsValidation(msg.err) || errors.Is(msg.err, service.ErrNotFound) {
			a.reset("Match rejected: " + msg.err.Error())
			return a, nil
		}
		return a.fail(msg.err)
	}
	log.Printf("recorded match %s", msg.match.ID)
	a.reset(fmt.Sprintf("Recorded %s %d:%d %s",
		teamNames(msg.match.Teams[0]), msg.match.Result[0], msg.match.Result[1], teamNames(msg.match.Teams[1])))
	return a, nil
}

// prompt switches to a text prompt prefilled with value
func (a *App) prompt(state appState, label, value string) {
	a.state = state
	a.promptErr = ""
	a.input.Prompt = label + ": "
	a.input.SetValue(value)
	a.input.CursorEnd()
	a.input.Focus()
}

func (a *App) reset(status string) {
	a.state = stateMenu
	a.statusMsg = status
	a.promptErr = ""
	a.input.Blur()
	a.chosen = a.chosen[:0]
}

// fail ends the session on a store failure; main turns it into exit status 1
func (a *App) fail(err error) (tea.Model, tea.Cmd) {
	log.Printf("store failure: %v", err)
	a.fatal = err
	return a, tea.Quit
}

// View renders the current screen
func (a *App) View() string {
	var sections []string
	sections = append(sections, titleStyle.Render("KICKER LEDGER"))

	switch a.state {
	case stateMenu:
		sections = append(sections, a.menu.View())
	case statePickPlayer:
		if len(a.chosen) > 0 {
			sections = append(sections, hintStyle.Render("Picked: "+userNames(a.chosen)))
		}
		sections = append(sections, a.picker.View())
	case stateUserName, stateUserRating, stateResultA, stateResultB:
		sections = append(sections, a.input.View())
		if a.promptErr != "" {
			sections = append(sections, errorStyle.Render(a.promptErr))
		}
		sections = append(sections, hintStyle.Render("enter to confirm · esc to cancel"))
	case stateBusy:
		sections = append(sections, hintStyle.Render("Working..."))
	}

	if a.statusMsg != "" {
		sections = append(sections, statusStyle.Render(a.statusMsg))
	}
	if a.output != "" {
		sections = append(sections, a.output)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func userNames(users []*model.User) string {
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Name
	}
	return strings.Join(names, ", ")
}

func teamNames(t model.Team) string {
	return t[0].Name + " & " + t[1].Name
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))
)
