package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

func (a *App) loadUsers(next appState) tea.Cmd {
	return func() tea.Msg {
		users, err := a.registry.List(context.Background())
		return usersLoadedMsg{users: users, next: next, err: err}
	}
}

func (a *App) addUser(name string, rating int) tea.Cmd {
	return func() tea.Msg {
		u, err := a.registry.Register(context.Background(), name, rating)
		return userAddedMsg{user: u, err: err}
	}
}

func (a *App) recordMatch(teamA, teamB [2]string, resultA, resultB int) tea.Cmd {
	return func() tea.Msg {
		m, err := a.ledger.RecordMatch(context.Background(), teamA, teamB, resultA, resultB)
		return matchRecordedMsg{match: m, err: err}
	}
}

func (a *App) renderUsers() tea.Cmd {
	return func() tea.Msg {
		users, err := a.query.RankedUsers(context.Background())
		if err != nil {
			return tableMsg{err: err}
		}
		return tableMsg{table: usersTable(users)}
	}
}

func (a *App) renderMatches() tea.Cmd {
	return func() tea.Msg {
		matches, err := a.query.OrderedMatches(context.Background())
		if err != nil {
			return tableMsg{err: err}
		}
		return tableMsg{table: matchesTable(matches, a.query.RenderExpectation)}
	}
}
