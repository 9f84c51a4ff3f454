package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"kickerledger/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	rightCell   = cellStyle.Align(lipgloss.Right)
	centerCell  = cellStyle.Align(lipgloss.Center)
	pendingCell = cellStyle.Foreground(lipgloss.Color("#FFB86C"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))).
		Headers(headers...)
}

// usersTable renders the ranking as #, ELO, Name
func usersTable(users []*model.User) string {
	t := newTable("#", "ELO", "Name").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col < 2:
				return rightCell
			}
			return cellStyle
		})
	for i, u := range users {
		t.Row(strconv.Itoa(i+1), strconv.Itoa(u.Rating), u.Name)
	}
	return t.String()
}

// matchesTable renders the match history with the pre-match expectations
// of either side. Matches left pending by a failed commit are marked.
func matchesTable(matches []*model.Match, expect func(*model.Match) (float64, float64)) string {
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		eA, eB := expect(m)
		result := fmt.Sprintf("%d:%d", m.Result[0], m.Result[1])
		if m.IsPending() {
			result += " (pending)"
		}
		rows = append(rows, []string{
			m.Date,
			teamCell(m.Teams[0]),
			fmt.Sprintf("%.2f", eA),
			result,
			fmt.Sprintf("%.2f", eB),
			teamCell(m.Teams[1]),
		})
	}

	t := newTable("Date", "Team A", "eA", "Result", "eB", "Team B").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(matches) && matches[row].IsPending():
				return pendingCell
			case col == 1 || col == 2:
				return rightCell
			case col == 3:
				return centerCell
			}
			return cellStyle
		})
	return t.String()
}

// teamCell formats a team as "name(rating), name(rating)"
func teamCell(t model.Team) string {
	parts := make([]string, len(t))
	for i, p := range t {
		parts[i] = fmt.Sprintf("%s(%d)", p.Name, p.Rating)
	}
	return strings.Join(parts, ", ")
}
