package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case constants.StateAddHabit, constants.StateLogMood, constants.StateConfirmDelete:
		title := map[constants.SessionState]string{
			constants.StateAddHabit:      "New habit",
			constants.StateLogMood:       "Mood check-in for " + utils.FormatDate(m.opts.Today(), constants.DisplayDateFormat),
			constants.StateConfirmDelete: "Confirm",
		}[m.state]
		parts := []string{activeTabStyle.Render(title), "", m.form.View()}
		if m.errMsg != "" {
			parts = append(parts, dangerStyle.Render(m.errMsg))
		}
		parts = append(parts, warningStyle.Render("esc to cancel"))
		return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	}

	var tabs []string
	for _, t := range constants.Tabs {
		if t == m.state {
			tabs = append(tabs, activeTabStyle.Render(t.TabName()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(t.TabName()))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	header = lipgloss.JoinHorizontal(lipgloss.Top, header, "  ",
		inactiveTabStyle.Render(utils.FormatDate(m.opts.Today(), constants.DisplayDateFormat)))

	var content string
	switch m.state {
	case constants.StateHabits:
		content = m.habitsModel.View()
	case constants.StateMood:
		content = m.moodModel.View()
	case constants.StateInsights:
		content = m.insightsModel.View()
	}

	status := ""
	switch {
	case m.errMsg != "":
		status = dangerStyle.Render(m.errMsg)
	case m.status != "":
		status = statusStyle.Render(m.status)
	}

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		content,
		status,
		m.help.View(m),
	))
}
