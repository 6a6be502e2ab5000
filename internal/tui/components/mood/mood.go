package mood

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlit/internal/models"
	moodstats "github.com/julianstephens/habitlit/internal/mood"
	"github.com/julianstephens/habitlit/internal/utils"
)

type LogMoodMsg struct{}

type DeleteMoodMsg struct {
	ID string
}

type Item struct {
	Entry models.MoodEntry
}

func (i Item) Title() string {
	return fmt.Sprintf("%s  %s (%d)", utils.FormatDate(i.Entry.Date, "Mon 2006-01-02"), i.Entry.Mood.Label(), i.Entry.Mood.Score())
}

func (i Item) Description() string {
	var parts []string
	if i.Entry.Note != "" {
		parts = append(parts, i.Entry.Note)
	}
	if len(i.Entry.Activities) > 0 {
		parts = append(parts, strings.Join(i.Entry.Activities, ", "))
	}
	if len(parts) == 0 {
		return "no note"
	}
	return strings.Join(parts, " · ")
}

func (i Item) FilterValue() string { return i.Entry.Note }

type KeyMap struct {
	Log    key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Log: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "log mood"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list    list.Model
	keys    KeyMap
	summary moodstats.Summary
}

func New(entries []models.MoodEntry, windowDays int, today string, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Mood"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Log, keys.Delete}
	}

	m := Model{list: l, keys: keys}
	m.SetEntries(entries, windowDays, today)
	return m
}

// SetEntries shows the window's entries newest first
func (m *Model) SetEntries(entries []models.MoodEntry, windowDays int, today string) {
	recent := moodstats.Recent(entries, windowDays, today)
	items := make([]list.Item, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		items = append(items, Item{Entry: recent[i]})
	}
	m.list.SetItems(items)
	m.summary = moodstats.Summarize(entries, windowDays, today)
}

func (m Model) Summary() moodstats.Summary {
	return m.summary
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Log):
			return m, func() tea.Msg { return LogMoodMsg{} }
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteMoodMsg{ID: i.Entry.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) header() string {
	s := m.summary
	if s.Entries == 0 {
		return "  No mood entries in this window."
	}
	today := "not logged yet"
	if s.Today != nil {
		today = s.Today.Mood.Label()
	}
	line := fmt.Sprintf("  Today: %s   Average: %.1f   Trend: %s   Entries: %d", today, s.Average, s.Trend, s.Entries)

	var bars []string
	for _, mt := range models.MoodTypes {
		bars = append(bars, fmt.Sprintf("  %-9s %s %d", mt.Label(), strings.Repeat("█", s.Counts[mt]), s.Counts[mt]))
	}
	return line + "\n\n" + strings.Join(bars, "\n")
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n" + m.header() + "\n  Press 'l' to log how you feel."
	}
	return "\n" + m.header() + "\n\n" + m.list.View()
}

func (m *Model) SetSize(width, height int) {
	// header plus distribution takes roughly eight lines
	m.list.SetSize(width, max(height-8, 3))
}
