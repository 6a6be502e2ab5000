package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/predictor"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/tui/components/habits"
	"github.com/julianstephens/habitlit/internal/tui/components/insights"
	"github.com/julianstephens/habitlit/internal/tui/components/mood"
	"github.com/julianstephens/habitlit/internal/utils"
)

// HabitFormModel represents the form model for habit creation
type HabitFormModel struct {
	Name        string
	Category    models.HabitCategory
	Description string
}

// MoodFormModel represents the form model for a mood check-in
type MoodFormModel struct {
	Mood       models.MoodType
	Note       string
	Activities string
}

// Options configures the clock and analytics windows
type Options struct {
	Now               func() time.Time
	Today             func() string
	MoodWindowDays    int
	InsightsRangeDays int
}

type Model struct {
	store         storage.Provider
	opts          Options
	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	habitsModel   habits.Model
	moodModel     mood.Model
	insightsModel insights.Model
	form          *huh.Form
	habitForm     *HabitFormModel
	moodForm      *MoodFormModel
	habitToDelete habits.DeleteHabitMsg
	confirmed     *bool
	quitting      bool
	width         int
	height        int
	status        string
	errMsg        string
}

func NewModel(store storage.Provider, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Today == nil {
		now := opts.Now
		opts.Today = func() string { return utils.Today(now()) }
	}
	if opts.MoodWindowDays <= 0 {
		opts.MoodWindowDays = constants.DefaultMoodWindowDays
	}
	if opts.InsightsRangeDays <= 0 {
		opts.InsightsRangeDays = constants.DefaultInsightsRangeDays
	}

	today := opts.Today()
	m := Model{
		store:         store,
		opts:          opts,
		state:         constants.StateHabits,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		habitsModel:   habits.New(nil, today, 0, 0),
		moodModel:     mood.New(nil, opts.MoodWindowDays, today, 0, 0),
		insightsModel: insights.New(0, 0),
	}
	m.refresh()
	return m
}

// refresh reloads everything from storage and recomputes the analytics
func (m *Model) refresh() {
	snap, err := m.store.Snapshot()
	if err != nil {
		logger.Error("failed to load data", "error", err)
		m.errMsg = "Failed to load data: " + err.Error()
		return
	}

	today := m.opts.Today()
	m.habitsModel.SetHabits(snap.Habits, today)
	m.moodModel.SetEntries(snap.Moods, m.opts.MoodWindowDays, today)
	m.insightsModel.SetData(
		predictor.PredictRisks(snap.Habits, today),
		predictor.BuildReport(snap, m.opts.InsightsRangeDays, today, m.opts.Now()),
	)
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateHabits:
		keys = append(keys, m.keys.Add, m.keys.Mark, m.keys.LogMood)
	case constants.StateMood:
		keys = append(keys, m.keys.LogMood, m.keys.Delete)
	case constants.StateInsights:
		keys = append(keys, m.keys.Refresh)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case constants.StateHabits:
		actions = []key.Binding{m.keys.Add, m.keys.Mark, m.keys.LogMood, m.keys.Delete}
	case constants.StateMood:
		actions = []key.Binding{m.keys.LogMood, m.keys.Delete}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}
