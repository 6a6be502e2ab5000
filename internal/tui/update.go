package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/tui/components/habits"
	"github.com/julianstephens/habitlit/internal/tui/components/mood"
	"github.com/julianstephens/habitlit/internal/validation"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case constants.StateAddHabit, constants.StateLogMood, constants.StateConfirmDelete:
		return m.updateForm(msg)
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h, v := docStyle.GetFrameSize()
		// tabs, status line and help
		contentHeight := max(msg.Height-v-5, 1)
		m.habitsModel.SetSize(msg.Width-h, contentHeight)
		m.moodModel.SetSize(msg.Width-h, contentHeight)
		m.insightsModel.SetSize(msg.Width-h, contentHeight)
		m.help.Width = msg.Width - h

	case tea.KeyMsg:
		if m.habitsModel.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = m.nextTab(1)
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = m.nextTab(-1)
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.refresh()
			m.status = "Refreshed"
			return m, nil
		case key.Matches(msg, m.keys.LogMood) && m.state != constants.StateMood:
			return m.openMoodForm()
		}

	case habits.AddHabitMsg:
		return m.openHabitForm()

	case habits.ToggleHabitMsg:
		m.toggleHabit(msg.ID)
		return m, nil

	case habits.ArchiveHabitMsg:
		if err := m.store.ArchiveHabit(msg.ID); err != nil {
			m.errMsg = "Failed to archive habit: " + err.Error()
			return m, nil
		}
		m.status = "Habit archived"
		m.refresh()
		return m, nil

	case habits.DeleteHabitMsg:
		m.habitToDelete = msg
		confirmed := false
		m.confirmed = &confirmed
		m.form = newConfirmForm(fmt.Sprintf("Delete habit %q?", msg.Name), m.confirmed)
		m.previousState = m.state
		m.state = constants.StateConfirmDelete
		return m, m.form.Init()

	case mood.LogMoodMsg:
		return m.openMoodForm()

	case mood.DeleteMoodMsg:
		if err := m.store.DeleteMood(msg.ID); err != nil {
			m.errMsg = "Failed to delete mood: " + err.Error()
			return m, nil
		}
		m.status = "Mood entry deleted"
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateHabits:
		m.habitsModel, cmd = m.habitsModel.Update(msg)
	case constants.StateMood:
		m.moodModel, cmd = m.moodModel.Update(msg)
	case constants.StateInsights:
		m.insightsModel, cmd = m.insightsModel.Update(msg)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// nextTab steps through the top-level tabs, wrapping at both ends
func (m Model) nextTab(step int) constants.SessionState {
	for i, t := range constants.Tabs {
		if t == m.state {
			n := len(constants.Tabs)
			return constants.Tabs[((i+step)%n+n)%n]
		}
	}
	return constants.StateHabits
}

func (m Model) openHabitForm() (tea.Model, tea.Cmd) {
	m.habitForm = &HabitFormModel{Category: models.CategoryOther}
	m.form = newHabitForm(m.habitForm)
	m.previousState = m.state
	m.state = constants.StateAddHabit
	m.errMsg = ""
	return m, m.form.Init()
}

func (m Model) openMoodForm() (tea.Model, tea.Cmd) {
	m.moodForm = &MoodFormModel{Mood: models.MoodNeutral}
	m.form = newMoodForm(m.moodForm)
	m.previousState = m.state
	m.state = constants.StateLogMood
	m.errMsg = ""
	return m, m.form.Init()
}

// updateForm drives whichever huh form is open and applies it on completion
func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		var err error
		switch m.state {
		case constants.StateAddHabit:
			err = m.saveHabit()
		case constants.StateLogMood:
			err = m.saveMood()
		case constants.StateConfirmDelete:
			err = m.deleteHabit()
		}
		if err != nil {
			// Stay on the form so the user can fix it or cancel with ESC
			m.errMsg = err.Error()
			m.form.State = huh.StateNormal
			return m, tea.Batch(cmds...)
		}
		m.refresh()
		m.state = m.previousState
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) saveHabit() error {
	h := models.Habit{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(m.habitForm.Name),
		Description: strings.TrimSpace(m.habitForm.Description),
		Category:    m.habitForm.Category,
		CreatedAt:   m.opts.Now(),
	}
	if err := validation.ValidateHabit(h); err != nil {
		return err
	}
	if err := m.store.AddHabit(h); err != nil {
		return err
	}
	logger.Info("habit added", "id", h.ID, "name", h.Name)
	m.status = fmt.Sprintf("Added %q", h.Name)
	m.errMsg = ""
	return nil
}

func (m *Model) saveMood() error {
	today := m.opts.Today()
	entry := models.MoodEntry{
		ID:         uuid.New().String(),
		Date:       today,
		Time:       m.opts.Now().Format(time.RFC3339),
		Mood:       m.moodForm.Mood,
		Note:       strings.TrimSpace(m.moodForm.Note),
		Activities: splitActivities(m.moodForm.Activities),
	}
	if !strings.HasPrefix(entry.Time, today) {
		entry.Time = today + "T12:00:00Z"
	}
	if err := validation.ValidateMood(entry); err != nil {
		return err
	}
	if err := m.store.AddMood(entry); err != nil {
		return err
	}
	logger.Info("mood logged", "date", entry.Date, "mood", entry.Mood)
	m.status = "Logged mood: " + entry.Mood.Label()
	m.errMsg = ""
	return nil
}

func (m *Model) deleteHabit() error {
	if m.confirmed == nil || !*m.confirmed {
		m.status = "Delete cancelled"
		return nil
	}
	if err := m.store.DeleteHabit(m.habitToDelete.ID); err != nil {
		return err
	}
	m.status = fmt.Sprintf("Deleted %q", m.habitToDelete.Name)
	m.errMsg = ""
	return nil
}

func (m *Model) toggleHabit(id string) {
	completed, err := m.store.ToggleCompletion(id, m.opts.Today())
	if err != nil {
		logger.Error("failed to toggle habit", "id", id, "error", err)
		m.errMsg = "Failed to update habit: " + err.Error()
		return
	}
	if completed {
		m.status = "Marked done for today"
	} else {
		m.status = "Marked not done"
	}
	m.errMsg = ""
	m.refresh()
}
