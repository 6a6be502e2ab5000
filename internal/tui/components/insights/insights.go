package insights

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlit/internal/predictor"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	highStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mediumStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	lowStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// RiskStyle colors a risk level
func RiskStyle(level predictor.RiskLevel) lipgloss.Style {
	switch level {
	case predictor.RiskHigh:
		return highStyle
	case predictor.RiskMedium:
		return mediumStyle
	default:
		return lowStyle
	}
}

type Model struct {
	viewport viewport.Model
	content  string
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

// SetData re-renders the risks and report into the scrollable view
func (m *Model) SetData(risks []predictor.RiskAssessment, report predictor.Report) {
	m.content = Render(risks, report)
	m.viewport.SetContent(m.content)
}

func (m Model) Content() string {
	return m.content
}

// Render lays out the risk assessments followed by the report
func Render(risks []predictor.RiskAssessment, report predictor.Report) string {
	var b strings.Builder

	b.WriteString(headingStyle.Render("Streak outlook"))
	b.WriteString("\n")
	if len(risks) == 0 {
		b.WriteString(mutedStyle.Render("No active habits to assess."))
		b.WriteString("\n")
	}
	for _, r := range risks {
		done := " "
		if r.CompletedToday {
			done = "✓"
		}
		level := RiskStyle(r.RiskLevel).Render(fmt.Sprintf("%-6s", r.RiskLevel))
		fmt.Fprintf(&b, "%s %s %s  streak %d  continue %.0f%%\n", done, level, r.HabitName, r.CurrentStreak, r.ContinuationProbability*100)
		for _, f := range r.Factors {
			b.WriteString(mutedStyle.Render("    · " + f))
			b.WriteString("\n")
		}
		if r.RiskLevel != predictor.RiskLow && len(r.Suggestions) > 0 {
			fmt.Fprintf(&b, "    → %s\n", r.Suggestions[0])
		}
	}

	s := report.Summary
	b.WriteString("\n")
	b.WriteString(headingStyle.Render(fmt.Sprintf("Last %d days", report.RangeDays)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Done today: %d%% of %d habits   Mood: %.1f (%s, %d entries)\n",
		s.CompletionRate, s.ActiveHabits, s.AverageMood, s.MoodTrend, s.MoodEntries)
	if report.BestHabit != nil {
		fmt.Fprintf(&b, "Strongest: %s (%d%% consistent)\n", report.BestHabit.HabitName, report.BestHabit.ConsistencyScore)
	}
	if report.NeedsAttention != nil {
		fmt.Fprintf(&b, "Needs attention: %s (%d%% consistent)\n", report.NeedsAttention.HabitName, report.NeedsAttention.ConsistencyScore)
	}

	for _, p := range report.Patterns {
		style := lowStyle
		if p.Type == predictor.PatternNegative {
			style = mediumStyle
		}
		fmt.Fprintf(&b, "%s %s\n", style.Render(p.Title+":"), p.Description)
	}
	for _, a := range report.Achievements {
		fmt.Fprintf(&b, "★ %s\n", a)
	}
	for _, sg := range report.Suggestions {
		fmt.Fprintf(&b, "• %s\n", sg)
	}

	return b.String()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
}
