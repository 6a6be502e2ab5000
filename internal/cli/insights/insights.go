package insights

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/predictor"
	"github.com/julianstephens/habitlit/internal/validation"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	highStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	mediumStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	lowStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

func riskStyle(level predictor.RiskLevel) lipgloss.Style {
	switch level {
	case predictor.RiskHigh:
		return highStyle
	case predictor.RiskMedium:
		return mediumStyle
	default:
		return lowStyle
	}
}

type InsightsCmd struct {
	Risks  RisksCmd  `cmd:"" help:"Predict which streaks are likely to break." default:"1"`
	Alerts AlertsCmd `cmd:"" help:"Show only the streaks that need attention today."`
	Report ReportCmd `cmd:"" help:"Summarize habits and mood over a time range."`
}

type RisksCmd struct {
	JSON bool `help:"Print JSON instead of text." name:"json"`
}

func (c *RisksCmd) Run(ctx *cli.Context) error {
	snap, err := ctx.Store.Snapshot()
	if err != nil {
		return err
	}
	risks := predictor.PredictRisks(snap.Habits, ctx.Today())
	if c.JSON {
		return printJSON(risks)
	}
	if len(risks) == 0 {
		fmt.Println("No active habits to assess.")
		return nil
	}
	fmt.Print(renderRisks(risks, true))
	return nil
}

type AlertsCmd struct{}

func (c *AlertsCmd) Run(ctx *cli.Context) error {
	snap, err := ctx.Store.Snapshot()
	if err != nil {
		return err
	}
	alerts := predictor.Alerts(predictor.PredictRisks(snap.Habits, ctx.Today()))
	if len(alerts) == 0 {
		fmt.Println(lowStyle.Render("✓ No streaks at risk today."))
		return nil
	}
	fmt.Print(renderRisks(alerts, false))
	return nil
}

// renderRisks prints one block per assessment, with factors when verbose
func renderRisks(risks []predictor.RiskAssessment, verbose bool) string {
	var b strings.Builder
	for _, r := range risks {
		done := "○"
		if r.CompletedToday {
			done = "✓"
		}
		level := riskStyle(r.RiskLevel).Render(strings.ToUpper(string(r.RiskLevel)))
		fmt.Fprintf(&b, "%s %s %s  streak %d (best %d)  %.0f%% likely to continue\n",
			done, level, r.HabitName, r.CurrentStreak, r.LongestStreak, r.ContinuationProbability*100)
		if verbose {
			for _, f := range r.Factors {
				b.WriteString(mutedStyle.Render("    · "+f) + "\n")
			}
		}
		for _, s := range r.Suggestions {
			fmt.Fprintf(&b, "    → %s\n", s)
		}
	}
	return b.String()
}

type ReportCmd struct {
	Days int  `help:"Range in days." default:"30"`
	JSON bool `help:"Print JSON instead of text." name:"json"`
}

func (c *ReportCmd) Run(ctx *cli.Context) error {
	days := c.Days
	if days <= 0 {
		days = constants.DefaultInsightsRangeDays
	}
	if err := validation.ValidateWindow(days); err != nil {
		return err
	}
	snap, err := ctx.Store.Snapshot()
	if err != nil {
		return err
	}

	report := predictor.BuildReport(snap, days, ctx.Today(), ctx.Now())
	if c.JSON {
		return printJSON(report)
	}
	fmt.Println(renderReport(report))
	return nil
}

func renderReport(r predictor.Report) string {
	s := r.Summary
	summary := summaryStyle.Render(fmt.Sprintf(
		"Done today     %s %d%%\nActive habits  %d\nAverage mood   %.1f/5 (%s)\nMood entries   %d",
		cli.ProgressBar(float64(s.CompletionRate), 10), s.CompletionRate,
		s.ActiveHabits, s.AverageMood, s.MoodTrend, s.MoodEntries))

	sections := []string{titleStyle.Render(fmt.Sprintf("Insights for the last %d days", r.RangeDays)), summary}

	var perf []string
	if r.BestHabit != nil {
		perf = append(perf, fmt.Sprintf("Strongest:        %s (%d%% consistent, %d done)",
			r.BestHabit.HabitName, r.BestHabit.ConsistencyScore, r.BestHabit.CompletedInRange))
	}
	if r.NeedsAttention != nil {
		perf = append(perf, fmt.Sprintf("Needs attention:  %s (%d%% consistent, %d done)",
			r.NeedsAttention.HabitName, r.NeedsAttention.ConsistencyScore, r.NeedsAttention.CompletedInRange))
	}
	if len(perf) > 0 {
		sections = append(sections, strings.Join(perf, "\n"))
	}

	if len(r.Patterns) > 0 {
		var lines []string
		for _, p := range r.Patterns {
			style := lowStyle
			if p.Type == predictor.PatternNegative {
				style = mediumStyle
			}
			lines = append(lines, style.Render(p.Title)+"\n  "+p.Description)
		}
		sections = append(sections, titleStyle.Render("Patterns")+"\n"+strings.Join(lines, "\n"))
	}
	if len(r.Achievements) > 0 {
		sections = append(sections, titleStyle.Render("Achievements")+"\n★ "+strings.Join(r.Achievements, "\n★ "))
	}
	if len(r.Suggestions) > 0 {
		sections = append(sections, titleStyle.Render("Suggestions")+"\n• "+strings.Join(r.Suggestions, "\n• "))
	}

	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(sections, "\n\n"))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
