package constants

// SessionState represents the current state of the TUI application
type SessionState int

const (
	StateHabits SessionState = iota
	StateMood
	StateInsights
	StateAddHabit
	StateLogMood
	StateConfirmDelete
)

// Tabs are the top-level TUI views in display order
var Tabs = []SessionState{StateHabits, StateMood, StateInsights}

// TabName returns the title shown for a tab
func (s SessionState) TabName() string {
	switch s {
	case StateHabits:
		return "Habits"
	case StateMood:
		return "Mood"
	case StateInsights:
		return "Insights"
	default:
		return ""
	}
}
