package constants

const (
	AppName            = "habitlit"
	Version            = "v0.3.0"
	DefaultKeyringUser = "coach-api-key"
	DefaultDBPath      = "~/.config/habitlit/habitlit.db"
	DefaultConfigPath  = "~/.config/habitlit/config.yaml"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DisplayDateFormat is used when rendering dates for people rather than storage
	DisplayDateFormat = "Jan 2, 2006"

	// Analytics windows
	DefaultMoodWindowDays       = 30
	DefaultTrendWindowDays      = 14
	DefaultCompletionWindowDays = 30
	ContinuationWindowDays      = 30
	DefaultInsightsRangeDays    = 30
	DefaultLogDays              = 14
	// MaxWindowDays bounds every user supplied day window
	MaxWindowDays = 3650

	// Chat constants
	ChatHistoryContextSize = 10
	DefaultChatHistoryView = 50

	// Server constants
	DefaultServerAddr    = "127.0.0.1:7878"
	ServerLockfileName   = "habitlit-serve.lock"
	DefaultCoachProvider = "gemini"
	DefaultCoachModel    = "gemini-2.0-flash-lite"
	DefaultCoachTimeout  = 30
	DefaultCoachAttempts = 2
	DefaultTimezone      = "Local"
)
