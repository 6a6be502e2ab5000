package constants

// Rule thresholds for streak risk assessment. The checks run in the order they
// are declared here.
const (
	StreakAtRiskMin = 3 // a streak must be strictly longer than this to be "at risk"

	HighRiskAtRiskStreak    = 14
	HighRiskMilestoneStreak = 30
	MediumRiskAtRiskStreak  = 7
	MediumRiskGrowingStreak = 5

	ConfidenceHighAtRisk    = 0.95
	ConfidenceHighMilestone = 0.9
	ConfidenceMediumAtRisk  = 0.85
	ConfidenceMediumGrowing = 0.8
	ConfidenceDefault       = 0.9

	ContinuationFloor        = 0.3
	ContinuationCeiling      = 0.95
	ContinuationStreakBonus  = 0.1
	ContinuationTodayBonus   = 0.1
	ConsistencyStreakBonus   = 0.02
	ConsistencyMaxBonus      = 0.2
	MoodTrendThreshold       = 0.3
	MoodTrendMinEntries      = 3
	MoodPatternSampleSize    = 5
	MoodPatternDelta         = 0.5
	InsightStreakAchievement = 7
	InsightManyHabits        = 7
	InsightMinMoodEntries    = 3
)
