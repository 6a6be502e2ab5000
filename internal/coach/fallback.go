package coach

import "strings"

type fallbackRule struct {
	keywords []string
	reply    string
}

// Checked in order; the first rule with a matching keyword wins.
var fallbackRules = []fallbackRule{
	{
		keywords: []string{"streak", "连续"},
		reply:    "Your streaks are looking great! Consistency is key to building lasting habits. Keep up the good work and remember that missing one day doesn't break your progress - it's getting back on track that matters most.",
	},
	{
		keywords: []string{"habit", "习惯"},
		reply:    "Building habits is about starting small and staying consistent. I suggest:\n\n1. Focus on just 1-2 habits at first\n2. Make them so small you can't fail\n3. Stack them onto habits you already have\n4. Celebrate small wins\n\nWhich habits are you working on?",
	},
	{
		keywords: []string{"mood", "情绪", "心情"},
		reply:    "Tracking your mood alongside your habits is a wonderful practice! This helps you understand patterns between your emotional state and your ability to maintain habits. Consider how different moods affect your motivation.",
	},
	{
		keywords: []string{"tip", "help", "建议", "帮助"},
		reply:    "Here are a few proven habit-building tips:\n\n1. Start small - begin with habits that take less than 2 minutes\n2. Stack habits - attach new habits to existing ones\n3. Focus on consistency over intensity\n4. Celebrate small wins\n\nWhich of these resonates with you?",
	},
	{
		keywords: []string{"thank", "谢谢", "感谢"},
		reply:    "You're welcome! I'm here to help you on your journey. Remember, building habits is a marathon, not a sprint. Every day is a new opportunity to grow!",
	},
}

const defaultFallback = "That's a great question! To give you personalized insights based on your actual habit data, make sure you're consistently tracking your habits and moods. Over time, I'll be able to identify patterns and provide tailored recommendations just for you."

// FallbackResponse answers from a fixed keyword table when no model is
// available.
func FallbackResponse(message string) string {
	lower := strings.ToLower(message)
	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.reply
			}
		}
	}
	return defaultFallback
}
