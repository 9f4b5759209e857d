// ABOUTME: Static reference table of common sleep issues.
// ABOUTME: Each issue carries a description and recommended actions.
package knowledge

import "strings"

// SleepIssue describes a common sleep problem and how to address it.
type SleepIssue struct {
	Key             string
	Title           string
	Description     string
	Recommendations []string
}

var sleepIssues = []SleepIssue{
	{
		Key:         "difficulty_falling_asleep",
		Title:       "Difficulty falling asleep",
		Description: "Difficulty falling asleep is often caused by stress, late-night screen use, caffeine consumption, or inconsistent sleep routines.",
		Recommendations: []string{
			"Establish a consistent bedtime and wake-up time, even on weekends.",
			"Limit screen use at least 1 hour before bed (blue light affects melatonin production).",
			"Avoid caffeine after 2 PM.",
			"Create a relaxing pre-sleep routine, such as reading or meditation.",
		},
	},
	{
		Key:         "frequent_night_wakings",
		Title:       "Frequent night wakings",
		Description: "Waking up frequently during the night can be linked to anxiety, noise disruptions, sleep apnea, or consuming heavy meals before bedtime.",
		Recommendations: []string{
			"Keep your bedroom cool, dark, and quiet.",
			"Avoid heavy meals and alcohol within 3 hours of bedtime.",
			"Consider white noise machines or earplugs if environmental noise is an issue.",
			"If persistent, consult a sleep specialist for possible underlying disorders.",
		},
	},
	{
		Key:         "poor_sleep_quality",
		Title:       "Poor sleep quality",
		Description: "Poor sleep quality means not feeling rested even after sleeping enough hours. It may be linked to stress, poor sleep hygiene, or hidden medical conditions.",
		Recommendations: []string{
			"Prioritize deep sleep by sticking to a regular sleep schedule.",
			"Avoid stimulating activities close to bedtime.",
			"Limit naps during the day to no more than 30 minutes.",
			"Ensure your mattress and pillows are supportive and comfortable.",
		},
	},
	{
		Key:         "sleeping_too_late",
		Title:       "Sleeping too late",
		Description: "Sleeping very late (delayed sleep phase) can affect morning alertness, productivity, and mental health.",
		Recommendations: []string{
			"Shift your bedtime earlier by 15-minute increments over several nights.",
			"Expose yourself to bright natural light early in the morning.",
			"Avoid exposure to bright lights and screens at night.",
			"Consider melatonin supplements under a doctor's supervision.",
		},
	},
}

// Issues returns all known sleep issues in display order.
func Issues() []SleepIssue {
	out := make([]SleepIssue, len(sleepIssues))
	copy(out, sleepIssues)
	return out
}

// Issue looks up a sleep issue by key.
func Issue(key string) (SleepIssue, bool) {
	for _, issue := range sleepIssues {
		if issue.Key == key {
			return issue, true
		}
	}
	return SleepIssue{}, false
}

// Format renders the issue as structured advice text for prompts.
func (i SleepIssue) Format() string {
	var sb strings.Builder
	sb.WriteString("Problem: ")
	sb.WriteString(i.Description)
	sb.WriteString("\nRecommended actions:\n")
	for _, tip := range i.Recommendations {
		sb.WriteString("- ")
		sb.WriteString(tip)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
