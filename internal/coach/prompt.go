// ABOUTME: Prompt construction for the coaching language-model collaborator.
// ABOUTME: Pure string formatting; no network calls happen here.
package coach

import (
	"fmt"
	"strings"

	"github.com/harperreed/sleepcoach/internal/knowledge"
	"github.com/harperreed/sleepcoach/internal/stats"
)

// System prompts sent with every request.
const (
	systemTip      = "You are an expert health and lifestyle coach."
	systemQuestion = "You are an expert in sleep science and coaching."
)

// BuildPrompt formats summary stats and selected advice into the fixed
// coaching-tip template.
func BuildPrompt(sum stats.Summary, advice []string) string {
	var sb strings.Builder
	sb.WriteString("You are a professional health coach. Base your advice on the data below.\n")
	sb.WriteString("USER CONTEXT:\n")
	sb.WriteString(FormatSummary(sum))
	sb.WriteString("\n\nCURRENT ADVICE:\n")
	for _, a := range advice {
		sb.WriteString("- ")
		sb.WriteString(a)
		sb.WriteString("\n")
	}
	sb.WriteString("\nGive a detailed but concise advice paragraph that builds on the current advice.")
	return sb.String()
}

// BuildQuestionPrompt formats a free-form user question with recent
// context and the known sleep issue, mirroring the coaching template.
func BuildQuestionPrompt(sum stats.Summary, issue *knowledge.SleepIssue, question string) string {
	structured := "No specific structured advice available."
	if issue != nil {
		structured = issue.Format()
	}

	var sb strings.Builder
	sb.WriteString("You are a professional sleep coach.\n")
	sb.WriteString("USER CONTEXT:\n")
	sb.WriteString(FormatSummary(sum))
	sb.WriteString("\n\nKNOWN SLEEP ISSUE:\n")
	sb.WriteString(structured)
	sb.WriteString("\n\nUSER QUESTION:\n")
	sb.WriteString(question)
	sb.WriteString("\n\nRespond with specific, actionable, compassionate advice. Cite the structured advice where helpful.")
	return sb.String()
}

// FormatSummary renders a summary as plain stat lines for prompts.
func FormatSummary(sum stats.Summary) string {
	if !sum.HasData {
		return "No entries logged yet."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "window: %s to %s\n", sum.Window.From, sum.Window.To)
	fmt.Fprintf(&sb, "entries: %d\n", sum.Count)
	fmt.Fprintf(&sb, "average: %.1fh (stddev %.1f)\n", sum.Mean, sum.StdDev)
	fmt.Fprintf(&sb, "best day: %s (%.1f)\n", sum.Best.Date, sum.Best.Value)
	fmt.Fprintf(&sb, "worst day: %s (%.1f)\n", sum.Worst.Date, sum.Worst.Value)
	fmt.Fprintf(&sb, "current streak: %d days", sum.CurrentStreak)
	return sb.String()
}
