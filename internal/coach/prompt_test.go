// ABOUTME: Tests for coaching prompt construction.
// ABOUTME: Verifies prompt sections, fallback wording, and summary formatting.

package coach

import (
	"strings"
	"testing"
	"time"

	"github.com/harperreed/sleepcoach/internal/knowledge"
	"github.com/harperreed/sleepcoach/internal/models"
	"github.com/harperreed/sleepcoach/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPromptSections(t *testing.T) {
	prompt := BuildPrompt(testSummary(), []string{"first tip", "second tip"})

	assert.Contains(t, prompt, "USER CONTEXT:")
	assert.Contains(t, prompt, "CURRENT ADVICE:")
	assert.Contains(t, prompt, "- first tip\n")
	assert.Contains(t, prompt, "- second tip\n")

	// Context precedes advice
	assert.Less(t,
		strings.Index(prompt, "USER CONTEXT:"),
		strings.Index(prompt, "CURRENT ADVICE:"))
}

func TestBuildQuestionPromptWithIssue(t *testing.T) {
	issue, ok := knowledge.Issue("poor_sleep_quality")
	require.True(t, ok)

	prompt := BuildQuestionPrompt(testSummary(), &issue, "How do I sleep deeper?")
	assert.Contains(t, prompt, "KNOWN SLEEP ISSUE:")
	assert.Contains(t, prompt, issue.Description)
	assert.Contains(t, prompt, "USER QUESTION:\nHow do I sleep deeper?")
}

func TestBuildQuestionPromptWithoutIssue(t *testing.T) {
	prompt := BuildQuestionPrompt(testSummary(), nil, "Anything?")
	assert.Contains(t, prompt, "No specific structured advice available.")
}

func TestFormatSummaryNoData(t *testing.T) {
	assert.Equal(t, "No entries logged yet.", FormatSummary(stats.Summary{}))
}

func TestFormatSummaryLines(t *testing.T) {
	out := FormatSummary(testSummary())
	assert.Contains(t, out, "window: 2024-03-01 to 2024-03-07")
	assert.Contains(t, out, "entries: 7")
	assert.Contains(t, out, "average: 7.2h (stddev 0.8)")
	assert.Contains(t, out, "best day: 2024-03-03 (8.5)")
	assert.Contains(t, out, "worst day: 2024-03-05 (5.5)")
	assert.Contains(t, out, "current streak: 7 days")
}

func TestFormatSummaryUsesDayStrings(t *testing.T) {
	sum := testSummary()
	sum.Best = stats.DayValue{Date: models.NewDay(2024, time.December, 31), Value: 9}
	out := FormatSummary(sum)
	assert.Contains(t, out, "2024-12-31")
}
