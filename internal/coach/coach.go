// ABOUTME: Coaching orchestration over the chat-completion client.
// ABOUTME: Degrades to static advice when the collaborator is absent or failing.
package coach

import (
	"context"

	"github.com/harperreed/sleepcoach/internal/knowledge"
	"github.com/harperreed/sleepcoach/internal/stats"
)

// MsgUnavailable is shown whenever the language-model collaborator
// cannot produce an answer. The dashboard stays usable regardless.
const MsgUnavailable = "Coaching unavailable right now. Here is some advice based on your data instead."

// Coach produces AI coaching text with graceful degradation.
type Coach struct {
	client *Client
	kb     *knowledge.Base
}

// NewCoach builds a coach around an injected knowledge base. A nil
// client (no API key configured) disables AI coaching entirely.
func NewCoach(client *Client, kb *knowledge.Base) *Coach {
	if kb == nil {
		kb = knowledge.Default()
	}
	return &Coach{client: client, kb: kb}
}

// Enabled reports whether AI coaching can be attempted.
func (c *Coach) Enabled() bool {
	return c.client != nil && c.client.apiKey != ""
}

// Result is what a page renders for one coaching request.
type Result struct {
	// Text is the model's answer, or MsgUnavailable.
	Text string
	// FromAI is true when Text came from the model.
	FromAI bool
	// Fallback carries static advice to show when FromAI is false.
	Fallback []string
	// Err records why the model path failed; it is never surfaced to
	// the page as an error, only logged by callers.
	Err error
}

// Tip asks the model for a coaching paragraph grounded in the summary,
// the selector's advice, and the knowledge base. Failures never
// propagate: the result carries the unavailable message and the
// selector's advice stands in.
func (c *Coach) Tip(ctx context.Context, sum stats.Summary, advice []string) Result {
	if !c.Enabled() {
		return Result{Text: MsgUnavailable, Fallback: advice}
	}

	prompt := BuildPrompt(sum, advice) +
		"\n\nSCIENTIFIC FACTS:\n" + c.kb.FormatFacts()

	text, err := c.client.Complete(ctx, systemTip, prompt)
	if err != nil {
		return Result{Text: MsgUnavailable, Fallback: advice, Err: err}
	}
	return Result{Text: text, FromAI: true}
}

// Ask answers a free-form question, grounding the prompt in recent
// context and the selected sleep issue. Failures degrade to the
// issue's own recommendations.
func (c *Coach) Ask(ctx context.Context, sum stats.Summary, issueKey, question string) Result {
	issue, ok := knowledge.Issue(issueKey)

	var fallback []string
	var issuePtr *knowledge.SleepIssue
	if ok {
		issuePtr = &issue
		fallback = issue.Recommendations
	} else {
		for _, f := range c.kb.Facts(knowledge.TopicSleep) {
			fallback = append(fallback, f.Text)
		}
	}

	if !c.Enabled() {
		return Result{Text: MsgUnavailable, Fallback: fallback}
	}

	text, err := c.client.Complete(ctx, systemQuestion, BuildQuestionPrompt(sum, issuePtr, question))
	if err != nil {
		return Result{Text: MsgUnavailable, Fallback: fallback, Err: err}
	}
	return Result{Text: text, FromAI: true}
}
