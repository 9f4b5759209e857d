// ABOUTME: Immutable knowledge base of coaching facts keyed by topic.
// ABOUTME: Loaded once at startup from JSON; falls back to built-in defaults.
package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/harperreed/sleepcoach/internal/models"
)

// Well-known topics.
const (
	TopicSleep    = "sleep"
	TopicExercise = "exercise"
)

// Base is an immutable topic → facts table. Construct it once at
// startup and inject it; accessors return copies so callers cannot
// mutate the table.
type Base struct {
	facts map[string][]models.AdviceFact
}

// Load reads a knowledge-base JSON file of the form
// {"sleep": ["fact", ...], "exercise": ["fact", ...]}.
// An empty or missing path yields the built-in defaults; malformed
// JSON is an error.
func Load(path string) (*Base, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}

	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse knowledge base %s: %w", path, err)
	}
	return New(raw), nil
}

// New builds a Base from a topic → fact-texts map. The input is copied,
// so mutating the argument afterwards cannot change the table. Blank
// facts are dropped.
func New(raw map[string][]string) *Base {
	facts := make(map[string][]models.AdviceFact, len(raw))
	for topic, texts := range raw {
		for _, text := range texts {
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			facts[topic] = append(facts[topic], models.AdviceFact{Topic: topic, Text: text})
		}
	}
	return &Base{facts: facts}
}

// Facts returns the facts for a topic in load order.
func (b *Base) Facts(topic string) []models.AdviceFact {
	out := make([]models.AdviceFact, len(b.facts[topic]))
	copy(out, b.facts[topic])
	return out
}

// All returns every fact, grouped by sorted topic so output is
// deterministic for prompt embedding and tests.
func (b *Base) All() []models.AdviceFact {
	var out []models.AdviceFact
	for _, topic := range b.Topics() {
		out = append(out, b.facts[topic]...)
	}
	return out
}

// Topics returns the known topics in sorted order.
func (b *Base) Topics() []string {
	topics := make([]string, 0, len(b.facts))
	for t := range b.facts {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}

// Len returns the total number of facts.
func (b *Base) Len() int {
	n := 0
	for _, fs := range b.facts {
		n += len(fs)
	}
	return n
}

// FormatFacts renders every fact as bullet text for prompt embedding.
func (b *Base) FormatFacts() string {
	var sb strings.Builder
	for _, f := range b.All() {
		sb.WriteString("- ")
		sb.WriteString(f.Text)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Default returns the built-in knowledge base used when no file is
// configured.
func Default() *Base {
	return New(map[string][]string{
		TopicSleep: {
			"Adults need 7-9 hours of sleep per night for optimal health.",
			"A consistent sleep schedule strengthens the circadian rhythm and improves sleep quality.",
			"Blue light from screens within an hour of bedtime suppresses melatonin production.",
			"Caffeine has a half-life of about 5 hours; afternoon coffee can disturb sleep onset.",
			"A cool bedroom around 18C promotes deeper sleep.",
		},
		TopicExercise: {
			"150 minutes of moderate aerobic activity per week is the widely recommended baseline.",
			"Regular exercisers fall asleep faster and spend more time in deep sleep.",
			"Vigorous exercise within 2 hours of bedtime can delay sleep onset for some people.",
			"Even short walks after meals improve glucose regulation and daytime energy.",
		},
	})
}
