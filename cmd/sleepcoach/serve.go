// ABOUTME: CLI command that starts the dashboard web server.
// ABOUTME: Wires storage, knowledge, advice, and the optional AI coach into gin.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/sleepcoach/internal/advice"
	"github.com/harperreed/sleepcoach/internal/coach"
	"github.com/harperreed/sleepcoach/internal/knowledge"
	"github.com/harperreed/sleepcoach/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard web server",
	Long: `Serve the sleep & exercise dashboard over HTTP.

The server renders the dashboard, accepts the entry forms, draws trend
charts, and exposes a small JSON API under /api.

AI COACHING:

  Coaching tips call a chat-completion API when a key is available, read
  from the coach.api_key config field or the OPENAI_API_KEY environment
  variable (the environment wins). Without a key the dashboard still
  works and coaching falls back to the built-in advice.

EXAMPLES:

  sleepcoach serve                 # listen on the configured address
  sleepcoach serve --addr :9000    # override the listen address`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kb, err := knowledge.Load(cfg.GetKnowledgePath())
		if err != nil {
			return fmt.Errorf("load knowledge base: %w", err)
		}

		client := buildCoachClient()
		server := web.NewServer(web.Options{
			Repo:         repo,
			Selector:     advice.NewSelector(kb, cfg.GetThresholds()),
			Coach:        coach.NewCoach(client, kb),
			Knowledge:    kb,
			DefaultUser:  cfg.GetDefaultUser(),
			WebDir:       cfg.GetWebDir(),
			CoachTimeout: coachTimeout(),
		})

		if client != nil {
			color.Green("✓ AI coaching enabled")
		} else {
			color.Yellow("AI coaching disabled (no API key)")
		}

		addr := serveAddr
		if addr == "" {
			addr = cfg.GetListenAddr()
		}
		color.Green("✓ sleepcoach listening on %s", addr)
		return server.Run(addr)
	},
}

// buildCoachClient returns nil when no API key is configured, which
// disables AI coaching without disabling the dashboard.
func buildCoachClient() *coach.Client {
	cc := cfg.GetCoach()

	key := cc.APIKey
	if env := os.Getenv("OPENAI_API_KEY"); env != "" {
		key = env
	}
	if key == "" {
		return nil
	}

	client := coach.NewClient(key).
		WithModel(cc.Model).
		WithBaseURL(cc.BaseURL)
	if cc.TimeoutSeconds > 0 {
		client = client.WithTimeout(time.Duration(cc.TimeoutSeconds) * time.Second)
	}
	if cc.MaxTokens > 0 {
		client = client.WithMaxTokens(cc.MaxTokens)
	}
	if cc.Temperature > 0 {
		client = client.WithTemperature(cc.Temperature)
	}
	return client
}

func coachTimeout() time.Duration {
	if secs := cfg.GetCoach().TimeoutSeconds; secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0 // web.NewServer applies its default
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
