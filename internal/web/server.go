// ABOUTME: Gin web server wiring routes for the dashboard, forms, and API.
// ABOUTME: All collaborators are injected; no globals, no ambient config.
package web

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harperreed/sleepcoach/internal/advice"
	"github.com/harperreed/sleepcoach/internal/coach"
	"github.com/harperreed/sleepcoach/internal/knowledge"
	"github.com/harperreed/sleepcoach/internal/storage"
)

// Options carries the server's collaborators and settings.
type Options struct {
	Repo        storage.Repository
	Selector    *advice.Selector
	Coach       *coach.Coach
	Knowledge   *knowledge.Base
	DefaultUser string
	// WebDir holds templates/ and static/.
	WebDir string
	// CoachTimeout bounds each AI coaching call made during a page load.
	CoachTimeout time.Duration
}

// Server renders the dashboard and handles entry forms.
type Server struct {
	repo         storage.Repository
	selector     *advice.Selector
	coach        *coach.Coach
	kb           *knowledge.Base
	defaultUser  string
	coachTimeout time.Duration
	router       *gin.Engine
}

// NewServer creates a web server with all routes registered.
func NewServer(opts Options) *Server {
	router := gin.Default()

	s := &Server{
		repo:         opts.Repo,
		selector:     opts.Selector,
		coach:        opts.Coach,
		kb:           opts.Knowledge,
		defaultUser:  opts.DefaultUser,
		coachTimeout: opts.CoachTimeout,
		router:       router,
	}
	if s.defaultUser == "" {
		s.defaultUser = "me"
	}
	if s.coachTimeout <= 0 {
		s.coachTimeout = 10 * time.Second
	}
	if s.selector == nil {
		s.selector = advice.NewSelector(opts.Knowledge, advice.DefaultThresholds())
	}
	if s.coach == nil {
		// A coach without a client renders the unavailable message.
		s.coach = coach.NewCoach(nil, opts.Knowledge)
	}

	// Load templates
	router.LoadHTMLGlob(filepath.Join(opts.WebDir, "templates", "*.html"))
	router.Static("/static", filepath.Join(opts.WebDir, "static"))

	// Web routes
	router.GET("/", s.handleDashboard)
	router.POST("/sleep", s.handleSleepForm)
	router.POST("/sleep/delete", s.handleSleepDelete)
	router.POST("/exercise", s.handleExerciseForm)
	router.POST("/exercise/delete", s.handleExerciseDelete)
	router.POST("/goal", s.handleGoalForm)
	router.GET("/coach", s.handleCoachPage)
	router.POST("/coach/ask", s.handleCoachAsk)

	// Server-rendered charts, embedded in the dashboard as iframes
	chartGroup := router.Group("/charts")
	{
		chartGroup.GET("/sleep", s.handleSleepChart)
		chartGroup.GET("/activity", s.handleActivityChart)
		chartGroup.GET("/goal", s.handleGoalChart)
		chartGroup.GET("/balance", s.handleBalanceChart)
	}

	// API routes
	api := router.Group("/api")
	{
		api.GET("/summary", s.handleAPISummary)
		api.GET("/advice", s.handleAPIAdvice)
		api.GET("/entries", s.handleAPIEntries)
		api.GET("/export", s.handleAPIExport)
		api.GET("/health", s.handleAPIHealth)
	}

	return s
}

// Run starts the web server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the route handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
