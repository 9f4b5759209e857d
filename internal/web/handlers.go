// ABOUTME: HTTP handlers for the dashboard, entry forms, coach, and API.
// ABOUTME: Bad input is rejected at this boundary; storage errors degrade, never crash.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harperreed/sleepcoach/internal/advice"
	"github.com/harperreed/sleepcoach/internal/coach"
	"github.com/harperreed/sleepcoach/internal/knowledge"
	"github.com/harperreed/sleepcoach/internal/models"
	"github.com/harperreed/sleepcoach/internal/stats"
	"github.com/harperreed/sleepcoach/internal/storage"
)

const (
	defaultWindowDays = 7
	maxWindowDays     = 365
	maxRecentEntries  = 14
)

// windowChoices are the trend windows offered by the dashboard picker.
var windowChoices = []int{7, 14, 30, 90}

func (s *Server) handleDashboard(c *gin.Context) {
	user := s.userParam(c)
	days := windowDays(c)

	data, warning, ok := s.loadUserData(c, user)
	if !ok {
		return
	}

	window := stats.LastNDays(days, models.Today())

	var (
		sleepSum stats.Summary
		exSum    stats.Summary
		sleepRep stats.SleepReport
		exRep    stats.ExerciseReport
	)
	sleepOK := computeWidget("sleep summary", func() { sleepSum = stats.SummarizeSleep(data.Sleep, window) })
	exOK := computeWidget("exercise summary", func() { exSum = stats.SummarizeExercise(data.Exercise, window) })
	repOK := computeWidget("sleep report", func() { sleepRep = stats.NewSleepReport(data.Sleep, window) })
	exRepOK := computeWidget("exercise report", func() { exRep = stats.NewExerciseReport(data.Exercise, window) })

	var goal models.Goal
	if data.Goal != nil {
		goal = *data.Goal
	}

	var msgs []string
	adviceOK := sleepOK && repOK &&
		computeWidget("advice", func() { msgs = s.selector.Select(sleepSum, goal, sleepRep) })

	var progress []advice.GoalProgress
	computeWidget("goal progress", func() { progress = s.selector.Progress(sleepRep, goal) })

	var tip *coach.Result
	if s.coach.Enabled() && sleepSum.HasData {
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.coachTimeout)
		defer cancel()
		r := s.coach.Tip(ctx, sleepSum, msgs)
		if r.Err != nil {
			log.Printf("coach tip for %s: %v", user, r.Err)
		}
		tip = &r
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"User":             user,
		"Days":             days,
		"WindowChoices":    windowChoices,
		"Flash":            c.Query("err"),
		"Warning":          warning,
		"Today":            models.Today().String(),
		"SleepSum":         sleepSum,
		"SleepOK":          sleepOK,
		"ExerciseSum":      exSum,
		"ExerciseOK":       exOK,
		"SleepReport":      sleepRep,
		"ReportOK":         repOK,
		"ExerciseReport":   exRep,
		"ExerciseReportOK": exRepOK,
		"Advice":           msgs,
		"AdviceOK":         adviceOK,
		"Progress":         progress,
		"Goal":             goal,
		"HasGoal":          goal.IsSet(),
		"CoachEnabled":     s.coach.Enabled(),
		"Tip":              tip,
		"RecentSleep":      recentSleep(data.Sleep, maxRecentEntries),
		"RecentExercise":   recentExercise(data.Exercise, maxRecentEntries),
		"ActivityTypes":    models.ActivityTypes,
		"QualityLevels":    qualityLevels(),
	})
}

func (s *Server) handleSleepForm(c *gin.Context) {
	user := s.userParam(c)
	days := windowDays(c)

	date, err := models.ParseDay(strings.TrimSpace(c.PostForm("date")))
	if err != nil {
		redirectBack(c, user, days, "Sleep entry rejected: date must look like 2024-03-05.")
		return
	}
	hours, err := parseFloatField(c, "hours_slept")
	if err != nil {
		redirectBack(c, user, days, "Sleep entry rejected: "+err.Error())
		return
	}
	quality, err := strconv.Atoi(strings.TrimSpace(c.PostForm("quality")))
	if err != nil {
		redirectBack(c, user, days, "Sleep entry rejected: quality must be a whole number.")
		return
	}

	entry := models.NewSleepEntry(date, hours, quality).WithNotes(strings.TrimSpace(c.PostForm("notes")))
	if err := entry.Validate(); err != nil {
		redirectBack(c, user, days, "Sleep entry rejected: "+err.Error())
		return
	}
	if err := s.repo.SaveSleep(user, entry); err != nil {
		s.storageFailure(c, user, days, "save sleep entry", err)
		return
	}
	redirectBack(c, user, days, "")
}

func (s *Server) handleSleepDelete(c *gin.Context) {
	user := s.userParam(c)
	days := windowDays(c)

	date, err := models.ParseDay(strings.TrimSpace(c.PostForm("date")))
	if err != nil {
		redirectBack(c, user, days, "Delete rejected: invalid date.")
		return
	}
	if err := s.repo.DeleteSleep(user, date); err != nil {
		s.storageFailure(c, user, days, "delete sleep entry", err)
		return
	}
	redirectBack(c, user, days, "")
}

func (s *Server) handleExerciseForm(c *gin.Context) {
	user := s.userParam(c)
	days := windowDays(c)

	date, err := models.ParseDay(strings.TrimSpace(c.PostForm("date")))
	if err != nil {
		redirectBack(c, user, days, "Exercise entry rejected: date must look like 2024-03-05.")
		return
	}
	activity, err := models.ParseActivityType(strings.TrimSpace(c.PostForm("activity_type")))
	if err != nil {
		redirectBack(c, user, days, "Exercise entry rejected: "+err.Error())
		return
	}
	minutes, err := parseFloatField(c, "duration_minutes")
	if err != nil {
		redirectBack(c, user, days, "Exercise entry rejected: "+err.Error())
		return
	}

	entry := models.NewExerciseEntry(date, activity, minutes).WithNotes(strings.TrimSpace(c.PostForm("notes")))
	if err := entry.Validate(); err != nil {
		redirectBack(c, user, days, "Exercise entry rejected: "+err.Error())
		return
	}
	if err := s.repo.AddExercise(user, entry); err != nil {
		s.storageFailure(c, user, days, "save exercise entry", err)
		return
	}
	redirectBack(c, user, days, "")
}

func (s *Server) handleExerciseDelete(c *gin.Context) {
	user := s.userParam(c)
	days := windowDays(c)

	id, err := uuid.Parse(strings.TrimSpace(c.PostForm("id")))
	if err != nil {
		redirectBack(c, user, days, "Delete rejected: bad entry id.")
		return
	}
	if err := s.repo.DeleteExercise(user, id); err != nil {
		s.storageFailure(c, user, days, "delete exercise entry", err)
		return
	}
	redirectBack(c, user, days, "")
}

func (s *Server) handleGoalForm(c *gin.Context) {
	user := s.userParam(c)
	days := windowDays(c)

	hours, err := parseOptionalFloat(c, "target_hours")
	if err != nil {
		redirectBack(c, user, days, "Goal rejected: "+err.Error())
		return
	}
	quality, err := parseOptionalFloat(c, "target_quality")
	if err != nil {
		redirectBack(c, user, days, "Goal rejected: "+err.Error())
		return
	}

	goal := models.Goal{TargetHours: hours, TargetQuality: quality}
	if err := goal.Validate(); err != nil {
		redirectBack(c, user, days, "Goal rejected: "+err.Error())
		return
	}
	if err := s.repo.SetGoal(user, goal); err != nil {
		s.storageFailure(c, user, days, "save goal", err)
		return
	}
	redirectBack(c, user, days, "")
}

func (s *Server) handleCoachPage(c *gin.Context) {
	view, _, ok := s.coachView(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "coach.html", view)
}

func (s *Server) handleCoachAsk(c *gin.Context) {
	view, sum, ok := s.coachView(c)
	if !ok {
		return
	}

	issueKey := c.PostForm("issue")
	question := strings.TrimSpace(c.PostForm("question"))
	view["IssueKey"] = issueKey
	view["Question"] = question

	if question == "" {
		view["Flash"] = "Enter a question for the coach."
		c.HTML(http.StatusOK, "coach.html", view)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.coachTimeout)
	defer cancel()
	answer := s.coach.Ask(ctx, sum, issueKey, question)
	if answer.Err != nil {
		log.Printf("coach ask for %s: %v", s.userParam(c), answer.Err)
	}
	view["Answer"] = &answer
	c.HTML(http.StatusOK, "coach.html", view)
}

// coachView assembles the template data shared by the coach page and
// the ask handler.
func (s *Server) coachView(c *gin.Context) (gin.H, stats.Summary, bool) {
	user := s.userParam(c)
	days := windowDays(c)

	data, warning, ok := s.loadUserData(c, user)
	if !ok {
		return nil, stats.Summary{}, false
	}

	sum := stats.SummarizeSleep(data.Sleep, stats.LastNDays(days, models.Today()))
	return gin.H{
		"User":    user,
		"Days":    days,
		"Warning": warning,
		"Summary": sum,
		"Enabled": s.coach.Enabled(),
		"Issues":  knowledge.Issues(),
	}, sum, true
}

func (s *Server) handleAPISummary(c *gin.Context) {
	user := s.userParam(c)
	days := windowDays(c)

	data, warning, ok := s.loadAPIData(c, user)
	if !ok {
		return
	}

	window := stats.LastNDays(days, models.Today())
	resp := gin.H{
		"user":            user,
		"days":            days,
		"sleep":           stats.SummarizeSleep(data.Sleep, window),
		"exercise":        stats.SummarizeExercise(data.Exercise, window),
		"sleep_report":    stats.NewSleepReport(data.Sleep, window),
		"exercise_report": stats.NewExerciseReport(data.Exercise, window),
	}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleAPIAdvice(c *gin.Context) {
	user := s.userParam(c)
	days := windowDays(c)

	data, warning, ok := s.loadAPIData(c, user)
	if !ok {
		return
	}

	var goal models.Goal
	if data.Goal != nil {
		goal = *data.Goal
	}
	window := stats.LastNDays(days, models.Today())
	sum := stats.SummarizeSleep(data.Sleep, window)
	rep := stats.NewSleepReport(data.Sleep, window)

	resp := gin.H{
		"user":     user,
		"days":     days,
		"advice":   s.selector.Select(sum, goal, rep),
		"progress": s.selector.Progress(rep, goal),
	}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleAPIEntries(c *gin.Context) {
	user := s.userParam(c)

	data, warning, ok := s.loadAPIData(c, user)
	if !ok {
		return
	}

	resp := gin.H{"user": user, "data": data}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleAPIExport(c *gin.Context) {
	user := s.userParam(c)
	format := strings.ToLower(c.DefaultQuery("format", "json"))

	export, err := storage.Export(s.repo, user)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrInvalidUser):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	case errors.Is(err, storage.ErrCorrupt):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "stored data is corrupt; fix or remove it before exporting"})
		return
	default:
		log.Printf("export for %s: %v", user, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "export failed"})
		return
	}

	switch format {
	case "json":
		out, err := export.JSON()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "export failed"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-export.json", user))
		c.Data(http.StatusOK, "application/json", out)
	case "yaml":
		out, err := export.YAML()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "export failed"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-export.yaml", user))
		c.Data(http.StatusOK, "application/x-yaml", out)
	case "markdown", "md":
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-export.md", user))
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(export.Markdown()))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": fmt.Sprintf("unknown format %q", format)})
	}
}

func (s *Server) handleAPIHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// userParam picks the user from the query string or form body,
// falling back to the server default. Validation happens in storage.
func (s *Server) userParam(c *gin.Context) string {
	if u := strings.TrimSpace(c.Request.FormValue("user")); u != "" {
		return u
	}
	return s.defaultUser
}

// windowDays reads the trend window from the request; anything missing
// or unusable is quietly replaced by the default.
func windowDays(c *gin.Context) int {
	n, err := strconv.Atoi(c.Request.FormValue("days"))
	if err != nil || n < 1 {
		return defaultWindowDays
	}
	if n > maxWindowDays {
		return maxWindowDays
	}
	return n
}

// loadUserData fetches the user's state for page handlers. Invalid
// users get an error page; corrupt or unreadable data degrades to an
// empty state with a banner so the page always renders.
func (s *Server) loadUserData(c *gin.Context, user string) (*models.UserData, string, bool) {
	data, err := s.repo.Load(user)
	switch {
	case err == nil:
		return data, "", true
	case errors.Is(err, storage.ErrInvalidUser):
		s.renderError(c, http.StatusBadRequest, fmt.Sprintf("Invalid user %q.", user))
		return nil, "", false
	case errors.Is(err, storage.ErrCorrupt):
		log.Printf("load for %s: %v", user, err)
		if data == nil {
			data = models.NewUserData()
		}
		return data, "Stored data could not be read and is shown as empty. New entries will start fresh.", true
	default:
		log.Printf("load for %s: %v", user, err)
		if data == nil {
			data = models.NewUserData()
		}
		return data, "Data could not be loaded. Showing an empty dashboard.", true
	}
}

// loadAPIData is loadUserData with JSON error responses.
func (s *Server) loadAPIData(c *gin.Context, user string) (*models.UserData, string, bool) {
	data, err := s.repo.Load(user)
	switch {
	case err == nil:
		return data, "", true
	case errors.Is(err, storage.ErrInvalidUser):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return nil, "", false
	case errors.Is(err, storage.ErrCorrupt):
		log.Printf("load for %s: %v", user, err)
		if data == nil {
			data = models.NewUserData()
		}
		return data, "stored data was corrupt; showing empty state", true
	default:
		log.Printf("load for %s: %v", user, err)
		if data == nil {
			data = models.NewUserData()
		}
		return data, "data could not be loaded; showing empty state", true
	}
}

// storageFailure turns a failed write into a flash message; invalid
// users get the error page instead.
func (s *Server) storageFailure(c *gin.Context, user string, days int, op string, err error) {
	if errors.Is(err, storage.ErrInvalidUser) {
		s.renderError(c, http.StatusBadRequest, fmt.Sprintf("Invalid user %q.", user))
		return
	}
	log.Printf("%s for %s: %v", op, user, err)
	redirectBack(c, user, days, "Could not "+op+": "+err.Error())
}

func (s *Server) renderError(c *gin.Context, status int, msg string) {
	c.HTML(status, "error.html", gin.H{"Status": status, "Message": msg})
}

// redirectBack sends the browser to the dashboard, keeping the user
// and window and carrying an optional flash message.
func redirectBack(c *gin.Context, user string, days int, flash string) {
	q := url.Values{}
	q.Set("user", user)
	q.Set("days", strconv.Itoa(days))
	if flash != "" {
		q.Set("err", flash)
	}
	c.Redirect(http.StatusSeeOther, "/?"+q.Encode())
}

// computeWidget runs one dashboard computation, containing panics so a
// single bad widget cannot take down the page. The widget renders an
// "unable to compute trends" note when ok is false.
func computeWidget(name string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("widget %s failed: %v", name, r)
		}
	}()
	fn()
	return true
}

// parseFloatField parses a required numeric form field, rejecting the
// NaN and infinity spellings strconv would otherwise accept.
func parseFloatField(c *gin.Context, field string) (float64, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be a finite number", field)
	}
	return v, nil
}

// parseOptionalFloat is parseFloatField for fields that may be left
// blank; blank means zero (unset).
func parseOptionalFloat(c *gin.Context, field string) (float64, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be a finite number", field)
	}
	return v, nil
}

func recentSleep(entries []*models.SleepEntry, n int) []*models.SleepEntry {
	out := make([]*models.SleepEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[j].Date.Before(out[i].Date) })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func recentExercise(entries []*models.ExerciseEntry, n int) []*models.ExerciseEntry {
	out := make([]*models.ExerciseEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[j].Date.Before(out[i].Date) })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func qualityLevels() []int {
	out := make([]int, 0, models.QualityMax)
	for q := models.QualityMin; q <= models.QualityMax; q++ {
		out = append(out, q)
	}
	return out
}
