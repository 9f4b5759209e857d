// ABOUTME: Server-rendered trend charts embedded in the dashboard as iframes.
// ABOUTME: Each chart degrades to a short note; a bad widget never breaks the page.
package web

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/harperreed/sleepcoach/internal/models"
	"github.com/harperreed/sleepcoach/internal/stats"
)

// handleSleepChart draws hours and quality per night across the
// window. Nights without an entry render as gaps, not zeros.
func (s *Server) handleSleepChart(c *gin.Context) {
	defer chartFallback(c)

	data, window, ok := s.loadChartData(c)
	if !ok {
		return
	}

	byDay := make(map[models.Day]*models.SleepEntry)
	for _, e := range data.Sleep {
		if e == nil || !window.Contains(e.Date) {
			continue
		}
		byDay[e.Date] = e
	}
	if len(byDay) == 0 {
		chartMessage(c, "No sleep logged in this window yet.")
		return
	}

	var (
		labels  []string
		hours   []opts.LineData
		quality []opts.LineData
	)
	for d := window.From; !d.After(window.To); d = d.AddDays(1) {
		labels = append(labels, d.String())
		if e, logged := byDay[d]; logged {
			hours = append(hours, opts.LineData{Value: e.HoursSlept})
			quality = append(quality, opts.LineData{Value: e.Quality})
		} else {
			hours = append(hours, opts.LineData{Value: nil})
			quality = append(quality, opts.LineData{Value: nil})
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(chartInit()),
		charts.WithTitleOpts(opts.Title{Title: "Sleep over time"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
	)
	line.SetXAxis(labels).
		AddSeries("Hours slept", hours).
		AddSeries("Quality (1-5)", quality).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	renderChart(c, line)
}

// handleActivityChart draws the minutes-by-activity split as a pie.
func (s *Server) handleActivityChart(c *gin.Context) {
	defer chartFallback(c)

	data, window, ok := s.loadChartData(c)
	if !ok {
		return
	}

	rep := stats.NewExerciseReport(data.Exercise, window)
	if rep.Sessions == 0 {
		chartMessage(c, "No exercise logged in this window yet.")
		return
	}

	items := make([]opts.PieData, 0, len(rep.ByActivity))
	for _, at := range models.ActivityTypes {
		if mins, logged := rep.ByActivity[at]; logged && mins > 0 {
			items = append(items, opts.PieData{Name: at.Label(), Value: mins})
		}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(chartInit()),
		charts.WithTitleOpts(opts.Title{Title: "Exercise minutes by activity"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	pie.AddSeries("Minutes", items).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c} min"}))

	renderChart(c, pie)
}

// handleGoalChart compares window averages against the stored goal.
func (s *Server) handleGoalChart(c *gin.Context) {
	defer chartFallback(c)

	data, window, ok := s.loadChartData(c)
	if !ok {
		return
	}

	var goal models.Goal
	if data.Goal != nil {
		goal = *data.Goal
	}
	if !goal.IsSet() {
		chartMessage(c, "Set a goal to chart your progress.")
		return
	}

	rep := stats.NewSleepReport(data.Sleep, window)
	if rep.Nights == 0 {
		chartMessage(c, "No sleep logged in this window yet.")
		return
	}

	var (
		labels []string
		target []opts.BarData
		actual []opts.BarData
	)
	if goal.TargetHours > 0 {
		labels = append(labels, "Hours")
		target = append(target, opts.BarData{Value: goal.TargetHours})
		actual = append(actual, opts.BarData{Value: rep.AvgHours})
	}
	if goal.TargetQuality > 0 {
		labels = append(labels, "Quality")
		target = append(target, opts.BarData{Value: goal.TargetQuality})
		actual = append(actual, opts.BarData{Value: rep.AvgQuality})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(chartInit()),
		charts.WithTitleOpts(opts.Title{Title: "Goal vs actual"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
	)
	bar.SetXAxis(labels).
		AddSeries("Target", target).
		AddSeries("Average", actual)

	renderChart(c, bar)
}

// handleBalanceChart scatters daily exercise minutes against that
// night's sleep quality, one point per day with both logged.
func (s *Server) handleBalanceChart(c *gin.Context) {
	defer chartFallback(c)

	data, window, ok := s.loadChartData(c)
	if !ok {
		return
	}

	minsByDay := make(map[models.Day]float64)
	for _, e := range data.Exercise {
		if e == nil || !window.Contains(e.Date) {
			continue
		}
		minsByDay[e.Date] += e.DurationMinutes
	}
	qualityByDay := make(map[models.Day]int)
	for _, e := range data.Sleep {
		if e == nil || !window.Contains(e.Date) {
			continue
		}
		qualityByDay[e.Date] = e.Quality
	}

	var points []opts.ScatterData
	for d := window.From; !d.After(window.To); d = d.AddDays(1) {
		q, logged := qualityByDay[d]
		if !logged {
			continue
		}
		points = append(points, opts.ScatterData{
			Name:       d.String(),
			Value:      []interface{}{minsByDay[d], q},
			Symbol:     "circle",
			SymbolSize: 12,
		})
	}
	if len(points) == 0 {
		chartMessage(c, "Log sleep and exercise on the same days to see the balance view.")
		return
	}

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(chartInit()),
		charts.WithTitleOpts(opts.Title{Title: "Exercise vs sleep quality", Subtitle: "Each point is one day"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "exercise minutes", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "quality", Type: "value"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	sc.AddSeries("Days", points)

	renderChart(c, sc)
}

func chartInit() opts.Initialization {
	return opts.Initialization{Width: "100%", Height: "340px"}
}

// loadChartData loads the user's state for a chart. Any load problem,
// corrupt data included, becomes the per-widget trends note.
func (s *Server) loadChartData(c *gin.Context) (*models.UserData, stats.Window, bool) {
	user := s.userParam(c)
	days := windowDays(c)

	data, err := s.repo.Load(user)
	if err != nil {
		log.Printf("chart load for %s: %v", user, err)
		chartMessage(c, "unable to compute trends")
		return nil, stats.Window{}, false
	}
	return data, stats.LastNDays(days, models.Today()), true
}

type chartRenderer interface {
	Render(w io.Writer) error
}

func renderChart(c *gin.Context, chart chartRenderer) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := chart.Render(c.Writer); err != nil {
		log.Printf("chart render %s: %v", c.FullPath(), err)
	}
}

// chartFallback contains a panicking chart handler; the iframe shows a
// note instead of an error page.
func chartFallback(c *gin.Context) {
	if r := recover(); r != nil {
		log.Printf("chart %s failed: %v", c.FullPath(), r)
		chartMessage(c, "unable to compute trends")
	}
}

func chartMessage(c *gin.Context, msg string) {
	c.Data(http.StatusOK, "text/html; charset=utf-8",
		[]byte(`<!doctype html><html><body style="font-family: sans-serif; color: #555;"><p>`+msg+`</p></body></html>`))
}
