package dashboard

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/Atharva7126/community-dashboard/internal/model"
	"github.com/Atharva7126/community-dashboard/internal/stats"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"comma": func(n int) string { return humanize.Comma(int64(n)) },
}

// TEMPLATE COMPOSITION:
// base.html defines the page shell with a {{template "content" .}} placeholder.
// Each page template defines its own "content", so every page gets its own set
// parsed together with base.html. Two "content" definitions can't share a set.
var (
	statsTemplates = template.Must(template.New("stats").Funcs(funcs).ParseFS(templateFS,
		"templates/base.html",
		"templates/people_stats.html",
	))
	contributorTemplates = template.Must(template.New("contributor").Funcs(funcs).ParseFS(templateFS,
		"templates/base.html",
		"templates/contributor.html",
	))
)

type page struct {
	Title string
	Back  string
	Body  any
}

type statCard struct {
	Label   string
	Value   string
	Caption string
	Icon    string
	Tone    string
}

type contributorRow struct {
	Rank        int
	Tier        stats.Tier
	Username    string
	DisplayName string
	AvatarURL   string
	Role        string
	Points      int
	ActiveDays  int
	Href        string
}

type overviewItem struct {
	Label string
	Value string
}

type activityTile struct {
	Type   string
	Icon   string
	Count  int
	Points int
}

type statsView struct {
	Cards    []statCard
	Rows     []contributorRow
	Overview []overviewItem
	Tiles    []activityTile
}

func buildStatsView(s stats.Summary, link func(model.Contributor) string) statsView {
	v := statsView{
		Cards: []statCard{
			{Label: "Total Contributors", Value: humanize.Comma(int64(s.TotalContributors)), Caption: "Active community", Icon: "users", Tone: "blue"},
			{Label: "Total Points", Value: humanize.Comma(int64(s.TotalPoints)), Caption: "Community effort", Icon: "trophy", Tone: "yellow"},
			{Label: "Avg Points", Value: humanize.Comma(int64(s.AveragePoints)), Caption: "Per contributor", Icon: "target", Tone: "green"},
			{Label: "Active This Week", Value: humanize.Comma(int64(s.RecentlyActive)), Caption: fmt.Sprintf("%d%% of community", s.WeeklyActiveRate), Icon: "trending-up", Tone: "purple"},
		},
		Overview: []overviewItem{
			{Label: "Total Activities", Value: humanize.Comma(int64(s.TotalActivities))},
			{Label: "Avg Active Days", Value: humanize.Comma(int64(s.AverageActiveDays))},
			{Label: "Avg Activities", Value: humanize.Comma(int64(s.AverageActivities))},
			{Label: "Weekly Active Rate", Value: fmt.Sprintf("%d%%", s.WeeklyActiveRate)},
		},
	}

	for i, c := range s.TopContributors {
		v.Rows = append(v.Rows, contributorRow{
			Rank:        i + 1,
			Tier:        stats.TierForRank(i),
			Username:    c.Username,
			DisplayName: c.DisplayName(),
			AvatarURL:   c.AvatarURL,
			Role:        c.Role,
			Points:      c.TotalPoints,
			ActiveDays:  c.ActiveDays(),
			Href:        link(c),
		})
	}

	for _, at := range s.TopActivityTypes {
		v.Tiles = append(v.Tiles, activityTile{
			Type:   at.Type,
			Icon:   at.Category.Icon(),
			Count:  at.Count,
			Points: at.Points,
		})
	}

	return v
}

type breakdownRow struct {
	Type   string
	Icon   string
	Count  int
	Points int
}

type contributorView struct {
	Contributor model.Contributor
	Breakdown   []breakdownRow
	Days        []model.DailyActivity
}

// RenderContributor writes the detail page shown after a contributor row is
// clicked. back is the href of the dashboard the click came from.
func RenderContributor(out io.Writer, c model.Contributor, back string) error {
	v := contributorView{Contributor: c}

	for activityType, total := range c.ActivityBreakdown {
		v.Breakdown = append(v.Breakdown, breakdownRow{
			Type:   activityType,
			Icon:   stats.Categorize(activityType).Icon(),
			Count:  total.Count,
			Points: total.Points,
		})
	}
	sort.Slice(v.Breakdown, func(i, j int) bool {
		if v.Breakdown[i].Points != v.Breakdown[j].Points {
			return v.Breakdown[i].Points > v.Breakdown[j].Points
		}
		return v.Breakdown[i].Type < v.Breakdown[j].Type
	})

	// Newest first; copied so the caller's slice keeps its order.
	v.Days = append([]model.DailyActivity(nil), c.DailyActivity...)
	sort.SliceStable(v.Days, func(i, j int) bool {
		return v.Days[i].Date > v.Days[j].Date
	})

	data := page{Title: c.DisplayName(), Back: back, Body: v}

	var buf bytes.Buffer
	if err := contributorTemplates.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("dashboard: rendering contributor %s: %w", c.Username, err)
	}
	_, err := buf.WriteTo(out)
	return err
}
