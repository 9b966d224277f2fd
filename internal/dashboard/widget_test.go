package dashboard

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Atharva7126/community-dashboard/internal/model"
)

var fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func sampleContributors() []model.Contributor {
	return []model.Contributor{
		{
			Username:    "alice",
			Name:        "Alice Liddell",
			AvatarURL:   "https://example.com/alice.png",
			Role:        "maintainer",
			TotalPoints: 1200,
			ActivityBreakdown: map[string]model.ActivityTotal{
				"commit":    {Count: 10, Points: 100},
				"pr_merged": {Count: 4, Points: 400},
			},
			DailyActivity: []model.DailyActivity{
				{Date: "2024-03-14", Count: 3, Points: 30},
				{Date: "2024-01-02", Count: 1, Points: 5},
			},
		},
		{
			Username:    "bob",
			Role:        "contributor",
			TotalPoints: 300,
			ActivityBreakdown: map[string]model.ActivityTotal{
				"issue_opened": {Count: 2, Points: 10},
			},
		},
		{Username: "carol", TotalPoints: 50},
	}
}

func TestWidget_Render(t *testing.T) {
	w := New(sampleContributors(), WithClock(fixedClock), WithTitle("Octo Community"))

	var buf bytes.Buffer
	require.NoError(t, w.Render(&buf))
	html := buf.String()

	assert.Contains(t, html, "<title>Octo Community</title>")
	assert.Contains(t, html, "Total Contributors")
	assert.Contains(t, html, "1,550") // total points with separators
	assert.Contains(t, html, "33% of community")
	assert.Contains(t, html, "Alice Liddell")
	assert.Contains(t, html, "@bob")
	assert.Contains(t, html, "1200 pts")
	assert.Contains(t, html, "2 active days")
	assert.Contains(t, html, `href="/contributors/alice"`)
	assert.Contains(t, html, "rank tier-gold")
	assert.Contains(t, html, "rank tier-silver")
	assert.Contains(t, html, "rank tier-bronze")
	assert.Contains(t, html, "icon-git-pull-request")
	assert.Contains(t, html, "icon-git-commit")
	assert.Contains(t, html, "400 total points") // pr_merged tile
}

func TestWidget_RenderOrdersActivityTilesByPoints(t *testing.T) {
	w := New(sampleContributors(), WithClock(fixedClock))

	var buf bytes.Buffer
	require.NoError(t, w.RenderFragment(&buf))
	html := buf.String()

	pr := strings.Index(html, "<strong>pr_merged</strong>")
	commit := strings.Index(html, "<strong>commit</strong>")
	issue := strings.Index(html, "<strong>issue_opened</strong>")
	require.True(t, pr >= 0 && commit >= 0 && issue >= 0)
	assert.Less(t, pr, commit)
	assert.Less(t, commit, issue)
	assert.NotContains(t, html, "<html")
}

func TestWidget_RenderEmpty(t *testing.T) {
	w := New(nil, WithClock(fixedClock))

	var buf bytes.Buffer
	require.NoError(t, w.Render(&buf))
	html := buf.String()

	assert.Contains(t, html, "No contributors yet.")
	assert.Contains(t, html, "0% of community")
	assert.NotContains(t, html, "NaN")
	assert.Contains(t, html, DefaultTitle)
}

func TestWidget_RenderEscapesInput(t *testing.T) {
	w := New([]model.Contributor{{Username: "x", Name: "<script>alert(1)</script>"}}, WithClock(fixedClock))

	var buf bytes.Buffer
	require.NoError(t, w.Render(&buf))

	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
}

func TestWidget_LinkBuilder(t *testing.T) {
	w := New(sampleContributors(),
		WithClock(fixedClock),
		WithLinkBuilder(func(c model.Contributor) string { return "/snapshots/s1/contributors/" + c.Username }),
	)

	var buf bytes.Buffer
	require.NoError(t, w.Render(&buf))

	assert.Contains(t, buf.String(), `href="/snapshots/s1/contributors/carol"`)
}

func TestWidget_ClickInvokesHandlerOnceWithFullRecord(t *testing.T) {
	contributors := sampleContributors()

	var calls []model.Contributor
	w := New(contributors, WithClickHandler(func(c model.Contributor) {
		calls = append(calls, c)
	}))

	got, ok := w.Click("alice")

	require.True(t, ok)
	require.Len(t, calls, 1)
	assert.Equal(t, contributors[0], calls[0])
	assert.Equal(t, contributors[0], got)
}

func TestWidget_ClickUnknownRow(t *testing.T) {
	called := false
	w := New(sampleContributors(), WithClickHandler(func(model.Contributor) { called = true }))

	_, ok := w.Click("nobody")

	assert.False(t, ok)
	assert.False(t, called)
}

func TestWidget_ClickWithoutHandler(t *testing.T) {
	w := New(sampleContributors())

	got, ok := w.Click("bob")

	assert.True(t, ok)
	assert.Equal(t, "bob", got.Username)
}

func TestWidget_ClickOnlyRenderedRows(t *testing.T) {
	var contributors []model.Contributor
	for i := 0; i < 7; i++ {
		contributors = append(contributors, model.Contributor{
			Username:    string(rune('a' + i)),
			TotalPoints: 100 - i,
		})
	}
	w := New(contributors)

	_, ok := w.Click("e") // fifth place, rendered
	assert.True(t, ok)

	_, ok = w.Click("f") // sixth place, not rendered
	assert.False(t, ok)
}

func TestWidget_DoesNotMutateInput(t *testing.T) {
	contributors := []model.Contributor{
		{Username: "low", TotalPoints: 1},
		{Username: "high", TotalPoints: 10},
	}
	w := New(contributors, WithClock(fixedClock))

	var buf bytes.Buffer
	require.NoError(t, w.Render(&buf))
	_, _ = w.Click("high")

	assert.Equal(t, "low", contributors[0].Username)
	assert.Equal(t, "high", contributors[1].Username)
}

func TestRenderContributor(t *testing.T) {
	c := sampleContributors()[0]

	var buf bytes.Buffer
	require.NoError(t, RenderContributor(&buf, c, "/snapshots/s1"))
	html := buf.String()

	assert.Contains(t, html, "<title>Alice Liddell</title>")
	assert.Contains(t, html, `href="/snapshots/s1"`)
	assert.Contains(t, html, "1,200 pts")
	assert.Less(t, strings.Index(html, "pr_merged"), strings.Index(html, "commit:"))
	assert.Less(t, strings.Index(html, "2024-03-14"), strings.Index(html, "2024-01-02"))

	// the record's own slice is untouched
	assert.Equal(t, "2024-03-14", c.DailyActivity[0].Date)
}
