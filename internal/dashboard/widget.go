// Package dashboard renders the people-stats widget.
//
// A Widget is built per render from a contributor list somebody else already
// loaded. It computes the summary (package stats), turns it into a view model
// and executes the embedded html/template set. Clicking a top-contributor row is
// modelled by Click, which hands the full contributor record to the optional
// click handler. That call is the only side effect a Widget ever has.
package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/Atharva7126/community-dashboard/internal/model"
	"github.com/Atharva7126/community-dashboard/internal/stats"
)

// DefaultTitle is used when no title option is given.
const DefaultTitle = "Community People Stats"

// Widget is one render of the people-stats dashboard.
type Widget struct {
	contributors []model.Contributor
	onClick      func(model.Contributor)
	now          func() time.Time
	link         func(model.Contributor) string
	title        string
}

// Option configures a Widget.
type Option func(*Widget)

// WithClickHandler sets the callback invoked when a contributor row is clicked.
func WithClickHandler(fn func(model.Contributor)) Option {
	return func(w *Widget) { w.onClick = fn }
}

// WithClock overrides time.Now, which decides who counts as recently active.
func WithClock(now func() time.Time) Option {
	return func(w *Widget) { w.now = now }
}

// WithLinkBuilder sets the href each contributor row points at.
func WithLinkBuilder(fn func(model.Contributor) string) Option {
	return func(w *Widget) { w.link = fn }
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(w *Widget) {
		if title != "" {
			w.title = title
		}
	}
}

// New creates a Widget over contributors. The slice is read, never modified.
func New(contributors []model.Contributor, opts ...Option) *Widget {
	w := &Widget{
		contributors: contributors,
		now:          time.Now,
		link:         defaultLink,
		title:        DefaultTitle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func defaultLink(c model.Contributor) string {
	return "/contributors/" + url.PathEscape(c.Username)
}

// Summary computes the metrics shown by the widget. "Now" is read once.
func (w *Widget) Summary() stats.Summary {
	return stats.Compute(w.contributors, w.now())
}

// Render writes the full HTML page.
func (w *Widget) Render(out io.Writer) error {
	view := buildStatsView(w.Summary(), w.link)
	return w.execute(out, "base", page{Title: w.title, Body: view})
}

// RenderFragment writes only the widget markup, for embedding in another page.
func (w *Widget) RenderFragment(out io.Writer) error {
	return w.execute(out, "people_stats", buildStatsView(w.Summary(), w.link))
}

func (w *Widget) execute(out io.Writer, name string, data any) error {
	// Render into a buffer first so a template error never leaves a
	// half-written page on out.
	var buf bytes.Buffer
	if err := statsTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("dashboard: rendering %s: %w", name, err)
	}
	_, err := buf.WriteTo(out)
	return err
}

// Click resolves a clicked top-contributor row by username and passes the full
// record to the click handler, exactly once. ok is false, and the handler is not
// called, when no rendered row has that username.
func (w *Widget) Click(username string) (model.Contributor, bool) {
	for _, c := range stats.TopContributors(w.contributors, stats.TopContributorsLimit) {
		if c.Username != username {
			continue
		}
		if w.onClick != nil {
			w.onClick(c)
		}
		return c, true
	}
	return model.Contributor{}, false
}
