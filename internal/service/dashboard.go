package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/Atharva7126/community-dashboard/internal/apperror"
	"github.com/Atharva7126/community-dashboard/internal/cache"
	"github.com/Atharva7126/community-dashboard/internal/dashboard"
	"github.com/Atharva7126/community-dashboard/internal/model"
	"github.com/Atharva7126/community-dashboard/internal/stats"
)

// DefaultSummaryTTL bounds how stale a cached summary may be. It is short
// because "active this week" moves with the clock even when the snapshot
// does not.
const DefaultSummaryTTL = time.Minute

// DashboardService plays the widget's parent view: it loads the contributor
// list, builds the widget and receives contributor clicks.
type DashboardService struct {
	snapshots *SnapshotService
	cache     cache.Cache
	ttl       time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

func NewDashboardService(snapshots *SnapshotService, c cache.Cache, ttl time.Duration, logger *slog.Logger) *DashboardService {
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}
	return &DashboardService{
		snapshots: snapshots,
		cache:     c,
		ttl:       ttl,
		now:       time.Now,
		logger:    logger,
	}
}

// View is a widget ready to render together with the snapshot it shows.
type View struct {
	Snapshot *model.Snapshot // nil when nothing has been published yet
	Widget   *dashboard.Widget
}

// SnapshotPath is the dashboard page of a snapshot.
func SnapshotPath(snapshotID string) string {
	return "/snapshots/" + url.PathEscape(snapshotID)
}

// ContributorPath is where a contributor row of a snapshot's dashboard links to.
func ContributorPath(snapshotID, username string) string {
	return SnapshotPath(snapshotID) + "/contributors/" + url.PathEscape(username)
}

// Widget builds the dashboard for snapshotID. For LatestID with nothing
// published yet it returns an empty widget rather than an error, so the home
// page always renders.
func (s *DashboardService) Widget(ctx context.Context, snapshotID string) (*View, error) {
	snapshot, err := s.resolve(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return &View{Widget: dashboard.New(nil, dashboard.WithClock(s.now))}, nil
	}
	return &View{Snapshot: snapshot, Widget: s.widgetFor(snapshot)}, nil
}

// Summary returns the computed metrics for snapshotID, reading through the
// summary cache. Cache trouble is logged and otherwise ignored.
func (s *DashboardService) Summary(ctx context.Context, snapshotID string) (stats.Summary, error) {
	snapshot, err := s.resolve(ctx, snapshotID)
	if err != nil {
		return stats.Summary{}, err
	}
	if snapshot == nil {
		return stats.Compute(nil, s.now()), nil
	}

	key := cache.SummaryKey(snapshot.ID)

	data, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("summary cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	if hit {
		var cached stats.Summary
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		s.logger.Warn("discarding unreadable cached summary", slog.String("key", key))
	}

	summary := stats.Compute(snapshot.Contributors, s.now())

	if data, err := json.Marshal(summary); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.Warn("summary cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	return summary, nil
}

// SelectContributor handles a click on a contributor row. Only rows the widget
// renders (the top contributors) can be clicked; anything else is not found.
func (s *DashboardService) SelectContributor(ctx context.Context, snapshotID, username string) (model.Contributor, *model.Snapshot, error) {
	snapshot, err := s.resolve(ctx, snapshotID)
	if err != nil {
		return model.Contributor{}, nil, err
	}
	if snapshot == nil {
		return model.Contributor{}, nil, apperror.NotFound("contributor", username)
	}

	c, ok := s.widgetFor(snapshot).Click(username)
	if !ok {
		return model.Contributor{}, nil, apperror.NotFound("contributor", username)
	}
	return c, snapshot, nil
}

func (s *DashboardService) widgetFor(snapshot *model.Snapshot) *dashboard.Widget {
	id := snapshot.ID
	return dashboard.New(snapshot.Contributors,
		dashboard.WithClock(s.now),
		dashboard.WithTitle(snapshot.Label),
		dashboard.WithLinkBuilder(func(c model.Contributor) string {
			return ContributorPath(id, c.Username)
		}),
		dashboard.WithClickHandler(func(c model.Contributor) {
			s.logger.Info("contributor selected",
				slog.String("snapshotID", id),
				slog.String("username", c.Username),
				slog.Int("points", c.TotalPoints),
			)
		}),
	)
}

// resolve loads the snapshot. A missing latest snapshot is (nil, nil); a
// missing explicit ID is ErrNotFound.
func (s *DashboardService) resolve(ctx context.Context, snapshotID string) (*model.Snapshot, error) {
	snapshot, err := s.snapshots.Get(ctx, snapshotID)
	if err == nil {
		return snapshot, nil
	}
	if errors.Is(err, apperror.ErrNotFound) && (snapshotID == "" || snapshotID == LatestID) {
		return nil, nil
	}
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	return nil, fmt.Errorf("loading snapshot %s: %w", snapshotID, err)
}
