// Package service holds the business rules between the HTTP handlers and the
// repositories:
//
//	Handler (HTTP)  → parses requests, writes responses
//	Service         → validates, enforces rules, orchestrates
//	Repository      → reads/writes storage
//
// Services take repository interfaces, never *sqlite.DB, so tests run against
// in-memory fakes and the CLI could reuse them without HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Atharva7126/community-dashboard/internal/apperror"
	"github.com/Atharva7126/community-dashboard/internal/cache"
	"github.com/Atharva7126/community-dashboard/internal/model"
	"github.com/Atharva7126/community-dashboard/internal/repository"
)

// LatestID may be used wherever a snapshot ID is expected.
const LatestID = "latest"

// Publishing limits.
const (
	MaxLabelLength  = 100
	MaxContributors = 5000
)

// SnapshotService publishes and manages contributor snapshots.
type SnapshotService struct {
	repo   repository.SnapshotRepository
	cache  cache.Cache
	logger *slog.Logger
}

func NewSnapshotService(repo repository.SnapshotRepository, c cache.Cache, logger *slog.Logger) *SnapshotService {
	return &SnapshotService{
		repo:   repo,
		cache:  c,
		logger: logger,
	}
}

// Publish validates and stores a new snapshot on behalf of maintainerID.
//
// Usernames are trimmed and must be unique: the dashboard resolves row clicks
// by username, so two entries with the same one could never both be reached.
func (s *SnapshotService) Publish(ctx context.Context, label string, contributors []model.Contributor, maintainerID string) (*model.Snapshot, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, apperror.ValidationFailed("label", "snapshot label is required")
	}
	if len(label) > MaxLabelLength {
		return nil, apperror.ValidationFailed("label",
			fmt.Sprintf("snapshot label must be %d characters or less", MaxLabelLength))
	}
	if len(contributors) > MaxContributors {
		return nil, apperror.ValidationFailed("contributors",
			fmt.Sprintf("a snapshot holds at most %d contributors", MaxContributors))
	}

	cleaned := make([]model.Contributor, len(contributors))
	seen := make(map[string]bool, len(contributors))
	for i, c := range contributors {
		c.Username = strings.TrimSpace(c.Username)
		if c.Username == "" {
			return nil, apperror.ValidationFailed("contributors",
				fmt.Sprintf("contributor %d has no username", i))
		}
		if seen[c.Username] {
			return nil, apperror.ValidationFailed("contributors",
				fmt.Sprintf("duplicate contributor username %q", c.Username))
		}
		seen[c.Username] = true
		cleaned[i] = c
	}

	snapshot := &model.Snapshot{
		Label:        label,
		Contributors: cleaned,
		PublishedBy:  maintainerID,
	}

	if err := s.repo.Create(ctx, snapshot); err != nil {
		s.logger.Error("failed to publish snapshot",
			slog.String("label", label),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("publishing snapshot: %w", err)
	}

	s.logger.Info("snapshot published",
		slog.String("id", snapshot.ID),
		slog.String("label", snapshot.Label),
		slog.Int("contributors", len(snapshot.Contributors)),
		slog.String("maintainerID", maintainerID),
	)

	return snapshot, nil
}

// Get returns a snapshot by ID. LatestID (or an empty id) resolves to the most
// recently published one.
func (s *SnapshotService) Get(ctx context.Context, id string) (*model.Snapshot, error) {
	id = strings.TrimSpace(id)
	if id == "" || id == LatestID {
		return s.Latest(ctx)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *SnapshotService) Latest(ctx context.Context) (*model.Snapshot, error) {
	return s.repo.Latest(ctx)
}

func (s *SnapshotService) List(ctx context.Context, limit, offset int) ([]model.SnapshotInfo, error) {
	opts := repository.ListOptions{Limit: limit, Offset: offset}.Normalize()

	infos, err := s.repo.List(ctx, opts)
	if err != nil {
		s.logger.Error("failed to list snapshots", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}

	return infos, nil
}

// Delete removes a snapshot and drops its cached summary. "latest" is not
// accepted here: deletes must name the snapshot explicitly.
func (s *SnapshotService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" || id == LatestID {
		return apperror.ValidationFailed("id", "snapshot ID is required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		return fmt.Errorf("deleting snapshot: %w", err)
	}

	if err := s.cache.Delete(ctx, cache.SummaryKey(id)); err != nil {
		s.logger.Warn("failed to drop cached summary",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("snapshot deleted", slog.String("id", id))
	return nil
}
