package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Atharva7126/community-dashboard/internal/apperror"
	"github.com/Atharva7126/community-dashboard/internal/model"
	"github.com/Atharva7126/community-dashboard/internal/repository"
)

// =========================================================================
// FAKE REPOSITORIES
// =========================================================================
//
// Hand-written in-memory implementations of the repository interfaces. Each
// has an err field to simulate a storage failure.

type fakeSnapshotRepo struct {
	byID  map[string]*model.Snapshot
	order []string // creation order
	err   error
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{byID: make(map[string]*model.Snapshot)}
}

var _ repository.SnapshotRepository = (*fakeSnapshotRepo)(nil)

func (f *fakeSnapshotRepo) Create(_ context.Context, s *model.Snapshot) error {
	if f.err != nil {
		return f.err
	}
	s.ID = fmt.Sprintf("snap-%d", len(f.order)+1)
	s.CreatedAt = time.Date(2024, time.March, 1, 0, 0, len(f.order), 0, time.UTC)
	stored := *s
	f.byID[s.ID] = &stored
	f.order = append(f.order, s.ID)
	return nil
}

func (f *fakeSnapshotRepo) GetByID(_ context.Context, id string) (*model.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("snapshot", id)
	}
	result := *s
	return &result, nil
}

func (f *fakeSnapshotRepo) Latest(ctx context.Context) (*model.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := len(f.order) - 1; i >= 0; i-- {
		if _, ok := f.byID[f.order[i]]; ok {
			return f.GetByID(ctx, f.order[i])
		}
	}
	return nil, apperror.NotFound("snapshot", "latest")
}

func (f *fakeSnapshotRepo) List(_ context.Context, opts repository.ListOptions) ([]model.SnapshotInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	var infos []model.SnapshotInfo
	for i := len(f.order) - 1; i >= 0; i-- {
		s, ok := f.byID[f.order[i]]
		if !ok {
			continue
		}
		infos = append(infos, model.SnapshotInfo{
			ID: s.ID, Label: s.Label, ContributorCount: len(s.Contributors),
			PublishedBy: s.PublishedBy, CreatedAt: s.CreatedAt,
		})
	}
	if opts.Offset >= len(infos) {
		return []model.SnapshotInfo{}, nil
	}
	infos = infos[opts.Offset:]
	if opts.Limit < len(infos) {
		infos = infos[:opts.Limit]
	}
	return infos, nil
}

func (f *fakeSnapshotRepo) Delete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return apperror.NotFound("snapshot", id)
	}
	delete(f.byID, id)
	return nil
}

type fakeMaintainerRepo struct {
	byID    map[string]*model.Maintainer
	byLogin map[string]*model.Maintainer
	err     error
}

func newFakeMaintainerRepo() *fakeMaintainerRepo {
	return &fakeMaintainerRepo{
		byID:    make(map[string]*model.Maintainer),
		byLogin: make(map[string]*model.Maintainer),
	}
}

var _ repository.MaintainerRepository = (*fakeMaintainerRepo)(nil)

func (f *fakeMaintainerRepo) Upsert(_ context.Context, m *model.Maintainer) error {
	if f.err != nil {
		return f.err
	}
	if existing, ok := f.byLogin[m.Login]; ok {
		existing.GitHubID = m.GitHubID
		existing.AvatarURL = m.AvatarURL
		existing.Source = m.Source
		*m = *existing
		return nil
	}
	m.ID = fmt.Sprintf("maint-%d", len(f.byID)+1)
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	stored := *m
	f.byID[m.ID] = &stored
	f.byLogin[m.Login] = &stored
	return nil
}

func (f *fakeMaintainerRepo) GetByID(_ context.Context, id string) (*model.Maintainer, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("maintainer", id)
	}
	result := *m
	return &result, nil
}

func (f *fakeMaintainerRepo) GetByLogin(_ context.Context, login string) (*model.Maintainer, error) {
	m, ok := f.byLogin[login]
	if !ok {
		return nil, apperror.NotFound("maintainer", login)
	}
	result := *m
	return &result, nil
}

// =========================================================================
// FAKE CACHE
// =========================================================================

// memCache is a map-backed cache.Cache that counts calls. getErr makes every
// Get fail, like an unreachable Redis.
type memCache struct {
	data    map[string][]byte
	ttls    map[string]time.Duration
	gets    int
	sets    int
	deletes []string
	getErr  error
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	c.sets++
	c.data[key] = data
	c.ttls[key] = ttl
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.deletes = append(c.deletes, key)
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

var errStorage = errors.New("database is locked")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// bufferLogger returns a logger writing to the returned buffer, for tests
// that assert on logged events.
func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}
