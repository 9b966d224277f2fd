package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/Atharva7126/community-dashboard/internal/apperror"
	"github.com/Atharva7126/community-dashboard/internal/auth"
	"github.com/Atharva7126/community-dashboard/internal/dashboard"
	"github.com/Atharva7126/community-dashboard/internal/model"
	"github.com/Atharva7126/community-dashboard/internal/service"
	"github.com/Atharva7126/community-dashboard/internal/stats"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSnapshots records what it was called with and returns canned results.
type fakeSnapshots struct {
	snapshot *model.Snapshot
	infos    []model.SnapshotInfo
	err      error

	gotLabel        string
	gotMaintainer   string
	gotContributors []model.Contributor
	gotLimit        int
	gotOffset       int
	deleted         []string
}

func (f *fakeSnapshots) Publish(_ context.Context, label string, contributors []model.Contributor, maintainerID string) (*model.Snapshot, error) {
	f.gotLabel, f.gotContributors, f.gotMaintainer = label, contributors, maintainerID
	if f.err != nil {
		return nil, f.err
	}
	return &model.Snapshot{ID: "snap1", Label: label, Contributors: contributors, PublishedBy: maintainerID}, nil
}

func (f *fakeSnapshots) Get(_ context.Context, id string) (*model.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.snapshot == nil || (id != service.LatestID && id != f.snapshot.ID) {
		return nil, apperror.NotFound("snapshot", id)
	}
	return f.snapshot, nil
}

func (f *fakeSnapshots) List(_ context.Context, limit, offset int) ([]model.SnapshotInfo, error) {
	f.gotLimit, f.gotOffset = limit, offset
	return f.infos, f.err
}

func (f *fakeSnapshots) Delete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeDashboard serves one snapshot and counts clicks.
type fakeDashboard struct {
	snapshot *model.Snapshot
	err      error
	clicks   []string
}

func (f *fakeDashboard) find(id string) (*model.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.snapshot == nil || (id != service.LatestID && id != f.snapshot.ID) {
		return nil, apperror.NotFound("snapshot", id)
	}
	return f.snapshot, nil
}

func (f *fakeDashboard) Widget(_ context.Context, id string) (*service.View, error) {
	s, err := f.find(id)
	if err != nil {
		return nil, err
	}
	return &service.View{Snapshot: s, Widget: dashboard.New(s.Contributors, dashboard.WithTitle(s.Label))}, nil
}

func (f *fakeDashboard) Summary(_ context.Context, id string) (stats.Summary, error) {
	s, err := f.find(id)
	if err != nil {
		return stats.Summary{}, err
	}
	return dashboard.New(s.Contributors).Summary(), nil
}

func (f *fakeDashboard) SelectContributor(_ context.Context, id, username string) (model.Contributor, *model.Snapshot, error) {
	s, err := f.find(id)
	if err != nil {
		return model.Contributor{}, nil, err
	}
	c, ok := dashboard.New(s.Contributors, dashboard.WithClickHandler(func(c model.Contributor) {
		f.clicks = append(f.clicks, c.Username)
	})).Click(username)
	if !ok {
		return model.Contributor{}, nil, apperror.NotFound("contributor", username)
	}
	return c, s, nil
}

type fakeAuth struct {
	result *service.AuthResult
	err    error

	gotUser     *auth.GitHubUser
	gotUsername string
	gotPassword string
	gotMeID     string
}

func (f *fakeAuth) LoginWithGitHub(_ context.Context, u *auth.GitHubUser) (*service.AuthResult, error) {
	f.gotUser = u
	return f.result, f.err
}

func (f *fakeAuth) LoginWithPassword(_ context.Context, username, password string) (*service.AuthResult, error) {
	f.gotUsername, f.gotPassword = username, password
	return f.result, f.err
}

func (f *fakeAuth) Me(_ context.Context, id string) (*model.Maintainer, error) {
	f.gotMeID = id
	if f.err != nil {
		return nil, f.err
	}
	return f.result.Maintainer, nil
}

type fakeGitHub struct {
	user    *auth.GitHubUser
	err     error
	gotCode string
}

func (f *fakeGitHub) AuthURL(state string) string {
	return "https://github.example/login/oauth/authorize?state=" + state
}

func (f *fakeGitHub) Exchange(_ context.Context, code string) (*auth.GitHubUser, error) {
	f.gotCode = code
	return f.user, f.err
}

func sampleSnapshot() *model.Snapshot {
	return &model.Snapshot{
		ID:    "snap1",
		Label: "Week 12",
		Contributors: []model.Contributor{
			{Username: "alice", Name: "Alice", Role: "maintainer", TotalPoints: 120},
			{Username: "bob", Role: "contributor", TotalPoints: 30},
		},
	}
}
