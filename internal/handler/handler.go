// Package handler contains the HTTP handlers.
//
// Handlers only translate between HTTP and the service layer: parse the
// request, call a service, write the response. They depend on the small
// interfaces below rather than on concrete services so tests can swap any of
// them out.
package handler

import (
	"context"

	"github.com/Atharva7126/community-dashboard/internal/auth"
	"github.com/Atharva7126/community-dashboard/internal/model"
	"github.com/Atharva7126/community-dashboard/internal/service"
	"github.com/Atharva7126/community-dashboard/internal/stats"
)

type SnapshotService interface {
	Publish(ctx context.Context, label string, contributors []model.Contributor, maintainerID string) (*model.Snapshot, error)
	Get(ctx context.Context, id string) (*model.Snapshot, error)
	List(ctx context.Context, limit, offset int) ([]model.SnapshotInfo, error)
	Delete(ctx context.Context, id string) error
}

type DashboardService interface {
	Widget(ctx context.Context, snapshotID string) (*service.View, error)
	Summary(ctx context.Context, snapshotID string) (stats.Summary, error)
	SelectContributor(ctx context.Context, snapshotID, username string) (model.Contributor, *model.Snapshot, error)
}

type AuthService interface {
	LoginWithGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*service.AuthResult, error)
	LoginWithPassword(ctx context.Context, username, password string) (*service.AuthResult, error)
	Me(ctx context.Context, id string) (*model.Maintainer, error)
}

// GitHubOAuth is the OAuth flow as seen by the callback handler.
type GitHubOAuth interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.GitHubUser, error)
}

var (
	_ SnapshotService  = (*service.SnapshotService)(nil)
	_ DashboardService = (*service.DashboardService)(nil)
	_ AuthService      = (*service.AuthService)(nil)
	_ GitHubOAuth      = (*auth.GitHubProvider)(nil)
)
