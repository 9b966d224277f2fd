// Package model defines the data structures used throughout the application.
package model

import "time"

// Maintainer sources.
const (
	SourceGitHub   = "github"
	SourcePassword = "password"
)

// Maintainer is an account allowed to publish and delete snapshots.
//
// Maintainers arrive through one of two doors:
//   - GitHub OAuth, when their login is on the MAINTAINER_LOGINS allow-list
//   - the admin password login (ADMIN_USERNAME / ADMIN_PASSWORD_HASH)
//
// Login is the natural key for both. We still generate our own internal string
// ID (xid) so JWT subjects and published_by references don't depend on a
// third-party numbering scheme.
//
// WHY GitHubID int64?
// GitHub user IDs are integers. Password maintainers have no GitHub account, so
// the field is 0 for them.
type Maintainer struct {
	ID        string    `json:"id"        db:"id"`
	Login     string    `json:"login"     db:"login"`
	GitHubID  int64     `json:"githubId"  db:"github_id"`
	AvatarURL string    `json:"avatarUrl" db:"avatar_url"`
	Source    string    `json:"source"    db:"source"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
