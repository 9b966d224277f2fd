package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/Atharva7126/community-dashboard/internal/apperror"
	"github.com/Atharva7126/community-dashboard/internal/auth"
	"github.com/Atharva7126/community-dashboard/internal/model"
)

const testAdminPassword = "correct-horse-battery-staple"

// newTestAuthService wires an AuthService with a fake repository, bcrypt at
// minimum cost and an admin hash for testAdminPassword.
func newTestAuthService(t *testing.T, repo *fakeMaintainerRepo) (*AuthService, *auth.TokenService) {
	t.Helper()

	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	ps := auth.NewPasswordServiceWithCost(bcrypt.MinCost)
	hash, err := ps.Hash(testAdminPassword)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	cfg := AuthConfig{
		MaintainerLogins:  []string{"OctoCat", " hubot ", ""},
		AdminUsername:     "admin",
		AdminPasswordHash: hash,
	}
	return NewAuthService(repo, ts, ps, cfg, discardLogger()), ts
}

// =========================================================================
// GITHUB LOGIN
// =========================================================================

func TestLoginWithGitHub_AllowListed(t *testing.T) {
	repo := newFakeMaintainerRepo()
	svc, ts := newTestAuthService(t, repo)

	res, err := svc.LoginWithGitHub(context.Background(), &auth.GitHubUser{
		ID: 583231, Login: "octocat", AvatarURL: "https://a/o.png",
	})
	if err != nil {
		t.Fatalf("LoginWithGitHub() error = %v", err)
	}

	m := res.Maintainer
	if m.ID == "" || m.Login != "octocat" || m.GitHubID != 583231 || m.Source != model.SourceGitHub {
		t.Errorf("maintainer = %+v", m)
	}

	id, err := ts.Validate(res.Token)
	if err != nil {
		t.Fatalf("token does not validate: %v", err)
	}
	if id != m.ID {
		t.Errorf("token subject = %q, want %q", id, m.ID)
	}
}

func TestLoginWithGitHub_AllowListIsCaseInsensitiveAndTrimmed(t *testing.T) {
	svc, _ := newTestAuthService(t, newFakeMaintainerRepo())

	for _, login := range []string{"OCTOCAT", "hubot"} {
		if _, err := svc.LoginWithGitHub(context.Background(), &auth.GitHubUser{ID: 1, Login: login}); err != nil {
			t.Errorf("LoginWithGitHub(%q) error = %v", login, err)
		}
	}
}

func TestLoginWithGitHub_NotAllowListed(t *testing.T) {
	repo := newFakeMaintainerRepo()
	svc, _ := newTestAuthService(t, repo)

	_, err := svc.LoginWithGitHub(context.Background(), &auth.GitHubUser{ID: 2, Login: "mallory"})

	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("LoginWithGitHub() error = %v, want ErrForbidden", err)
	}
	if len(repo.byID) != 0 {
		t.Error("refused user was stored")
	}
}

func TestLoginWithGitHub_RepeatLoginKeepsID(t *testing.T) {
	svc, _ := newTestAuthService(t, newFakeMaintainerRepo())
	ctx := context.Background()

	first, _ := svc.LoginWithGitHub(ctx, &auth.GitHubUser{ID: 1, Login: "octocat", AvatarURL: "old"})
	second, err := svc.LoginWithGitHub(ctx, &auth.GitHubUser{ID: 1, Login: "octocat", AvatarURL: "new"})
	if err != nil {
		t.Fatalf("second login error = %v", err)
	}

	if second.Maintainer.ID != first.Maintainer.ID {
		t.Errorf("ID changed: %q → %q", first.Maintainer.ID, second.Maintainer.ID)
	}
	if second.Maintainer.AvatarURL != "new" {
		t.Errorf("AvatarURL = %q, want refreshed %q", second.Maintainer.AvatarURL, "new")
	}
}

func TestLoginWithGitHub_NilUser(t *testing.T) {
	svc, _ := newTestAuthService(t, newFakeMaintainerRepo())

	if _, err := svc.LoginWithGitHub(context.Background(), nil); err == nil {
		t.Fatal("LoginWithGitHub(nil) should fail")
	}
}

func TestLoginWithGitHub_RepositoryError(t *testing.T) {
	repo := newFakeMaintainerRepo()
	repo.err = errStorage
	svc, _ := newTestAuthService(t, repo)

	_, err := svc.LoginWithGitHub(context.Background(), &auth.GitHubUser{ID: 1, Login: "octocat"})

	if !errors.Is(err, errStorage) {
		t.Errorf("LoginWithGitHub() error = %v, want storage error", err)
	}
}

// =========================================================================
// PASSWORD LOGIN
// =========================================================================

func TestLoginWithPassword(t *testing.T) {
	repo := newFakeMaintainerRepo()
	svc, _ := newTestAuthService(t, repo)

	res, err := svc.LoginWithPassword(context.Background(), "admin", testAdminPassword)
	if err != nil {
		t.Fatalf("LoginWithPassword() error = %v", err)
	}
	if res.Maintainer.Login != "admin" || res.Maintainer.Source != model.SourcePassword {
		t.Errorf("maintainer = %+v", res.Maintainer)
	}
	if res.Token == "" {
		t.Error("no token issued")
	}
}

func TestLoginWithPassword_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "nope"},
		{"wrong username", "root", testAdminPassword},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeMaintainerRepo()
			svc, _ := newTestAuthService(t, repo)

			_, err := svc.LoginWithPassword(context.Background(), tt.username, tt.password)

			if !errors.Is(err, apperror.ErrUnauthorized) {
				t.Errorf("LoginWithPassword() error = %v, want ErrUnauthorized", err)
			}
			if len(repo.byID) != 0 {
				t.Error("rejected login created a maintainer")
			}
		})
	}
}

func TestLoginWithPassword_Disabled(t *testing.T) {
	ts, _ := auth.NewTokenService("test-secret-at-least-16-chars!!")
	svc := NewAuthService(newFakeMaintainerRepo(), ts, auth.NewPasswordServiceWithCost(bcrypt.MinCost),
		AuthConfig{AdminUsername: "admin"}, discardLogger())

	if svc.PasswordLoginEnabled() {
		t.Error("PasswordLoginEnabled() = true without a hash")
	}
	if _, err := svc.LoginWithPassword(context.Background(), "admin", ""); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("LoginWithPassword() error = %v, want ErrUnauthorized", err)
	}
}

// =========================================================================
// ME
// =========================================================================

func TestMe(t *testing.T) {
	svc, _ := newTestAuthService(t, newFakeMaintainerRepo())
	res, _ := svc.LoginWithPassword(context.Background(), "admin", testAdminPassword)

	m, err := svc.Me(context.Background(), res.Maintainer.ID)
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if m.Login != "admin" {
		t.Errorf("Login = %q, want %q", m.Login, "admin")
	}
}

func TestMe_Errors(t *testing.T) {
	svc, _ := newTestAuthService(t, newFakeMaintainerRepo())

	if _, err := svc.Me(context.Background(), ""); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("Me(\"\") error = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.Me(context.Background(), "ghost"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Me(ghost) error = %v, want ErrNotFound", err)
	}
}
