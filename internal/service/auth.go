package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Atharva7126/community-dashboard/internal/apperror"
	"github.com/Atharva7126/community-dashboard/internal/auth"
	"github.com/Atharva7126/community-dashboard/internal/model"
	"github.com/Atharva7126/community-dashboard/internal/repository"
)

// AuthConfig holds who may become a maintainer.
type AuthConfig struct {
	// MaintainerLogins is the GitHub allow-list, compared case-insensitively.
	MaintainerLogins []string
	// AdminUsername and AdminPasswordHash enable password login. An empty
	// hash disables it.
	AdminUsername     string
	AdminPasswordHash string
}

// AuthService turns a verified identity (GitHub profile or admin password)
// into a maintainer record and a signed token.
//
//	AuthHandler → AuthService → MaintainerRepository
//	                          ↘ TokenService / PasswordService
type AuthService struct {
	maintainers repository.MaintainerRepository
	tokens      *auth.TokenService
	passwords   *auth.PasswordService
	allowed     map[string]bool
	adminUser   string
	adminHash   string
	logger      *slog.Logger
}

func NewAuthService(
	maintainers repository.MaintainerRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	cfg AuthConfig,
	logger *slog.Logger,
) *AuthService {
	allowed := make(map[string]bool, len(cfg.MaintainerLogins))
	for _, login := range cfg.MaintainerLogins {
		if login = strings.TrimSpace(login); login != "" {
			allowed[strings.ToLower(login)] = true
		}
	}
	return &AuthService{
		maintainers: maintainers,
		tokens:      tokens,
		passwords:   passwords,
		allowed:     allowed,
		adminUser:   cfg.AdminUsername,
		adminHash:   cfg.AdminPasswordHash,
		logger:      logger,
	}
}

// AuthResult bundles the maintainer and the issued JWT so the handler can set
// the cookie and respond in one step.
type AuthResult struct {
	Maintainer *model.Maintainer
	Token      string
}

// PasswordLoginEnabled reports whether an admin password hash is configured.
func (s *AuthService) PasswordLoginEnabled() bool {
	return s.adminHash != ""
}

// LoginWithGitHub signs in a GitHub user that completed the OAuth flow. Users
// not on the allow-list get apperror.ErrForbidden: GitHub vouched for who they
// are, but they may not publish.
func (s *AuthService) LoginWithGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, errors.New("service/auth: GitHub user must not be nil")
	}

	if !s.allowed[strings.ToLower(ghUser.Login)] {
		s.logger.Warn("GitHub login refused: not a maintainer", slog.String("login", ghUser.Login))
		return nil, apperror.Forbidden(fmt.Sprintf("%s is not a maintainer of this dashboard", ghUser.Login))
	}

	m := &model.Maintainer{
		Login:     ghUser.Login,
		GitHubID:  ghUser.ID,
		AvatarURL: ghUser.AvatarURL,
		Source:    model.SourceGitHub,
	}
	return s.issue(ctx, m)
}

// LoginWithPassword checks the admin credentials. Wrong username and wrong
// password are indistinguishable to the caller.
func (s *AuthService) LoginWithPassword(ctx context.Context, username, password string) (*AuthResult, error) {
	if !s.PasswordLoginEnabled() {
		return nil, apperror.Unauthorized("password login is disabled")
	}

	// Always run bcrypt so response time does not reveal whether the
	// username was right.
	err := s.passwords.Verify(s.adminHash, password)
	if err != nil && !errors.Is(err, auth.ErrPasswordMismatch) {
		return nil, fmt.Errorf("service/auth: checking admin password: %w", err)
	}
	if err != nil || username != s.adminUser {
		s.logger.Warn("password login refused", slog.String("username", username))
		return nil, apperror.Unauthorized("invalid username or password")
	}

	m := &model.Maintainer{
		Login:  s.adminUser,
		Source: model.SourcePassword,
	}
	return s.issue(ctx, m)
}

// Me returns the maintainer behind an authenticated request.
func (s *AuthService) Me(ctx context.Context, id string) (*model.Maintainer, error) {
	if id == "" {
		return nil, apperror.Unauthorized("not signed in")
	}
	return s.maintainers.GetByID(ctx, id)
}

func (s *AuthService) issue(ctx context.Context, m *model.Maintainer) (*AuthResult, error) {
	if err := s.maintainers.Upsert(ctx, m); err != nil {
		return nil, fmt.Errorf("service/auth: upserting maintainer %s: %w", m.Login, err)
	}

	token, err := s.tokens.Generate(m.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for %s: %w", m.ID, err)
	}

	s.logger.Info("maintainer signed in",
		slog.String("maintainerID", m.ID),
		slog.String("login", m.Login),
		slog.String("source", m.Source),
	)

	return &AuthResult{Maintainer: m, Token: token}, nil
}
