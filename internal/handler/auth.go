package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"

	"github.com/Atharva7126/community-dashboard/internal/apperror"
	"github.com/Atharva7126/community-dashboard/internal/auth"
	"github.com/Atharva7126/community-dashboard/internal/model"
)

const stateCookie = "oauth_state"

// AuthHandler signs maintainers in and out.
//
//	POST /auth/token            → admin password login, JSON
//	GET  /auth/github/login     → redirect to GitHub
//	GET  /auth/github/callback  → finish OAuth, set cookie, redirect home
//	POST /auth/logout           → clear cookie
//	GET  /api/me                → current maintainer
type AuthHandler struct {
	auth       AuthService
	github     GitHubOAuth // nil when GitHub login is not configured
	sessionTTL time.Duration
	logger     *slog.Logger
}

func NewAuthHandler(svc AuthService, github GitHubOAuth, sessionTTL time.Duration, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:       svc,
		github:     github,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

type passwordLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token      string            `json:"token"`
	ExpiresAt  time.Time         `json:"expiresAt"`
	Maintainer *model.Maintainer `json:"maintainer"`
}

// HandlePasswordLogin exchanges admin credentials for a token. The token is
// both set as the session cookie and returned, for scripts that publish
// snapshots with an Authorization header.
func (h *AuthHandler) HandlePasswordLogin(w http.ResponseWriter, r *http.Request) {
	var req passwordLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.auth.LoginWithPassword(r.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, apperror.ErrUnauthorized) {
			h.logger.Error("password login failed", slog.String("error", err.Error()))
		}
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, res.Token)
	writeJSON(w, http.StatusOK, tokenResponse{
		Token:      res.Token,
		ExpiresAt:  time.Now().Add(h.sessionTTL).UTC(),
		Maintainer: res.Maintainer,
	})
}

// HandleGitHubLogin redirects to GitHub. A random state goes into a short-lived
// cookie and the authorization URL; the callback checks that they match.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback finishes the OAuth flow.
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || r.URL.Query().Get("state") != cookie.Value {
		h.logger.Warn("auth callback: state missing or mismatched")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// single use
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: authorization denied", slog.String("error", errParam))
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: GitHub exchange failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusBadGateway)
		return
	}

	res, err := h.auth.LoginWithGitHub(r.Context(), ghUser)
	if err != nil {
		writePageError(w, err)
		return
	}

	h.setSessionCookie(w, res.Token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout clears the session cookie. The token itself stays valid until
// it expires; there is no server-side session to revoke.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the maintainer behind the request's token.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.MaintainerIDFromContext(r.Context())

	m, err := h.auth.Me(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, m)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
