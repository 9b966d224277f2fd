package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Atharva7126/community-dashboard/internal/dashboard"
	"github.com/Atharva7126/community-dashboard/internal/service"
)

// DashboardHandler serves the server-rendered pages.
//
//	GET /                                          → latest snapshot
//	GET /snapshots/{id}                            → a given snapshot
//	GET /snapshots/{id}/contributors/{username}    → contributor row click
type DashboardHandler struct {
	dash   DashboardService
	logger *slog.Logger
}

func NewDashboardHandler(dash DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{dash: dash, logger: logger}
}

func (h *DashboardHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, service.LatestID)
}

func (h *DashboardHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, chi.URLParam(r, "id"))
}

func (h *DashboardHandler) renderDashboard(w http.ResponseWriter, r *http.Request, snapshotID string) {
	view, err := h.dash.Widget(r.Context(), snapshotID)
	if err != nil {
		h.logFailure("loading dashboard", snapshotID, err)
		writePageError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.Widget.Render(w); err != nil {
		// Render writes nothing on failure, so the error page still goes out.
		h.logger.Error("rendering dashboard failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// HandleContributor is the target of a contributor row link. Resolving it
// fires the widget's click callback, then shows the contributor's full record.
func (h *DashboardHandler) HandleContributor(w http.ResponseWriter, r *http.Request) {
	snapshotID := chi.URLParam(r, "id")
	username := chi.URLParam(r, "username")

	c, snapshot, err := h.dash.SelectContributor(r.Context(), snapshotID, username)
	if err != nil {
		h.logFailure("selecting contributor", snapshotID, err)
		writePageError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboard.RenderContributor(w, c, service.SnapshotPath(snapshot.ID)); err != nil {
		h.logger.Error("rendering contributor failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *DashboardHandler) logFailure(action, snapshotID string, err error) {
	status, _, _, _ := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(action+" failed", slog.String("snapshotID", snapshotID), slog.String("error", err.Error()))
	}
}
