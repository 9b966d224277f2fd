package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Atharva7126/community-dashboard/internal/apperror"
	"github.com/Atharva7126/community-dashboard/internal/auth"
	"github.com/Atharva7126/community-dashboard/internal/model"
	"github.com/Atharva7126/community-dashboard/internal/repository"
)

// SnapshotHandler is the JSON API over snapshots. "latest" works as {id} for
// every read route.
type SnapshotHandler struct {
	snapshots SnapshotService
	dash      DashboardService
	logger    *slog.Logger
}

func NewSnapshotHandler(snapshots SnapshotService, dash DashboardService, logger *slog.Logger) *SnapshotHandler {
	return &SnapshotHandler{snapshots: snapshots, dash: dash, logger: logger}
}

// HandleList: GET /api/snapshots?limit=20&offset=0
func (h *SnapshotHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", repository.DefaultListLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, err)
		return
	}

	infos, err := h.snapshots.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, infos)
}

// HandleGet: GET /api/snapshots/{id}
func (h *SnapshotHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.snapshots.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// HandleSummary: GET /api/snapshots/{id}/summary
func (h *SnapshotHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dash.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleContributor: GET /api/snapshots/{id}/contributors/{username}
//
// The API form of a row click: same callback, full record as JSON.
func (h *SnapshotHandler) HandleContributor(w http.ResponseWriter, r *http.Request) {
	c, _, err := h.dash.SelectContributor(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type publishRequest struct {
	Label        string              `json:"label"`
	Contributors []model.Contributor `json:"contributors"`
}

// HandlePublish: POST /api/snapshots (maintainers only)
func (h *SnapshotHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	maintainerID, ok := auth.MaintainerIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	var req publishRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	snapshot, err := h.snapshots.Publish(r.Context(), req.Label, req.Contributors, maintainerID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Location", "/api/snapshots/"+snapshot.ID)
	writeJSON(w, http.StatusCreated, snapshot)
}

// HandleDelete: DELETE /api/snapshots/{id} (maintainers only)
func (h *SnapshotHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.MaintainerIDFromContext(r.Context()); !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	if err := h.snapshots.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
