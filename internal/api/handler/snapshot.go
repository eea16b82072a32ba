package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/sprig-core/internal/api/response"
	"github.com/mcoot/sprig-core/internal/model"
	"github.com/mcoot/sprig-core/internal/services/snapshot"
)

// SnapshotHandler serves snapshots publicly
type SnapshotHandler struct {
	snapshots *snapshot.Service
}

// NewSnapshotHandler creates a new snapshot handler
func NewSnapshotHandler(snapshots *snapshot.Service) *SnapshotHandler {
	return &SnapshotHandler{snapshots: snapshots}
}

// Get handles GET /api/v1/snapshots/{id}
func (h *SnapshotHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.SnapshotID(mux.Vars(r)["id"])

	data, err := h.snapshots.GetSnapshotData(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	if data == nil {
		WriteError(w, model.ErrSnapshotNotFound)
		return
	}

	response.JSON(w, http.StatusOK, response.SnapshotDataFromModel(data))
}
