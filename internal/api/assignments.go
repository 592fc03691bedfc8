package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/confdesk/confdesk/internal/middleware"
	"github.com/confdesk/confdesk/internal/storage"
)

// AssignmentHandler serves assignment reads and the two mutation routes the
// autosaving client uses.
type AssignmentHandler struct {
	store storage.Store
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(store storage.Store) *AssignmentHandler {
	return &AssignmentHandler{store: store}
}

type putAnswersRequest struct {
	Answers []string `json:"answers"`
	Seq     uint64   `json:"seq"`
}

type putAnswersResponse struct {
	Accepted bool `json:"accepted"`
}

type putSubmittedRequest struct {
	Submitted bool `json:"submitted"`
}

// Get handles GET /api/assignment/{id}.
func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	a, err := h.store.GetAssignment(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

// PutAnswers handles PUT /api/assignment/{id}/answers.
//
// Only the assignee may write. The write carries the client's sequence
// number; a stale sequence is acknowledged as accepted=false rather than
// rejected, because a late-arriving autosave is expected, not an error.
func (h *AssignmentHandler) PutAnswers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req putAnswersRequest
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	a, err := h.store.GetAssignment(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if a.AssigneeID != middleware.GetUserID(r.Context()) {
		writeError(w, http.StatusForbidden, "only the assignee may edit answers")
		return
	}
	if len(req.Answers) != len(a.Problems) {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("expected %d answers, got %d", len(a.Problems), len(req.Answers)))
		return
	}

	accepted, err := h.store.UpdateAnswers(r.Context(), id, req.Answers, req.Seq)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, putAnswersResponse{Accepted: accepted})
}

// PutSubmitted handles PUT /api/assignment/{id}/submitted.
// Marking an already-submitted assignment is idempotent, and late
// submission past the deadline is accepted.
func (h *AssignmentHandler) PutSubmitted(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req putSubmittedRequest
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	a, err := h.store.GetAssignment(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if a.AssigneeID != middleware.GetUserID(r.Context()) {
		writeError(w, http.StatusForbidden, "only the assignee may submit")
		return
	}

	if err := h.store.SetSubmitted(r.Context(), id, req.Submitted); err != nil {
		writeStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
