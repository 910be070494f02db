package submissions

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/algo-prep/backend/internal/insights"
	"github.com/algo-prep/backend/internal/learner"
	"github.com/algo-prep/backend/internal/models"
	"github.com/algo-prep/backend/internal/topics"
)

type Handler struct {
	store          *Store
	learnerService *learner.Service
	labeler        insights.Client
}

func NewHandler(store *Store, learnerService *learner.Service, labeler insights.Client) *Handler {
	return &Handler{store: store, learnerService: learnerService, labeler: labeler}
}

// RegisterRoutes registers submission endpoints on the protected subrouter.
func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/submissions", h.Submit).Methods("POST")
	protected.HandleFunc("/submissions", h.History).Methods("GET")
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

// Submit handles POST /submissions: log the attempt, label the mistake on
// failures, and fold the outcome into the learner state.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	req.QuestionID = strings.TrimSpace(req.QuestionID)
	if req.QuestionID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "question_id is required"})
		return
	}
	status := models.SubmissionStatus(req.Status)
	if !models.ValidSubmissionStatuses[status] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid submission status"})
		return
	}
	if req.Quality != nil && (*req.Quality < 0 || *req.Quality > 5) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "quality must be between 0 and 5"})
		return
	}
	if req.HintsUsed < 0 {
		req.HintsUsed = 0
	}
	if req.Language == "" {
		req.Language = "python"
	}

	topicSet := h.resolveTopics(r.Context(), req.QuestionID, req.Topics)
	pattern := h.labelPattern(r.Context(), &req, status, topicSet)

	sub := models.Submission{
		UserID:     userID,
		QuestionID: req.QuestionID,
		Topics:     topicSet,
		Status:     status,
		Language:   req.Language,
		HintsUsed:  req.HintsUsed,
		Quality:    req.Quality,
	}
	if req.ErrorMessage != "" {
		sub.ErrorMessage = &req.ErrorMessage
	}
	if pattern != "" {
		sub.ErrorPattern = &pattern
	}

	if err := h.store.Insert(r.Context(), &sub); err != nil {
		log.Printf("[submissions] insert for user %d: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to save submission"})
		return
	}

	state, err := h.learnerService.UpdateAfterSubmission(r.Context(), userID, sub.Event())
	if err != nil {
		log.Printf("[submissions] state update for user %d: %v", userID, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.SubmitResponse{Submission: sub, State: *state})
}

// resolveTopics normalizes the request's topics, falling back to the
// question's previously recorded set, then to the general bucket. The
// stored row always carries the final set so a history replay lines up
// with the incremental update.
func (h *Handler) resolveTopics(ctx context.Context, questionID string, requested []string) []string {
	if len(requested) > 0 {
		return topics.NormalizeAll(requested)
	}
	known, err := h.store.TopicsForQuestion(ctx, questionID)
	if err != nil {
		log.Printf("[submissions] resolve topics for %s: %v", questionID, err)
	}
	if len(known) > 0 {
		return known
	}
	return []string{topics.General}
}

// labelPattern picks the error label for a failed attempt: an explicit
// label from the client wins, otherwise the insights labeler takes a
// shot. Labeling never blocks the submission.
func (h *Handler) labelPattern(ctx context.Context, req *models.SubmitRequest, status models.SubmissionStatus, topicSet []string) string {
	if status.IsAccepted() {
		return ""
	}
	if cleaned, ok := insights.CleanLabel(req.ErrorPattern); ok {
		return cleaned
	}
	if h.labeler == nil {
		return ""
	}
	label, err := h.labeler.Label(ctx, req.QuestionID, topicSet, status, req.ErrorMessage)
	if err != nil {
		log.Printf("WARN: label submission for %s: %v", req.QuestionID, err)
		return ""
	}
	return label
}

// History handles GET /submissions.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	limit := intQueryParam(r.URL.Query(), "limit", 20)
	if limit > 100 {
		limit = 100
	}
	offset := intQueryParam(r.URL.Query(), "offset", 0)

	subs, err := h.store.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		log.Printf("[submissions] history for user %d: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get submissions"})
		return
	}
	total, err := h.store.CountByUser(r.Context(), userID)
	if err != nil {
		log.Printf("[submissions] count for user %d: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get submissions"})
		return
	}

	if subs == nil {
		subs = []models.Submission{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"submissions": subs,
		"total":       total,
		"limit":       limit,
		"offset":      offset,
	})
}

// ── Helpers ─────────────────────────────────────────────

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, learner.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, learner.ErrConflict):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "State was modified concurrently, retry the request"})
	case errors.Is(err, learner.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: "State store unavailable"})
	default:
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update learner state"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}
