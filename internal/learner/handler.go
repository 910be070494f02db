package learner

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/algo-prep/backend/internal/models"
	"github.com/algo-prep/backend/internal/topics"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers learner-state endpoints on the protected
// subrouter.
func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/learner-state", h.GetState).Methods("GET")
	protected.HandleFunc("/learner-state/recalculate", h.Recalculate).Methods("POST")
	protected.HandleFunc("/learner-state/summary", h.Summary).Methods("GET")
	protected.HandleFunc("/learner-state/reviews/due", h.DueReviews).Methods("GET")
	protected.HandleFunc("/learner-state/topics/{topic}", h.TopicStatistics).Methods("GET")
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

// ── Learner State ───────────────────────────────────────

// GetState handles GET /learner-state.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	state, err := h.service.GetState(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Recalculate handles POST /learner-state/recalculate. It rebuilds the
// state from the submission history and returns the stored result.
func (h *Handler) Recalculate(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	state, err := h.service.RecalculateState(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Summary handles GET /learner-state/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	summary, err := h.service.Summary(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// DueReviews handles GET /learner-state/reviews/due.
func (h *Handler) DueReviews(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	due, err := h.service.GetDueReviews(r.Context(), userID, time.Now().UTC())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, due)
}

// TopicStatistics handles GET /learner-state/topics/{topic}.
func (h *Handler) TopicStatistics(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	topic := topics.Normalize(mux.Vars(r)["topic"])
	stats, err := h.service.GetTopicStatistics(r.Context(), userID, topic)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ── Helpers ─────────────────────────────────────────────

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrConflict):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "State was modified concurrently, retry the request"})
	case errors.Is(err, ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: "State store unavailable"})
	default:
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
