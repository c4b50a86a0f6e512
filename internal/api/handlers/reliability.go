package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"github.com/Harshitk-cp/arbiter/internal/service"
	"github.com/go-chi/chi/v5"
)

type ReliabilityHandler struct {
	reliability *service.ReliabilityService
}

func NewReliabilityHandler(reliability *service.ReliabilityService) *ReliabilityHandler {
	return &ReliabilityHandler{reliability: reliability}
}

type reliabilityFeedbackRequest struct {
	Outcome string `json:"outcome"`
}

type reliabilityResponse struct {
	AgentID string  `json:"agent_id"`
	Score   float64 `json:"score"`
}

func (h *ReliabilityHandler) Update(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentId")

	var req reliabilityFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	score, err := h.reliability.Update(r.Context(), agentID, domain.FeedbackOutcome(req.Outcome))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidFeedback),
			errors.Is(err, service.ErrAgentIDMissing):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update reliability")
		}
		return
	}

	writeJSON(w, http.StatusOK, reliabilityResponse{AgentID: agentID, Score: score})
}

func (h *ReliabilityHandler) Get(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentId")
	if agentID == "" {
		writeError(w, http.StatusBadRequest, service.ErrAgentIDMissing.Error())
		return
	}

	score := h.reliability.Get(r.Context(), agentID)
	writeJSON(w, http.StatusOK, reliabilityResponse{AgentID: agentID, Score: score})
}

func (h *ReliabilityHandler) List(w http.ResponseWriter, r *http.Request) {
	scores, err := h.reliability.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reliability scores")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scores": scores, "count": len(scores)})
}
