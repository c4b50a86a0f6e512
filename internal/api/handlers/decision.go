package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"github.com/Harshitk-cp/arbiter/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type DecisionHandler struct {
	engine  *service.DecisionService
	history *service.HistoryService
}

func NewDecisionHandler(engine *service.DecisionService, history *service.HistoryService) *DecisionHandler {
	return &DecisionHandler{engine: engine, history: history}
}

type requestDecisionRequest struct {
	Type           string         `json:"type"`
	Priority       string         `json:"priority"`
	Data           map[string]any `json:"data,omitempty"`
	RequiredAgents []string       `json:"required_agents"`
	OptionalAgents []string       `json:"optional_agents,omitempty"`
	TimeoutMs      int64          `json:"timeout_ms"`
	Threshold      float64        `json:"threshold"`
}

type requestDecisionResponse struct {
	DecisionID string `json:"decision_id"`
}

func (h *DecisionHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req requestDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dc := &domain.DecisionContext{
		Type:           req.Type,
		Priority:       domain.Priority(req.Priority),
		Data:           req.Data,
		RequiredAgents: req.RequiredAgents,
		OptionalAgents: req.OptionalAgents,
		Timeout:        time.Duration(req.TimeoutMs) * time.Millisecond,
		Threshold:      req.Threshold,
	}

	id, err := h.engine.RequestDecision(r.Context(), dc)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoRequiredAgents),
			errors.Is(err, service.ErrInvalidThreshold),
			errors.Is(err, service.ErrInvalidTimeout),
			errors.Is(err, service.ErrInvalidPriority):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEngineClosed):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to request decision")
		}
		return
	}

	writeJSON(w, http.StatusCreated, requestDecisionResponse{DecisionID: id.String()})
}

type submitVoteRequest struct {
	AgentID    string         `json:"agent_id"`
	Vote       string         `json:"vote"`
	Confidence float64        `json:"confidence"`
	Reasoning  string         `json:"reasoning,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

func (h *DecisionHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid decision id")
		return
	}

	var req submitVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	vote := &domain.AgentVote{
		AgentID:    req.AgentID,
		Vote:       domain.VoteValue(req.Vote),
		Confidence: req.Confidence,
		Reasoning:  req.Reasoning,
		Data:       req.Data,
	}

	if err := h.engine.SubmitVote(r.Context(), id, vote); err != nil {
		switch {
		case errors.Is(err, service.ErrDecisionNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidVote),
			errors.Is(err, service.ErrInvalidConfidence),
			errors.Is(err, service.ErrAgentIDMissing):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEngineClosed):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to submit vote")
		}
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (h *DecisionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid decision id")
		return
	}

	d, err := h.engine.GetDecision(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrDecisionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get decision")
		return
	}

	if d == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "pending"})
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DecisionHandler) Wait(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid decision id")
		return
	}

	timeout := 30 * time.Second
	if raw := r.URL.Query().Get("timeout_ms"); raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || ms <= 0 {
			writeError(w, http.StatusBadRequest, "invalid timeout_ms")
			return
		}
		timeout = time.Duration(ms) * time.Millisecond
	}

	d, err := h.engine.WaitForDecision(r.Context(), id, timeout)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDecisionNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrWaitTimeout):
			writeError(w, http.StatusRequestTimeout, err.Error())
		case errors.Is(err, service.ErrEngineClosed):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to wait for decision")
		}
		return
	}

	writeJSON(w, http.StatusOK, d)
}

type resolveConflictRequest struct {
	Strategy  string             `json:"strategy"`
	Weights   map[string]float64 `json:"weights,omitempty"`
	Experts   []string           `json:"experts,omitempty"`
	Hierarchy []string           `json:"hierarchy,omitempty"`
}

func (h *DecisionHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid decision id")
		return
	}

	var req resolveConflictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	opts := domain.ResolveOptions{
		Weights:   req.Weights,
		Experts:   req.Experts,
		Hierarchy: req.Hierarchy,
	}

	d, err := h.engine.ResolveConflict(r.Context(), id, domain.ResolutionStrategy(req.Strategy), opts)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDecisionNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidStrategy):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEngineClosed):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to resolve conflict")
		}
		return
	}

	writeJSON(w, http.StatusOK, d)
}

func (h *DecisionHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	typeFilter := r.URL.Query().Get("type")

	decisions, err := h.history.List(r.Context(), limit, typeFilter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"decisions": decisions,
		"count":     len(decisions),
	})
}

func (h *DecisionHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.history.Metrics(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute metrics")
		return
	}
	writeJSON(w, http.StatusOK, m)
}
