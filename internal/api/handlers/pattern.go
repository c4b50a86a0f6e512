package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"github.com/Harshitk-cp/arbiter/internal/service"
)

type PatternHandler struct {
	patterns *service.PatternService
}

func NewPatternHandler(patterns *service.PatternService) *PatternHandler {
	return &PatternHandler{patterns: patterns}
}

type registerPatternRequest struct {
	Type           string   `json:"type"`
	RequiredAgents []string `json:"required_agents"`
	OptionalAgents []string `json:"optional_agents,omitempty"`
	Threshold      float64  `json:"threshold"`
	TimeoutMs      int64    `json:"timeout_ms"`
}

func (h *PatternHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerPatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p := &domain.DecisionPattern{
		Type:           req.Type,
		RequiredAgents: req.RequiredAgents,
		OptionalAgents: req.OptionalAgents,
		Threshold:      req.Threshold,
		Timeout:        time.Duration(req.TimeoutMs) * time.Millisecond,
	}

	if err := h.patterns.Register(r.Context(), p); err != nil {
		switch {
		case errors.Is(err, service.ErrPatternTypeMissing),
			errors.Is(err, service.ErrPatternNoAgents),
			errors.Is(err, service.ErrPatternBadThreshold),
			errors.Is(err, service.ErrPatternBadTimeout):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to register pattern")
		}
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

func (h *PatternHandler) List(w http.ResponseWriter, r *http.Request) {
	patterns, err := h.patterns.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list patterns")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"patterns": patterns, "count": len(patterns)})
}
