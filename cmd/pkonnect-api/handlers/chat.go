// Package handlers provides HTTP handlers for the pkonnect API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/chatbot"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/observability"
)

const maxBodyBytes = 64 << 10

// ChatService answers queries.
type ChatService interface {
	Answer(ctx context.Context, q chatbot.Query) chatbot.Answer
	Departments() []string
}

// ChatHandler handles chat requests.
type ChatHandler struct {
	logger *observability.Logger
	svc    ChatService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(logger *observability.Logger, svc ChatService) *ChatHandler {
	if logger == nil {
		logger = observability.Nop()
	}
	return &ChatHandler{
		logger: logger,
		svc:    svc,
	}
}

// ChatRequestDTO is the body of POST /api/v1/chat.
type ChatRequestDTO struct {
	Message    string `json:"message"`
	UserType   string `json:"user_type"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role,omitempty"`
}

// ChatResponseDTO is the reply to POST /api/v1/chat.
type ChatResponseDTO struct {
	Response   string `json:"response"`
	RequestID  string `json:"request_id"`
	MatchPhase string `json:"match_phase,omitempty"`
	MatchCount int    `json:"match_count"`
	Cached     bool   `json:"cached"`
}

// DepartmentsResponseDTO is the reply to GET /api/v1/departments.
type DepartmentsResponseDTO struct {
	Departments []string `json:"departments"`
}

// Chat handles POST /api/v1/chat. Domain outcomes such as an unknown user
// type or a generator failure are answered with 200 and the answer text.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ChatRequestDTO
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		detail := err.Error()
		if errors.Is(err, io.EOF) {
			detail = "empty body"
		}
		writeError(w, http.StatusBadRequest, "invalid request body", detail)
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required", "")
		return
	}
	if req.UserType == "" {
		req.UserType = chatbot.UserTypeGuest
	}

	ans := h.svc.Answer(ctx, chatbot.Query{
		Message:    req.Message,
		UserType:   req.UserType,
		Department: req.Department,
		Role:       req.Role,
	})

	writeJSON(w, h.logger, http.StatusOK, ChatResponseDTO{
		Response:   ans.Text,
		RequestID:  ans.RequestID,
		MatchPhase: string(ans.Phase),
		MatchCount: ans.Matches,
		Cached:     ans.Cached,
	})
}

// Departments handles GET /api/v1/departments.
func (h *ChatHandler) Departments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, DepartmentsResponseDTO{Departments: h.svc.Departments()})
}

func writeJSON(w http.ResponseWriter, logger *observability.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := map[string]string{
		"error": message,
	}
	if detail != "" {
		resp["detail"] = detail
	}
	_ = json.NewEncoder(w).Encode(resp)
}
