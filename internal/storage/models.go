package storage

import (
	"time"

	"github.com/google/uuid"
)

// Exchange is one answered query.
type Exchange struct {
	ID         uuid.UUID `json:"id"`
	RequestID  string    `json:"request_id"`
	UserType   string    `json:"user_type"`
	Department string    `json:"department,omitempty"`
	Role       string    `json:"role,omitempty"`
	Message    string    `json:"message"`
	MatchPhase string    `json:"match_phase"`
	MatchCount int       `json:"match_count"`
	Fallback   bool      `json:"fallback"`
	Cached     bool      `json:"cached"`
	LatencyMs  int64     `json:"latency_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// PhaseCount aggregates exchanges by match phase.
type PhaseCount struct {
	MatchPhase string `json:"match_phase"`
	Count      int    `json:"count"`
}
