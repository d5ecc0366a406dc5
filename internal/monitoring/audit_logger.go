// Package monitoring provides the exchange audit trail.
package monitoring

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/observability"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/storage"
)

// ExchangeStore persists exchanges.
type ExchangeStore interface {
	Create(ctx context.Context, ex *storage.Exchange) error
}

// AuditLogger logs every answered query and, when a store is configured,
// persists it to the exchange history.
type AuditLogger struct {
	logger *observability.Logger
	store  ExchangeStore
}

// NewAuditLogger creates a new audit logger. store may be nil.
func NewAuditLogger(logger *observability.Logger, store ExchangeStore) *AuditLogger {
	if logger == nil {
		logger = observability.Nop()
	}
	return &AuditLogger{
		logger: logger,
		store:  store,
	}
}

// LogExchange records an exchange.
func (a *AuditLogger) LogExchange(ctx context.Context, ex *storage.Exchange) error {
	if ex.ID == uuid.Nil {
		ex.ID = uuid.New()
	}
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}

	a.logger.WithContext(ctx).Info().
		Str("exchange_id", ex.ID.String()).
		Str("user_type", ex.UserType).
		Str("department", ex.Department).
		Str("match_phase", ex.MatchPhase).
		Int("match_count", ex.MatchCount).
		Bool("fallback", ex.Fallback).
		Bool("cached", ex.Cached).
		Int64("latency_ms", ex.LatencyMs).
		Msg("Exchange answered")

	if a.store == nil {
		return nil
	}

	if err := a.store.Create(ctx, ex); err != nil {
		a.logger.WithContext(ctx).Warn().Err(err).Str("exchange_id", ex.ID.String()).Msg("Failed to persist exchange")
		return err
	}
	return nil
}
