package monitoring

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/observability"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/storage"
)

type fakeStore struct {
	saved []*storage.Exchange
	err   error
}

func (f *fakeStore) Create(ctx context.Context, ex *storage.Exchange) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, ex)
	return nil
}

func TestAuditLogger_LogExchange(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLogger(observability.LogConfig{Level: "info", Format: "json", Output: &buf})
	store := &fakeStore{}

	audit := NewAuditLogger(logger, store)
	ex := &storage.Exchange{UserType: "student", Department: "BIT", MatchPhase: "name", MatchCount: 1}

	require.NoError(t, audit.LogExchange(context.Background(), ex))
	require.Len(t, store.saved, 1)
	assert.NotEqual(t, uuid.Nil, ex.ID)
	assert.False(t, ex.CreatedAt.IsZero())
	assert.Contains(t, buf.String(), `"match_phase":"name"`)
}

func TestAuditLogger_StoreFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLogger(observability.LogConfig{Level: "info", Format: "json", Output: &buf})
	audit := NewAuditLogger(logger, &fakeStore{err: errors.New("disk full")})

	err := audit.LogExchange(context.Background(), &storage.Exchange{UserType: "guest"})
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "Failed to persist exchange")
}

func TestAuditLogger_NoStore(t *testing.T) {
	audit := NewAuditLogger(nil, nil)
	assert.NoError(t, audit.LogExchange(context.Background(), &storage.Exchange{UserType: "guest"}))
}
