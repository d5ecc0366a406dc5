package chatbot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/cache"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/observability"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/retrieval"
)

const answerKeyPrefix = "answer:"

// AnswerCache stores normalized answers keyed by the full query. A nil
// *AnswerCache is a disabled cache.
type AnswerCache struct {
	client cache.Client
	ttl    time.Duration
	logger *observability.Logger
}

type cachedAnswer struct {
	Text     string    `json:"text"`
	Phase    string    `json:"phase"`
	Matches  int       `json:"matches"`
	CachedAt time.Time `json:"cached_at"`
}

// NewAnswerCache creates an answer cache over client.
func NewAnswerCache(client cache.Client, ttl time.Duration, logger *observability.Logger) *AnswerCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = observability.Nop()
	}
	return &AnswerCache{client: client, ttl: ttl, logger: logger}
}

// Key returns the cache key for q. Messages differing only in surrounding
// whitespace share a key.
func (c *AnswerCache) Key(q Query) string {
	combined := strings.Join([]string{
		q.UserType,
		q.Department,
		q.Role,
		strings.TrimSpace(q.Message),
	}, "|")
	hash := sha256.Sum256([]byte(combined))
	return answerKeyPrefix + hex.EncodeToString(hash[:16])
}

// Get returns the cached answer for q.
func (c *AnswerCache) Get(ctx context.Context, q Query) (Answer, bool) {
	if c == nil || c.client == nil {
		return Answer{}, false
	}

	key := c.Key(q)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.WithContext(ctx).Debug().Err(err).Str("key", key).Msg("Cache get error")
		}
		return Answer{}, false
	}

	var cached cachedAnswer
	if err := json.Unmarshal(data, &cached); err != nil {
		c.logger.WithContext(ctx).Warn().Err(err).Str("key", key).Msg("Failed to unmarshal cached answer")
		return Answer{}, false
	}

	c.logger.WithContext(ctx).Debug().Str("key", key).Msg("Cache hit")
	return Answer{
		Text:    cached.Text,
		Phase:   retrieval.MatchPhase(cached.Phase),
		Matches: cached.Matches,
		Cached:  true,
	}, true
}

// Set caches ans for q.
func (c *AnswerCache) Set(ctx context.Context, q Query, ans Answer) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(cachedAnswer{
		Text:     ans.Text,
		Phase:    string(ans.Phase),
		Matches:  ans.Matches,
		CachedAt: time.Now(),
	})
	if err != nil {
		return
	}

	key := c.Key(q)
	if err := c.client.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.WithContext(ctx).Warn().Err(err).Str("key", key).Msg("Failed to cache answer")
		return
	}
	c.logger.WithContext(ctx).Debug().Str("key", key).Dur("ttl", c.ttl).Msg("Cached answer")
}

// Invalidate drops every cached answer.
func (c *AnswerCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.DeleteByPrefix(ctx, answerKeyPrefix)
}
