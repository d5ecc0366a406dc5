// Package chatbot routes user queries through record matching, generation and
// normalization to produce the final answer text.
package chatbot

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/generation"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/normalize"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/observability"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/retrieval"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/storage"
)

// Fixed answers returned without calling the generator.
const (
	InvalidUserType   = "Invalid user type."
	InvalidDepartment = "Invalid department."
	GreetingResponse  = "Hello! How can I help you today?"
)

// User types accepted by Respond.
const (
	UserTypeGuest   = "guest"
	UserTypeStudent = "student"
)

// Query is one user question with its routing tags.
type Query struct {
	Message    string `json:"message"`
	UserType   string `json:"user_type"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role,omitempty"`
}

// Answer is the outcome of a query.
type Answer struct {
	Text      string
	RequestID string
	Phase     retrieval.MatchPhase
	Matches   int
	Fallback  bool
	Cached    bool
	Greeting  bool
	// Rejected is set when Text is an invalid-input sentinel.
	Rejected bool
}

// RecordSource supplies department records.
type RecordSource interface {
	Known(department string) bool
	Departments() []string
	Load(ctx context.Context, department string) ([]retrieval.Record, error)
}

// Generator produces answer text for a prompt and system instruction.
type Generator interface {
	Generate(ctx context.Context, prompt, system string) generation.Result
}

// ExchangeRecorder stores answered queries.
type ExchangeRecorder interface {
	LogExchange(ctx context.Context, ex *storage.Exchange) error
}

// Config holds assistant behaviour settings.
type Config struct {
	CollegeName string
	Greetings   []string
}

// Service answers queries. It holds no per-query state and is safe for
// concurrent use.
type Service struct {
	records   RecordSource
	generator Generator
	cache     *AnswerCache
	recorder  ExchangeRecorder
	logger    *observability.Logger
	greetings map[string]bool
	college   string
}

// Option configures a Service.
type Option func(*Service)

// WithAnswerCache enables answer caching.
func WithAnswerCache(c *AnswerCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithRecorder enables exchange recording.
func WithRecorder(r ExchangeRecorder) Option {
	return func(s *Service) { s.recorder = r }
}

// NewService creates a chatbot service.
func NewService(records RecordSource, generator Generator, logger *observability.Logger, cfg Config, opts ...Option) *Service {
	if logger == nil {
		logger = observability.Nop()
	}
	greetings := cfg.Greetings
	if greetings == nil {
		greetings = []string{"hi", "hello", "hey", "namaste"}
	}

	s := &Service{
		records:   records,
		generator: generator,
		logger:    logger,
		greetings: make(map[string]bool, len(greetings)),
		college:   cfg.CollegeName,
	}
	for _, g := range greetings {
		s.greetings[strings.ToLower(strings.TrimSpace(g))] = true
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Departments returns the known department tags.
func (s *Service) Departments() []string {
	return s.records.Departments()
}

// Respond returns the answer text for q.
func (s *Service) Respond(ctx context.Context, q Query) string {
	return s.Answer(ctx, q).Text
}

// Answer runs q through the pipeline. It never fails: invalid input yields a
// sentinel and generator failures yield the fallback sentence.
func (s *Service) Answer(ctx context.Context, q Query) Answer {
	start := time.Now()

	requestID := observability.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = observability.ContextWithRequestID(ctx, requestID)
	}
	log := s.logger.WithContext(ctx).WithOperation("respond")

	switch q.UserType {
	case UserTypeGuest, UserTypeStudent:
	default:
		log.Warn().Str("user_type", q.UserType).Msg("Rejected unknown user type")
		return Answer{Text: InvalidUserType, RequestID: requestID, Phase: retrieval.PhaseNone, Rejected: true}
	}

	if q.UserType == UserTypeStudent && !s.records.Known(q.Department) {
		log.Warn().Str("department", q.Department).Msg("Rejected unknown department")
		return Answer{Text: InvalidDepartment, RequestID: requestID, Phase: retrieval.PhaseNone, Rejected: true}
	}

	var ans Answer
	switch {
	case s.isGreeting(q.Message):
		ans = Answer{Text: GreetingResponse, Phase: retrieval.PhaseNone, Greeting: true}
	default:
		if cached, ok := s.cache.Get(ctx, q); ok {
			ans = cached
		} else {
			ans = s.generate(ctx, q)
			if !ans.Fallback {
				s.cache.Set(ctx, q, ans)
			}
		}
	}
	ans.RequestID = requestID

	s.record(ctx, q, ans, time.Since(start))
	return ans
}

func (s *Service) isGreeting(message string) bool {
	return s.greetings[strings.ToLower(strings.TrimSpace(message))]
}

func (s *Service) generate(ctx context.Context, q Query) Answer {
	prompt := q.Message
	system := generation.SystemPrompt(s.college, "", "")
	match := retrieval.MatchResult{Phase: retrieval.PhaseNone}

	if q.UserType == UserTypeStudent {
		match = s.matchRecords(ctx, q)
		prompt = retrieval.FormatContext(match) + q.Message
		system = generation.SystemPrompt(s.college, q.Department, q.Role)
	}

	result := s.generator.Generate(ctx, prompt, system)
	return Answer{
		Text:     normalize.Normalize(result.Text),
		Phase:    match.Phase,
		Matches:  len(match.Records),
		Fallback: result.Fallback,
	}
}

func (s *Service) matchRecords(ctx context.Context, q Query) retrieval.MatchResult {
	log := s.logger.WithContext(ctx).WithDepartment(q.Department)

	records, err := s.records.Load(ctx, q.Department)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load department records")
		records = nil
	}

	keywords := retrieval.ExtractKeywords(q.Message)
	match := retrieval.Match(records, keywords, q.Message)

	log.Debug().
		Int("records", len(records)).
		Strs("keywords", keywords).
		Str("phase", string(match.Phase)).
		Int("matches", len(match.Records)).
		Msg("Records matched")
	return match
}

func (s *Service) record(ctx context.Context, q Query, ans Answer, latency time.Duration) {
	if s.recorder == nil {
		return
	}

	ex := &storage.Exchange{
		RequestID:  ans.RequestID,
		UserType:   q.UserType,
		Department: q.Department,
		Role:       q.Role,
		Message:    q.Message,
		MatchPhase: string(ans.Phase),
		MatchCount: ans.Matches,
		Fallback:   ans.Fallback,
		Cached:     ans.Cached,
		LatencyMs:  latency.Milliseconds(),
	}
	if err := s.recorder.LogExchange(ctx, ex); err != nil {
		s.logger.WithContext(ctx).Warn().Err(err).Msg("Exchange not recorded")
	}
}
