// Package chat runs the conversation loop: classify each message, hand
// it to the matching intent handler, and keep a bounded transcript for
// the front ends.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"bookbot/internal/handler"
	"bookbot/internal/intent"
	"bookbot/internal/respond"
)

const defaultMaxHistory = 50

type Service struct {
	extractor intent.Extractor
	deps      handler.Deps
	history   []Message
	maxMsgs   int
	now       func() time.Time
	log       *zap.Logger
}

type ServiceOption func(*Service)

// WithMaxHistory caps the transcript at n messages; older turns are
// dropped pairwise.
func WithMaxHistory(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.maxMsgs = n
		}
	}
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func NewService(extractor intent.Extractor, deps handler.Deps, opts ...ServiceOption) *Service {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	s := &Service{
		extractor: extractor,
		deps:      deps,
		history:   make([]Message, 0, 16),
		maxMsgs:   defaultMaxHistory,
		now:       time.Now,
		log:       deps.Log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send processes one user message and returns the assistant's reply.
func (s *Service) Send(ctx context.Context, input string) (respond.Reply, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return respond.Reply{}, errors.New("empty input")
	}
	now := s.now()

	res, err := s.extractor.Extract(ctx, input)
	if err != nil {
		return respond.Reply{}, err
	}
	s.log.Debug("message classified",
		zap.String("intent", res.Intent),
		zap.String("confidence", res.Confidence))

	reply, err := s.dispatch(ctx, input, res, now)
	if err != nil {
		return respond.Reply{}, err
	}

	s.history = append(s.history,
		Message{Role: RoleUser, Content: input},
		Message{Role: RoleAssistant, Content: reply.Text})
	if len(s.history) > s.maxMsgs {
		s.history = s.history[len(s.history)-s.maxMsgs:]
	}
	return reply, nil
}

func (s *Service) dispatch(ctx context.Context, input string, res intent.Result, now time.Time) (respond.Reply, error) {
	h, ok := handler.For(res.Intent)
	if !ok {
		return respond.Help(s.deps.Rules), nil
	}
	return h.Handle(ctx, s.deps, handler.Request{
		Message: input,
		Intent:  res,
		Now:     now,
	})
}

// History returns a copy of the transcript so far.
func (s *Service) History() []Message {
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

// Clear wipes the transcript.
func (s *Service) Clear() {
	s.history = s.history[:0]
}
