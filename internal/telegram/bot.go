// Package telegram runs the assistant as a Telegram bot with one chat
// session per Telegram chat.
package telegram

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"bookbot/internal/chat"
)

const sessionIdleLimit = 2 * time.Hour

type session struct {
	service *chat.Service
	lastUse atomic.Int64 // unix nanos; written per turn, read by the sweeper
	mu      sync.Mutex
}

func (s *session) touch() {
	s.lastUse.Store(time.Now().UnixNano())
}

// Bot bridges Telegram chats to the booking assistant.
type Bot struct {
	bot        *tele.Bot
	newService func() *chat.Service
	log        *zap.Logger

	sessions   map[int64]*session
	sessionsMu sync.RWMutex
}

// NewBot builds the bot. newService is called once per Telegram chat so
// every chat keeps its own transcript.
func NewBot(token string, newService func() *chat.Service, log *zap.Logger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}

	bot := &Bot{
		bot:        b,
		newService: newService,
		log:        log,
		sessions:   make(map[int64]*session),
	}
	bot.setupHandlers()
	return bot, nil
}

// Start polls for messages until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.log.Info("telegram bot starting", zap.String("username", b.bot.Me.Username))

	go b.cleanupLoop(ctx)
	go func() {
		<-ctx.Done()
		b.log.Info("telegram bot shutting down")
		b.bot.Stop()
	}()

	b.bot.Start()
	return nil
}

func (b *Bot) setupHandlers() {
	b.bot.Handle("/start", func(c tele.Context) error {
		return c.Send("Hi! I book appointments. Try \"book tomorrow at 2 PM\" " +
			"or \"what's free on Friday?\".")
	})

	b.bot.Handle("/clear", func(c tele.Context) error {
		b.sessionsMu.Lock()
		if s, ok := b.sessions[c.Chat().ID]; ok {
			s.mu.Lock()
			s.service.Clear()
			s.mu.Unlock()
		}
		b.sessionsMu.Unlock()
		return c.Send("Conversation cleared.")
	})

	b.bot.Handle(tele.OnText, b.handleMessage)
}

func (b *Bot) handleMessage(c tele.Context) error {
	_ = c.Notify(tele.Typing)

	s := b.getSession(c.Chat().ID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	turnCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	reply, err := s.service.Send(turnCtx, c.Text())
	if err != nil {
		b.log.Warn("telegram turn failed",
			zap.Int64("chat_id", c.Chat().ID), zap.Error(err))
		return c.Send("Something went wrong. Please try again.")
	}
	return c.Send(reply.Text)
}

func (b *Bot) getSession(chatID int64) *session {
	b.sessionsMu.RLock()
	s, ok := b.sessions[chatID]
	b.sessionsMu.RUnlock()
	if ok {
		return s
	}

	b.sessionsMu.Lock()
	defer b.sessionsMu.Unlock()
	if s, ok = b.sessions[chatID]; ok {
		return s
	}
	s = &session{service: b.newService()}
	s.touch()
	b.sessions[chatID] = s
	return s
}

// cleanupLoop drops sessions idle for longer than sessionIdleLimit.
func (b *Bot) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.sweep(time.Now().Add(-sessionIdleLimit))
		}
	}
}

// sweep drops every session last used before cutoff.
func (b *Bot) sweep(cutoff time.Time) {
	b.sessionsMu.Lock()
	defer b.sessionsMu.Unlock()
	for id, s := range b.sessions {
		if s.lastUse.Load() < cutoff.UnixNano() {
			delete(b.sessions, id)
		}
	}
}
