// Package chat owns the assistant conversation: the display transcript, its
// role-tagged history mirror, and the single request in flight to the
// completion provider.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"thinky/config"
	"thinky/model"

	"github.com/google/uuid"
)

var (
	// ErrBusy is returned when a reply is already pending.
	ErrBusy = errors.New("chat: a reply is already in flight")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("chat: session closed")

	// ErrDiscarded is returned when the session was reset or re-initialized
	// while the request was in flight; the reply was dropped.
	ErrDiscarded = errors.New("chat: reply discarded after reset")
)

// Options configures every request a Session sends.
type Options struct {
	SystemPrompt string
	MaxTokens    int64
	Temperature  float64

	// Timeout bounds a single exchange. Zero means no limit beyond the
	// caller's context and the session lifetime.
	Timeout time.Duration

	// Welcome builds the greeting for a display name.
	Welcome func(displayName string) string
}

// DefaultOptions mirrors the defaults in config.
func DefaultOptions() Options {
	return Options{
		SystemPrompt: config.DefaultSystemPrompt,
		MaxTokens:    500,
		Temperature:  0.5,
		Timeout:      120 * time.Second,
		Welcome:      DefaultWelcome,
	}
}

// OptionsFromConfig builds Options from loaded settings.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	if cfg.SystemPrompt != "" {
		opts.SystemPrompt = cfg.SystemPrompt
	}
	if cfg.MaxTokens > 0 {
		opts.MaxTokens = cfg.MaxTokens
	}
	opts.Temperature = cfg.Temperature
	return opts
}

func DefaultWelcome(displayName string) string {
	if displayName == "" {
		return "Hi! I'm ThinkyBot :)\nHow can I assist you?"
	}
	return fmt.Sprintf("Hi %s! I'm ThinkyBot :)\nHow can I assist you?", displayName)
}

// Session is safe for concurrent use. At most one request is in flight.
type Session struct {
	provider model.Provider
	opts     Options

	// lifetime context; cancelled by Close
	ctx  context.Context
	stop context.CancelFunc

	mu          sync.Mutex
	displayName string
	messages    []model.ChatMessage
	history     []model.Turn
	loading     bool
	closed      bool
	generation  uint64
	cancel      context.CancelFunc

	now   func() time.Time
	newID func() string
}

// NewSession creates a session and seeds it with the welcome message for
// displayName.
func NewSession(p model.Provider, opts Options, displayName string) *Session {
	if opts.Welcome == nil {
		opts.Welcome = DefaultWelcome
	}
	ctx, stop := context.WithCancel(context.Background())
	s := &Session{
		provider: p,
		opts:     opts,
		ctx:      ctx,
		stop:     stop,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	s.Initialize(displayName)
	return s
}

// Initialize replaces the transcript and history with a single welcome
// entry for displayName. Any request in flight is cancelled and its reply
// will be discarded.
func (s *Session) Initialize(displayName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(displayName)
}

// ResetChat clears the conversation and re-seeds the welcome message for
// the current display name.
func (s *Session) ResetChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(s.displayName)
}

func (s *Session) resetLocked(displayName string) {
	s.cancelInFlightLocked()
	s.generation++
	s.loading = false
	s.displayName = displayName

	welcome := model.ChatMessage{
		ID:        s.newID(),
		Sender:    model.SenderBot,
		Text:      s.opts.Welcome(displayName),
		Timestamp: s.now(),
	}
	s.messages = []model.ChatMessage{welcome}
	s.history = []model.Turn{welcome.Turn()}
}

func (s *Session) cancelInFlightLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// SendUserMessage appends text as a user turn and asks the provider for a
// reply. Blank text is ignored.
//
// A failed exchange never changes the transcript beyond the user message;
// the error is logged and returned for diagnostics only. Loading is cleared
// on every path.
func (s *Session) SendUserMessage(ctx context.Context, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.loading {
		s.mu.Unlock()
		return ErrBusy
	}

	userMsg := model.ChatMessage{
		ID:        s.newID(),
		Sender:    model.SenderUser,
		Text:      trimmed,
		Timestamp: s.now(),
	}
	s.messages = append(s.messages, userMsg)
	s.history = append(s.history, userMsg.Turn())
	s.loading = true

	gen := s.generation
	reqCtx, cancel := s.requestContext(ctx)
	s.cancel = cancel

	req := model.CompletionRequest{
		SystemPrompt: s.opts.SystemPrompt,
		History:      append([]model.Turn(nil), s.history...),
		MaxTokens:    s.opts.MaxTokens,
		Temperature:  s.opts.Temperature,
	}
	s.mu.Unlock()

	start := time.Now()
	reply, err := s.provider.Complete(reqCtx, req)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Chat] reply for generation %d dropped (now %d)", gen, s.generation)
		}
		return ErrDiscarded
	}
	s.loading = false
	s.cancel = nil

	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Chat] completion failed after %v: %v", time.Since(start), err)
		}
		return fmt.Errorf("chat completion: %w", err)
	}

	botMsg := model.ChatMessage{
		ID:        s.newID(),
		Sender:    model.SenderBot,
		Text:      reply,
		Timestamp: s.now(),
	}
	s.messages = append(s.messages, botMsg)
	s.history = append(s.history, botMsg.Turn())

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Chat] reply received after %v - %d chars", time.Since(start), len(reply))
	}
	return nil
}

// requestContext derives the context for one exchange: cancelled by the
// caller, by the session lifetime, by a reset, or by the timeout.
func (s *Session) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	var ctx context.Context
	var cancel context.CancelFunc
	if s.opts.Timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, s.opts.Timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}
	stopAfter := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stopAfter()
		cancel()
	}
}

// Close cancels any request in flight. Later sends return ErrClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancelInFlightLocked()
	s.generation++
	s.loading = false
	s.stop()
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ChatMessage(nil), s.messages...)
}

// History returns a copy of the history mirror.
func (s *Session) History() []model.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Turn(nil), s.history...)
}

// Loading reports whether a request is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) DisplayName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayName
}

// Model returns the provider's model identifier.
func (s *Session) Model() string {
	return s.provider.GetModel()
}

const pingTimeout = 5 * time.Second

// Ping checks that the provider answers. It never touches the transcript.
func (s *Session) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.provider.Ping(ctx); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Chat] provider ping failed: %v", err)
		}
		return fmt.Errorf("ping %s: %w", s.provider.GetModel(), err)
	}
	return nil
}
