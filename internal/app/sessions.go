package app

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/jsamuelsen/pictoboard/internal/app/library"
	"github.com/jsamuelsen/pictoboard/internal/domain"
	"github.com/jsamuelsen/pictoboard/internal/ports"
)

// SessionsConfig contains the dependencies shared by every session.
type SessionsConfig struct {
	Resolver    SymbolResolver
	Library     *library.Library
	Prefs       *Preferences
	Tokenizer   ports.Tokenizer
	Executor    *Executor
	Logger      *slog.Logger
	FanoutLimit int
	Blank       *domain.BoardSnapshot
}

// Sessions is the registry of open boards, keyed by a random UUID.
// Sessions live in memory only; the library, symbol cache and preferences
// they share are the persistent parts.
type Sessions struct {
	cfg SessionsConfig

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessions creates an empty registry.
// Panics if Resolver, Library or Tokenizer is nil.
func NewSessions(cfg SessionsConfig) *Sessions {
	if cfg.Resolver == nil || cfg.Library == nil || cfg.Tokenizer == nil {
		panic("Sessions: Resolver, Library and Tokenizer are required")
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.Executor == nil {
		cfg.Executor = NewExecutor(cfg.Logger)
	}

	return &Sessions{
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Create opens a session with an empty board in the given language.
func (r *Sessions) Create(lang string) *Session {
	s := NewSession(SessionConfig{
		ID:          uuid.NewString(),
		Resolver:    r.cfg.Resolver,
		Library:     r.cfg.Library,
		Prefs:       r.cfg.Prefs,
		Tokenizer:   r.cfg.Tokenizer,
		Executor:    r.cfg.Executor,
		Logger:      r.cfg.Logger,
		Language:    lang,
		FanoutLimit: r.cfg.FanoutLimit,
		Blank:       r.cfg.Blank,
	})

	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()

	return s
}

// Get returns the session with id, or a NotFoundError.
func (r *Sessions) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.NewNotFoundError("board", id)
	}

	return s, nil
}

// Delete closes the session with id, or returns a NotFoundError.
func (r *Sessions) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return domain.NewNotFoundError("board", id)
	}

	delete(r.sessions, id)

	return nil
}

// Len returns the number of open sessions.
func (r *Sessions) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
