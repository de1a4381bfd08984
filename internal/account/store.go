// Package account keeps the registry of users and the identity currently
// signed in.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/events"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/persist"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingFields      = errors.New("email, name and password are required")
)

// UserMessage renders an account error for display. Unknown email and
// wrong password read the same so the message does not reveal which
// addresses are registered.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid credentials. Check your email and password."
	case errors.Is(err, ErrDuplicateEmail):
		return "Error creating account: that email is already registered."
	case errors.Is(err, ErrMissingFields):
		return "Error creating account: email, name and password are required."
	default:
		return "Error creating account."
	}
}

// Store is the user registry. Every successful signup rewrites the whole
// registry under persist.UsersKey before returning.
type Store struct {
	mu        sync.Mutex
	adapter   *persist.Adapter
	publisher events.Publisher
	logger    *log.Logger
	hashCost  int

	users   map[string]core.User
	current *core.User
}

type Option func(*Store)

func WithPublisher(p events.Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithHashCost sets the bcrypt cost used for new passwords.
func WithHashCost(cost int) Option {
	return func(s *Store) { s.hashCost = cost }
}

// New loads the registry. A missing or unreadable registry starts empty.
func New(ctx context.Context, adapter *persist.Adapter, opts ...Option) *Store {
	s := &Store{
		adapter:   adapter,
		publisher: events.Nop{},
		logger:    log.Discard(),
		hashCost:  bcrypt.DefaultCost,
		users:     make(map[string]core.User),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent(log.ComponentAccount)

	stored, _ := persist.Load[map[string]core.User](ctx, adapter, persist.UsersKey)
	for _, u := range stored {
		u.Email = core.NormalizeEmail(u.Email)
		s.users[u.Email] = u
	}
	s.logger.DebugContext(ctx, "User registry loaded", log.FieldCount, len(s.users))
	return s
}

// Signup registers a new user and signs them in.
func (s *Store) Signup(ctx context.Context, email, name, password string) (core.User, error) {
	email = core.NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" || password == "" {
		return core.User{}, ErrMissingFields
	}

	s.mu.Lock()
	if _, exists := s.users[email]; exists {
		s.mu.Unlock()
		s.logger.InfoContext(ctx, "Signup rejected", log.FieldOperation, log.OpSignup, log.FieldEmail, email)
		return core.User{}, fmt.Errorf("signup %s: %w", email, ErrDuplicateEmail)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		s.mu.Unlock()
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := core.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}
	s.users[email] = user
	s.adapter.Save(ctx, persist.UsersKey, s.users)
	s.current = &user
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "User signed up", log.FieldOperation, log.OpSignup, log.FieldEmail, email)
	s.publish(ctx, events.Event{Type: events.UserSignedUp, Email: email, RecordID: user.ID.String()})
	return user, nil
}

// Login signs in the user with the given email and password. An unknown
// email and a wrong password fail with the same error.
func (s *Store) Login(ctx context.Context, email, password string) (core.User, error) {
	email = core.NormalizeEmail(email)

	s.mu.Lock()
	user, ok := s.users[email]
	if !ok || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.mu.Unlock()
		s.logger.InfoContext(ctx, "Login rejected", log.FieldOperation, log.OpLogin, log.FieldEmail, email)
		return core.User{}, ErrInvalidCredentials
	}
	s.current = &user
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "User logged in", log.FieldOperation, log.OpLogin, log.FieldEmail, email)
	s.publish(ctx, events.Event{Type: events.UserLoggedIn, Email: email, RecordID: user.ID.String()})
	return user, nil
}

// Logout clears the current identity. Calling it with nobody signed in
// does nothing.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.mu.Unlock()

	if prev == nil {
		return
	}
	s.logger.InfoContext(ctx, "User logged out", log.FieldOperation, log.OpLogout, log.FieldEmail, prev.Email)
	s.publish(ctx, events.Event{Type: events.UserLoggedOut, Email: prev.Email})
}

// Current returns the signed-in user, if any.
func (s *Store) Current() (core.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return core.User{}, false
	}
	return *s.current, true
}

// Count returns the number of registered users.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *Store) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "Event publish failed", log.FieldEvent, string(e.Type), log.FieldError, err)
	}
}
