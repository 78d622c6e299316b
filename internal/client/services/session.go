// Package services contains application services for the sessionkit client.
// This file defines the mock session service: login, signup, logout, current
// user rehydration, token refresh and password reset against an in-memory
// roster, with the session mirrored into a kv.Store.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/agentfree/sessionkit/internal/client/models"
	"github.com/agentfree/sessionkit/internal/client/repositories/kv"
	"github.com/agentfree/sessionkit/internal/common"
	"github.com/agentfree/sessionkit/internal/logging"
)

// ResetPasswordMessage is returned by a successful ResetPassword.
const ResetPasswordMessage = "Password reset email sent"

// SessionService defines the session operations used by the CLI.
//
// Contract:
//   - Login/Signup: start a session and persist it.
//   - Logout: end the session and remove it from storage.
//   - CurrentUser: rehydrate the session from storage.
//   - RefreshToken: replace the token of the active session.
//   - ResetPassword: trigger the reset side effect for a known email.
//
// All blocking methods honor context cancellation during their delay.
type SessionService interface {
	Login(ctx context.Context, username, password string) (*models.AuthResult, error)
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResult, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
	RefreshToken(ctx context.Context) (string, error)
	ResetPassword(ctx context.Context, email string) (string, error)
	IsAuthenticated() bool
	Token(ctx context.Context) (string, error)
	User(ctx context.Context) (*models.User, error)
}

// Option configures a MockSessionService.
type Option func(*MockSessionService)

// WithLatency sets the per-operation delays.
func WithLatency(l Latency) Option {
	return func(s *MockSessionService) { s.latency = l }
}

// WithTokenIssuer replaces the default OpaqueIssuer.
func WithTokenIssuer(i TokenIssuer) Option {
	return func(s *MockSessionService) { s.issuer = i }
}

// WithRoster replaces the demo accounts.
func WithRoster(r *Roster) Option {
	return func(s *MockSessionService) { s.roster = r }
}

// WithNotifier sets where password resets are delivered.
func WithNotifier(n Notifier) Option {
	return func(s *MockSessionService) { s.notifier = n }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(s *MockSessionService) { s.logger = l }
}

// WithEventHandler registers fn for session events. fn runs synchronously on
// the caller's goroutine with no locks held.
func WithEventHandler(fn func(Event)) Option {
	return func(s *MockSessionService) { s.onEvent = fn }
}

// WithClock sets the time source for tokens and account creation.
func WithClock(now func() time.Time) Option {
	return func(s *MockSessionService) { s.now = now }
}

// MockSessionService is the SessionService backed by a Roster and a kv.Store.
type MockSessionService struct {
	store    kv.Store
	roster   *Roster
	issuer   TokenIssuer
	notifier Notifier
	logger   logging.Logger
	latency  Latency
	onEvent  func(Event)
	now      func() time.Time

	// mu guards token and user. It is never held across a delay.
	mu    sync.RWMutex
	token string
	user  *models.User
}

var _ SessionService = (*MockSessionService)(nil)

// NewSessionService builds a service over store. Without options it uses the
// demo roster, opaque tokens, no latency and a discarding logger.
func NewSessionService(store kv.Store, opts ...Option) *MockSessionService {
	s := &MockSessionService{
		store:  store,
		issuer: OpaqueIssuer{},
		logger: logging.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.roster == nil {
		s.roster = NewRoster(DefaultAccounts(s.now())...)
	}
	if s.notifier == nil {
		s.notifier = NewLogNotifier(s.logger)
	}
	s.logger = s.logger.With("module", "session")
	return s
}

// Roster exposes the user list, mainly for inspection in tests and the CLI.
func (s *MockSessionService) Roster() *Roster {
	return s.roster
}

// Login authenticates username/password against the roster and starts a
// session. Wrong credentials yield common.ErrInvalidCredentials.
func (s *MockSessionService) Login(ctx context.Context, username, password string) (*models.AuthResult, error) {
	if err := pause(ctx, s.latency.Login); err != nil {
		return nil, err
	}

	res, err := s.login(ctx, username, password)
	if err != nil {
		s.fail(ctx, "login", err)
		return nil, err
	}

	s.logger.Info(ctx, "login succeeded", "user_id", res.User.ID)
	s.emit(Event{Type: EventLogin, User: res.User.Clone(), Token: res.Token})
	return res, nil
}

func (s *MockSessionService) login(ctx context.Context, username, password string) (*models.AuthResult, error) {
	acc, ok := s.roster.Match(username, password)
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	user := acc.Sanitized()
	token, err := s.issuer.Issue(user.ID, s.now())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if err := s.startSession(ctx, token, user); err != nil {
		return nil, err
	}
	return &models.AuthResult{User: user.Clone(), Token: token}, nil
}

// Signup registers a new customer and logs in with the same credentials.
// A taken username yields common.ErrUsernameTaken and leaves the roster as is.
func (s *MockSessionService) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResult, error) {
	if err := pause(ctx, s.latency.Signup); err != nil {
		return nil, err
	}

	acc, err := s.roster.Add(req, s.now())
	if err != nil {
		s.fail(ctx, "signup", err)
		return nil, err
	}
	s.logger.Info(ctx, "account created", "user_id", acc.ID, "username", acc.Username)

	return s.Login(ctx, req.Username, req.Password)
}

// Logout ends the session in memory and removes both storage keys.
func (s *MockSessionService) Logout(ctx context.Context) error {
	if err := pause(ctx, s.latency.Logout); err != nil {
		return err
	}

	s.mu.Lock()
	s.token, s.user = "", nil
	err := kv.Update(ctx, s.store, func(ctx context.Context, tx kv.Store) error {
		if err := tx.Remove(ctx, common.TokenStorageKey); err != nil {
			return err
		}
		return tx.Remove(ctx, common.UserStorageKey)
	})
	s.mu.Unlock()

	if err != nil {
		err = fmt.Errorf("clear session: %w", err)
		s.fail(ctx, "logout", err)
		return err
	}

	s.logger.Info(ctx, "logged out")
	s.emit(Event{Type: EventLogout})
	return nil
}

// CurrentUser rehydrates the session from storage. It returns (nil, nil)
// unless both the token and the user payload are stored.
func (s *MockSessionService) CurrentUser(ctx context.Context) (*models.User, error) {
	if err := pause(ctx, s.latency.CurrentUser); err != nil {
		return nil, err
	}

	token, user, err := s.loadSession(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" || user == nil {
		return nil, nil
	}

	s.mu.Lock()
	s.token, s.user = token, user
	s.mu.Unlock()

	return user.Clone(), nil
}

// RefreshToken issues a new token for the current user and persists it.
// Without an active session it fails with common.ErrNoToken.
func (s *MockSessionService) RefreshToken(ctx context.Context) (string, error) {
	if err := pause(ctx, s.latency.RefreshToken); err != nil {
		return "", err
	}

	token, user, err := s.refresh(ctx)
	if err != nil {
		s.fail(ctx, "refresh", err)
		return "", err
	}

	s.logger.Debug(ctx, "token refreshed", "user_id", user.ID)
	s.emit(Event{Type: EventTokenRefresh, User: user, Token: token})
	return token, nil
}

func (s *MockSessionService) refresh(ctx context.Context) (string, *models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" || s.user == nil {
		return "", nil, common.ErrNoToken
	}

	token, err := s.issuer.Issue(s.user.ID, s.now())
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	if err := s.store.Set(ctx, common.TokenStorageKey, []byte(token)); err != nil {
		return "", nil, fmt.Errorf("save token: %w", err)
	}

	s.token = token
	return token, s.user.Clone(), nil
}

// ResetPassword hands the reset to the Notifier when email belongs to a
// known account, otherwise it fails with common.ErrEmailNotFound.
func (s *MockSessionService) ResetPassword(ctx context.Context, email string) (string, error) {
	if err := pause(ctx, s.latency.ResetPassword); err != nil {
		return "", err
	}

	if _, ok := s.roster.ByEmail(email); !ok {
		s.fail(ctx, "reset_password", common.ErrEmailNotFound)
		return "", common.ErrEmailNotFound
	}

	if err := s.notifier.SendPasswordReset(ctx, email); err != nil {
		err = fmt.Errorf("send password reset: %w", err)
		s.fail(ctx, "reset_password", err)
		return "", err
	}
	return ResetPasswordMessage, nil
}

func (s *MockSessionService) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// Token returns the in-memory token, falling back to storage.
func (s *MockSessionService) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token != "" {
		return token, nil
	}

	b, err := s.store.Get(ctx, common.TokenStorageKey)
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return string(b), nil
}

// User returns the in-memory user, falling back to storage.
func (s *MockSessionService) User(ctx context.Context) (*models.User, error) {
	s.mu.RLock()
	user := s.user.Clone()
	s.mu.RUnlock()
	if user != nil {
		return user, nil
	}
	return s.loadUser(ctx)
}

// startSession sets the in-memory session first and then mirrors it to the
// store in one update. A failed write restores the previous session.
func (s *MockSessionService) startSession(ctx context.Context, token string, user *models.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prevToken, prevUser := s.token, s.user
	s.token, s.user = token, user

	err = kv.Update(ctx, s.store, func(ctx context.Context, tx kv.Store) error {
		if err := tx.Set(ctx, common.TokenStorageKey, []byte(token)); err != nil {
			return err
		}
		return tx.Set(ctx, common.UserStorageKey, payload)
	})
	if err != nil {
		s.token, s.user = prevToken, prevUser
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *MockSessionService) loadSession(ctx context.Context) (string, *models.User, error) {
	b, err := s.store.Get(ctx, common.TokenStorageKey)
	if err != nil {
		return "", nil, fmt.Errorf("load token: %w", err)
	}
	user, err := s.loadUser(ctx)
	if err != nil {
		return "", nil, err
	}
	return string(b), user, nil
}

func (s *MockSessionService) loadUser(ctx context.Context) (*models.User, error) {
	b, err := s.store.Get(ctx, common.UserStorageKey)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(b) == 0 {
		return nil, nil
	}

	// a stored JSON null decodes to a nil pointer and reads as absent
	var user *models.User
	if err := json.Unmarshal(b, &user); err != nil {
		return nil, fmt.Errorf("decode stored user: %w", err)
	}
	return user, nil
}

func (s *MockSessionService) fail(ctx context.Context, op string, err error) {
	s.logger.Warn(ctx, "session operation failed", "op", op, "error", err)
	s.emit(Event{Type: EventError, Op: op, Err: err})
}

func (s *MockSessionService) emit(e Event) {
	if s.onEvent == nil {
		return
	}
	e.At = s.now()
	s.onEvent(e)
}
