package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nimblecrm/crm-console/internal/api/metrics"
	"github.com/nimblecrm/crm-console/internal/core/domain"
	"github.com/nimblecrm/crm-console/internal/core/ports"
	"github.com/nimblecrm/crm-console/internal/pkg/token"
)

const (
	msgLoginOK        = "Login successful!"
	msgLoginFailed    = "Login failed"
	msgRegisterOK     = "Registration successful! Please login."
	msgRegisterFailed = "Registration failed"
	msgLogoutOK       = "Logged out successfully"
)

// Session holds the operator's identity for the lifetime of the console
// process. It starts in the loading state and is resolved exactly once by
// Bootstrap.
type Session struct {
	auth   ports.AuthAPI
	store  ports.CredentialStore
	notify ports.Notifier
	log    zerolog.Logger

	mu      sync.RWMutex
	user    *domain.User
	loading bool
	closed  bool

	bootOnce sync.Once
	ready    chan struct{}
}

func NewSession(auth ports.AuthAPI, store ports.CredentialStore, notify ports.Notifier, log zerolog.Logger) *Session {
	return &Session{
		auth:    auth,
		store:   store,
		notify:  notify,
		log:     log,
		loading: true,
		ready:   make(chan struct{}),
	}
}

// Bootstrap resolves the stored credentials into a user. Only the first
// call does any work. Without a stored token no request is made; a failed
// resolution clears the stored pair. The returned error is informational:
// the session is always resolved afterwards.
func (s *Session) Bootstrap(ctx context.Context) error {
	var err error
	s.bootOnce.Do(func() {
		err = s.bootstrap(ctx)
	})
	return err
}

func (s *Session) bootstrap(ctx context.Context) error {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		close(s.ready)
	}()

	creds := s.loadCredentials(ctx)
	if creds == nil {
		metrics.SessionEventsTotal.WithLabelValues("bootstrap_anonymous").Inc()
		s.log.Info().Msg("no stored credentials, starting anonymous")
		return nil
	}

	user, err := s.auth.Me(ctx)
	if err != nil {
		metrics.SessionEventsTotal.WithLabelValues("bootstrap_failed").Inc()
		s.clearCredentials(ctx)
		s.log.Warn().Err(err).Msg("stored credentials rejected, starting anonymous")
		return err
	}

	s.setUser(user)
	metrics.SessionEventsTotal.WithLabelValues("bootstrap_authenticated").Inc()
	s.log.Info().Str("username", user.Username).Str("role", user.Role).Msg("session restored")
	return nil
}

// Ready is closed once Bootstrap has finished.
func (s *Session) Ready() <-chan struct{} { return s.ready }

// Login exchanges the credentials for a token pair, stores it and resolves
// the user. On failure the session is left as it was.
func (s *Session) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, error) {
	if s.isClosed() {
		return nil, domain.ErrSessionClosed
	}

	creds, err := s.auth.Login(ctx, req)
	if err != nil {
		metrics.SessionEventsTotal.WithLabelValues("login_failed").Inc()
		s.notify.Error(ctx, domain.Message(err, msgLoginFailed))
		return nil, err
	}

	if err := s.store.Save(ctx, *creds); err != nil {
		metrics.SessionEventsTotal.WithLabelValues("login_failed").Inc()
		s.notify.Error(ctx, msgLoginFailed)
		return nil, err
	}

	user, err := s.auth.Me(ctx)
	if err != nil {
		metrics.SessionEventsTotal.WithLabelValues("login_failed").Inc()
		s.clearCredentials(ctx)
		s.notify.Error(ctx, domain.Message(err, msgLoginFailed))
		return nil, err
	}

	s.setUser(user)
	metrics.SessionEventsTotal.WithLabelValues("login").Inc()
	s.logToken(creds.AccessToken).Str("username", user.Username).Msg("operator logged in")
	s.notify.Success(ctx, msgLoginOK)
	return user, nil
}

// Register creates an account. It never authenticates the session.
func (s *Session) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	user, err := s.auth.Register(ctx, req)
	if err != nil {
		s.notify.Error(ctx, domain.Message(err, msgRegisterFailed))
		return nil, err
	}
	s.notify.Success(ctx, msgRegisterOK)
	return user, nil
}

// Logout forgets the stored pair and the user. The backend is not told.
func (s *Session) Logout(ctx context.Context) {
	s.clearCredentials(ctx)
	s.setUser(nil)
	metrics.SessionEventsTotal.WithLabelValues("logout").Inc()
	s.notify.Success(ctx, msgLogoutOK)
}

// Expire is the 401 path: the backend no longer accepts the stored token.
func (s *Session) Expire(ctx context.Context) {
	s.clearCredentials(ctx)

	s.mu.Lock()
	prev := s.user
	s.user = nil
	s.mu.Unlock()

	metrics.SessionEventsTotal.WithLabelValues("expire").Inc()
	ev := s.log.Warn()
	if prev != nil {
		ev = ev.Str("username", prev.Username)
	}
	ev.Msg("session expired, credentials cleared")
}

// Refresh trades the stored refresh token for a new pair. It is only
// called on explicit request.
func (s *Session) Refresh(ctx context.Context) error {
	if s.isClosed() {
		return domain.ErrSessionClosed
	}
	if !s.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}

	creds := s.loadCredentials(ctx)
	if creds == nil || creds.RefreshToken == "" {
		return domain.ErrNoRefreshToken
	}

	fresh, err := s.auth.Refresh(ctx, creds.RefreshToken)
	if err != nil {
		return err
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = creds.RefreshToken
	}
	if err := s.store.Save(ctx, *fresh); err != nil {
		return err
	}

	metrics.SessionEventsTotal.WithLabelValues("refresh").Inc()
	s.logToken(fresh.AccessToken).Msg("access token refreshed")
	return nil
}

// Close drops the in-memory user. Stored credentials survive so the next
// process can restore the session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.user = nil
	s.loading = false
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := domain.SessionState{Loading: s.loading}
	if s.user != nil {
		u := *s.user
		state.User = &u
	}
	return state
}

func (s *Session) IsLoading() bool { return s.Snapshot().Loading }

func (s *Session) IsAuthenticated() bool { return s.Snapshot().IsAuthenticated() }

func (s *Session) IsAdmin() bool { return s.Snapshot().IsAdmin() }

// CurrentUser returns a copy of the user, or nil when anonymous.
func (s *Session) CurrentUser() *domain.User { return s.Snapshot().User }

// UpdateUser replaces the cached user after the operator edits their own
// profile. It is a no-op when anonymous.
func (s *Session) UpdateUser(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.closed || user == nil {
		return
	}
	u := *user
	s.user = &u
}

func (s *Session) setUser(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if user == nil {
		s.user = nil
		return
	}
	u := *user
	s.user = &u
}

func (s *Session) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// loadCredentials treats an unreadable store as empty.
func (s *Session) loadCredentials(ctx context.Context) *domain.Credentials {
	creds, err := s.store.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("credential store unavailable, treating as empty")
		return nil
	}
	if creds == nil || creds.AccessToken == "" {
		return nil
	}
	return creds
}

func (s *Session) clearCredentials(ctx context.Context) {
	if err := s.store.Clear(context.WithoutCancel(ctx)); err != nil {
		s.log.Error().Err(err).Msg("failed to clear stored credentials")
	}
}

func (s *Session) logToken(accessToken string) *zerolog.Event {
	ev := s.log.Info()
	if c, ok := token.Inspect(accessToken); ok && !c.ExpiresAt.IsZero() {
		ev = ev.Time("token_expires_at", c.ExpiresAt)
	}
	return ev
}
