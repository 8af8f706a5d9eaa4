package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/docproc/internal/client/client"
	"github.com/dmitrijs2005/docproc/internal/client/models"
	"github.com/dmitrijs2005/docproc/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// AuthFlow selects which backend login endpoint the session uses.
type AuthFlow string

const (
	// AuthFlowToken logs in through /token/ and loads the profile from /user/.
	AuthFlowToken AuthFlow = "jwt"
	// AuthFlowLegacy logs in through /auth/login/ with an email address.
	AuthFlowLegacy AuthFlow = "legacy"
)

func ParseAuthFlow(s string) (AuthFlow, error) {
	switch AuthFlow(strings.ToLower(strings.TrimSpace(s))) {
	case "", AuthFlowToken:
		return AuthFlowToken, nil
	case AuthFlowLegacy:
		return AuthFlowLegacy, nil
	}
	return "", fmt.Errorf("unknown auth flow %q", s)
}

type SessionState string

const (
	StateUnauthenticated SessionState = "unauthenticated"
	StateAuthenticating  SessionState = "authenticating"
	StateAuthenticated   SessionState = "authenticated"
)

const (
	msgLoginFailed       = "Login failed. Please try again."
	msgRegisterFailed    = "Registration failed. Please try again."
	msgLegacyLoginFailed = "Login failed"
	msgProfileFailed     = "Failed to load user profile"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// Credentials are what the login and register pages collect. The token flow
// uses Username, the legacy flow uses Email; Register sends both.
type Credentials struct {
	Username string
	Email    string
	Password []byte
}

// CredentialStore is the durable home of the token pair.
type CredentialStore interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	Save(ctx context.Context, access, refresh string) error
	Clear(ctx context.Context) error
}

// Session is an immutable snapshot of the session store.
type Session struct {
	State        SessionState
	User         *models.User
	AccessToken  string
	RefreshToken string
	Error        string
}

// IsAuthenticated is true exactly when an access token is held.
func (s Session) IsAuthenticated() bool {
	return s.AccessToken != ""
}

// SessionStore owns the credentials and the current user.
type SessionStore struct {
	mu        sync.Mutex
	client    client.Client
	creds     CredentialStore
	flow      AuthFlow
	logger    logging.Logger
	session   Session
	observers observers[Session]
}

// NewSessionStore restores the session from durable storage. No network
// call is made; the profile is loaded later through RefreshProfile.
func NewSessionStore(ctx context.Context, api client.Client, creds CredentialStore, flow AuthFlow, logger logging.Logger) (*SessionStore, error) {
	access, err := creds.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	refresh, err := creds.RefreshToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	s := &SessionStore{
		client: api,
		creds:  creds,
		flow:   flow,
		logger: logger,
	}
	s.session = Session{
		State:        stateFor(access),
		AccessToken:  access,
		RefreshToken: refresh,
	}
	return s, nil
}

func stateFor(access string) SessionState {
	if access != "" {
		return StateAuthenticated
	}
	return StateUnauthenticated
}

func (s *SessionStore) Flow() AuthFlow { return s.flow }

func (s *SessionStore) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *SessionStore) snapshotLocked() Session {
	snap := s.session
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}

func (s *SessionStore) IsAuthenticated() bool { return s.Snapshot().IsAuthenticated() }
func (s *SessionStore) User() *models.User    { return s.Snapshot().User }
func (s *SessionStore) Error() string         { return s.Snapshot().Error }

// Subscribe registers fn to receive a snapshot after every change.
func (s *SessionStore) Subscribe(fn func(Session)) (cancel func()) {
	return s.observers.add(fn)
}

func (s *SessionStore) update(fn func(*Session)) {
	s.mu.Lock()
	fn(&s.session)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.observers.notify(snap)
}

// Login authenticates with the configured flow. On failure no token is
// written and the session falls back to whatever durable state it had.
func (s *SessionStore) Login(ctx context.Context, c Credentials) error {
	s.begin()

	if s.flow == AuthFlowLegacy {
		if err := s.acquireLegacy(ctx, c, msgLegacyLoginFailed); err != nil {
			return fmt.Errorf("login: %w", err)
		}
		return nil
	}

	if err := s.acquireTokens(ctx, c, msgLoginFailed); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return s.loadProfile(ctx)
}

// Register creates the account and then logs in with the same credentials.
func (s *SessionStore) Register(ctx context.Context, c Credentials) error {
	s.begin()

	if err := s.client.Register(ctx, c.Username, c.Email, c.Password); err != nil {
		s.fail(ctx, err, msgRegisterFailed)
		return fmt.Errorf("register: %w", err)
	}

	if s.flow == AuthFlowLegacy {
		if err := s.acquireLegacy(ctx, c, msgRegisterFailed); err != nil {
			return fmt.Errorf("register: %w", err)
		}
		return nil
	}

	if err := s.acquireTokens(ctx, c, msgRegisterFailed); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return s.loadProfile(ctx)
}

func (s *SessionStore) begin() {
	s.update(func(ss *Session) {
		ss.State = StateAuthenticating
		ss.Error = ""
	})
}

func (s *SessionStore) acquireTokens(ctx context.Context, c Credentials, fallback string) error {
	pair, err := s.client.ObtainToken(ctx, c.Username, c.Password)
	if err == nil {
		err = s.creds.Save(ctx, pair.Access, pair.Refresh)
	}
	if err != nil {
		s.fail(ctx, err, fallback)
		return err
	}

	s.update(func(ss *Session) {
		ss.AccessToken = pair.Access
		ss.RefreshToken = pair.Refresh
		ss.State = StateAuthenticated
	})
	s.logger.Info(ctx, "logged in", "user", c.Username)
	return nil
}

func (s *SessionStore) acquireLegacy(ctx context.Context, c Credentials, fallback string) error {
	out, err := s.client.LoginLegacy(ctx, c.Email, c.Password)
	if err == nil {
		err = s.creds.Save(ctx, out.Token, "")
	}
	if err != nil {
		s.fail(ctx, err, fallback)
		return err
	}

	user := out.User
	s.update(func(ss *Session) {
		ss.AccessToken = out.Token
		ss.RefreshToken = ""
		ss.User = &user
		ss.State = StateAuthenticated
	})
	s.logger.Info(ctx, "logged in", "user", c.Email, "flow", string(AuthFlowLegacy))
	return nil
}

func (s *SessionStore) fail(ctx context.Context, err error, fallback string) {
	msg := client.DisplayMessage(err, fallback)
	s.logger.Warn(ctx, "authentication failed", "error", err)
	s.update(func(ss *Session) {
		ss.Error = msg
		ss.State = stateFor(ss.AccessToken)
	})
}

// RefreshProfile re-fetches the current user for a restored session.
func (s *SessionStore) RefreshProfile(ctx context.Context) error {
	if !s.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	return s.loadProfile(ctx)
}

// loadProfile keeps the session authenticated even when /user/ fails; the
// failure is recorded and returned.
func (s *SessionStore) loadProfile(ctx context.Context) error {
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		s.logger.Warn(ctx, "profile fetch failed", "error", err)
		s.update(func(ss *Session) { ss.Error = msgProfileFailed })
		return fmt.Errorf("load profile: %w", err)
	}

	s.update(func(ss *Session) { ss.User = user })
	return nil
}

// Logout forgets the session. Storage errors are logged and never block it.
func (s *SessionStore) Logout(ctx context.Context) {
	if err := s.creds.Clear(ctx); err != nil {
		s.logger.Error(ctx, "failed to clear stored credentials", "error", err)
	}
	s.update(func(ss *Session) {
		*ss = Session{State: StateUnauthenticated}
	})
}

func (s *SessionStore) ClearError() {
	s.update(func(ss *Session) { ss.Error = "" })
}

// ExpiresAt reads the exp claim of the access token. The signature is not
// checked; the result is for display only.
func (s *SessionStore) ExpiresAt() (time.Time, bool) {
	token := s.Snapshot().AccessToken
	if token == "" {
		return time.Time{}, false
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
