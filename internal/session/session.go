// Package session owns authentication state: the OAuth sign-in flow, the
// persisted session record, and notifications when the signed-in user
// changes.
//
// A [Manager] starts in [StateLoading] until Restore has checked the
// database for a stored session. Restore is fail-closed: any load error
// lands in [StateUnauthenticated] rather than propagating.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/models"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/repositories"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/server"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/services"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/shared"
)

// State is the authentication lifecycle state.
type State int

const (
	StateLoading State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return ""
	}
}

// Handler observes authentication state transitions.
type Handler func(state State, session *models.Session)

// defaultUserInfoURL is Google's OpenID userinfo endpoint, used to resolve
// the account id and email after the token exchange.
const defaultUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// Manager coordinates sign-in, sign-out, and session persistence.
type Manager struct {
	mu       sync.Mutex
	state    State
	session  *models.Session
	handlers map[int]Handler
	nextID   int

	cfg    shared.Config
	repo   *repositories.SessionRepository
	logger *log.Logger

	endpoint    oauth2.Endpoint
	userInfoURL string
	httpClient  *http.Client
	openBrowser func(url string) error
}

// Option customizes a Manager, mainly so tests can point it at local
// endpoints.
type Option func(*Manager)

// WithEndpoint overrides the OAuth provider endpoint.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(m *Manager) { m.endpoint = endpoint }
}

// WithUserInfoURL overrides the userinfo endpoint.
func WithUserInfoURL(url string) Option {
	return func(m *Manager) { m.userInfoURL = url }
}

// WithHTTPClient overrides the client used for userinfo requests.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) { m.httpClient = client }
}

// WithBrowserOpener overrides how the consent page is opened.
func WithBrowserOpener(open func(url string) error) Option {
	return func(m *Manager) { m.openBrowser = open }
}

// NewManager creates a Manager in [StateLoading].
func NewManager(cfg shared.Config, repo *repositories.SessionRepository, logger *log.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	m := &Manager{
		state:       StateLoading,
		handlers:    make(map[int]Handler),
		cfg:         cfg,
		repo:        repo,
		logger:      logger,
		endpoint:    google.Endpoint,
		userInfoURL: defaultUserInfoURL,
		httpClient:  http.DefaultClient,
		openBrowser: shared.OpenBrowser,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// oauthConfig builds the OAuth2 config from credentials and server settings.
func (m *Manager) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     m.cfg.Credentials.Google.ClientID,
		ClientSecret: m.cfg.Credentials.Google.ClientSecret,
		Endpoint:     m.endpoint,
		RedirectURL:  m.cfg.RedirectURI(),
		Scopes:       []string{services.YouTubeScope, "openid", "email"},
	}
}

// Restore loads the most recent persisted session. Expired sessions are
// refreshed when a refresh token is available; anything unrecoverable lands
// in [StateUnauthenticated].
func (m *Manager) Restore(ctx context.Context) {
	session, err := m.repo.Latest()
	if err != nil {
		if !errors.Is(err, shared.ErrSessionNotFound) {
			m.logger.Warn("failed to restore session", "error", err)
		}
		m.transition(StateUnauthenticated, nil)
		return
	}

	if session.Expired() {
		refreshed, err := m.refresh(ctx, session)
		if err != nil {
			m.logger.Warn("stored session could not be refreshed", "user", session.UserID(), "error", err)
			m.transition(StateUnauthenticated, nil)
			return
		}
		session = refreshed
	}

	m.logger.Info("restored session", "user", session.UserID(), "email", session.Email())
	m.transition(StateAuthenticated, session)
}

// refresh exchanges the refresh token for a new access token and persists
// the rotated pair.
func (m *Manager) refresh(ctx context.Context, session *models.Session) (*models.Session, error) {
	if session.RefreshToken() == "" {
		return nil, fmt.Errorf("%w: no refresh token", shared.ErrTokenExpired)
	}

	stale := &oauth2.Token{
		AccessToken:  session.AccessToken(),
		RefreshToken: session.RefreshToken(),
		Expiry:       session.Expiry(),
	}

	fresh, err := m.oauthConfig().TokenSource(ctx, stale).Token()
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}

	session.UpdateTokens(fresh.AccessToken, fresh.RefreshToken, fresh.Expiry)
	if err := m.repo.Update(session); err != nil {
		return nil, fmt.Errorf("failed to persist refreshed session: %w", err)
	}
	return session, nil
}

// GetSession returns the current state and session. The session is nil
// unless the state is [StateAuthenticated].
func (m *Manager) GetSession() (State, *models.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.session
}

// OnAuthStateChange registers a handler for state transitions. The handler
// fires immediately with the current state, then on every transition. The
// returned function unsubscribes it.
func (m *Manager) OnAuthStateChange(handler Handler) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.handlers[id] = handler
	state, session := m.state, m.session
	m.mu.Unlock()

	handler(state, session)

	return func() {
		m.mu.Lock()
		delete(m.handlers, id)
		m.mu.Unlock()
	}
}

// transition swaps the state and notifies subscribers outside the lock.
func (m *Manager) transition(state State, session *models.Session) {
	m.mu.Lock()
	m.state = state
	m.session = session
	handlers := make([]Handler, 0, len(m.handlers))
	for _, h := range m.handlers {
		handlers = append(handlers, h)
	}
	m.mu.Unlock()

	for _, h := range handlers {
		h(state, session)
	}
}

// SignInWithOAuth runs the full authorization code flow: start a loopback
// callback server, open the provider's consent page, exchange the code,
// resolve the account, and persist the session.
func (m *Manager) SignInWithOAuth(ctx context.Context) (*models.Session, error) {
	if m.cfg.Credentials.Google.ClientID == "" || m.cfg.Credentials.Google.ClientSecret == "" {
		return nil, fmt.Errorf("%w: google client id and secret are required", shared.ErrMissingCredentials)
	}

	config := m.oauthConfig()
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}
	handler := server.NewOAuthHandler(config, state)

	router := server.NewBasicRouter()
	router.Use(server.Logging(m.logger))
	router.Handler(handler)

	addr := net.JoinHostPort(m.cfg.Server.Host, fmt.Sprintf("%d", m.cfg.Server.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind callback server on %s: %w", addr, err)
	}

	srv := &http.Server{Handler: router}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("callback server failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	m.logger.Info("opening browser for sign-in", "url", authURL)
	if err := m.openBrowser(authURL); err != nil {
		m.logger.Warn("could not open browser, visit the URL manually", "url", authURL, "error", err)
	}

	var result server.OAuthResult
	select {
	case result = <-handler.Result():
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: sign-in cancelled: %v", shared.ErrTimeout, ctx.Err())
	}
	if result.Error() != nil {
		return nil, result.Error()
	}

	id, email, err := m.fetchUserInfo(ctx, result.Token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}

	session := models.NewSession(id, email, result.Token.AccessToken, result.Token.RefreshToken, result.Token.Expiry)
	if err := m.repo.Create(session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	m.logger.Info("signed in", "user", id, "email", email)
	m.transition(StateAuthenticated, session)
	return session, nil
}

// SignOut deletes the persisted session and drops to unauthenticated.
// Signing out while signed out is a no-op.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	session := m.session
	m.mu.Unlock()

	if session != nil {
		if err := m.repo.DeleteByUserID(session.UserID()); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		m.logger.Info("signed out", "user", session.UserID())
	}

	m.transition(StateUnauthenticated, nil)
	return nil
}

// TokenSource returns an auto-refreshing token source for the current
// session, persisting rotated tokens as a side effect.
func (m *Manager) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	m.mu.Lock()
	session := m.session
	state := m.state
	m.mu.Unlock()

	if state != StateAuthenticated || session == nil {
		return nil, shared.ErrNotAuthenticated
	}

	token := &oauth2.Token{
		AccessToken:  session.AccessToken(),
		RefreshToken: session.RefreshToken(),
		Expiry:       session.Expiry(),
	}

	base := m.oauthConfig().TokenSource(ctx, token)
	return oauth2.ReuseTokenSource(token, &persistingSource{base: base, session: session, repo: m.repo, logger: m.logger}), nil
}

// persistingSource writes rotated tokens back to the database so restarts
// pick up the freshest pair.
type persistingSource struct {
	base    oauth2.TokenSource
	session *models.Session
	repo    *repositories.SessionRepository
	logger  *log.Logger
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	token, err := p.base.Token()
	if err != nil {
		return nil, err
	}

	if token.AccessToken != p.session.AccessToken() {
		p.session.UpdateTokens(token.AccessToken, token.RefreshToken, token.Expiry)
		if err := p.repo.Update(p.session); err != nil {
			p.logger.Warn("failed to persist rotated token", "error", err)
		}
	}
	return token, nil
}

// fetchUserInfo resolves the account id and email behind an access token.
func (m *Manager) fetchUserInfo(ctx context.Context, accessToken string) (id, email string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.userInfoURL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("%w: userinfo returned status %d", shared.ErrAuthFailed, resp.StatusCode)
	}

	var info struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", "", fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if info.Sub == "" {
		return "", "", fmt.Errorf("%w: userinfo missing subject", shared.ErrAuthFailed)
	}

	return info.Sub, info.Email, nil
}
