package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/sahilmate/multi-agent-form-processing-system/model"
)

// AuthState is the lifecycle of an auth context.
type AuthState int

const (
	StateUninitialized AuthState = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

func (s AuthState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	}
	return "unknown"
}

const (
	msgAuthFailed       = "Failed to authenticate"
	msgInvalidLogin     = "Invalid username or password"
	msgUnexpectedError  = "An unexpected error occurred. Please try again."
	msgProfileLoadError = "Failed to fetch user profile"
)

type authRoutes struct {
	token    string
	identity string
	// profileAfterLogin fetches the user from identity instead of building it
	// from the token response
	profileAfterLogin bool
}

var scopeRoutes = map[Scope]authRoutes{
	ScopeAdmin:   {token: "/api/admin/token", identity: "/api/admin/me"},
	ScopeCitizen: {token: "/api/citizens/token", identity: "/api/citizens/profile", profileAfterLogin: true},
}

// Auth is the login state of one scope. It owns the Session of its Client.
type Auth struct {
	client   *Client
	routes   authRoutes
	notifier Notifier

	mu    sync.RWMutex
	state AuthState
	err   string
}

// NewAuth builds the auth context for the client's session scope.
func NewAuth(c *Client, notifier Notifier) *Auth {
	return &Auth{
		client:   c,
		routes:   scopeRoutes[c.session.Scope()],
		notifier: orDiscard(notifier),
		state:    StateUninitialized,
	}
}

func (a *Auth) State() AuthState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Error is the last authentication error message, or "".
func (a *Auth) Error() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.err
}

func (a *Auth) User() *model.User {
	return a.client.session.User()
}

func (a *Auth) set(state AuthState, errMsg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = state
	a.err = errMsg
}

// Init resolves the persisted token into a user. A rejected token is cleared;
// a transport failure keeps it and records "Failed to authenticate".
func (a *Auth) Init(ctx context.Context) {
	a.set(StateLoading, "")

	token, err := a.client.session.Token()
	if err != nil || token == "" {
		a.client.session.SetUser(nil)
		a.set(StateAnonymous, "")
		return
	}

	user, err := a.fetchIdentity(ctx, token)
	switch {
	case err == nil:
		a.client.session.SetUser(user)
		a.set(StateAuthenticated, "")
	case StatusOf(err) != 0:
		a.client.session.Clear()
		a.set(StateAnonymous, "")
	default:
		a.client.session.SetUser(nil)
		a.set(StateAnonymous, msgAuthFailed)
	}
}

// Login exchanges credentials for a token. The new token is persisted only
// once the whole exchange succeeds, so a failed attempt leaves any existing
// session as it was. The reason is available from Error and a notice is sent.
func (a *Auth) Login(ctx context.Context, username, password string) bool {
	prev := a.State()
	a.set(StateLoading, "")

	form := url.Values{"username": {username}, "password": {password}}
	var tokenResp model.TokenResponse
	err := a.client.do(ctx, request{
		method:      http.MethodPost,
		path:        a.routes.token,
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
		anonymous:   true,
	}, &tokenResp)
	if err != nil {
		return a.fail(prev, loginMessage(err))
	}
	if tokenResp.AccessToken == "" {
		return a.fail(prev, msgInvalidLogin)
	}

	var user *model.User
	if a.routes.profileAfterLogin {
		user, err = a.fetchIdentity(ctx, tokenResp.AccessToken)
		if err != nil {
			return a.fail(prev, msgProfileLoadError)
		}
	} else {
		user = &model.User{
			ID:       username,
			Username: username,
			FullName: tokenResp.UserName,
			Role:     tokenResp.UserRole,
		}
	}

	if err := a.client.session.SetToken(tokenResp.AccessToken); err != nil {
		return a.fail(prev, msgUnexpectedError)
	}
	a.client.session.SetUser(user)
	a.set(StateAuthenticated, "")

	a.notifier.Notify(Notice{
		Title:       "Login successful",
		Description: "Welcome back, " + user.DisplayName() + "!",
	})
	return true
}

// fail reports a failed login. A session that was authenticated before the
// attempt stays authenticated.
func (a *Auth) fail(prev AuthState, msg string) bool {
	state := StateAnonymous
	if prev == StateAuthenticated {
		state = StateAuthenticated
	}
	a.set(state, msg)
	a.notifier.Notify(Notice{Title: "Login failed", Description: msg, Destructive: true})
	return false
}

func loginMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return msgInvalidLogin
	}
	return msgUnexpectedError
}

// Logout forgets the token and user immediately. The backend is not told.
func (a *Auth) Logout() {
	a.client.session.Clear()
	a.set(StateAnonymous, "")
}

func (a *Auth) fetchIdentity(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	err := a.client.do(ctx, request{method: http.MethodGet, path: a.routes.identity, token: token}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
