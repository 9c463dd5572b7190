// Package auth implements the sign-in flows of the portal against the
// identity provider named in the portal config, and keeps the signed-in user
// both in the state holder and in a persistent session store.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/zjrosen/hubctl/internal/domain/hub"
	"github.com/zjrosen/hubctl/internal/hubapi"
	"github.com/zjrosen/hubctl/internal/infrastructure/sqlite"
	"github.com/zjrosen/hubctl/internal/log"
	"github.com/zjrosen/hubctl/internal/state"
)

// Identity provider endpoints, relative to the idp url of the portal config.
const (
	AuthorizationEndpoint = "/oauth2/authorize"
	LogoutEndpoint        = "/oidc/logout"
	CommonAuthEndpoint    = "/commonauth"
)

// Session store keys.
const (
	UserKey         = "user"
	FederatedIdPKey = "hub-fidp"
)

// FederatedIdP names an upstream identity provider offered on the login page.
type FederatedIdP string

const (
	FIdPGoogle FederatedIdP = "google"
	FIdPGitHub FederatedIdP = "github"
)

// ParseFederatedIdP accepts "", "google" or "github".
func ParseFederatedIdP(s string) (FederatedIdP, error) {
	switch f := FederatedIdP(strings.ToLower(s)); f {
	case "", FIdPGoogle, FIdPGitHub:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFIdP, s)
	}
}

var (
	ErrEmptyUsername = errors.New("username cannot be empty")
	ErrNoIdP         = errors.New("portal config has no identity provider url")
	ErrUnknownFIdP   = errors.New("unknown federated identity provider")
	ErrNoSubject     = errors.New("id token has no subject")
)

// SessionStore persists string values across runs.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// TokenExchanger trades an authorization code for tokens.
type TokenExchanger interface {
	ExchangeCode(ctx context.Context, code string) (*hub.Tokens, error)
}

// Manager runs the login and logout flows.
type Manager struct {
	holder   *state.Holder
	store    SessionStore
	tokens   TokenExchanger
	newNonce func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithNonce replaces the nonce generator.
func WithNonce(fn func() string) Option {
	return func(m *Manager) {
		m.newNonce = fn
	}
}

// NewManager creates a Manager. tokens may be nil when RetrieveTokens is not used.
func NewManager(holder *state.Holder, store SessionStore, tokens TokenExchanger, opts ...Option) *Manager {
	m := &Manager{
		holder:   holder,
		store:    store,
		tokens:   tokens,
		newNonce: uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) idpURL(endpoint string) (string, error) {
	cfg := m.holder.Config()
	if cfg == nil || cfg.IdP.URL == "" {
		return "", ErrNoIdP
	}
	return strings.TrimRight(cfg.IdP.URL, "/") + endpoint, nil
}

// LoginURL builds the authorization URL the user opens to sign in and
// remembers fidp as the default for the next login.
func (m *Manager) LoginURL(ctx context.Context, fidp FederatedIdP, redirectURI string) (string, error) {
	endpoint, err := m.idpURL(AuthorizationEndpoint)
	if err != nil {
		return "", err
	}
	if err := m.SetDefaultFIdP(ctx, fidp); err != nil {
		return "", err
	}

	params := map[string]any{
		"response_type": "code",
		"nonce":         m.newNonce(),
		"scope":         "openid",
		"client_id":     m.holder.Config().IdP.ClientID,
		"redirect_uri":  redirectURI,
	}
	if fidp != "" {
		params["fidp"] = string(fidp)
	}
	qs, err := hubapi.GenerateQueryParamString(params)
	if err != nil {
		return "", err
	}
	return endpoint + qs, nil
}

// ContinueLoginURL resumes a paused login flow identified by sessionDataKey.
func (m *Manager) ContinueLoginURL(sessionDataKey string, skipOrgCheck bool) (string, error) {
	endpoint, err := m.idpURL(CommonAuthEndpoint)
	if err != nil {
		return "", err
	}
	qs, err := hubapi.GenerateQueryParamString(map[string]any{
		"sessionDataKey":  sessionDataKey,
		"skipOrgCreation": skipOrgCheck,
	})
	if err != nil {
		return "", err
	}
	return endpoint + qs, nil
}

// RetrieveTokens exchanges an authorization code and signs the user in.
func (m *Manager) RetrieveTokens(ctx context.Context, code string) (*hub.User, error) {
	tokens, err := m.tokens.ExchangeCode(ctx, code)
	if err != nil {
		log.ErrorErr(log.CatAuth, "token exchange failed", err)
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	sub, err := subject(tokens.IDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	user := &hub.User{
		Username:    sub,
		AccessToken: tokens.AccessToken,
		IDToken:     tokens.IDToken,
	}
	if err := m.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	log.Info(log.CatAuth, "signed in", "user", user.Username)
	return user, nil
}

// subject reads the sub claim without verifying the signature.
func subject(idToken string) (string, error) {
	token, _, err := jwt.NewParser().ParseUnverified(idToken, jwt.MapClaims{})
	if err != nil {
		return "", fmt.Errorf("decoding id token: %w", err)
	}
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("decoding id token: %w", err)
	}
	if sub == "" {
		return "", ErrNoSubject
	}
	return sub, nil
}

// UpdateUser persists user and publishes it under state.KeyUser.
func (m *Manager) UpdateUser(ctx context.Context, user *hub.User) error {
	if user == nil || user.Username == "" {
		return ErrEmptyUsername
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}
	if err := m.store.Put(ctx, UserKey, string(data)); err != nil {
		return err
	}
	m.holder.Set(state.KeyUser, user)
	return nil
}

// RemoveUser forgets the signed-in user.
func (m *Manager) RemoveUser(ctx context.Context) error {
	if err := m.store.Delete(ctx, UserKey); err != nil {
		return err
	}
	m.holder.Unset(state.KeyUser)
	return nil
}

// SignOutURL signs the user out locally and returns the identity provider
// logout URL that ends the remote session.
func (m *Manager) SignOutURL(ctx context.Context, postLogoutRedirect string) (string, error) {
	endpoint, err := m.idpURL(LogoutEndpoint)
	if err != nil {
		return "", err
	}
	params := map[string]any{"post_logout_redirect_uri": postLogoutRedirect}
	if u := m.holder.User(); u != nil && u.IDToken != "" {
		params["id_token_hint"] = u.IDToken
	}
	if err := m.store.Delete(ctx, UserKey, FederatedIdPKey); err != nil {
		return "", err
	}
	m.holder.Unset(state.KeyUser)

	qs, err := hubapi.GenerateQueryParamString(params)
	if err != nil {
		return "", err
	}
	return endpoint + qs, nil
}

// RestoreUser loads the persisted user into the holder. A corrupt record is
// deleted and reported as signed out.
func (m *Manager) RestoreUser(ctx context.Context) (*hub.User, error) {
	raw, err := m.store.Get(ctx, UserKey)
	if errors.Is(err, sqlite.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var user hub.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.Username == "" {
		log.Warn(log.CatAuth, "discarding corrupt stored user", "error", err)
		if err := m.store.Delete(ctx, UserKey); err != nil {
			return nil, err
		}
		return nil, nil
	}
	m.holder.Set(state.KeyUser, &user)
	return &user, nil
}

// SetDefaultFIdP remembers fidp for later logins. An empty fidp clears it.
func (m *Manager) SetDefaultFIdP(ctx context.Context, fidp FederatedIdP) error {
	if fidp == "" {
		return m.store.Delete(ctx, FederatedIdPKey)
	}
	return m.store.Put(ctx, FederatedIdPKey, string(fidp))
}

// DefaultFIdP returns the federated IdP used for the last login, or "".
func (m *Manager) DefaultFIdP(ctx context.Context) (FederatedIdP, error) {
	v, err := m.store.Get(ctx, FederatedIdPKey)
	if errors.Is(err, sqlite.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return FederatedIdP(v), nil
}

// HandleUnauthorized is the hubapi hook for a 401: the stored session is
// dropped so the next command asks the user to log in again.
func (m *Manager) HandleUnauthorized(ctx context.Context) {
	if err := m.RemoveUser(ctx); err != nil {
		log.ErrorErr(log.CatAuth, "failed to remove user after 401", err)
		return
	}
	log.Warn(log.CatAuth, "session expired, run 'hubctl login' to sign in again")
}
