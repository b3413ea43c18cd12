package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	customErrors "github.com/abisalde/storefront-client/internal/errors"
	"github.com/abisalde/storefront-client/pkg/jwt"
	"github.com/abisalde/storefront-client/pkg/observer"
	"github.com/abisalde/storefront-client/pkg/session"
	"golang.org/x/sync/singleflight"
)

const (
	identityToolkitHost = "identitytoolkit.googleapis.com"
	secureTokenHost     = "securetoken.googleapis.com"

	// tokenExpirySkew refreshes ID tokens shortly before they lapse.
	tokenExpirySkew = time.Minute
)

// Refresh failures with these codes mean the session can no longer be
// recovered and the user is signed out.
var terminalRefreshCodes = map[string]bool{
	"TOKEN_EXPIRED":         true,
	"USER_DISABLED":         true,
	"USER_NOT_FOUND":        true,
	"INVALID_REFRESH_TOKEN": true,
}

type FirebaseOptions struct {
	APIKey string
	// EmulatorHost, when set, routes every call to the local auth emulator
	// (for example "localhost:9099").
	EmulatorHost string
	HTTPClient   *http.Client
	Persistence  Persistence
	Google       GoogleAuthorizer
}

// Firebase talks to Firebase Authentication over its REST API.
type Firebase struct {
	apiKey       string
	identityBase string
	tokenBase    string
	httpClient   *http.Client
	persistence  Persistence
	google       GoogleAuthorizer

	mu           sync.RWMutex
	user         *User
	idToken      string
	refreshToken string
	expiresAt    time.Time
	createdAt    time.Time

	listeners observer.Registry[*User]
	refresh   singleflight.Group
	now       func() time.Time
}

func NewFirebase(opts FirebaseOptions) *Firebase {
	f := &Firebase{
		apiKey:       opts.APIKey,
		identityBase: "https://" + identityToolkitHost,
		tokenBase:    "https://" + secureTokenHost,
		httpClient:   opts.HTTPClient,
		persistence:  opts.Persistence,
		google:       opts.Google,
		now:          time.Now,
	}
	if opts.EmulatorHost != "" {
		emulator := "http://" + strings.TrimSuffix(strings.TrimPrefix(opts.EmulatorHost, "http://"), "/")
		f.identityBase = emulator + "/" + identityToolkitHost
		f.tokenBase = emulator + "/" + secureTokenHost
		log.Printf("🔧 Using Firebase auth emulator at %s", emulator)
	}
	if f.httpClient == nil {
		f.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return f
}

type tokenResponse struct {
	LocalID       string `json:"localId"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	EmailVerified bool   `json:"emailVerified"`
	IDToken       string `json:"idToken"`
	RefreshToken  string `json:"refreshToken"`
	ExpiresIn     string `json:"expiresIn"`
}

func (f *Firebase) SignInWithPassword(ctx context.Context, email, password string) (*User, error) {
	var resp tokenResponse
	err := f.call(ctx, "signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return f.establish(ctx, &resp, ProviderPassword)
}

func (f *Firebase) SignUp(ctx context.Context, email, password string) (*User, error) {
	var resp tokenResponse
	err := f.call(ctx, "signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return f.establish(ctx, &resp, ProviderPassword)
}

func (f *Firebase) SignInWithGoogle(ctx context.Context) (*User, error) {
	if f.google == nil {
		return nil, customErrors.NewTypedError("google sign-in is not configured", customErrors.ErrorTypeDisabled)
	}

	googleIDToken, err := f.google.Authorize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize with google: %w", err)
	}

	postBody := url.Values{}
	postBody.Set("id_token", googleIDToken)
	postBody.Set("providerId", ProviderGoogle)

	var resp tokenResponse
	err = f.call(ctx, "signInWithIdp", map[string]any{
		"postBody":            postBody.Encode(),
		"requestUri":          "http://localhost",
		"returnIdpCredential": true,
		"returnSecureToken":   true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return f.establish(ctx, &resp, ProviderGoogle)
}

func (f *Firebase) UpdateDisplayName(ctx context.Context, displayName string) error {
	idToken, err := f.IDToken(ctx)
	if err != nil {
		return err
	}

	var resp tokenResponse
	err = f.call(ctx, "update", map[string]any{
		"idToken":           idToken,
		"displayName":       displayName,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return err
	}

	f.mu.Lock()
	if f.user == nil {
		f.mu.Unlock()
		return customErrors.ErrNotSignedIn
	}
	f.user.DisplayName = displayName
	if resp.IDToken != "" {
		f.setTokensLocked(resp.IDToken, resp.RefreshToken, resp.ExpiresIn)
	}
	info := f.snapshotLocked()
	f.mu.Unlock()

	f.persist(ctx, info)
	return nil
}

func (f *Firebase) SendPasswordReset(ctx context.Context, email string) error {
	return f.call(ctx, "sendOobCode", map[string]any{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}, nil)
}

func (f *Firebase) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.clearLocked()
	f.mu.Unlock()

	var err error
	if f.persistence != nil {
		err = f.persistence.Clear(ctx)
	}
	f.listeners.Publish(nil)
	return err
}

func (f *Firebase) CurrentUser() *User {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return copyUser(f.user)
}

func (f *Firebase) OnAuthStateChanged(fn func(*User)) func() {
	return f.listeners.Subscribe(fn)
}

func (f *Firebase) IDToken(ctx context.Context) (string, error) {
	f.mu.RLock()
	user, token, expiresAt := f.user, f.idToken, f.expiresAt
	f.mu.RUnlock()

	if user == nil {
		return "", customErrors.ErrNotSignedIn
	}
	if token != "" && f.now().Add(tokenExpirySkew).Before(expiresAt) {
		return token, nil
	}

	v, err, _ := f.refresh.Do(user.UID, func() (interface{}, error) {
		return f.refreshIDToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Restore loads the persisted session, if any, and emits the resulting
// auth state to every listener.
func (f *Firebase) Restore(ctx context.Context) error {
	if f.persistence == nil {
		f.listeners.Publish(nil)
		return nil
	}

	info, err := f.persistence.Load(ctx)
	if errors.Is(err, session.ErrNoSession) {
		f.listeners.Publish(nil)
		return nil
	}
	if err != nil {
		f.listeners.Publish(nil)
		return fmt.Errorf("failed to restore session: %w", err)
	}

	f.mu.Lock()
	f.user = &User{
		UID:           info.UID,
		Email:         info.Email,
		DisplayName:   info.DisplayName,
		EmailVerified: info.EmailVerified,
		ProviderID:    info.ProviderID,
	}
	f.idToken = info.IDToken
	f.refreshToken = info.RefreshToken
	f.expiresAt = info.ExpiresAt
	f.createdAt = info.CreatedAt
	user := copyUser(f.user)
	f.mu.Unlock()

	f.listeners.Publish(user)
	return nil
}

type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
	UserID       string `json:"user_id"`
}

func (f *Firebase) refreshIDToken(ctx context.Context) (string, error) {
	f.mu.RLock()
	refreshToken, current, expiresAt := f.refreshToken, f.idToken, f.expiresAt
	f.mu.RUnlock()

	// another caller may have refreshed while this one waited
	if current != "" && f.now().Add(tokenExpirySkew).Before(expiresAt) {
		return current, nil
	}
	if refreshToken == "" {
		return "", customErrors.ErrNotSignedIn
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.tokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp refreshResponse
	if err := f.do(req, &resp); err != nil {
		var providerErr *ProviderError
		if errors.As(err, &providerErr) && terminalRefreshCodes[providerErr.Code] {
			log.Printf("⚠️ Session can no longer be refreshed (%s), signing out", providerErr.Code)
			_ = f.SignOut(ctx)
		}
		return "", err
	}

	f.mu.Lock()
	if f.user == nil {
		f.mu.Unlock()
		return "", customErrors.ErrNotSignedIn
	}
	f.setTokensLocked(resp.IDToken, resp.RefreshToken, resp.ExpiresIn)
	info := f.snapshotLocked()
	f.mu.Unlock()

	f.persist(ctx, info)
	return resp.IDToken, nil
}

// establish records a fresh sign-in and notifies listeners.
func (f *Firebase) establish(ctx context.Context, resp *tokenResponse, providerID string) (*User, error) {
	user := &User{
		UID:           resp.LocalID,
		Email:         resp.Email,
		DisplayName:   resp.DisplayName,
		EmailVerified: resp.EmailVerified,
		ProviderID:    providerID,
	}

	if claims, err := jwt.ParseIDToken(resp.IDToken); err == nil {
		if user.UID == "" {
			user.UID = claims.UserID
		}
		if user.Email == "" {
			user.Email = claims.Email
		}
		if user.DisplayName == "" {
			user.DisplayName = claims.Name
		}
		user.EmailVerified = user.EmailVerified || claims.EmailVerified
	}
	if user.UID == "" {
		return nil, customErrors.NewTypedError("identity provider returned no user id", customErrors.ErrorTypeProvider)
	}

	f.mu.Lock()
	f.user = user
	f.createdAt = f.now()
	f.setTokensLocked(resp.IDToken, resp.RefreshToken, resp.ExpiresIn)
	info := f.snapshotLocked()
	f.mu.Unlock()

	f.persist(ctx, info)
	f.listeners.Publish(copyUser(user))
	return copyUser(user), nil
}

func (f *Firebase) setTokensLocked(idToken, refreshToken, expiresIn string) {
	f.idToken = idToken
	if refreshToken != "" {
		f.refreshToken = refreshToken
	}

	if secs, err := strconv.Atoi(expiresIn); err == nil && secs > 0 {
		f.expiresAt = f.now().Add(time.Duration(secs) * time.Second)
		return
	}
	if claims, err := jwt.ParseIDToken(idToken); err == nil {
		f.expiresAt = claims.ExpiresAtTime()
		return
	}
	f.expiresAt = time.Time{}
}

func (f *Firebase) clearLocked() {
	f.user = nil
	f.idToken = ""
	f.refreshToken = ""
	f.expiresAt = time.Time{}
	f.createdAt = time.Time{}
}

func (f *Firebase) snapshotLocked() *session.SessionInfo {
	return &session.SessionInfo{
		UID:           f.user.UID,
		Email:         f.user.Email,
		DisplayName:   f.user.DisplayName,
		EmailVerified: f.user.EmailVerified,
		ProviderID:    f.user.ProviderID,
		IDToken:       f.idToken,
		RefreshToken:  f.refreshToken,
		ExpiresAt:     f.expiresAt,
		CreatedAt:     f.createdAt,
	}
}

// persist failures do not undo a sign-in; the session just won't survive
// the process.
func (f *Firebase) persist(ctx context.Context, info *session.SessionInfo) {
	if f.persistence == nil {
		return
	}
	if err := f.persistence.Save(ctx, info); err != nil {
		log.Printf("⚠️ Failed to persist session for %s: %v", info.UID, err)
	}
}

func (f *Firebase) accountsURL(method string) string {
	return fmt.Sprintf("%s/v1/accounts:%s?key=%s", f.identityBase, method, url.QueryEscape(f.apiKey))
}

func (f *Firebase) tokenURL() string {
	return fmt.Sprintf("%s/v1/token?key=%s", f.tokenBase, url.QueryEscape(f.apiKey))
}

func (f *Firebase) call(ctx context.Context, method string, body any, dest any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.accountsURL(method), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return f.do(req, dest)
}

type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (f *Firebase) do(req *http.Request, dest any) error {
	res, err := f.httpClient.Do(req)
	if err != nil {
		return customErrors.Wrap(err, customErrors.ErrorTypeNetwork, "failed to reach identity provider")
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return customErrors.Wrap(err, customErrors.ErrorTypeNetwork, "failed to read identity provider response")
	}

	if res.StatusCode >= http.StatusBadRequest {
		var envelope errorEnvelope
		_ = json.Unmarshal(data, &envelope)
		return newProviderError(res.StatusCode, envelope.Error.Message)
	}

	if dest == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode identity provider response: %w", err)
	}
	return nil
}
