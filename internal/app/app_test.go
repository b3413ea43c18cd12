package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/abisalde/storefront-client/internal/auth"
	"github.com/abisalde/storefront-client/internal/configs"
	"github.com/abisalde/storefront-client/internal/database"
	customErrors "github.com/abisalde/storefront-client/internal/errors"
	"github.com/abisalde/storefront-client/internal/identity"
	"github.com/abisalde/storefront-client/internal/model"
	"github.com/abisalde/storefront-client/internal/navigation"
	"github.com/abisalde/storefront-client/internal/notify"
	"github.com/abisalde/storefront-client/pkg/observer"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu        sync.Mutex
	user      *identity.User
	signOuts  int
	listeners observer.Registry[*identity.User]
}

func (p *fakeProvider) SignInWithPassword(context.Context, string, string) (*identity.User, error) {
	return nil, customErrors.ErrAuthDisabled
}

func (p *fakeProvider) SignUp(context.Context, string, string) (*identity.User, error) {
	return nil, customErrors.ErrAuthDisabled
}

func (p *fakeProvider) UpdateDisplayName(context.Context, string) error { return nil }

func (p *fakeProvider) SignInWithGoogle(context.Context) (*identity.User, error) {
	return nil, customErrors.ErrAuthDisabled
}

func (p *fakeProvider) SendPasswordReset(context.Context, string) error { return nil }

func (p *fakeProvider) SignOut(context.Context) error {
	p.mu.Lock()
	p.user = nil
	p.signOuts++
	p.mu.Unlock()
	p.listeners.Publish(nil)
	return nil
}

func (p *fakeProvider) CurrentUser() *identity.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.user == nil {
		return nil
	}
	u := *p.user
	return &u
}

func (p *fakeProvider) IDToken(context.Context) (string, error) {
	if p.CurrentUser() == nil {
		return "", customErrors.ErrNotSignedIn
	}
	return "token", nil
}

func (p *fakeProvider) OnAuthStateChanged(fn func(*identity.User)) func() {
	return p.listeners.Subscribe(fn)
}

func (p *fakeProvider) Restore(context.Context) error {
	p.listeners.Publish(p.CurrentUser())
	return nil
}

// fakeBackend answers the profile and cart endpoints, flipping to 401 on
// demand.
type fakeBackend struct {
	mu       sync.Mutex
	rejected bool
	cartGets int
}

func (b *fakeBackend) reject() {
	b.mu.Lock()
	b.rejected = true
	b.mu.Unlock()
}

func (b *fakeBackend) router() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			rejected := b.rejected
			b.mu.Unlock()
			if rejected {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Get("/api/users/profile", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(model.Account{ID: 1, FirebaseUID: r.Header.Get("Firebase-UID")})
	})
	r.Get("/api/cart", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.cartGets++
		b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(model.Cart{ID: 3, Items: []model.CartItem{{ID: 1, ProductID: 5, Quantity: 1}}, TotalItems: 1})
	})
	return r
}

func newTestApp(t *testing.T, user *identity.User) (*App, *fakeProvider, *fakeBackend, *navigation.History, *notify.Recorder) {
	t.Helper()

	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.router())
	t.Cleanup(srv.Close)

	cfg := &configs.Config{}
	cfg.API.BaseURL = srv.URL + "/api"

	provider := &fakeProvider{user: user}
	history := navigation.NewHistory()
	notes := &notify.Recorder{}

	a, err := New(context.Background(), cfg, Options{
		Navigator: history,
		Notifier:  notes,
		Cache:     database.NewMemoryCache(),
		Provider:  provider,
	})
	require.NoError(t, err)
	t.Cleanup(a.Close)

	return a, provider, backend, history, notes
}

func TestApp_StartLoadsSessionAndCart(t *testing.T) {
	a, _, backend, _, _ := newTestApp(t, &identity.User{UID: "uid-1", Email: "a@b.com"})

	assert.True(t, a.Session.Loading())
	assert.True(t, a.Cart.Loading())

	require.NoError(t, a.Start(context.Background()))

	snap := a.Session.Snapshot()
	assert.Equal(t, auth.StateSignedIn, snap.State)
	require.NotNil(t, snap.Account)
	assert.Equal(t, "uid-1", snap.Account.FirebaseUID)

	assert.False(t, a.Cart.Loading())
	require.NotNil(t, a.Cart.Cart())
	assert.Equal(t, 1, a.Cart.Cart().TotalItems)
	assert.Equal(t, 1, backend.cartGets)
}

func TestApp_StartSignedOut(t *testing.T) {
	a, _, backend, _, _ := newTestApp(t, nil)

	require.NoError(t, a.Start(context.Background()))

	assert.False(t, a.Session.Loading())
	assert.Equal(t, auth.StateSignedOut, a.Session.Snapshot().State)
	assert.False(t, a.Cart.Loading())
	assert.Nil(t, a.Cart.Cart())
	assert.Zero(t, backend.cartGets)
}

func TestApp_UnauthorizedSignsOut(t *testing.T) {
	a, provider, backend, history, _ := newTestApp(t, &identity.User{UID: "uid-1"})
	ctx := context.Background()
	require.NoError(t, a.Start(ctx))
	require.NotNil(t, a.Cart.Cart())

	backend.reject()
	a.Cart.Refresh(ctx)

	assert.Equal(t, 1, provider.signOuts)
	assert.Nil(t, provider.CurrentUser())
	assert.Nil(t, a.Session.CurrentUser())
	assert.Equal(t, auth.StateSignedOut, a.Session.Snapshot().State)
	assert.Nil(t, a.Cart.Cart())
	assert.False(t, a.Cart.Loading())

	current, ok := history.Current()
	require.True(t, ok)
	assert.Equal(t, navigation.PathLogin, current.Path)
}

func TestApp_UnauthorizedAbandonsCheckout(t *testing.T) {
	a, _, backend, history, _ := newTestApp(t, &identity.User{UID: "uid-1"})
	ctx := context.Background()
	require.NoError(t, a.Start(ctx))

	require.NoError(t, a.Checkout.Enter(ctx))
	_, active := a.Checkout.Draft()
	require.True(t, active)

	backend.reject()
	_, err := a.Orders.Get(ctx, 7)
	require.Error(t, err)

	_, active = a.Checkout.Draft()
	assert.False(t, active)
	current, ok := history.Current()
	require.True(t, ok)
	assert.Equal(t, navigation.PathLogin, current.Path)
}

func TestApp_ConfigDrivenDefaults(t *testing.T) {
	cfg := &configs.Config{}
	cfg.API.BaseURL = "http://127.0.0.1:1/api"
	cfg.Session.File = filepath.Join(t.TempDir(), "session.json")

	notes := &notify.Recorder{}
	a, err := New(context.Background(), cfg, Options{Notifier: notes})
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &identity.Disabled{}, a.Provider)
	assert.IsType(t, &database.FileCache{}, a.Cache)

	require.NoError(t, a.Start(context.Background()))
	assert.Equal(t, auth.StateSignedOut, a.Session.Snapshot().State)

	err = a.Session.Login(context.Background(), "a@b.com", "secret")
	assert.ErrorIs(t, err, customErrors.ErrAuthDisabled)
	assert.Equal(t, notify.KindError, notes.Last().Kind)
}

func TestApp_NoSessionStorage(t *testing.T) {
	cfg := &configs.Config{}
	_, err := New(context.Background(), cfg, Options{})
	assert.Error(t, err)
}
