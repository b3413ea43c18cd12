package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/abisalde/storefront-client/internal/api"
	"github.com/abisalde/storefront-client/internal/auth"
	"github.com/abisalde/storefront-client/internal/cart"
	"github.com/abisalde/storefront-client/internal/catalog"
	"github.com/abisalde/storefront-client/internal/checkout"
	"github.com/abisalde/storefront-client/internal/configs"
	"github.com/abisalde/storefront-client/internal/database"
	"github.com/abisalde/storefront-client/internal/identity"
	"github.com/abisalde/storefront-client/internal/navigation"
	"github.com/abisalde/storefront-client/internal/notify"
	"github.com/abisalde/storefront-client/internal/orders"
	"github.com/abisalde/storefront-client/pkg/sealing"
	"github.com/abisalde/storefront-client/pkg/session"
)

// eventTimeout bounds work started from event handlers, which run outside
// any caller context.
const eventTimeout = 30 * time.Second

type Options struct {
	Navigator navigation.Navigator
	Notifier  notify.Notifier
	// Cache overrides the Redis/file selection.
	Cache database.Cache
	// Provider overrides the identity provider built from configuration.
	Provider identity.Provider
	// Transport is the innermost HTTP transport for backend calls.
	Transport http.RoundTripper
	// OpenBrowser receives the Google consent URL.
	OpenBrowser func(authURL string) error
}

// App owns every storefront component and the wiring between them.
type App struct {
	Config    *configs.Config
	Cache     database.Cache
	Provider  identity.Provider
	API       *api.Client
	Session   *auth.Session
	Cart      *cart.Store
	Checkout  *checkout.Flow
	Orders    *orders.History
	Catalog   *catalog.Catalog
	Navigator navigation.Navigator
	Notifier  notify.Notifier

	mu            sync.Mutex
	lastUID       string
	unsubscribers []func()
	closers       []func() error
}

func New(ctx context.Context, cfg *configs.Config, opts Options) (*App, error) {
	a := &App{
		Config:    cfg,
		Navigator: opts.Navigator,
		Notifier:  opts.Notifier,
	}
	if a.Navigator == nil {
		a.Navigator = navigation.NewHistory()
	}
	if a.Notifier == nil {
		a.Notifier = notify.NewConsole(nil)
	}

	cache, err := a.setupCache(ctx, opts.Cache)
	if err != nil {
		return nil, err
	}
	a.Cache = cache

	provider, err := a.setupProvider(opts)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Provider = provider

	a.API = api.NewClient(api.Options{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout,
		Credentials: provider,
		Transport:   opts.Transport,
	})

	a.Session = auth.NewSession(provider, a.API, cache, a.Notifier)
	a.Cart = cart.NewStore(a.API, a.Session, a.Notifier)
	a.Checkout = checkout.NewFlow(a.Cart, a.API, a.Navigator, a.Notifier)
	a.Orders = orders.NewHistory(a.API, a.Notifier)
	a.Catalog = catalog.New(a.API)

	a.unsubscribers = append(a.unsubscribers,
		a.API.OnUnauthorized(a.handleUnauthorized),
		a.Session.Subscribe(a.handleSessionChange),
		a.Session.Close,
	)

	return a, nil
}

func (a *App) setupCache(ctx context.Context, override database.Cache) (database.Cache, error) {
	if override != nil {
		return override, nil
	}

	if a.Config.RedisEnabled() {
		ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		redisCache, err := database.InitRedis(ctxWithTimeout, a.Config)
		if err == nil {
			a.closers = append(a.closers, redisCache.Close)
			return redisCache, nil
		}
		log.Printf("⚠️ Redis unavailable, falling back to %s: %v", a.Config.Session.File, err)
	}

	if a.Config.Session.File == "" {
		return nil, fmt.Errorf("no session storage configured")
	}
	return database.NewFileCache(a.Config.Session.File), nil
}

func (a *App) setupProvider(opts Options) (identity.Provider, error) {
	if opts.Provider != nil {
		return opts.Provider, nil
	}

	cfg := a.Config
	if !cfg.AuthEnabled() {
		log.Println("⚠️ Firebase API key or project id missing, authentication is disabled")
		return identity.NewDisabled(), nil
	}

	var sealer *sealing.Sealer
	if cfg.Session.Key != "" {
		s, err := sealing.NewSealer(cfg.Session.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to load session sealing key: %w", err)
		}
		sealer = s
	}

	firebaseOpts := identity.FirebaseOptions{
		APIKey:      cfg.Firebase.APIKey,
		HTTPClient:  &http.Client{Timeout: cfg.API.Timeout},
		Persistence: session.NewSessionManager(a.Cache, sealer, cfg.Session.Profile),
	}
	if cfg.EmulatorEnabled() {
		firebaseOpts.EmulatorHost = cfg.Firebase.EmulatorHost
	}
	if cfg.GoogleEnabled() {
		firebaseOpts.Google = identity.NewLoopbackAuthorizer(identity.LoopbackOptions{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			Port:         cfg.Google.CallbackPort,
			OpenBrowser:  opts.OpenBrowser,
		})
	}
	return identity.NewFirebase(firebaseOpts), nil
}

// Start restores a persisted sign-in. The session and cart are settled by
// the time it returns.
func (a *App) Start(ctx context.Context) error {
	if err := a.Provider.Restore(ctx); err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	return nil
}

// Close detaches every subscription and releases the cache.
func (a *App) Close() {
	for _, unsubscribe := range a.unsubscribers {
		unsubscribe()
	}
	a.unsubscribers = nil

	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			log.Printf("⚠️ Failed to close resource: %v", err)
		}
	}
	a.closers = nil
}

// handleUnauthorized turns any 401 into a global sign-out.
func (a *App) handleUnauthorized(ev api.UnauthorizedEvent) {
	log.Printf("🔒 Session rejected by backend on %s %s, signing out", ev.Method, ev.Path)

	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	if err := a.Provider.SignOut(ctx); err != nil {
		log.Printf("⚠️ Failed to sign out after 401: %v", err)
	}
	a.Checkout.Leave()
	a.Orders.Reset()
	a.Cart.Reset()
	a.Navigator.Navigate(navigation.PathLogin, nil)
}

// handleSessionChange reloads per-user state whenever the signed-in user
// changes.
func (a *App) handleSessionChange(snap auth.Snapshot) {
	uid := ""
	if snap.User != nil {
		uid = snap.User.UID
	}

	a.mu.Lock()
	changed := uid != a.lastUID
	a.lastUID = uid
	a.mu.Unlock()

	if !changed && snap.State == auth.StateSignedIn {
		return
	}
	if changed {
		a.Orders.Reset()
	}

	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	a.Cart.MarkLoading()
	a.Cart.Refresh(ctx)
}
