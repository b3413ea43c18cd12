package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/abisalde/storefront-client/internal/api"
	"github.com/abisalde/storefront-client/internal/database"
	customErrors "github.com/abisalde/storefront-client/internal/errors"
	"github.com/abisalde/storefront-client/internal/identity"
	"github.com/abisalde/storefront-client/internal/model"
	"github.com/abisalde/storefront-client/internal/notify"
	"github.com/abisalde/storefront-client/pkg/observer"
)

type State string

const (
	StateSignedOut  State = "signed-out"
	StateSigningIn  State = "signing-in"
	StateSignedIn   State = "signed-in"
	StateSigningOut State = "signing-out"
)

// syncTimeout bounds the account mirror work done from the provider's
// auth-state callback, which carries no context of its own.
const syncTimeout = 30 * time.Second

// Backend is the slice of the commerce API the session mirrors accounts with.
type Backend interface {
	Profile(ctx context.Context) (*model.Account, error)
	Register(ctx context.Context, req model.RegisterAccountRequest) (*model.Account, error)
	UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) (*model.Account, error)
}

// Snapshot is what subscribers see after every transition.
type Snapshot struct {
	State   State
	User    *identity.User
	Account *model.Account
}

// Session tracks the signed-in user and the backend Account mirrored for it.
// The provider's auth-state callback is the only thing that moves the
// session between signed-in and signed-out.
type Session struct {
	provider identity.Provider
	backend  Backend
	cache    database.Cache
	notifier notify.Notifier

	mu       sync.RWMutex
	state    State
	user     *identity.User
	account  *model.Account
	resolved bool

	observers           observer.Registry[Snapshot]
	unsubscribeProvider func()
}

func NewSession(provider identity.Provider, backend Backend, cache database.Cache, notifier notify.Notifier) *Session {
	s := &Session{
		provider: provider,
		backend:  backend,
		cache:    cache,
		notifier: notifier,
		state:    StateSignedOut,
	}
	s.unsubscribeProvider = provider.OnAuthStateChanged(s.handleAuthState)
	return s
}

// Close detaches the session from the provider.
func (s *Session) Close() {
	if s.unsubscribeProvider != nil {
		s.unsubscribeProvider()
	}
}

// Subscribe registers fn for every session transition.
func (s *Session) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	return s.observers.Subscribe(fn)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) CurrentUser() *identity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) Account() *model.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account
}

// Loading is true until the provider reports its initial auth state.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.resolved
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	s.setState(StateSigningIn)

	if _, err := s.provider.SignInWithPassword(ctx, email, password); err != nil {
		s.restoreState()
		s.notifyError(err, "Failed to log in")
		return err
	}

	s.notifier.Success("Successfully logged in!")
	return nil
}

// Signup creates the provider account, names it and registers the backend
// Account. When the backend registration fails the provider account is kept
// and the registration is stored for replay; the returned error wraps
// ErrRegistrationPending.
func (s *Session) Signup(ctx context.Context, email, password, firstName, lastName string, phone *string) error {
	s.setState(StateSigningIn)

	user, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		s.restoreState()
		s.notifyError(err, "Failed to create account")
		return err
	}

	// the provider account exists either way; a missing display name must
	// not leave it without a backend Account
	if err := s.provider.UpdateDisplayName(ctx, fmt.Sprintf("%s %s", firstName, lastName)); err != nil {
		log.Printf("⚠️ Failed to set display name for %s: %v", user.UID, err)
	}

	req := model.RegisterAccountRequest{
		FirebaseUID: user.UID,
		FirstName:   firstName,
		LastName:    lastName,
		Email:       user.Email,
		Phone:       phone,
	}

	account, err := s.backend.Register(ctx, req)
	if err != nil {
		log.Printf("Error registering user in backend: %v", err)
		pending := model.PendingRegistration{
			FirebaseUID: req.FirebaseUID,
			Email:       req.Email,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Phone:       req.Phone,
			Attempts:    1,
			LastError:   err.Error(),
			CreatedAt:   time.Now(),
		}
		if saveErr := s.createPendingUser(ctx, pending); saveErr != nil {
			log.Printf("⚠️ Failed to store pending registration for %s: %v", user.UID, saveErr)
		}

		s.notifyError(err, "Failed to create account")
		return fmt.Errorf("%w: %w", customErrors.ErrRegistrationPending, err)
	}

	s.setAccount(user.UID, account)
	s.notifier.Success("Account created successfully!")
	return nil
}

// LoginWithGoogle signs in through Google and makes sure a backend Account
// exists, registering one from the Google display name when the lookup
// fails for any reason other than an expired session.
func (s *Session) LoginWithGoogle(ctx context.Context) error {
	s.setState(StateSigningIn)

	user, err := s.provider.SignInWithGoogle(ctx)
	if err != nil {
		s.restoreState()
		s.notifyError(err, "Failed to log in with Google")
		return err
	}

	if existing := s.Account(); existing == nil || existing.FirebaseUID != user.UID {
		account, err := s.backend.Profile(ctx)
		switch {
		case err == nil:
			s.setAccount(user.UID, account)
		case errors.Is(err, api.ErrUnauthorized):
			s.notifyError(err, "Failed to log in with Google")
			return err
		default:
			firstName, lastName := identity.SplitDisplayName(user.DisplayName)
			account, err = s.backend.Register(ctx, model.RegisterAccountRequest{
				FirebaseUID: user.UID,
				FirstName:   firstName,
				LastName:    lastName,
				Email:       user.Email,
			})
			if err != nil {
				log.Printf("Error registering user in backend: %v", err)
				s.notifyError(err, "Failed to log in with Google")
				return err
			}
			s.setAccount(user.UID, account)
		}
	}

	s.notifier.Success("Successfully logged in with Google!")
	return nil
}

func (s *Session) Logout(ctx context.Context) error {
	s.setState(StateSigningOut)

	if err := s.provider.SignOut(ctx); err != nil {
		s.restoreState()
		s.notifyError(err, "Failed to log out")
		return err
	}

	s.notifier.Success("Successfully logged out!")
	return nil
}

func (s *Session) ResetPassword(ctx context.Context, email string) error {
	if err := s.provider.SendPasswordReset(ctx, email); err != nil {
		s.notifyError(err, "Failed to send password reset email")
		return err
	}
	s.notifier.Success("Password reset email sent!")
	return nil
}

func (s *Session) UpdateProfile(ctx context.Context, firstName, lastName string, phone *string) error {
	user := s.CurrentUser()
	if user == nil {
		s.notifyError(customErrors.ErrNotSignedIn, "Failed to update profile")
		return customErrors.ErrNotSignedIn
	}

	if err := s.provider.UpdateDisplayName(ctx, fmt.Sprintf("%s %s", firstName, lastName)); err != nil {
		s.notifyError(err, "Failed to update profile")
		return err
	}

	account, err := s.backend.UpdateProfile(ctx, model.UpdateProfileRequest{
		FirstName:   firstName,
		LastName:    lastName,
		Phone:       phone,
		Email:       user.Email,
		FirebaseUID: user.UID,
	})
	if err != nil {
		s.notifyError(err, "Failed to update profile")
		return err
	}

	s.mu.Lock()
	if s.user != nil {
		s.user.DisplayName = strings.TrimSpace(firstName + " " + lastName)
	}
	s.mu.Unlock()

	s.setAccount(user.UID, account)
	s.notifier.Success("Profile updated successfully!")
	return nil
}

// ReconcilePending replays a stored registration for the signed-in user.
// It is a no-op when nothing is pending.
func (s *Session) ReconcilePending(ctx context.Context) error {
	user := s.CurrentUser()
	if user == nil {
		return customErrors.ErrNotSignedIn
	}

	account, err := s.replayPending(ctx, user.UID)
	if err != nil {
		return customErrors.Wrap(err, customErrors.ErrorTypeReconciliation, "registration for %s is still pending", user.UID)
	}
	if account != nil {
		s.setAccount(user.UID, account)
	}
	return nil
}

func (s *Session) handleAuthState(user *identity.User) {
	if user == nil {
		s.mu.Lock()
		s.user = nil
		s.account = nil
		s.state = StateSignedOut
		s.resolved = true
		snap := s.snapshotLocked()
		s.mu.Unlock()

		s.observers.Publish(snap)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	account, err := s.replayPending(ctx, user.UID)
	if err != nil {
		log.Printf("⚠️ Registration for %s is still pending: %v", user.UID, err)
	}
	if account == nil {
		account, err = s.backend.Profile(ctx)
		if err != nil {
			log.Printf("Error fetching user data: %v", err)
			account = nil
		}
	}

	// a nested sign-out (for example a 401 during the profile fetch) wins
	if current := s.provider.CurrentUser(); current == nil || current.UID != user.UID {
		return
	}

	s.mu.Lock()
	s.user = user
	s.account = account
	s.state = StateSignedIn
	s.resolved = true
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.observers.Publish(snap)
}

// setAccount records account if uid is still the signed-in user.
func (s *Session) setAccount(uid string, account *model.Account) {
	s.mu.Lock()
	if s.user == nil || s.user.UID != uid {
		s.mu.Unlock()
		return
	}
	s.account = account
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.observers.Publish(snap)
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// restoreState settles the state after a failed transition.
func (s *Session) restoreState() {
	s.mu.Lock()
	if s.user != nil {
		s.state = StateSignedIn
	} else {
		s.state = StateSignedOut
	}
	s.mu.Unlock()
}

func (s *Session) snapshotLocked() Snapshot {
	var user *identity.User
	if s.user != nil {
		u := *s.user
		user = &u
	}
	return Snapshot{State: s.state, User: user, Account: s.account}
}

func (s *Session) notifyError(err error, fallback string) {
	message := err.Error()
	if message == "" {
		message = fallback
	}
	s.notifier.Error(message)
}
