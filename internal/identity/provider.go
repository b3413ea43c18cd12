package identity

import (
	"context"
	"fmt"
	"strings"

	customErrors "github.com/abisalde/storefront-client/internal/errors"
	"github.com/abisalde/storefront-client/pkg/session"
)

const (
	ProviderPassword = "password"
	ProviderGoogle   = "google.com"
)

// User is the signed-in identity. Token material stays inside the Provider.
type User struct {
	UID           string
	Email         string
	DisplayName   string
	EmailVerified bool
	ProviderID    string
}

// Provider is the identity backend the session manager drives.
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*User, error)
	SignUp(ctx context.Context, email, password string) (*User, error)
	UpdateDisplayName(ctx context.Context, displayName string) error
	SignInWithGoogle(ctx context.Context) (*User, error)
	SendPasswordReset(ctx context.Context, email string) error
	SignOut(ctx context.Context) error

	CurrentUser() *User
	// IDToken returns a valid ID token for the current user, refreshing it
	// when expired.
	IDToken(ctx context.Context) (string, error)
	// OnAuthStateChanged registers fn for every sign-in and sign-out. fn
	// receives nil on sign-out.
	OnAuthStateChanged(fn func(*User)) (unsubscribe func())
	// Restore rehydrates a persisted session and emits the resulting state.
	Restore(ctx context.Context) error
}

// Persistence stores the provider state between runs.
// *session.SessionManager implements it.
type Persistence interface {
	Save(ctx context.Context, info *session.SessionInfo) error
	Load(ctx context.Context) (*session.SessionInfo, error)
	Clear(ctx context.Context) error
}

// ProviderError is an error reported by the identity backend. Message is
// kept verbatim so it can be shown to the user.
type ProviderError struct {
	Status  int
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

func (e *ProviderError) ErrorType() customErrors.ErrorType {
	return customErrors.ErrorTypeProvider
}

// newProviderError splits "CODE : detail" messages into their code.
func newProviderError(status int, message string) *ProviderError {
	code := message
	if i := strings.Index(message, " : "); i >= 0 {
		code = message[:i]
	}
	if message == "" {
		message = fmt.Sprintf("identity provider returned status %d", status)
		code = "UNKNOWN"
	}
	return &ProviderError{Status: status, Code: strings.TrimSpace(code), Message: message}
}

// SplitDisplayName returns the first whitespace separated token and the
// rest joined by single spaces. Single-name users get an empty last name.
func SplitDisplayName(displayName string) (first, last string) {
	parts := strings.Fields(displayName)
	if len(parts) > 0 {
		first = parts[0]
	}
	if len(parts) > 1 {
		last = strings.Join(parts[1:], " ")
	}
	return first, last
}

func copyUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
