package identity

import (
	"context"

	customErrors "github.com/abisalde/storefront-client/internal/errors"
	"github.com/abisalde/storefront-client/pkg/observer"
)

// Disabled stands in when provider credentials are not configured. Every
// credential operation fails with ErrAuthDisabled and the user stays
// signed out.
type Disabled struct {
	listeners observer.Registry[*User]
}

func NewDisabled() *Disabled {
	return &Disabled{}
}

func (*Disabled) SignInWithPassword(context.Context, string, string) (*User, error) {
	return nil, customErrors.ErrAuthDisabled
}

func (*Disabled) SignUp(context.Context, string, string) (*User, error) {
	return nil, customErrors.ErrAuthDisabled
}

func (*Disabled) UpdateDisplayName(context.Context, string) error {
	return customErrors.ErrAuthDisabled
}

func (*Disabled) SignInWithGoogle(context.Context) (*User, error) {
	return nil, customErrors.ErrAuthDisabled
}

func (*Disabled) SendPasswordReset(context.Context, string) error {
	return customErrors.ErrAuthDisabled
}

func (*Disabled) SignOut(context.Context) error {
	return nil
}

func (*Disabled) CurrentUser() *User {
	return nil
}

func (*Disabled) IDToken(context.Context) (string, error) {
	return "", customErrors.ErrNotSignedIn
}

func (d *Disabled) OnAuthStateChanged(fn func(*User)) func() {
	return d.listeners.Subscribe(fn)
}

// Restore settles listeners on the signed-out state.
func (d *Disabled) Restore(context.Context) error {
	d.listeners.Publish(nil)
	return nil
}
