package api

import (
	"context"
	"errors"
	"net/http"

	customErrors "github.com/abisalde/storefront-client/internal/errors"
	"github.com/abisalde/storefront-client/internal/identity"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	HeaderFirebaseUID = "Firebase-UID"
	HeaderRequestID   = "X-Request-ID"
)

// Credentials is the part of the identity provider the transport needs.
type Credentials interface {
	CurrentUser() *identity.User
	IDToken(ctx context.Context) (string, error)
}

// identityTransport stamps every outbound request with the caller's
// identity. Anonymous requests carry neither Authorization nor Firebase-UID.
type identityTransport struct {
	base  http.RoundTripper
	creds Credentials
}

func (t *identityTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())

	if r.Header.Get(HeaderRequestID) == "" {
		r.Header.Set(HeaderRequestID, uuid.NewString())
	}
	r.Header.Set("Accept", "application/json")
	if r.Body != nil && r.Header.Get("Content-Type") == "" {
		r.Header.Set("Content-Type", "application/json")
	}

	if t.creds != nil {
		if user := t.creds.CurrentUser(); user != nil {
			token, err := t.creds.IDToken(r.Context())
			switch {
			case errors.Is(err, customErrors.ErrNotSignedIn):
				// signed out between the two calls
			case err != nil:
				return nil, err
			default:
				(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(r)
				r.Header.Set(HeaderFirebaseUID, user.UID)
			}
		}
	}

	return t.base.RoundTrip(r)
}
