package identity

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	oauthPKCE "github.com/abisalde/storefront-client/pkg/oauth"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleCallbackPath = "/oauth/google/callback"
	defaultAuthTimeout = 5 * time.Minute
)

var ErrStateMismatch = errors.New("oauth state mismatch")

// GoogleAuthorizer obtains a Google ID token for the user.
type GoogleAuthorizer interface {
	Authorize(ctx context.Context) (idToken string, err error)
}

type LoopbackOptions struct {
	ClientID     string
	ClientSecret string
	// Port the loopback callback server listens on. Zero picks a free port.
	Port int
	// Endpoint overrides google.Endpoint.
	Endpoint *oauth2.Endpoint
	// OpenBrowser is handed the consent URL. Defaults to logging it.
	OpenBrowser func(authURL string) error
	Timeout     time.Duration
}

// LoopbackAuthorizer runs the authorization-code flow with PKCE, receiving
// the redirect on a short-lived local fiber server.
type LoopbackAuthorizer struct {
	config      oauth2.Config
	port        int
	openBrowser func(string) error
	timeout     time.Duration
}

func NewLoopbackAuthorizer(opts LoopbackOptions) *LoopbackAuthorizer {
	endpoint := google.Endpoint
	if opts.Endpoint != nil {
		endpoint = *opts.Endpoint
	}

	a := &LoopbackAuthorizer{
		config: oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoint,
		},
		port:        opts.Port,
		openBrowser: opts.OpenBrowser,
		timeout:     opts.Timeout,
	}
	if a.openBrowser == nil {
		a.openBrowser = func(authURL string) error {
			log.Printf("🌐 Open this URL to continue with Google:\n%s", authURL)
			return nil
		}
	}
	if a.timeout <= 0 {
		a.timeout = defaultAuthTimeout
	}
	return a
}

type callbackResult struct {
	code string
	err  error
}

func (a *LoopbackAuthorizer) Authorize(ctx context.Context) (string, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", a.port))
	if err != nil {
		return "", fmt.Errorf("failed to start oauth callback listener: %w", err)
	}

	config := a.config
	config.RedirectURL = fmt.Sprintf("http://%s%s", ln.Addr().String(), googleCallbackPath)

	verifier := oauth2.GenerateVerifier()
	state := oauthPKCE.EncodeState(uuid.NewString(), "google")

	results := make(chan callbackResult, 1)
	app := newCallbackApp(state, results)

	go func() {
		if err := app.Listener(ln); err != nil {
			log.Printf("⚠️ OAuth callback server stopped: %v", err)
		}
	}()
	defer func() {
		if err := app.ShutdownWithTimeout(2 * time.Second); err != nil {
			log.Printf("⚠️ Failed to stop oauth callback server: %v", err)
		}
	}()

	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))
	if err := a.openBrowser(authURL); err != nil {
		return "", fmt.Errorf("failed to open consent page: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var result callbackResult
	select {
	case result = <-results:
	case <-waitCtx.Done():
		return "", fmt.Errorf("google sign-in was not completed: %w", waitCtx.Err())
	}
	if result.err != nil {
		return "", result.err
	}

	token, err := config.Exchange(ctx, result.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return "", fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		return "", errors.New("google token response carried no id_token")
	}
	return idToken, nil
}

func newCallbackApp(expectedState string, results chan<- callbackResult) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Storefront OAuth Callback",
		DisableStartupMessage: true,
	})

	app.Get(googleCallbackPath, func(c *fiber.Ctx) error {
		result := parseCallback(c, expectedState)

		select {
		case results <- result:
		default:
		}

		if result.err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("Sign-in failed: " + result.err.Error())
		}
		return c.SendString("Sign-in complete. You can close this window and return to the terminal.")
	})

	return app
}

func parseCallback(c *fiber.Ctx, expectedState string) callbackResult {
	if providerErr := c.Query("error"); providerErr != "" {
		return callbackResult{err: fmt.Errorf("google sign-in failed: %s", providerErr)}
	}

	state := c.Query("state")
	_, provider, err := oauthPKCE.DecodeState(state)
	if err != nil || state != expectedState || !strings.EqualFold(provider, "google") {
		return callbackResult{err: ErrStateMismatch}
	}

	code := c.Query("code")
	if code == "" {
		return callbackResult{err: errors.New("callback carried no authorization code")}
	}
	return callbackResult{code: code}
}
