package client

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/abisalde/storefront-client/internal/app"
	"github.com/abisalde/storefront-client/internal/configs"
	"github.com/abisalde/storefront-client/internal/navigation"
	"github.com/abisalde/storefront-client/internal/notify"
)

type AppConfig struct {
	Env        string
	ConfigPath string
	Profile    string
}

func InitConfig(appCfg *AppConfig) (*configs.Config, error) {
	if appCfg.Env == "" {
		appCfg.Env = os.Getenv("APP_ENV")
	}

	cfg, err := configs.Load(appCfg.Env, appCfg.ConfigPath)
	if err != nil {
		return nil, err
	}

	if appCfg.Profile != "" {
		cfg.Session.Profile = appCfg.Profile
	}

	if !cfg.AuthEnabled() {
		log.Println("⚠️ Firebase is not configured, sign-in commands will fail")
	}

	return cfg, nil
}

// SetupApp builds the storefront and restores any persisted sign-in.
func SetupApp(ctx context.Context, cfg *configs.Config) (*app.App, error) {
	storefront, err := app.New(ctx, cfg, app.Options{
		Navigator:   NewConsoleNavigator(os.Stderr),
		Notifier:    notify.NewConsole(os.Stderr),
		OpenBrowser: printConsentURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up storefront: %w", err)
	}

	if err := storefront.Start(ctx); err != nil {
		log.Printf("⚠️ %v", err)
	}
	return storefront, nil
}

// ConsoleNavigator records navigations and reports them on out.
type ConsoleNavigator struct {
	*navigation.History
	out *os.File
}

func NewConsoleNavigator(out *os.File) *ConsoleNavigator {
	return &ConsoleNavigator{History: navigation.NewHistory(), out: out}
}

func (n *ConsoleNavigator) Navigate(path string, state map[string]any) {
	n.History.Navigate(path, state)
	fmt.Fprintf(n.out, "➜ %s\n", path)
}

func printConsentURL(authURL string) error {
	fmt.Fprintf(os.Stderr, "🔐 Open this URL in your browser to continue with Google:\n\n  %s\n\n", authURL)
	return nil
}
