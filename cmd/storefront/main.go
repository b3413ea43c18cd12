package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	client "github.com/abisalde/storefront-client/cmd"
	"github.com/abisalde/storefront-client/internal/app"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cliApp := &cli.App{
		Name:  "storefront",
		Usage: "Browse, shop and check out against the storefront API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env", Usage: "environment (development or production)", EnvVars: []string{"APP_ENV"}},
			&cli.StringFlag{Name: "config", Usage: "path to a yaml config file"},
			&cli.StringFlag{Name: "profile", Usage: "named session profile", EnvVars: []string{"STOREFRONT_PROFILE"}},
		},
		Commands: []*cli.Command{
			loginCommand(),
			signupCommand(),
			googleLoginCommand(),
			logoutCommand(),
			resetPasswordCommand(),
			profileCommand(),
			reconcileCommand(),
			homeCommand(),
			cartCommand(),
			checkoutCommand(),
			ordersCommand(),
		},
	}

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

// withApp wires the storefront for one command invocation.
func withApp(fn func(ctx context.Context, a *app.App, c *cli.Context) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := client.InitConfig(&client.AppConfig{
			Env:        c.String("env"),
			ConfigPath: c.String("config"),
			Profile:    c.String("profile"),
		})
		if err != nil {
			return err
		}

		storefront, err := client.SetupApp(c.Context, cfg)
		if err != nil {
			return err
		}
		defer storefront.Close()

		return fn(c.Context, storefront, c)
	}
}
