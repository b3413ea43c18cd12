package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/abisalde/storefront-client/internal/app"
	"github.com/abisalde/storefront-client/internal/checkout"
	customErrors "github.com/abisalde/storefront-client/internal/errors"
	"github.com/abisalde/storefront-client/internal/model"
	"github.com/abisalde/storefront-client/internal/utils/validator"
	"github.com/abisalde/storefront-client/internal/worker"
	"github.com/urfave/cli/v2"
)

func optionalString(c *cli.Context, name string) *string {
	if !c.IsSet(name) {
		return nil
	}
	v := c.String(name)
	return &v
}

func validateEmailFlag(c *cli.Context) error {
	return validator.ValidateEmail(c.String("email"))
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in with email and password",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"STOREFRONT_PASSWORD"}},
		},
		Before: validateEmailFlag,
		Action: withApp(func(ctx context.Context, a *app.App, c *cli.Context) error {
			if err := a.Session.Login(ctx, c.String("email"), c.String("password")); err != nil {
				return err
			}
			printSession(a.Session.Snapshot())
			return nil
		}),
	}
}

func signupCommand() *cli.Command {
	return &cli.Command{
		Name:  "signup",
		Usage: "Create an account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"STOREFRONT_PASSWORD"}},
			&cli.StringFlag{Name: "first-name", Required: true},
			&cli.StringFlag{Name: "last-name", Required: true},
			&cli.StringFlag{Name: "phone"},
		},
		Before: func(c *cli.Context) error {
			if err := validateEmailFlag(c); err != nil {
				return err
			}
			return validator.ValidatePassword(c.String("password"))
		},
		Action: withApp(func(ctx context.Context, a *app.App, c *cli.Context) error {
			err := a.Session.Signup(ctx,
				c.String("email"),
				c.String("password"),
				c.String("first-name"),
				c.String("last-name"),
				optionalString(c, "phone"),
			)
			if errors.Is(err, customErrors.ErrRegistrationPending) {
				fmt.Println("Your sign-in was created but the store account is pending; run `storefront reconcile` to retry.")
			}
			if err != nil {
				return err
			}
			printSession(a.Session.Snapshot())
			return nil
		}),
	}
}

func googleLoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "google-login",
		Usage: "Sign in with Google in the browser",
		Action: withApp(func(ctx context.Context, a *app.App, c *cli.Context) error {
			if err := a.Session.LoginWithGoogle(ctx); err != nil {
				return err
			}
			printSession(a.Session.Snapshot())
			return nil
		}),
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Sign out and forget the stored session",
		Action: withApp(func(ctx context.Context, a *app.App, c *cli.Context) error {
			return a.Session.Logout(ctx)
		}),
	}
}

func resetPasswordCommand() *cli.Command {
	return &cli.Command{
		Name:  "reset-password",
		Usage: "Email a password reset link",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
		},
		Before: validateEmailFlag,
		Action: withApp(func(ctx context.Context, a *app.App, c *cli.Context) error {
			return a.Session.ResetPassword(ctx, c.String("email"))
		}),
	}
}

func profileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show the signed-in account",
		Action: withApp(func(ctx context.Context, a *app.App, c *cli.Context) error {
			printSession(a.Session.Snapshot())
			return nil
		}),
		Subcommands: []*cli.Command{
			{
				Name:  "update",
				Usage: "Update name and phone",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "first-name", Required: true},
					&cli.StringFlag{Name: "last-name", Required: true},
					&cli.StringFlag{Name: "phone"},
				},
				Action: withApp(func(ctx context.Context, a *app.App, c *cli.Context) error {
					err := a.Session.UpdateProfile(ctx, c.String("first-name"), c.String("last-name"), optionalString(c, "phone"))
					if err != nil {
						return err
					}
					printSession(a.Session.Snapshot())
					return nil
				}),
			},
		},
	}
}

func reconcileCommand() *cli.Command {
	return &cli.Command{
		Name:  "reconcile",
		Usage: "Retry a pending store account registration",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "watch", Usage: "keep retrying until the registration goes through"},
			&cli.DurationFlag{Name: "interval", Value: worker.DefaultRetryInterval},
		},
		Action: withApp(func(ctx context.Context, a *app.App, c *cli.Context) error {
			if c.Bool("watch") {
				w := worker.NewPendingRegistrationWorker(a.Session, c.Duration("interval"))
				if err := w.Start(ctx); err != nil {
					return err
				}
			} else if err := a.Session.ReconcilePending(ctx); err != nil {
				return err
			}
			printSession(a.Session.Snapshot())
			return nil
		}),
	}
}

func homeCommand() *cli.Command {
	return &cli.Command{
		Name:  "home",
		Usage: "Show featured and latest products",
		Action: withApp(func(ctx context.Context, a *app.App, c *cli.Context) error {
			home, err := a.Catalog.Home(ctx)
			if err != nil {
				return err
			}
			printProducts("Featured", home.Featured)
			printProducts("Latest", home.Latest)
			return nil
		}),
	}
}

func cartCommand() *cli.Command {
	show := withApp(func(ctx context.Context, a *app.App, c *cli.Context) error {
		printCart(a.Cart.Cart())
		return nil
	})

	return &cli.Command{
		Name:   "cart",
		Usage:  "Show and change the cart",
		Action: show,
		Subcommands: []*cli.Command{
			{Name: "show", Usage: "Show the cart", Action: show},
			{
				Name:  "add",
				Usage: "Add a product",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "product", Required: true},
					&cli.IntFlag{Name: "quantity", Value: 1},
				},
				Before: func(c *cli.Context) error {
					if c.Int("quantity") < 1 {
						return customErrors.ErrInvalidQuantity
					}
					return nil
				},
				Action: withApp(func(ctx context.Context, a *app.App, c *cli.Context) error {
					if err := a.Cart.AddToCart(ctx, c.Int64("product"), c.Int("quantity")); err != nil {
						return err
					}
					printCart(a.Cart.Cart())
					return nil
				}),
			},
			{
				Name:  "update",
				Usage: "Set an item's quantity, 0 removes it",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "item", Required: true},
					&cli.IntFlag{Name: "quantity", Required: true},
				},
				Action: withApp(func(ctx context.Context, a *app.App, c *cli.Context) error {
					if err := a.Cart.UpdateCartItem(ctx, c.Int64("item"), c.Int("quantity")); err != nil {
						return err
					}
					printCart(a.Cart.Cart())
					return nil
				}),
			},
			{
				Name:  "remove",
				Usage: "Remove an item",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "item", Required: true},
				},
				Action: withApp(func(ctx context.Context, a *app.App, c *cli.Context) error {
					if err := a.Cart.RemoveFromCart(ctx, c.Int64("item")); err != nil {
						return err
					}
					printCart(a.Cart.Cart())
					return nil
				}),
			},
			{
				Name:  "clear",
				Usage: "Remove every item",
				Action: withApp(func(ctx context.Context, a *app.App, c *cli.Context) error {
					return a.Cart.ClearCart(ctx)
				}),
			},
		},
	}
}

type fieldFlag struct {
	name  string
	field checkout.Field
}

var shippingFlags = []fieldFlag{
	{"street", checkout.FieldShippingStreet},
	{"city", checkout.FieldShippingCity},
	{"state", checkout.FieldShippingState},
	{"country", checkout.FieldShippingCountry},
	{"postal-code", checkout.FieldShippingPostalCode},
}

var billingFlags = []fieldFlag{
	{"billing-street", checkout.FieldBillingStreet},
	{"billing-city", checkout.FieldBillingCity},
	{"billing-state", checkout.FieldBillingState},
	{"billing-country", checkout.FieldBillingCountry},
	{"billing-postal-code", checkout.FieldBillingPostalCode},
}

func checkoutCommand() *cli.Command {
	var flags []cli.Flag
	for _, f := range shippingFlags {
		flags = append(flags, &cli.StringFlag{Name: f.name, Usage: "shipping " + f.name})
	}
	for _, f := range billingFlags {
		flags = append(flags, &cli.StringFlag{Name: f.name, Usage: "defaults to the shipping address"})
	}
	flags = append(flags,
		&cli.StringFlag{Name: "payment", Value: string(model.PaymentMethodCreditCard), Usage: "CREDIT_CARD, DEBIT_CARD or PAYPAL"},
		&cli.StringFlag{Name: "notes"},
	)

	return &cli.Command{
		Name:  "checkout",
		Usage: "Place an order for the current cart",
		Flags: flags,
		Action: withApp(func(ctx context.Context, a *app.App, c *cli.Context) error {
			flow := a.Checkout
			if err := flow.Enter(ctx); err != nil {
				return err
			}
			defer flow.Leave()

			for _, f := range shippingFlags {
				if c.IsSet(f.name) {
					if err := flow.Apply(f.field, c.String(f.name)); err != nil {
						return err
					}
				}
			}
			if err := advance(flow); err != nil {
				return err
			}

			for _, f := range billingFlags {
				if !c.IsSet(f.name) {
					continue
				}
				if err := flow.SetSameAsShipping(false); err != nil {
					return err
				}
				if err := flow.Apply(f.field, c.String(f.name)); err != nil {
					return err
				}
			}
			if err := flow.Apply(checkout.FieldPaymentMethod, c.String("payment")); err != nil {
				return err
			}
			if err := flow.Apply(checkout.FieldNotes, c.String("notes")); err != nil {
				return err
			}
			if err := advance(flow); err != nil {
				return err
			}

			draft, _ := flow.Draft()
			printDraft(draft, a.Cart.Cart())

			order, err := flow.Submit(ctx)
			if err != nil {
				return err
			}
			printOrder(order)
			return nil
		}),
	}
}

// advance moves the wizard one step, naming the step that is incomplete.
func advance(flow *checkout.Flow) error {
	err := flow.Next()
	if errors.Is(err, customErrors.ErrStepInvalid) {
		draft, _ := flow.Draft()
		return fmt.Errorf("%s details are incomplete: %w", draft.Step, err)
	}
	return err
}

func ordersCommand() *cli.Command {
	return &cli.Command{
		Name:  "orders",
		Usage: "Browse and cancel orders",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "pages", Value: 1, Usage: "number of pages to load"},
		},
		Action: withApp(func(ctx context.Context, a *app.App, c *cli.Context) error {
			if err := a.Orders.Load(ctx); err != nil {
				return err
			}
			for i := 1; i < c.Int("pages") && a.Orders.HasMore(); i++ {
				if err := a.Orders.LoadMore(ctx); err != nil {
					return err
				}
			}
			printOrders(a.Orders.Orders(), a.Orders.HasMore())
			return nil
		}),
		Subcommands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Show one order",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true},
				},
				Action: withApp(func(ctx context.Context, a *app.App, c *cli.Context) error {
					order, err := a.Orders.Get(ctx, c.Int64("id"))
					if err != nil {
						return err
					}
					printOrder(order)
					return nil
				}),
			},
			{
				Name:  "cancel",
				Usage: "Cancel a pending or confirmed order",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true},
				},
				Action: withApp(func(ctx context.Context, a *app.App, c *cli.Context) error {
					if err := a.Orders.Cancel(ctx, c.Int64("id")); err != nil {
						return err
					}
					printOrders(a.Orders.Orders(), a.Orders.HasMore())
					return nil
				}),
			},
		},
	}
}
