package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/abisalde/storefront-client/internal/auth"
	"github.com/abisalde/storefront-client/internal/checkout"
	"github.com/abisalde/storefront-client/internal/model"
)

const dateLayout = "Jan 2, 2006"

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func printSession(snap auth.Snapshot) {
	if snap.User == nil {
		fmt.Println("Not signed in.")
		return
	}
	fmt.Printf("Signed in as %s (%s)\n", snap.User.Email, snap.User.UID)
	if snap.Account == nil {
		fmt.Println("No store account found.")
		return
	}
	a := snap.Account
	fmt.Printf("Account #%d: %s %s, %s", a.ID, a.FirstName, a.LastName, a.Role)
	if a.Phone != "" {
		fmt.Printf(", %s", a.Phone)
	}
	fmt.Println()
}

func printProducts(title string, products []model.Product) {
	fmt.Printf("%s\n", title)
	if len(products) == 0 {
		fmt.Println("  (none)")
		return
	}
	w := newTable()
	for _, p := range products {
		price := fmt.Sprintf("$%.2f", p.DisplayPrice())
		if p.SalePrice != nil {
			price += fmt.Sprintf(" (was $%.2f)", p.Price)
		}
		fmt.Fprintf(w, "  #%d\t%s\t%s\t%s\n", p.ID, p.Name, price, p.Status)
	}
	w.Flush()
}

func printCart(cart *model.Cart) {
	if cart.IsEmpty() {
		fmt.Println("Your cart is empty.")
		return
	}
	w := newTable()
	fmt.Fprintln(w, "ITEM\tPRODUCT\tQTY\tUNIT\tTOTAL\t")
	for _, it := range cart.Items {
		name := it.ProductName
		if !it.IsAvailable {
			name += " (unavailable)"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t$%.2f\t$%.2f\t\n", it.ID, name, it.Quantity, it.UnitPrice, it.TotalPrice)
	}
	w.Flush()
	fmt.Printf("%d item(s), total $%.2f\n", cart.TotalItems, cart.TotalAmount)
}

func printAddress(label string, a model.Address) {
	fmt.Printf("%s: %s, %s, %s %s, %s\n", label, a.Street, a.City, a.State, a.PostalCode, a.Country)
}

func printDraft(d checkout.Draft, cart *model.Cart) {
	fmt.Printf("Step %d: %s\n", d.Step, d.Step)
	printAddress("Ship to", d.Shipping)
	if d.SameAsShipping {
		fmt.Println("Bill to: same as shipping")
	} else {
		printAddress("Bill to", d.Billing)
	}
	fmt.Printf("Payment: %s\n", d.PaymentMethod)
	if d.Notes != "" {
		fmt.Printf("Notes: %s\n", d.Notes)
	}
	printCart(cart)
}

func printOrder(o *model.Order) {
	fmt.Printf("Order %s (#%d) %s, payment %s\n", o.OrderNumber, o.ID, o.Status, o.PaymentStatus)
	if !o.CreatedAt.IsZero() {
		fmt.Printf("Placed %s\n", o.CreatedAt.Format(dateLayout))
	}
	if o.TrackingNumber != "" {
		fmt.Printf("Tracking: %s\n", o.TrackingNumber)
	}

	w := newTable()
	for _, it := range o.Items {
		fmt.Fprintf(w, "  %s\t%s\tx%d\t$%.2f\t\n", it.ProductName, it.ProductSKU, it.Quantity, it.TotalPrice)
	}
	w.Flush()

	fmt.Printf("Subtotal $%.2f  Shipping $%.2f  Tax $%.2f  Total $%.2f\n", o.Subtotal, o.ShippingCost, o.Tax, o.TotalAmount)
	printAddress("Ship to", o.ShippingAddress)
	printAddress("Bill to", o.BillingAddress)
	if o.Status.Cancellable() {
		fmt.Printf("Cancel with: storefront orders cancel --id %d\n", o.ID)
	}
}

func printOrders(orders []model.Order, hasMore bool) {
	if len(orders) == 0 {
		fmt.Println("No orders yet.")
		return
	}
	w := newTable()
	fmt.Fprintln(w, "ID\tNUMBER\tDATE\tSTATUS\tITEMS\tTOTAL\t")
	for _, o := range orders {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t$%.2f\t\n", o.ID, o.OrderNumber, o.CreatedAt.Format(dateLayout), o.Status, len(o.Items), o.TotalAmount)
	}
	w.Flush()
	if hasMore {
		fmt.Println("More orders available, use --pages to load more.")
	}
}
