package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Balaga-Lokesh/SAVR-sub000/client"

	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Request a one-time code and exchange it for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := context.Background()

			if err := a.sess.RequestOTP(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Code sent to %s\n", a.sess.OTPDestination())

			fmt.Print("Enter code: ")
			reader := bufio.NewReader(os.Stdin)
			code, _ := reader.ReadString('\n')

			if err := a.sess.VerifyOTP(ctx, args[0], strings.TrimSpace(code)); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s\n", a.sess.Profile().Username)
			return nil
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			a.sess.Logout(context.Background())
			fmt.Println("Logged out")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.sess.Refresh(context.Background()); err != nil {
				return err
			}
			p := a.sess.Profile()
			if p == nil {
				fmt.Println("Not logged in")
				return nil
			}
			fmt.Printf("%s <%s> (%s)\n", p.Username, p.Email, a.sess.Role())
			return nil
		},
	}
}

func productsCmd() *cobra.Command {
	var search, category string
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List catalog products",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			products, err := a.catalog.Products(context.Background())
			if err != nil {
				return err
			}
			for _, p := range client.Search(products, search, category) {
				fmt.Printf("%5d  %-30s  %8.2f  stock %-4d  %s\n",
					p.ProductID, p.Name, p.Price, p.Stock, p.MartName)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "filter by name")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	return cmd
}

func cartCmd() *cobra.Command {
	cart := &cobra.Command{
		Use:   "cart",
		Short: "Manage the local cart",
	}

	cart.AddCommand(&cobra.Command{
		Use:   "add <product-id> [qty]",
		Short: "Add a product (quantity merges)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			qty := 1
			if len(args) == 2 {
				if qty, err = strconv.Atoi(args[1]); err != nil {
					return fmt.Errorf("invalid quantity %q", args[1])
				}
			}
			a.cart.Add(id, qty)
			fmt.Printf("Cart has %d lines\n", a.cart.Len())
			return nil
		},
	})

	cart.AddCommand(&cobra.Command{
		Use:   "set <product-id> <qty>",
		Short: "Set a line's quantity (0 removes)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			a.cart.SetQuantity(id, qty)
			fmt.Printf("Cart has %d lines\n", a.cart.Len())
			return nil
		},
	})

	cart.AddCommand(&cobra.Command{
		Use:   "rm <product-id>",
		Short: "Remove a line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			a.cart.Remove(id)
			fmt.Printf("Cart has %d lines\n", a.cart.Len())
			return nil
		},
	})

	cart.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			a.cart.Clear()
			fmt.Println("Cart cleared")
			return nil
		},
	})

	cart.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show cart contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			items := a.cart.Items()
			if len(items) == 0 {
				fmt.Println("Cart is empty")
				return nil
			}
			products, err := a.catalog.Products(context.Background())
			if err != nil {
				return err
			}
			for _, line := range client.ResolveCart(items, products) {
				if line.Placeholder {
					fmt.Printf("%5d  (no longer available)        x%d\n",
						line.Item.ProductID, line.Item.Quantity)
					continue
				}
				fmt.Printf("%5d  %-30s  %8.2f  x%d\n",
					line.Item.ProductID, line.Product.Name, line.Product.Price, line.Item.Quantity)
			}
			return nil
		},
	})

	return cart
}

func optimizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "optimize",
		Short: "Compute a multi-store plan for the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			plan, err := a.optimize.Optimize(context.Background(), a.cart)
			if err != nil {
				return err
			}
			if plan == nil {
				fmt.Println("Cart is empty, nothing to optimize")
				return nil
			}

			for _, mart := range plan.Marts {
				fmt.Printf("%s (%.3f km, ETA %d min, delivery %d)\n",
					mart.MartName, mart.DistanceKm, mart.EtaMin, mart.DeliveryCharge)
				for _, item := range mart.Items {
					fmt.Printf("  %-30s  %8.2f  x%d = %.2f\n",
						item.Name, item.UnitPrice, item.Qty, item.LinePrice)
				}
			}
			fmt.Printf("Items %.2f + delivery %d = %.2f (ETA total %d min)\n",
				plan.ItemsPrice, plan.DeliveryTotal, plan.GrandTotal, plan.EtaTotalMin)
			return nil
		},
	}
}

func checkoutCmd() *cobra.Command {
	var name, email, phone, address string
	var addressID int
	var usePlan bool

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order from the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := context.Background()

			ck := a.checkout()
			if usePlan {
				if _, err := a.optimize.Optimize(ctx, a.cart); err != nil {
					return err
				}
				confirmed, err := a.optimize.Confirm()
				if err != nil {
					return err
				}
				ck.AttachPlan(confirmed)
			}

			details := client.Details{Name: name, Email: email, Phone: phone, AddressText: address}
			if addressID > 0 {
				details.AddressID = &addressID
			}
			if err := ck.SubmitDetails(details); err != nil {
				return err
			}

			confirmation, err := ck.PlaceOrder(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Placed %d order(s), total %.2f\n",
				len(confirmation.OrderIDs), confirmation.GrandTotal)
			for _, o := range confirmation.Orders {
				if o.MartName != "" {
					fmt.Printf("  order #%d  %s  %.2f\n", o.OrderID, o.MartName, o.Total)
				} else {
					fmt.Printf("  order #%d  %.2f\n", o.OrderID, o.Total)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "contact name")
	cmd.Flags().StringVar(&email, "email", "", "contact email")
	cmd.Flags().StringVar(&phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&address, "address", "", "typed delivery address")
	cmd.Flags().IntVar(&addressID, "address-id", 0, "saved address id")
	cmd.Flags().BoolVar(&usePlan, "plan", true, "optimize first and order from the plan")
	return cmd
}

func addressesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "addresses",
		Short: "List saved addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			var resp struct {
				Addresses []struct {
					AddressID int     `json:"address_id"`
					Line1     string  `json:"line1"`
					City      string  `json:"city"`
					Pincode   *string `json:"pincode"`
					IsDefault bool    `json:"is_default"`
				} `json:"addresses"`
			}
			if err := a.api.Get(context.Background(), "/api/v1/addresses", &resp); err != nil {
				return err
			}
			for _, addr := range resp.Addresses {
				marker := " "
				if addr.IsDefault {
					marker = "*"
				}
				pin := ""
				if addr.Pincode != nil {
					pin = *addr.Pincode
				}
				fmt.Printf("%s %4d  %s, %s %s\n", marker, addr.AddressID, addr.Line1, addr.City, pin)
			}
			return nil
		},
	}
}

func ordersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List placed orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			var resp struct {
				Orders []struct {
					OrderID   int     `json:"order_id"`
					TotalCost float64 `json:"total_cost"`
					Status    string  `json:"status"`
				} `json:"orders"`
			}
			if err := a.api.Get(context.Background(), "/api/v1/orders", &resp); err != nil {
				return err
			}
			for _, o := range resp.Orders {
				fmt.Printf("#%-5d  %10.2f  %s\n", o.OrderID, o.TotalCost, o.Status)
			}
			return nil
		},
	}
}
