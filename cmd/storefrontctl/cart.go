package main

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"axm-storefront/internal/cart"
)

func newCartCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or edit the cart",
		Long: `Show or edit the cart named by --session. Without --session the
server's default cart is used.`,
	}
	cmd.AddCommand(
		newCartShowCmd(g),
		newCartAddCmd(g),
		newCartUpdateCmd(g),
		newCartRemoveCmd(g),
		newCartClearCmd(g),
	)
	return cmd
}

func newCartShowCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show cart lines and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := g.client()
			var view cart.View
			if err := c.do("GET", "/cart", nil, &view); err != nil {
				return err
			}
			printCart(c, view)
			return nil
		},
	}
}

func newCartAddCmd(g *globals) *cobra.Command {
	var size, color string
	var qty int

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := g.client()
			body := map[string]any{
				"product_id": args[0],
				"size":       size,
				"color":      color,
				"quantity":   qty,
			}
			var view cart.View
			if err := c.do("POST", "/cart/items", body, &view); err != nil {
				return err
			}
			c.printSuccess("added %d × %s", qty, args[0])
			printCart(c, view)
			return nil
		},
	}

	cmd.Flags().StringVar(&size, "size", "", "size")
	cmd.Flags().StringVar(&color, "color", "", "color")
	cmd.Flags().IntVar(&qty, "qty", 1, "quantity")
	return cmd
}

func newCartUpdateCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "update <line-id> <quantity>",
		Short: "Set a line's quantity (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}

			c := g.client()
			var view cart.View
			if err := c.do("PATCH", "/cart/items/"+url.PathEscape(args[0]), map[string]int{"quantity": qty}, &view); err != nil {
				return err
			}
			printCart(c, view)
			return nil
		},
	}
}

func newCartRemoveCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <line-id>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := g.client()
			var view cart.View
			if err := c.do("DELETE", "/cart/items/"+url.PathEscape(args[0]), nil, &view); err != nil {
				return err
			}
			printCart(c, view)
			return nil
		},
	}
}

func newCartClearCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := g.client()
			if err := c.do("DELETE", "/cart", nil, nil); err != nil {
				return err
			}
			c.printSuccess("cart cleared")
			return nil
		},
	}
}

func printCart(c *apiClient, view cart.View) {
	if len(view.Items) == 0 {
		c.printInfo("cart is empty")
		return
	}
	for _, l := range view.Items {
		fmt.Fprintf(c.out, "%-28s %-28s x%-3d %10s\n", l.ID, l.Name, l.Quantity, l.LineTotal().Rupees())
	}
	t := view.Totals
	fmt.Fprintf(c.out, "%s  subtotal %s  shipping %s  tax %s  total %s%s\n",
		colorGray, t.Subtotal.Rupees(), t.Shipping.Rupees(), t.Tax.Rupees(), t.Total.Rupees(), colorReset)
}
