package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"axm-storefront/internal/checkout"
)

func newCheckoutCmd(g *globals) *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Generate WhatsApp and UPI links for the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := g.client()
			var links checkout.Links
			if err := c.do("POST", "/checkout", nil, &links); err != nil {
				return err
			}

			if c.quiet {
				fmt.Fprintln(c.out, links.OrderID)
				return nil
			}
			c.printSuccess("order %s, total %s", links.OrderID, links.Totals.Total.Rupees())
			fmt.Fprintf(c.out, "  whatsapp: %s\n", links.WhatsAppURL)
			if links.UPIURL != "" {
				fmt.Fprintf(c.out, "  upi:      %s\n", links.UPIURL)
			}
			if summary {
				fmt.Fprintf(c.out, "\n%s\n", links.Summary)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "print the order message")
	return cmd
}
