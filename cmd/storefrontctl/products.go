package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"axm-storefront/internal/model"
)

func newProductsCmd(g *globals) *cobra.Command {
	var category, filter, maxPrice string

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products",
		Long: `List the catalog, optionally narrowed by category (tops, bottoms,
accessories, vault), collection filter (new-arrivals, best-sellers, sale,
vault, limited) and a maximum price in rupees.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if category != "" {
				q.Set("category", category)
			}
			if filter != "" {
				q.Set("filter", filter)
			}
			if maxPrice != "" {
				q.Set("max_price", maxPrice)
			}
			path := "/products"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			c := g.client()
			var resp struct {
				Products []model.Product `json:"products"`
				Count    int             `json:"count"`
			}
			if err := c.do("GET", path, nil, &resp); err != nil {
				return err
			}

			for _, p := range resp.Products {
				fmt.Fprintf(c.out, "%-6s %-32s %-12s %10s  %s\n",
					p.ID, p.Name, p.Category, p.Price.Rupees(), badgeList(p.Badges))
			}
			c.printInfo("%d products", resp.Count)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "category key")
	cmd.Flags().StringVar(&filter, "filter", "", "collection filter key")
	cmd.Flags().StringVar(&maxPrice, "max-price", "", "maximum price in rupees")
	return cmd
}

func newProductCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id|handle>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := g.client()
			var p model.Product
			if err := c.do("GET", "/products/"+url.PathEscape(args[0]), nil, &p); err != nil {
				return err
			}

			fmt.Fprintf(c.out, "%s%s%s (%s)\n", colorBold, p.Name, colorReset, p.ID)
			fmt.Fprintf(c.out, "  price:    %s", p.Price.Rupees())
			if p.OnSale() {
				fmt.Fprintf(c.out, " (was %s)", p.CompareAtPrice.Rupees())
			}
			fmt.Fprintln(c.out)
			fmt.Fprintf(c.out, "  category: %s\n", p.Category)
			if len(p.Badges) > 0 {
				fmt.Fprintf(c.out, "  badges:   %s\n", badgeList(p.Badges))
			}
			if len(p.Sizes) > 0 {
				fmt.Fprintf(c.out, "  sizes:    %v\n", p.Sizes)
			}
			if len(p.Colors) > 0 {
				fmt.Fprintf(c.out, "  colors:   %v\n", p.Colors)
			}
			fmt.Fprintf(c.out, "  image:    %s\n", p.DefaultImage())
			return nil
		},
	}
}

func badgeList(badges []model.Badge) string {
	out := ""
	for i, b := range badges {
		if i > 0 {
			out += ", "
		}
		out += string(b)
	}
	return out
}
