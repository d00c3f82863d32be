package main

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// globals holds the persistent flags shared by every command.
type globals struct {
	server  string
	session string
	timeout time.Duration
	quiet   bool
	verbose bool
	out     io.Writer
}

func (g *globals) client() *apiClient {
	return newAPIClient(g.server, g.session, g.timeout, g.out, g.quiet, g.verbose)
}

func newRootCmd(out io.Writer) *cobra.Command {
	g := &globals{out: out}

	root := &cobra.Command{
		Use:   "storefrontctl",
		Short: "AXM storefront CLI",
		Long: `storefrontctl browses the catalog, edits a cart and generates checkout
links against a running storefront server. The resolve command runs the
catalog tiers locally using the server's configuration.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&g.server, "server", envOr("STOREFRONT_URL", "http://localhost:8080"), "storefront base URL")
	flags.StringVar(&g.session, "session", os.Getenv("STOREFRONT_SESSION"), "cart session id (default cart when empty)")
	flags.DurationVar(&g.timeout, "timeout", 30*time.Second, "request timeout")
	flags.BoolVarP(&g.quiet, "quiet", "q", false, "print only results")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "print full responses")

	root.AddCommand(
		newProductsCmd(g),
		newProductCmd(g),
		newCartCmd(g),
		newCheckoutCmd(g),
		newResolveCmd(g),
	)
	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
