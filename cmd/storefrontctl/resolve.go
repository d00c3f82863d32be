package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"axm-storefront/internal/catalog"
	"axm-storefront/internal/config"
)

func newResolveCmd(g *globals) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Run the catalog tiers locally",
		Long: `Resolve the catalog in-process using the server configuration
(CONFIG_FILE or environment) and report which tier served it. No server is
contacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			level := slog.LevelWarn
			if g.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			res := catalog.NewTiers(cfg, logger).Resolver.ResolveDetailed(ctx)

			if asJSON {
				enc := json.NewEncoder(g.out)
				enc.SetIndent("", "  ")
				return enc.Encode(res.Products)
			}

			c := g.client()
			for _, f := range res.Failures {
				fmt.Fprintf(g.out, "%s✗ %s (%s): %v%s\n", colorRed, f.Tier, f.Source, f.Err, colorReset)
			}
			c.printSuccess("tier %s served %d products", res.Tier, len(res.Products))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the resolved products as JSON")
	return cmd
}
