package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/adapters/driving/httpserver"
	"github.com/custodia-labs/folio/internal/adapters/driving/proxy"
	"github.com/custodia-labs/folio/internal/adapters/driving/searchapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the router and the search API in one process",
	Long: `Runs the routing proxy on router.addr and the search API on search.addr
with one scheduler for the route cache and the search index.
If either server fails, both are shut down.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	rt.watchConfig(ctx)

	sched, err := rt.scheduler()
	if err != nil {
		return err
	}
	router, err := proxy.NewRouter(rt.config.Router, newRouteCache(ctx, rt, sched))
	if err != nil {
		return err
	}
	search := searchapi.NewHandler(newSearchIndex(ctx, rt, sched))

	return runWithScheduler(ctx, sched,
		func(ctx context.Context) error {
			return httpserver.Run(ctx, "router", rt.config.Router.Addr, router)
		},
		func(ctx context.Context) error {
			return httpserver.Run(ctx, "search-api", rt.config.Search.Addr, search)
		},
	)
}
