package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/adapters/driving/httpserver"
	"github.com/custodia-labs/folio/internal/adapters/driving/proxy"
)

var routerAddr string

var routerCmd = &cobra.Command{
	Use:   "router",
	Short: "Run the routing proxy",
	Long: `Runs the public HTTP entry point.

Requests under router.admin_prefix are forwarded verbatim to the frontend.
Requests under router.search_prefix are served by the frontend's search page.
Published content paths are served by the frontend; every other path gets
the frontend's not-found page with status 404.

The route cache is filled at startup and refreshed every
routes.refresh_interval.`,
	Args: cobra.NoArgs,
	RunE: runRouter,
}

func init() {
	routerCmd.Flags().StringVar(&routerAddr, "addr", "", "listen address (overrides router.addr)")
	rootCmd.AddCommand(routerCmd)
}

func runRouter(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()
	if routerAddr != "" {
		rt.config.Router.Addr = routerAddr
	}

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

	return runWithScheduler(ctx, sched, func(ctx context.Context) error {
		return httpserver.Run(ctx, "router", rt.config.Router.Addr, router)
	})
}
