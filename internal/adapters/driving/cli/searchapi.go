package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/adapters/driving/httpserver"
	"github.com/custodia-labs/folio/internal/adapters/driving/searchapi"
)

var searchAddr string

var searchAPICmd = &cobra.Command{
	Use:   "search-api",
	Short: "Run the search API",
	Long: `Runs the search API over an in-memory index of published content.

  GET /search?q=&page=&pageSize=&type=   ranked results
  GET /health                            index status

The index is built at startup, updated incrementally every
search.incremental_interval and rebuilt every search.full_rebuild_interval.`,
	Args: cobra.NoArgs,
	RunE: runSearchAPI,
}

func init() {
	searchAPICmd.Flags().StringVar(&searchAddr, "addr", "", "listen address (overrides search.addr)")
	rootCmd.AddCommand(searchAPICmd)
}

func runSearchAPI(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()
	if searchAddr != "" {
		rt.config.Search.Addr = searchAddr
	}

	ctx := cmd.Context()
	rt.watchConfig(ctx)

	sched, err := rt.scheduler()
	if err != nil {
		return err
	}
	handler := searchapi.NewHandler(newSearchIndex(ctx, rt, sched))

	return runWithScheduler(ctx, sched, func(ctx context.Context) error {
		return httpserver.Run(ctx, "search-api", rt.config.Search.Addr, handler)
	})
}
