package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
	Long: `Shows the effective configuration or changes one key in the config file.

Values come from the defaults, then the config file, then the environment
(FOLIO_FRONTEND_URL, FOLIO_CONTENT_URL, FOLIO_STATE_DIR).`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration key",
	Long: `Validates and stores one key in the config file. Durations use Go
syntax (30s, 5m, 1h); an interval of 0 disables its job.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		cmd.Println(rt.store.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}

	st := stylesFor(cmd.OutOrStdout())
	cmd.Println(st.Muted.Render("# " + rt.store.Path()))
	values := configValues(rt.config)
	for _, key := range rt.settings.Keys() {
		cmd.Printf("%s = %s\n", st.Label.Render(key), values[key])
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	if err := rt.settings.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("setting %s: %w", args[0], err)
	}

	cfg, err := rt.settings.Get()
	if err != nil {
		return err
	}
	cmd.Printf("%s = %s\n", args[0], configValues(cfg)[args[0]])
	return nil
}

// configValues renders every configuration key of cfg.
func configValues(cfg domain.Config) map[string]string {
	return map[string]string{
		services.KeyRouterAddr:         cfg.Router.Addr,
		services.KeyRouterFrontendURL:  cfg.Router.FrontendURL,
		services.KeyRouterAdminPrefix:  cfg.Router.AdminPrefix,
		services.KeyRouterSearchPrefix: cfg.Router.SearchPrefix,
		services.KeyRouterNotFoundPath: cfg.Router.NotFoundPath,
		services.KeyRouterTimeout:      cfg.Router.UpstreamTimeout.String(),
		services.KeySearchAddr:         cfg.Search.Addr,
		services.KeySearchIncremental:  cfg.Search.IncrementalInterval.String(),
		services.KeySearchFullRebuild:  cfg.Search.FullRebuildInterval.String(),
		services.KeyRoutesRefresh:      cfg.Routes.RefreshInterval.String(),
		services.KeyContentURL:         cfg.Content.URL,
		services.KeyContentTimeout:     cfg.Content.Timeout.String(),
		services.KeyContentRate:        strconv.FormatFloat(cfg.Content.RequestsPerSecond, 'g', -1, 64),
		services.KeyContentBurst:       strconv.Itoa(cfg.Content.Burst),
		services.KeyStateDir:           cfg.State.Dir,
		services.KeyLogVerbose:         strconv.FormatBool(cfg.Log.Verbose),
		services.KeyLogFormat:          cfg.Log.Format,
	}
}
