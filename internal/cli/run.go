package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/staticpress/prerender/internal/config"
	"github.com/staticpress/prerender/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Render every route × locale × theme combination to static HTML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		sum, err := pipeline.New(cfg, cmd.ErrOrStderr()).Run(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d/%d pages rendered in %s\n",
			sum.Succeeded, sum.Total, sum.Duration.Round(time.Millisecond))

		if !sum.Success() {
			return fmt.Errorf("%d of %d pages failed", sum.Total-sum.Succeeded, sum.Total)
		}
		return nil
	},
}

func init() {
	addConfigFlags(runCmd)
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "prerender.yaml", "path to pipeline settings YAML")
	cmd.Flags().String("routes", "routes.yaml", "path to route list YAML")
}

// loadConfig reads and validates the two configuration sources. Any problem
// is fatal: the pipeline never runs against an incomplete route set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	settingsPath, _ := cmd.Flags().GetString("config")
	routesPath, _ := cmd.Flags().GetString("routes")

	cfg, err := config.Load(settingsPath, routesPath)
	if err != nil {
		return nil, err
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(cmd.ErrOrStderr(), "config: %s\n", e)
		}
		return nil, fmt.Errorf("invalid configuration (%d errors)", len(errs))
	}

	return cfg, nil
}
