package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/staticpress/prerender/internal/artifacts"
)

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Generate sitemap.xml, robots.txt, and the worker script without rendering",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		artifacts.WriteAll(cfg, time.Now(), cmd.ErrOrStderr())
		return nil
	},
}

func init() {
	addConfigFlags(sitemapCmd)
}
