package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "prerender",
	Short: "prerender — static-site pre-rendering pipeline",
	Long: `prerender drives a headless browser against the local preview server and
captures fully hydrated HTML for every route × locale × theme combination,
injecting resource preload hints and emitting a deployable static tree plus
sitemap.xml and robots.txt.

Routes are supplied as a YAML list; they are not discovered by crawling.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sitemapCmd)
}
