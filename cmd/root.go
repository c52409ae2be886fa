package cmd

import (
	"github.com/spf13/cobra"

	"github.com/liminos-studio/site/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "liminos",
	Short: "Serve and build the Liminos Studio site",
	Long: `liminos renders the studio's portfolio page: the project grid from
projects.json, translations from i18n/<lang>.json, and the visitor's
theme and language preferences. It can serve the page over HTTP,
render it once, or prerender a static build.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
