package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/liminos-studio/site/internal/progress"
	"github.com/liminos-studio/site/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Prerender a static copy of the site",
	Long: `Prerenders index.html for the default language and index.<lang>.html for
each configured language, then copies the assets matching assets.include
into the output directory.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("output", "", "override output directory (defaults to output_dir)")
	buildCmd.Flags().Bool("strict", false, "fail when a page cannot load its projects or translations")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	strict, _ := cmd.Flags().GetBool("strict")

	renderer, assets, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	if assets == nil {
		fmt.Fprintf(os.Stderr, "Note: assets are served from %s and will not be copied\n", cfg.Assets.BaseURL)
	}

	res, err := renderer.Build(context.Background(), site.BuildOptions{
		OutputDir:    outputDir,
		DefaultTheme: cfg.Defaults.Theme,
		DefaultLang:  cfg.Defaults.Language,
		Languages:    cfg.Languages,
		Assets:       assets,
		Include:      cfg.Assets.Include,
		Strict:       strict,
		Reporter:     progress.NewReporter(),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Static site built: %s (%d pages, %d assets)\n", outputDir, len(res.Pages), len(res.Assets))
	for _, name := range res.Degraded {
		fmt.Fprintf(os.Stderr, "Warning: %s was built without all of its data\n", name)
	}
	if verbose {
		for _, name := range append(res.Pages, res.Assets...) {
			fmt.Println("  " + name)
		}
	}
	return nil
}
