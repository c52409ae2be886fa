package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/liminos-studio/site/internal/prefs"
	"github.com/liminos-studio/site/internal/site"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the page once",
	Long: `Renders the page as a visitor would see it after it finishes loading,
optionally after clicking the theme toggle, switching language, or
scrolling. Preferences persist in the data directory under --scope, so
consecutive renders behave like one returning visitor.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("lang", "", "switch to this language after loading")
	renderCmd.Flags().Bool("toggle-theme", false, "click the theme toggle after loading")
	renderCmd.Flags().Float64("scroll-y", 0, "scroll the window to this offset after loading")
	renderCmd.Flags().StringP("output", "o", "", "write the page to this file instead of stdout")
	renderCmd.Flags().String("scope", "cli", "preference scope")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	renderer, _, err := newRenderer(cfg)
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	scope, _ := cmd.Flags().GetString("scope")
	lang, _ := cmd.Flags().GetString("lang")
	toggle, _ := cmd.Flags().GetBool("toggle-theme")
	scrollY, _ := cmd.Flags().GetFloat64("scroll-y")

	p := prefs.New(prefs.NewSQLiteStore(database, scope), cfg.Defaults.Theme, cfg.Defaults.Language)
	out, err := renderer.Render(context.Background(), site.Request{
		Prefs:       p,
		ToggleTheme: toggle,
		Lang:        lang,
		Scroll:      cmd.Flags().Changed("scroll-y"),
		ScrollY:     scrollY,
	})
	if err != nil {
		return err
	}

	if out.Result.ProjectsErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: projects: %v\n", out.Result.ProjectsErr)
	}
	if out.Result.LangErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: translations: %v\n", out.Result.LangErr)
	}
	if out.ActionErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", out.ActionErr)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "theme=%s lang=%s\n", out.Theme, out.Lang)
	}

	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		_, err := os.Stdout.Write(out.HTML)
		return err
	}
	if err := os.WriteFile(path, out.HTML, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Page written to %s\n", path)
	return nil
}
