package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/liminos-studio/site/internal/prefs"
	"github.com/liminos-studio/site/internal/server"
	"github.com/liminos-studio/site/internal/site"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the studio page over HTTP",
	Long: `Starts the HTTP server. Each request renders a fresh page using the
visitor's stored theme and language; the theme and language buttons post
to action endpoints that persist the change and redirect back.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		renderer, assets, err := newRenderer(cfg)
		if err != nil {
			return err
		}

		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAllOrigins,
		})

		h := site.NewHandler(renderer, prefs.NewVisitors(database), assetsHandler(cfg, assets), site.HandlerConfig{
			DefaultTheme:  cfg.Defaults.Theme,
			DefaultLang:   cfg.Defaults.Language,
			Languages:     cfg.Languages,
			Negotiate:     cfg.Server.NegotiateLanguage,
			SecureCookies: cfg.Server.SecureCookies,
		})
		h.RegisterRoutes(srv.Router())

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "liminos %s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())
		if verbose {
			fmt.Fprintf(os.Stderr, "  Assets: %s\n", describeAssets(cfg))
		}

		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}
