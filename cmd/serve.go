package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/docgen"
	"github.com/spf13/cobra"

	"newstyping/internal/scheduler"
	"newstyping/pkg/logger"
	"newstyping/router"
	"newstyping/socket"
)

const shutdownTimeout = 10 * time.Second

var flagRoutes bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API, the article feed and the refresh scheduler",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&flagRoutes, "routes", false, "print the route table as markdown and exit")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if flagRoutes {
		r := router.Setup(router.Services{Hub: socket.NewHub(nil)}, router.Options{})
		fmt.Fprintln(cmd.OutOrStdout(), docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
			ProjectPath: "newstyping",
			Intro:       "Routes served by the news typing API.",
		}))
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()

	a, err := newApp(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	go a.hub.Run(ctx)

	sched := scheduler.New(cfg.RefreshInterval(), a.maintenance, a.ingestion)
	go sched.Run(ctx)

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: router.Setup(*a.routes(), router.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			TestsPerMinute: cfg.RateLimit.TestsPerMinute,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Sugar.Infof("Server starting on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Sugar.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
