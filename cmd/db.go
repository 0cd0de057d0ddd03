package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"newstyping/config/database"
	"newstyping/internal/article/model"
	"newstyping/pkg/logger"
)

// recentLimit is how many articles status prints in detail.
const recentLimit = 5

var (
	flagForce  bool
	resetDelay = 5 * time.Second
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show article counts and the most recent articles",
	RunE: withApp(func(ctx context.Context, a *app, w io.Writer) error {
		status, err := a.maintenance.Status(ctx)
		if err != nil {
			return err
		}
		printStatus(w, status)
		return nil
	}),
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete expired articles",
	RunE: withApp(func(ctx context.Context, a *app, w io.Writer) error {
		result, err := a.maintenance.Cleanup(ctx)
		if err != nil {
			return err
		}
		printCleanup(w, result)
		return nil
	}),
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete ALL articles",
	RunE: withApp(func(ctx context.Context, a *app, w io.Writer) error {
		if !flagForce {
			fmt.Fprintln(w, "WARNING: This will delete ALL articles!")
			fmt.Fprintf(w, "Press Ctrl+C to cancel, or wait %s to continue...\n\n", resetDelay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(resetDelay):
			}
		}

		result, err := a.maintenance.Reset(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Successfully reset database - deleted %d articles\n", result.DeletedCount)
		return nil
	}),
}

var preloadCmd = &cobra.Command{
	Use:   "preload",
	Short: "Fetch, summarize and store a batch of fresh articles",
	RunE: withApp(func(ctx context.Context, a *app, w io.Writer) error {
		n, err := a.ingestion.Refresh(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Preloaded %d articles\n", n)
		return nil
	}),
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the articles and typing_tests tables if missing",
	RunE: withApp(func(ctx context.Context, a *app, w io.Writer) error {
		if err := database.Migrate(ctx, a.db); err != nil {
			return err
		}
		fmt.Fprintln(w, "Schema applied")
		return nil
	}),
}

func init() {
	resetCmd.Flags().BoolVar(&flagForce, "force", false, "skip the confirmation delay")
}

// withApp loads config and connects before running fn, then closes the
// database. One-shot commands run without the live feed.
func withApp(fn func(ctx context.Context, a *app, w io.Writer) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, false)
		if err != nil {
			return err
		}
		defer a.Close()

		return fn(ctx, a, cmd.OutOrStdout())
	}
}

func printStatus(w io.Writer, status model.Status) {
	fmt.Fprintln(w, "Database Statistics:")
	fmt.Fprintf(w, "   Total articles: %d\n", status.TotalArticles)
	fmt.Fprintf(w, "   Active articles: %d\n", status.ActiveArticles)
	fmt.Fprintf(w, "   Expired articles: %d\n", status.ExpiredArticles)
	fmt.Fprintln(w)

	if len(status.Articles) == 0 {
		return
	}

	fmt.Fprintln(w, "Recent Articles:")
	for i, a := range status.Articles {
		if i == recentLimit {
			break
		}
		state := "EXPIRED"
		if a.Active {
			state = "ACTIVE"
		}
		fmt.Fprintf(w, "   %d. %s (%s)\n", i+1, a.Title, state)
		fmt.Fprintf(w, "      ID: %s\n", a.ID)
		fmt.Fprintf(w, "      Words: %d\n", a.WordCount)
		fmt.Fprintf(w, "      Created: %s\n", a.CreatedAt.Local().Format(time.DateTime))
		fmt.Fprintf(w, "      Expires: %s\n", a.ExpiresAt.Local().Format(time.DateTime))
		fmt.Fprintln(w)
	}
}

func printCleanup(w io.Writer, result model.CleanupResult) {
	fmt.Fprintf(w, "Successfully deleted %d expired articles\n", result.DeletedCount)
	if len(result.DeletedArticles) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Deleted articles:")
	for i, a := range result.DeletedArticles {
		fmt.Fprintf(w, "   %d. %s\n", i+1, a.Title)
	}
}
