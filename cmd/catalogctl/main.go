// Command catalogctl is the operator CLI of the catalogue: it runs
// migrations, works the contribution queue and inspects stop history
// directly against the database.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/intermodalpt/catalogue/internal/config"
	"github.com/intermodalpt/catalogue/internal/repo"
	"github.com/intermodalpt/catalogue/internal/service"
)

func main() {
	a := &app{log: slog.New(slog.NewTextHandler(os.Stderr, nil))}
	defer a.close()
	if err := newRootCmd(a).ExecuteContext(context.Background()); err != nil {
		a.log.Error("catalogctl failed", "error", err)
		a.close()
		os.Exit(1)
	}
}

// app carries the state shared by every subcommand. The database is opened
// on first use so that argument errors never need one.
type app struct {
	output string
	log    *slog.Logger
	pool   *pgxpool.Pool
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Operate the transit catalogue",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch a.output {
			case outputText, outputJSON, outputYAML:
				return nil
			}
			return fmt.Errorf("--output must be one of %s, %s or %s", outputText, outputJSON, outputYAML)
		},
	}
	root.PersistentFlags().StringVarP(&a.output, "output", "o", outputText, "output format: text, json or yaml")

	root.AddCommand(newMigrateCmd(a))
	root.AddCommand(newContribCmd(a))
	root.AddCommand(newStopCmd(a))
	return root
}

// connect opens the database pool described by the environment (and an
// optional .env file).
func (a *app) connect(ctx context.Context) (*pgxpool.Pool, error) {
	if a.pool != nil {
		return a.pool, nil
	}
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	a.pool = pool
	return pool, nil
}

func (a *app) close() {
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
}

func (a *app) contributions(ctx context.Context) (*service.ContributionService, error) {
	pool, err := a.connect(ctx)
	if err != nil {
		return nil, err
	}
	repos := repo.NewRepos(pool)
	return service.NewContributionService(repos.Contributions, repos.Stops, repo.NewTransactor(pool), a.log), nil
}

func (a *app) stops(ctx context.Context) (*service.StopService, error) {
	pool, err := a.connect(ctx)
	if err != nil {
		return nil, err
	}
	repos := repo.NewRepos(pool)
	return service.NewStopService(repos.Stops, repos.Changelog, repo.NewTransactor(pool)), nil
}

// render writes v in the selected output format; text delegates to the
// command's own human-readable layout.
func (a *app) render(w io.Writer, v any, text func(io.Writer) error) error {
	return render(w, a.output, v, text)
}
