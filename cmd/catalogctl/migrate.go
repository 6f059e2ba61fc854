package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/intermodalpt/catalogue/migrations"
)

// migrationRow is the rendered form of one migration.
type migrationRow struct {
	Version   int64      `json:"version"`
	Path      string     `json:"path"`
	State     string     `json:"state"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
}

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect the schema migrations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withProvider(cmd.Context(), func(p *goose.Provider) error {
				results, err := p.Up(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([]migrationRow, 0, len(results))
				for _, r := range results {
					rows = append(rows, migrationRow{Version: r.Source.Version, Path: r.Source.Path, State: "applied"})
				}
				return a.render(cmd.OutOrStdout(), rows, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "applied %s migration(s)\n", humanize.Comma(int64(len(rows))))
					return err
				})
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withProvider(cmd.Context(), func(p *goose.Provider) error {
				r, err := p.Down(cmd.Context())
				if err != nil {
					return err
				}
				row := migrationRow{Version: r.Source.Version, Path: r.Source.Path, State: "rolled back"}
				return a.render(cmd.OutOrStdout(), row, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "rolled back %d %s\n", row.Version, row.Path)
					return err
				})
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List every migration and whether it is applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withProvider(cmd.Context(), func(p *goose.Provider) error {
				statuses, err := p.Status(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([]migrationRow, 0, len(statuses))
				for _, s := range statuses {
					row := migrationRow{Version: s.Source.Version, Path: s.Source.Path, State: string(s.State)}
					if !s.AppliedAt.IsZero() {
						at := s.AppliedAt
						row.AppliedAt = &at
					}
					rows = append(rows, row)
				}
				return a.render(cmd.OutOrStdout(), rows, func(w io.Writer) error {
					return migrationTable(w, rows)
				})
			})
		},
	})
	return cmd
}

// withProvider runs fn with a goose provider over the configured database.
func (a *app) withProvider(ctx context.Context, fn func(*goose.Provider) error) error {
	pool, err := a.connect(ctx)
	if err != nil {
		return err
	}
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	p, err := migrations.NewProvider(db)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return fn(p)
}

func migrationTable(w io.Writer, rows []migrationRow) error {
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		applied := "-"
		if r.AppliedAt != nil {
			applied = humanize.Time(*r.AppliedAt)
		}
		cells = append(cells, []string{strconv.FormatInt(r.Version, 10), r.State, applied, r.Path})
	}
	return table(w, []string{"Version", "State", "Applied", "Path"}, cells)
}
