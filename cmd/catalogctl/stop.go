package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/intermodalpt/catalogue/internal/audit"
)

func newStopCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Inspect stops",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "history <id>",
		Short: "Replay the changelog of a stop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid stop id %q", args[0])
			}
			svc, err := a.stops(cmd.Context())
			if err != nil {
				return err
			}
			revs, err := svc.History(cmd.Context(), int32(id))
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), revs, func(w io.Writer) error {
				return historyTable(w, revs)
			})
		},
	})
	return cmd
}

func historyTable(w io.Writer, revs []audit.Revision) error {
	rows := make([][]string, 0, len(revs))
	for _, r := range revs {
		contribution := "-"
		if r.ContributionID != nil {
			contribution = strconv.FormatInt(*r.ContributionID, 10)
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.EntryID, 10), humanize.Time(r.Datetime), r.AuthorID.String(), r.Kind, strings.Join(r.Fields, ","), contribution,
		})
	}
	return table(w, []string{"Entry", "When", "Author", "Kind", "Fields", "Contribution"}, rows)
}
