package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/history"
	"github.com/intermodalpt/catalogue/internal/review"
)

func newContribCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contrib",
		Short: "Work the contribution moderation queue",
	}
	cmd.AddCommand(newContribListCmd(a))
	cmd.AddCommand(newContribShowCmd(a))
	cmd.AddCommand(newContribAcceptCmd(a))
	cmd.AddCommand(newContribDeclineCmd(a))
	return cmd
}

func newContribListCmd(a *app) *cobra.Command {
	var page, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List undecided contributions, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.contributions(cmd.Context())
			if err != nil {
				return err
			}
			result, err := svc.ListUndecided(cmd.Context(), domain.NewPaginationParams(&page, &limit))
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), result, func(w io.Writer) error {
				return contributionTable(w, result)
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", domain.DefaultPageSize, "page length, at most 100")
	return cmd
}

func newContribShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a contribution against the current state of its stops",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseContributionID(args[0])
			if err != nil {
				return err
			}
			svc, err := a.contributions(cmd.Context())
			if err != nil {
				return err
			}
			rv, err := svc.Review(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), rv, func(w io.Writer) error {
				return writeReview(w, rv)
			})
		},
	}
}

func newContribAcceptCmd(a *app) *cobra.Command {
	var (
		evaluator string
		verify    bool
		ignore    []string
	)
	cmd := &cobra.Command{
		Use:   "accept <id>",
		Short: "Accept a pending contribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseContributionID(args[0])
			if err != nil {
				return err
			}
			actor, err := cliActor(evaluator)
			if err != nil {
				return err
			}
			svc, err := a.contributions(cmd.Context())
			if err != nil {
				return err
			}
			c, err := svc.Accept(cmd.Context(), id, actor, verify, history.NewFieldSet(ignore...))
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), c, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "contribution %d accepted (%d change(s))\n", c.ID, len(c.Changes))
				return err
			})
		},
	}
	cmd.Flags().StringVar(&evaluator, "evaluator", "", "user id of the evaluating moderator")
	cmd.Flags().BoolVar(&verify, "verify", false, "keep the verification level as proposed")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "patch fields to drop before applying")
	_ = cmd.MarkFlagRequired("evaluator")
	return cmd
}

func newContribDeclineCmd(a *app) *cobra.Command {
	var evaluator string
	cmd := &cobra.Command{
		Use:   "decline <id>",
		Short: "Decline a pending contribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseContributionID(args[0])
			if err != nil {
				return err
			}
			actor, err := cliActor(evaluator)
			if err != nil {
				return err
			}
			svc, err := a.contributions(cmd.Context())
			if err != nil {
				return err
			}
			c, err := svc.Decline(cmd.Context(), id, actor)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), c, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "contribution %d declined\n", c.ID)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&evaluator, "evaluator", "", "user id of the evaluating moderator")
	_ = cmd.MarkFlagRequired("evaluator")
	return cmd
}

func parseContributionID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid contribution id %q", s)
	}
	return id, nil
}

// cliActor builds the evaluator of a decision taken from this host.
func cliActor(evaluator string) (domain.Actor, error) {
	id, err := uuid.Parse(evaluator)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("invalid --evaluator %q: %w", evaluator, err)
	}
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	return domain.Actor{UserID: id, Address: "catalogctl@" + host}, nil
}

func contributionTable(w io.Writer, p domain.Page[history.Contribution]) error {
	rows := make([][]string, 0, len(p.Items))
	for _, c := range p.Items {
		kinds := make([]string, len(c.Changes))
		for i, ch := range c.Changes {
			kinds[i] = ch.Kind()
		}
		comment := ""
		if c.Comment != nil {
			comment = *c.Comment
		}
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10), c.AuthorID.String(), strings.Join(kinds, ","), humanize.Time(c.SubmissionDate), comment,
		})
	}
	if err := table(w, []string{"ID", "Author", "Changes", "Submitted", "Comment"}, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "page %d, %s of %s undecided\n", p.Page, humanize.Comma(int64(len(p.Items))), humanize.Comma(p.Total))
	return err
}

func writeReview(w io.Writer, rv review.Review) error {
	fmt.Fprintf(w, "Contribution %d by %s, %s (%s)\n", rv.ContributionID, rv.AuthorID, rv.Status, rv.SubmittedAgo)
	if rv.Comment != nil {
		fmt.Fprintf(w, "  %q\n", *rv.Comment)
	}
	for i, c := range rv.Changes {
		fmt.Fprintf(w, "\n[%d] %s %d\n", i, c.Kind, c.EntityID)
		if c.Missing {
			fmt.Fprintln(w, "    entity no longer exists")
			continue
		}
		for _, f := range c.Fields {
			fmt.Fprintf(w, "    %s: %s\n", f.Field, f.Pretty())
		}
		if c.Displacement != nil {
			fmt.Fprintf(w, "    moves %s\n", c.Displacement.Human)
		}
		if len(c.Stale) > 0 {
			fmt.Fprintf(w, "    changed since submission: %s\n", strings.Join(c.Stale, ", "))
		}
	}
	return nil
}
