package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/resupply"
	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/session"
)

func newResupplyCmd(opts *options) *cobra.Command {
	var dryRun bool

	resupplyCmd := &cobra.Command{
		Use:   "resupply",
		Short: "Refill unit inventories to their standard loadout, paying in AP",
	}
	resupplyCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Report what would be added without saving")

	unitCmd := &cobra.Command{
		Use:   "unit [entity-id]",
		Short: "Refill one unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editSession(cmd, opts, dryRun, func(ctx context.Context, editor *app, sess *session.Session) error {
				res, err := editor.resupply.Unit(ctx, &resupply.UnitInput{Session: sess, UnitID: args[0]})
				if err != nil {
					return err
				}
				printReport(cmd.OutOrStdout(), res.Report)
				return nil
			})
		},
	}

	squadCmd := &cobra.Command{
		Use:   "squad [squad-id]",
		Short: "Refill every loaded member of a squad",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			squadID, err := parseSquadID(args[0])
			if err != nil {
				return err
			}
			return editSession(cmd, opts, dryRun, func(ctx context.Context, editor *app, sess *session.Session) error {
				res, err := editor.resupply.Squad(ctx, &resupply.SquadInput{Session: sess, SquadID: squadID})
				if err != nil {
					return err
				}
				for _, report := range res.Reports {
					printReport(cmd.OutOrStdout(), report)
				}
				printSkipped(cmd.OutOrStdout(), res.Skipped)
				return nil
			})
		},
	}

	allCmd := &cobra.Command{
		Use:   "all",
		Short: "Refill the whole roster, squad by squad",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return editSession(cmd, opts, dryRun, func(ctx context.Context, editor *app, sess *session.Session) error {
				res, err := editor.resupply.All(ctx, &resupply.AllInput{Session: sess})
				if err != nil {
					return err
				}
				for _, report := range res.Reports {
					printReport(cmd.OutOrStdout(), report)
				}
				printSkipped(cmd.OutOrStdout(), res.Skipped)
				return nil
			})
		},
	}

	resupplyCmd.AddCommand(unitCmd, squadCmd, allCmd)
	return resupplyCmd
}

func parseSquadID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 0 {
		return 0, errors.InvalidArgumentf("squad id must be a non-negative number, got %q", arg)
	}
	return id, nil
}

func printReport(out io.Writer, report *resupply.Report) {
	fmt.Fprintf(out, "Unit %s: %.1f AP\n", report.UnitID, report.Spent)
	for _, name := range report.Items() {
		fmt.Fprintf(out, "  + %-24s %d\n", name, report.Added[name])
	}
	if len(report.Exhausted) > 0 {
		fmt.Fprintf(out, "  Not enough AP for: %s\n", strings.Join(report.Exhausted, ", "))
	}
	if len(report.Failed) > 0 {
		fmt.Fprintf(out, "  No room for: %s\n", strings.Join(report.Failed, ", "))
	}
}

func printSkipped(out io.Writer, skipped []session.SkippedUnit) {
	for _, unit := range skipped {
		fmt.Fprintf(out, "Skipped unit %s: %v\n", unit.ID, unit.Reason)
	}
}
