package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/roster"
	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/session"
)

func newRosterCmd(opts *options) *cobra.Command {
	var dryRun bool

	rosterCmd := &cobra.Command{
		Use:   "roster",
		Short: "Edit the campaign squads",
	}
	rosterCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Report the edit without saving")

	refillCmd := &cobra.Command{
		Use:   "refill [squad-id]",
		Short: "Buy replacements for the dead members of a squad, paying in MP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			squadID, err := parseSquadID(args[0])
			if err != nil {
				return err
			}
			return editSession(cmd, opts, dryRun, func(ctx context.Context, editor *app, sess *session.Session) error {
				res, err := editor.roster.RefillMembers(ctx, &roster.RefillMembersInput{Session: sess, SquadID: squadID})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if res.Reason != "" {
					fmt.Fprintf(out, "Nothing added: %s\n", res.Reason)
					return nil
				}
				for _, member := range res.Added {
					fmt.Fprintf(out, "  + %s %s for %.1f MP\n", member.ID, member.Breed, member.Cost)
				}
				fmt.Fprintf(out, "Added %d members for %.1f MP\n", len(res.Added), res.Spent)
				return nil
			})
		},
	}

	moveCmd := &cobra.Command{
		Use:   "move [entity-id] [squad-id]",
		Short: "Move a unit to the end of another squad",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			squadID, err := parseSquadID(args[1])
			if err != nil {
				return err
			}
			return editSession(cmd, opts, dryRun, func(ctx context.Context, editor *app, sess *session.Session) error {
				res, err := editor.roster.MoveUnit(ctx, &roster.MoveUnitInput{Session: sess, UnitID: args[0], SquadID: squadID})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Moved %s from squad %d to squad %d\n", args[0], res.FromSquadID, res.ToSquadID)
				return nil
			})
		},
	}

	exchangeCmd := &cobra.Command{
		Use:   "exchange [entity-id] [entity-id]",
		Short: "Swap two units between their squad slots",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editSession(cmd, opts, dryRun, func(ctx context.Context, editor *app, sess *session.Session) error {
				res, err := editor.roster.ExchangeUnits(ctx, &roster.ExchangeUnitsInput{Session: sess, UnitA: args[0], UnitB: args[1]})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exchanged %s (now squad %d) and %s (now squad %d)\n",
					args[0], res.SquadB, args[1], res.SquadA)
				return nil
			})
		},
	}

	rosterCmd.AddCommand(refillCmd, moveCmd, exchangeCmd)
	return rosterCmd
}
