package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
)

func newInventoryCmd(opts *options) *cobra.Command {
	inventoryCmd := &cobra.Command{
		Use:   "inventory",
		Short: "Inspect unit inventories in the campaign save",
	}

	showCmd := &cobra.Command{
		Use:   "show [entity-id]",
		Short: "Print the items and occupancy grid of a unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := opts.app(cmd.Context())
			if err != nil {
				return err
			}
			sess, err := editor.open(cmd.Context())
			if err != nil {
				return err
			}
			unit, ok := sess.Unit(args[0])
			if !ok {
				return errors.NotFoundf("unit %s is not in the roster", args[0])
			}
			inv := unit.Inventory

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Unit %s (%s) in squad %d\n", inv.EntityID, inv.Breed, inv.SquadID)
			if size, err := inv.GridSize(); err == nil {
				fmt.Fprintf(out, "  Grid: %s\n", size)
			}
			if inv.IsVehicle() {
				fmt.Fprintf(out, "  Fuel: %v\n", inv.Fuel)
				fmt.Fprintf(out, "  Supplies missing: %d\n", inv.Supplies)
			} else {
				fmt.Fprintf(out, "  Resources: %d\n", inv.Resources)
			}
			for _, item := range inv.Items() {
				fmt.Fprintf(out, "  %-24s %5d  at (%d,%d)\n", item.Name, item.Amount, item.CellX, item.CellY)
			}
			fmt.Fprint(out, inv.GridString())
			return nil
		},
	}

	inventoryCmd.AddCommand(showCmd)
	return inventoryCmd
}
