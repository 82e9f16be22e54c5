package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/catalog"
)

func newKBCmd(opts *options) *cobra.Command {
	kbCmd := &cobra.Command{
		Use:   "kb",
		Short: "Inspect the knowledge base built from the game assets",
	}

	var rebuild bool
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Build or load the knowledge base and print its table sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			editor, err := opts.app(cmd.Context())
			if err != nil {
				return err
			}
			loaded, err := editor.catalog.Load(cmd.Context(), &catalog.LoadInput{
				DataDir: editor.cfg.DataDir,
				Rebuild: rebuild,
			})
			if err != nil {
				return err
			}

			stats := loaded.Base.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Knowledge base %s\n", loaded.Key)
			fmt.Fprintf(out, "  From snapshot: %t (%s)\n", loaded.FromSnapshot, loaded.Duration.Round(time.Millisecond))
			fmt.Fprintf(out, "  Items:          %d\n", stats.Items)
			fmt.Fprintf(out, "  Patterns:       %d\n", stats.Patterns)
			fmt.Fprintf(out, "  Weapons:        %d\n", stats.Weapons)
			fmt.Fprintf(out, "  Breeds:         %d\n", stats.Breeds)
			fmt.Fprintf(out, "  Vehicles:       %d\n", stats.Vehicles)
			fmt.Fprintf(out, "  Properties:     %d\n", stats.Properties)
			fmt.Fprintf(out, "  Infantry costs: %d\n", stats.InfantryCosts)
			fmt.Fprintf(out, "  Compositions:   %d\n", stats.Compositions)
			return nil
		},
	}
	statsCmd.Flags().BoolVar(&rebuild, "rebuild", false, "Ignore a stored snapshot")

	itemCmd := &cobra.Command{
		Use:   "item [name]",
		Short: "Show what the knowledge base knows about an item",
		Long: `Show size, weight, block size and weapon category of an item together with
the breeds and vehicles that carry it. Example:

  item mp40.ammo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			editor, err := opts.app(cmd.Context())
			if err != nil {
				return err
			}
			loaded, err := editor.loadBase(cmd.Context())
			if err != nil {
				return err
			}
			base := loaded.Base

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", name)
			if size, ok := base.ResolveItemSize(name); ok {
				fmt.Fprintf(out, "  Size:   %s\n", size)
			} else {
				fmt.Fprintf(out, "  Size:   unknown\n")
			}
			fmt.Fprintf(out, "  Weight: %v\n", base.ResolveItemWeight(name))
			fmt.Fprintf(out, "  Block:  %d\n", base.BlockSize(name))
			if base.IsWeapon(name) {
				fmt.Fprintf(out, "  Weapon: %s\n", base.WeaponCategory(name))
			}
			if breeds := sorted(base.BreedsWithItem(name)); len(breeds) > 0 {
				fmt.Fprintf(out, "  Breeds: %s\n", strings.Join(breeds, ", "))
			}
			if vehicles := sorted(base.VehiclesWithItem(name)); len(vehicles) > 0 {
				fmt.Fprintf(out, "  Vehicles: %s\n", strings.Join(vehicles, ", "))
			}
			return nil
		},
	}

	invalidateCmd := &cobra.Command{
		Use:   "invalidate",
		Short: "Drop the stored snapshot of the current asset tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			editor, err := opts.app(cmd.Context())
			if err != nil {
				return err
			}
			res, err := editor.catalog.Invalidate(cmd.Context(), &catalog.InvalidateInput{DataDir: editor.cfg.DataDir})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snapshot deleted: %t\n", res.Deleted)
			return nil
		},
	}

	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove expired and unreadable snapshots from the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			editor, err := opts.app(cmd.Context())
			if err != nil {
				return err
			}
			res, err := editor.catalog.Prune(cmd.Context(), &catalog.PruneInput{})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, key := range res.Removed {
				fmt.Fprintf(out, "  - %s\n", key)
			}
			fmt.Fprintf(out, "Checked %d snapshots, removed %d\n", res.Checked, len(res.Removed))
			return nil
		},
	}

	kbCmd.AddCommand(statsCmd, itemCmd, invalidateCmd, pruneCmd)
	return kbCmd
}

func sorted(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
