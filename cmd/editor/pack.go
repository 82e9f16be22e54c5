package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/conquest-editor/internal/archive"
	"github.com/KirkDiggler/conquest-editor/internal/errors"
)

func newPackCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "pack",
		Short: "Pack the campaign directory back into the save archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.cfg.SaveFile == "" {
				return errors.InvalidArgument("--save-file is required to pack")
			}
			n, err := archive.Pack(opts.cfg.CampaignDir(), opts.cfg.SaveFile)
			if err != nil {
				return err
			}
			slog.Info("Packed campaign", "files", n, "save_file", opts.cfg.SaveFile)
			fmt.Fprintf(cmd.OutOrStdout(), "Packed %d files into %s\n", n, opts.cfg.SaveFile)
			return nil
		},
	}
}

func newUnpackCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "unpack",
		Short: "Extract the save archive into the campaign directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.cfg.SaveFile == "" {
				return errors.InvalidArgument("--save-file is required to unpack")
			}
			n, err := archive.Unpack(opts.cfg.SaveFile, opts.cfg.CampaignDir())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unpacked %d files into %s\n", n, opts.cfg.CampaignDir())
			return nil
		},
	}
}
