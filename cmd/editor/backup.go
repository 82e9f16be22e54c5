package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/session"
)

func newBackupCmd(opts *options) *cobra.Command {
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage the .bak copies taken before the first save",
	}

	restoreCmd := &cobra.Command{
		Use:   "restore",
		Short: "Copy campaign.bak and status.bak back over the save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			editor, err := opts.app(cmd.Context())
			if err != nil {
				return err
			}
			res, err := editor.sessions.Restore(cmd.Context(), &session.RestoreInput{})
			if err != nil {
				return err
			}
			for _, name := range res.Restored {
				fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", name)
			}
			return nil
		},
	}

	backupCmd.AddCommand(restoreCmd)
	return backupCmd
}
