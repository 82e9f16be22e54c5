package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/session"
)

type editFunc func(ctx context.Context, editor *app, sess *session.Session) error

// editSession opens the save, runs fn and stores the result unless dryRun
// is set
func editSession(cmd *cobra.Command, opts *options, dryRun bool, fn editFunc) error {
	ctx := cmd.Context()
	editor, err := opts.app(ctx)
	if err != nil {
		return err
	}
	sess, err := editor.open(ctx)
	if err != nil {
		return err
	}
	before := *sess.Wallet
	if err := fn(ctx, editor, sess); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "AP %.2f -> %.2f, MP %.2f -> %.2f\n", before.AP, sess.Wallet.AP, before.MP, sess.Wallet.MP)
	if dryRun {
		fmt.Fprintln(out, "Dry run, save left untouched")
		return nil
	}
	saved, err := editor.save(ctx, sess)
	if err != nil {
		return err
	}
	if saved.SceneEdits+saved.StatusEdits == 0 {
		fmt.Fprintln(out, "Nothing to save")
		return nil
	}
	fmt.Fprintf(out, "Saved %d scene and %d status edits\n", saved.SceneEdits, saved.StatusEdits)
	return nil
}
