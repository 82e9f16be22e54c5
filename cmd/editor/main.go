// Package main is the entry point for the conquest save editor
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes one command line and releases whatever it opened, also when
// the command fails
func run(args []string, stdout, stderr io.Writer) error {
	opts := &options{}
	root := newRootCmd(opts)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if closeErr := opts.close(); err == nil {
		err = closeErr
	}
	return err
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "conquest-editor",
		Short: "Conquest campaign save editor",
		Long: `conquest-editor reads the game's asset tree into a knowledge base and edits
the campaign save in place: resupplying inventories, refilling squads and
moving units between them.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.prepare,
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.dataDir, "data-dir", "", "Extracted game data directory (CONQUEST_DATA_DIR)")
	f.StringVar(&opts.saveFile, "save-file", "", "Campaign save archive to pack into (CONQUEST_SAVE_FILE)")
	f.StringVar(&opts.rulesPath, "rules", "", "YAML rules file applied over the defaults (CONQUEST_RULES)")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error (CONQUEST_LOG_LEVEL)")
	f.StringVar(&opts.snapshotBackend, "snapshot-backend", "", "Knowledge base cache: none, redis or sqlite (CONQUEST_SNAPSHOT_BACKEND)")
	f.StringVar(&opts.metricsTextfile, "metrics-textfile", "", "Write Prometheus counters to this file on exit (CONQUEST_METRICS_TEXTFILE)")

	root.AddCommand(newKBCmd(opts))
	root.AddCommand(newInventoryCmd(opts))
	root.AddCommand(newResupplyCmd(opts))
	root.AddCommand(newRosterCmd(opts))
	root.AddCommand(newBackupCmd(opts))
	root.AddCommand(newPackCmd(opts))
	root.AddCommand(newUnpackCmd(opts))

	return root
}
