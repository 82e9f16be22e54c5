package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/conquest-editor/internal/config"
	"github.com/KirkDiggler/conquest-editor/internal/errors"
)

// options carries the persistent flags and what is built from them
type options struct {
	dataDir         string
	saveFile        string
	rulesPath       string
	logLevel        string
	snapshotBackend string
	metricsTextfile string

	cfg    *config.Config
	logger *slog.Logger
	editor *app
}

// prepare parses the environment, lets changed flags win and sets up logging
func (o *options) prepare(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	override := func(name string, dst *string, value string) {
		if flags.Changed(name) {
			*dst = value
		}
	}
	override("data-dir", &cfg.DataDir, o.dataDir)
	override("save-file", &cfg.SaveFile, o.saveFile)
	override("rules", &cfg.Rules, o.rulesPath)
	override("log-level", &cfg.LogLevel, o.logLevel)
	override("snapshot-backend", &cfg.SnapshotBackend, o.snapshotBackend)
	override("metrics-textfile", &cfg.MetricsTextfile, o.metricsTextfile)

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	level, _ := cfg.Level()
	o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(o.logger)
	o.cfg = cfg
	return nil
}

// app builds the editor on first use. Commands that only move files never
// open the snapshot store or the campaign.
func (o *options) app(ctx context.Context) (*app, error) {
	if o.editor != nil {
		return o.editor, nil
	}
	if o.cfg == nil {
		return nil, errors.FailedPrecondition("configuration not loaded")
	}
	editor, err := newApp(ctx, o.cfg, o.logger)
	if err != nil {
		return nil, err
	}
	o.editor = editor
	return editor, nil
}

func (o *options) close() error {
	if o.editor == nil {
		return nil
	}
	err := o.editor.close()
	o.editor = nil
	return err
}
