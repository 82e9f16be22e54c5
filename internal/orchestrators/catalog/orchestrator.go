// Package catalog loads the knowledge base, reusing a stored snapshot when
// the asset tree has not changed since it was built
package catalog

//go:generate mockgen -destination=mock/mock_service.go -package=catalogmock github.com/KirkDiggler/conquest-editor/internal/orchestrators/catalog Service

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/knowledge"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/editorevents"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/logsink"
	"github.com/KirkDiggler/conquest-editor/internal/repositories/kbsnapshot"
	"github.com/KirkDiggler/conquest-editor/internal/rules"
)

// Service defines the interface for knowledge base loading
type Service interface {
	Load(ctx context.Context, input *LoadInput) (*LoadOutput, error)
	Invalidate(ctx context.Context, input *InvalidateInput) (*InvalidateOutput, error)
	// Prune drops expired and undecodable snapshots of any asset tree
	Prune(ctx context.Context, input *PruneInput) (*PruneOutput, error)
}

// Config holds the dependencies for the catalog orchestrator
type Config struct {
	// Snapshots is optional. Without it every load builds from the assets.
	Snapshots kbsnapshot.Repository
	// SnapshotTTL of zero keeps snapshots until the assets change
	SnapshotTTL time.Duration
	Rules       *rules.Rules
	Sink        logsink.Sink
	EventBus    events.EventBus
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()

	if c.Rules == nil {
		vb.RequiredField("Rules")
	}
	if c.SnapshotTTL < 0 {
		vb.InvalidField("SnapshotTTL", "cannot be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	snapshots kbsnapshot.Repository
	ttl       time.Duration
	rules     *rules.Rules
	sink      logsink.Sink
	eventBus  events.EventBus
}

// NewOrchestrator creates a new catalog orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	sink := cfg.Sink
	if sink == nil {
		sink = logsink.Discard{}
	}

	return &orchestrator{
		snapshots: cfg.Snapshots,
		ttl:       cfg.SnapshotTTL,
		rules:     cfg.Rules,
		sink:      sink,
		eventBus:  cfg.EventBus,
	}, nil
}

// Load returns the knowledge base of a data dir
func (o *orchestrator) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("DataDir", input.DataDir, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	// a missing asset dir is fatal before anything is hashed or parsed
	if err := knowledge.CheckRequiredPaths(input.DataDir); err != nil {
		return nil, err
	}

	start := time.Now()
	key, err := Fingerprint(input.DataDir, o.rules)
	if err != nil {
		return nil, err
	}

	if o.snapshots != nil && !input.Rebuild {
		base, ok := o.fromSnapshot(ctx, key)
		if ok {
			out := &LoadOutput{Base: base, Key: key, FromSnapshot: true, Duration: time.Since(start)}
			o.publish(ctx, out)
			return out, nil
		}
	}

	built, err := knowledge.Build(ctx, &knowledge.BuildInput{
		DataDir: input.DataDir,
		Rules:   o.rules,
		Sink:    o.sink,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build knowledge base")
	}

	if o.snapshots != nil {
		put, err := o.snapshots.Put(ctx, kbsnapshot.PutInput{
			Key:    key,
			Tables: built.Base.Tables(),
			TTL:    o.ttl,
		})
		if err != nil {
			// the build is still usable without a cache
			slog.Warn("Failed to store knowledge base snapshot", "key", key, "error", err)
		} else {
			slog.Info("Stored knowledge base snapshot", "key", key, "bytes", put.Bytes)
		}
	}

	out := &LoadOutput{Base: built.Base, Key: key, Duration: time.Since(start)}
	o.publish(ctx, out)
	return out, nil
}

func (o *orchestrator) fromSnapshot(ctx context.Context, key string) (*knowledge.Base, bool) {
	got, err := o.snapshots.Get(ctx, kbsnapshot.GetInput{Key: key})
	if err != nil {
		if !errors.IsNotFound(err) {
			slog.Warn("Failed to read knowledge base snapshot", "key", key, "error", err)
		}
		return nil, false
	}
	base, err := knowledge.NewBase(got.Snapshot.Tables, o.sink)
	if err != nil {
		slog.Warn("Unusable knowledge base snapshot", "key", key, "error", err)
		return nil, false
	}
	logsink.Logf(o.sink, "Loaded knowledge base snapshot %s", key)
	return base, true
}

func (o *orchestrator) publish(ctx context.Context, out *LoadOutput) {
	err := editorevents.Publish(ctx, o.eventBus, editorevents.KnowledgeLoaded, nil, map[string]any{
		editorevents.KeySeconds: out.Duration.Seconds(),
		editorevents.KeyCached:  out.FromSnapshot,
	})
	if err != nil {
		slog.Warn("Failed to publish knowledge loaded event", "error", err)
	}
}

// Invalidate drops the snapshot of the current asset tree
func (o *orchestrator) Invalidate(ctx context.Context, input *InvalidateInput) (*InvalidateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if o.snapshots == nil {
		return &InvalidateOutput{}, nil
	}
	key, err := Fingerprint(input.DataDir, o.rules)
	if err != nil {
		return nil, err
	}
	out, err := o.snapshots.Delete(ctx, kbsnapshot.DeleteInput{Key: key})
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete snapshot")
	}
	return &InvalidateOutput{Deleted: out.Deleted}, nil
}

// Prune sweeps the snapshot store
func (o *orchestrator) Prune(ctx context.Context, _ *PruneInput) (*PruneOutput, error) {
	if o.snapshots == nil {
		return &PruneOutput{}, nil
	}
	out, err := o.snapshots.Prune(ctx, kbsnapshot.PruneInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to prune snapshots")
	}
	for _, key := range out.Removed {
		logsink.Logf(o.sink, "Pruned knowledge base snapshot %s", key)
	}
	slog.Info("Pruned knowledge base snapshots", "checked", out.Checked, "removed", len(out.Removed))
	return &PruneOutput{Checked: out.Checked, Removed: out.Removed}, nil
}
