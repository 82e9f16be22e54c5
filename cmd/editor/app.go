package main

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/conquest-editor/internal/config"
	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/knowledge"
	"github.com/KirkDiggler/conquest-editor/internal/metrics"
	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/catalog"
	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/resupply"
	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/roster"
	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/session"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/clock"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/idgen"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/logsink"
	redisclient "github.com/KirkDiggler/conquest-editor/internal/redis"
	"github.com/KirkDiggler/conquest-editor/internal/repositories/campaign"
	"github.com/KirkDiggler/conquest-editor/internal/repositories/kbsnapshot"
	"github.com/KirkDiggler/conquest-editor/internal/rules"
)

// app wires the orchestrators of one editor run
type app struct {
	cfg   *config.Config
	runID string

	recorder *metrics.Recorder
	catalog  catalog.Service
	sessions session.Service
	resupply resupply.Service
	roster   roster.Service

	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{
		cfg:   cfg,
		runID: idgen.NewUUID("run").Generate(),
	}
	sink := logsink.NewSlog(logger, "run_id", a.runID)

	ruleSet, err := rules.Load(cfg.Rules)
	if err != nil {
		return nil, err
	}

	bus := events.NewBus()
	a.recorder, err = metrics.NewRecorder(&metrics.Config{EventBus: bus})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create metrics recorder")
	}
	a.closers = append(a.closers, a.recorder.Close)

	snapshots, err := a.snapshotRepository(ctx)
	if err != nil {
		_ = a.close()
		return nil, err
	}

	a.catalog, err = catalog.NewOrchestrator(&catalog.Config{
		Snapshots:   snapshots,
		SnapshotTTL: cfg.SnapshotTTL,
		Rules:       ruleSet,
		Sink:        sink,
		EventBus:    bus,
	})
	if err != nil {
		_ = a.close()
		return nil, errors.Wrap(err, "failed to create catalog orchestrator")
	}

	campaignRepo, err := campaign.NewFileRepository(&campaign.Config{Dir: cfg.CampaignDir(), Sink: sink})
	if err != nil {
		_ = a.close()
		return nil, errors.Wrap(err, "failed to open campaign")
	}
	a.sessions, err = session.NewOrchestrator(&session.Config{
		CampaignRepo: campaignRepo,
		Sink:         sink,
		EventBus:     bus,
	})
	if err != nil {
		_ = a.close()
		return nil, errors.Wrap(err, "failed to create session orchestrator")
	}

	a.resupply, err = resupply.NewOrchestrator(&resupply.Config{
		Rules:    ruleSet,
		Sink:     sink,
		EventBus: bus,
	})
	if err != nil {
		_ = a.close()
		return nil, errors.Wrap(err, "failed to create resupply orchestrator")
	}

	a.roster, err = roster.NewOrchestrator(&roster.Config{
		Rules:    ruleSet,
		Sink:     sink,
		EventBus: bus,
	})
	if err != nil {
		_ = a.close()
		return nil, errors.Wrap(err, "failed to create roster orchestrator")
	}

	slog.Debug("Editor ready", "run_id", a.runID, "data_dir", cfg.DataDir, "snapshot_backend", cfg.SnapshotBackend)
	return a, nil
}

// snapshotRepository opens the configured knowledge base cache, nil for none
func (a *app) snapshotRepository(ctx context.Context) (kbsnapshot.Repository, error) {
	switch a.cfg.SnapshotBackend {
	case config.BackendRedis:
		client, err := redisclient.NewClient(a.cfg.RedisAddr, &redisclient.Options{
			DB:       a.cfg.RedisDB,
			Password: a.cfg.RedisPassword,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create redis client")
		}
		a.closers = append(a.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			// a cache outage only costs a rebuild
			slog.Warn("Redis unreachable, snapshots disabled", "addr", a.cfg.RedisAddr, "error", err)
			return nil, nil
		}
		return kbsnapshot.NewRedisRepository(&kbsnapshot.RedisConfig{Client: client, Clock: clock.New()})
	case config.BackendSQLite:
		repo, err := kbsnapshot.NewSQLiteRepository(&kbsnapshot.SQLiteConfig{Path: a.cfg.SnapshotDB(), Clock: clock.New()})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, repo.Close)
		return repo, nil
	default:
		return nil, nil
	}
}

func (a *app) loadBase(ctx context.Context) (*catalog.LoadOutput, error) {
	return a.catalog.Load(ctx, &catalog.LoadInput{DataDir: a.cfg.DataDir})
}

// open loads the knowledge base and the campaign save
func (a *app) open(ctx context.Context) (*session.Session, error) {
	loaded, err := a.loadBase(ctx)
	if err != nil {
		return nil, err
	}
	return a.openWith(ctx, loaded.Base)
}

func (a *app) openWith(ctx context.Context, base *knowledge.Base) (*session.Session, error) {
	opened, err := a.sessions.Open(ctx, &session.OpenInput{Base: base})
	if err != nil {
		return nil, err
	}
	for _, skipped := range opened.Skipped {
		slog.Warn("Unit not loaded", "unit_id", skipped.ID, "error", skipped.Reason)
	}
	return opened.Session, nil
}

func (a *app) save(ctx context.Context, sess *session.Session) (*session.SaveOutput, error) {
	return a.sessions.Save(ctx, &session.SaveInput{Session: sess})
}

// close writes the metrics textfile and releases the backends
func (a *app) close() error {
	var firstErr error
	if a.recorder != nil && a.cfg.MetricsTextfile != "" {
		if err := a.recorder.WriteTextfile(a.cfg.MetricsTextfile); err != nil {
			firstErr = err
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
