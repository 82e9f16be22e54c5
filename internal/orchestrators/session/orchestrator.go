// Package session loads the campaign save into unit inventories and writes
// every change back as one batch of patches
package session

//go:generate mockgen -destination=mock/mock_service.go -package=sessionmock github.com/KirkDiggler/conquest-editor/internal/orchestrators/session Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/inventory"
	"github.com/KirkDiggler/conquest-editor/internal/knowledge"
	"github.com/KirkDiggler/conquest-editor/internal/patch"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/editorevents"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/logsink"
	"github.com/KirkDiggler/conquest-editor/internal/repositories/campaign"
)

// Service defines the interface for campaign sessions
type Service interface {
	// Open reads the save and builds an inventory for every roster member
	Open(ctx context.Context, input *OpenInput) (*OpenOutput, error)

	// Save patches every change of the session into the save
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)

	// Restore puts the save backups back in place
	Restore(ctx context.Context, input *RestoreInput) (*RestoreOutput, error)
}

// Config holds the dependencies for the session orchestrator
type Config struct {
	CampaignRepo campaign.Repository
	Sink         logsink.Sink
	EventBus     events.EventBus
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()

	if c.CampaignRepo == nil {
		vb.RequiredField("CampaignRepo")
	}

	return vb.Build()
}

type orchestrator struct {
	campaignRepo campaign.Repository
	sink         logsink.Sink
	eventBus     events.EventBus
}

// NewOrchestrator creates a new session orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	sink := cfg.Sink
	if sink == nil {
		sink = logsink.Discard{}
	}

	return &orchestrator{
		campaignRepo: cfg.CampaignRepo,
		sink:         sink,
		eventBus:     cfg.EventBus,
	}, nil
}

// Open reads the save and builds the roster inventories. A unit whose
// inventory does not load is logged and skipped; the rest of the roster is
// still usable.
func (o *orchestrator) Open(ctx context.Context, input *OpenInput) (*OpenOutput, error) {
	if input == nil || input.Base == nil {
		return nil, errors.InvalidArgument("knowledge base is required")
	}

	loaded, err := o.campaignRepo.Load(ctx, campaign.LoadInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load save")
	}
	doc := loaded.Document

	status := knowledge.ParseCampaignStatus(doc.Status, o.sink)
	sess := &Session{
		Base:     input.Base,
		Wallet:   &Wallet{MP: status.MP, AP: status.AP},
		Squads:   campaign.ParseRoster(doc.Scene, true),
		doc:      doc,
		status:   status,
		units:    make(map[string]*Unit),
		refilled: make(map[int]bool),
	}

	for _, sq := range sess.Squads {
		for _, id := range sq.AliveMembers() {
			if _, dup := sess.units[id]; dup {
				continue
			}
			unit, err := o.loadUnit(doc.Scene, sq.ID, id, input.Base)
			if err != nil {
				logsink.Logf(o.sink, "Skipping unit %s: %v", id, err)
				sess.skipped = append(sess.skipped, SkippedUnit{ID: id, Reason: err})
				continue
			}
			sess.units[id] = unit
			sess.order = append(sess.order, id)
		}
	}

	slog.Info("Opened campaign session",
		"squads", len(sess.Squads),
		"units", len(sess.order),
		"skipped", len(sess.skipped),
		"mp", status.MP,
		"ap", status.AP)

	return &OpenOutput{Session: sess, Skipped: sess.Skipped()}, nil
}

func (o *orchestrator) loadUnit(scene string, squadID int, id string, base *knowledge.Base) (*Unit, error) {
	member, ok := campaign.ReadMember(scene, squadID, id)
	if !ok {
		return nil, errors.NotFoundf("unit %s is not declared in the save", id).WithEntity(id)
	}
	inv, err := inventory.New(&inventory.Config{
		SquadID:   member.SquadID,
		EntityID:  member.ID,
		Breed:     member.Breed,
		Entries:   member.Entries,
		Supplies:  member.Supplies,
		Resources: member.Resources,
		Fuel:      member.Fuel,
		Catalog:   base,
		Sink:      o.sink,
	})
	if err != nil {
		return nil, err
	}
	return newUnit(inv), nil
}

// Save applies, in order, inventory swaps, unit scalars, the roster rewrite,
// new unit declarations and the status currencies. Patches are computed in
// memory first; nothing is written when any of them fails.
func (o *orchestrator) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil || input.Session == nil {
		return nil, errors.InvalidArgument("session is required")
	}
	sess := input.Session

	batch := o.plan(sess)
	if batch.Len() == 0 && batch.StatusLen() == 0 {
		logsink.Logf(o.sink, "No changes to save")
		return &SaveOutput{}, nil
	}

	scene, err := batch.Apply(sess.doc.Scene)
	if err != nil {
		return nil, errors.Wrap(err, "failed to patch campaign.scn")
	}
	status, err := batch.ApplyStatus(sess.doc.Status)
	if err != nil {
		return nil, errors.Wrap(err, "failed to patch status")
	}

	doc := &campaign.Document{
		Scene:     scene,
		Status:    status,
		SceneRaw:  sess.doc.SceneRaw,
		StatusRaw: sess.doc.StatusRaw,
	}
	stored, err := o.campaignRepo.Store(ctx, campaign.StoreInput{Document: doc})
	if err != nil {
		return nil, errors.Wrap(err, "failed to store save")
	}

	o.commit(sess, doc)

	out := &SaveOutput{
		SceneEdits:  batch.Len(),
		StatusEdits: batch.StatusLen(),
		BackedUp:    stored.BackedUp,
	}
	slog.Info("Saved campaign session", "scene_edits", out.SceneEdits, "status_edits", out.StatusEdits)
	if err := editorevents.Publish(ctx, o.eventBus, editorevents.SaveStored, nil, map[string]any{
		editorevents.KeyAmount: out.SceneEdits + out.StatusEdits,
	}); err != nil {
		slog.Warn("Failed to publish save event", "error", err)
	}
	return out, nil
}

func (o *orchestrator) plan(sess *Session) *patch.Batch {
	batch := patch.NewBatch()
	units := sess.Units()

	for _, u := range units {
		if u.InventoryChanged() {
			batch.ReplaceInventory(u.ID(), u.Inventory.Serialize())
		}
	}

	for _, u := range units {
		inv := u.Inventory
		if inv.Resources >= 0 && inv.Resources != u.resources {
			batch.PatchUnitScalar(inv.Breed, inv.EntityID, patch.FieldResources, float64(inv.Resources))
		}
		if inv.Supplies >= 0 && inv.Supplies != u.supplies {
			batch.PatchUnitScalar(inv.Breed, inv.EntityID, patch.FieldSupplies, float64(inv.Supplies))
		}
		if inv.Fuel >= 0 && inv.Fuel != u.fuel {
			batch.PatchUnitScalar(inv.Breed, inv.EntityID, patch.FieldFuel, inv.Fuel)
		}
	}

	if sess.rosterChanged() {
		entries := make([]string, len(sess.Squads))
		for i, sq := range sess.Squads {
			entries[i] = sq.Entry()
		}
		batch.RewriteRoster(entries)
	}

	if len(sess.declarations) > 0 {
		batch.InsertUnits(sess.declarations)
	}

	if sess.Wallet.MP != sess.status.MP {
		batch.PatchStatus(patch.StatusMP, sess.Wallet.MP)
	}
	if sess.Wallet.AP != sess.status.AP {
		batch.PatchStatus(patch.StatusAP, sess.Wallet.AP)
	}
	return batch
}

// commit makes the stored text the new baseline of the session
func (o *orchestrator) commit(sess *Session, doc *campaign.Document) {
	sess.doc = doc
	for _, u := range sess.units {
		u.markSaved()
	}
	sess.declarations = nil
	sess.Squads = campaign.ParseRoster(doc.Scene, true)
	sess.status = knowledge.ParseCampaignStatus(doc.Status, o.sink)
	sess.Wallet.MP = sess.status.MP
	sess.Wallet.AP = sess.status.AP
}

// Restore puts the save backups back in place
func (o *orchestrator) Restore(ctx context.Context, _ *RestoreInput) (*RestoreOutput, error) {
	out, err := o.campaignRepo.RestoreBackups(ctx, campaign.RestoreBackupsInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to restore backups")
	}
	return &RestoreOutput{Restored: out.Restored}, nil
}
