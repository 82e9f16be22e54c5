// Package resupply tops unit inventories up to their standard loadouts and
// charges the campaign AP for it
package resupply

//go:generate mockgen -destination=mock/mock_service.go -package=resupplymock github.com/KirkDiggler/conquest-editor/internal/orchestrators/resupply Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/session"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/logsink"
	"github.com/KirkDiggler/conquest-editor/internal/rules"
)

// Service defines the interface for inventory refills
type Service interface {
	// Unit refills one loaded unit
	Unit(ctx context.Context, input *UnitInput) (*UnitOutput, error)

	// Squad refills every loaded member of a squad
	Squad(ctx context.Context, input *SquadInput) (*SquadOutput, error)

	// All refills the whole roster, squad by squad
	All(ctx context.Context, input *AllInput) (*AllOutput, error)
}

// Config holds the dependencies for the resupply orchestrator
type Config struct {
	Rules *rules.Rules
	// Roller picks a reference loadout when several breeds carry a weapon.
	// Defaults to dice.DefaultRoller.
	Roller   dice.Roller
	Sink     logsink.Sink
	EventBus events.EventBus
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

	return vb.Build()
}

type orchestrator struct {
	policy   rules.Resupply
	roller   dice.Roller
	sink     logsink.Sink
	eventBus events.EventBus
}

// NewOrchestrator creates a new resupply orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	roller := cfg.Roller
	if roller == nil {
		roller = dice.DefaultRoller
	}
	sink := cfg.Sink
	if sink == nil {
		sink = logsink.Discard{}
	}

	return &orchestrator{
		policy:   cfg.Rules.Resupply,
		roller:   roller,
		sink:     sink,
		eventBus: cfg.EventBus,
	}, nil
}

// Unit refills one unit. Steps the wallet cannot pay for are skipped and
// listed in the report.
func (o *orchestrator) Unit(ctx context.Context, input *UnitInput) (*UnitOutput, error) {
	if input == nil || input.Session == nil {
		return nil, errors.InvalidArgument("session is required")
	}
	if input.UnitID == "" {
		return nil, errors.InvalidArgument("unit id is required")
	}
	unit, ok := input.Session.Unit(input.UnitID)
	if !ok {
		return nil, errors.NotFoundf("unit %s is not loaded", input.UnitID).WithEntity(input.UnitID)
	}

	report, err := o.refillUnit(ctx, input.Session, unit)
	if err != nil {
		return nil, err
	}
	return &UnitOutput{Report: report}, nil
}

// Squad refills the loaded members of a squad. A unit that fails is skipped.
func (o *orchestrator) Squad(ctx context.Context, input *SquadInput) (*SquadOutput, error) {
	if input == nil || input.Session == nil {
		return nil, errors.InvalidArgument("session is required")
	}
	if _, ok := input.Session.Squad(input.SquadID); !ok {
		return nil, errors.NotFoundf("squad %d not found", input.SquadID)
	}

	reports, skipped, err := o.refillUnits(ctx, input.Session, input.Session.SquadUnits(input.SquadID))
	if err != nil {
		return nil, err
	}
	return &SquadOutput{Reports: reports, Skipped: skipped}, nil
}

// All refills every loaded unit in roster order
func (o *orchestrator) All(ctx context.Context, input *AllInput) (*AllOutput, error) {
	if input == nil || input.Session == nil {
		return nil, errors.InvalidArgument("session is required")
	}
	sess := input.Session
	startAP := sess.Wallet.AP

	var units []*session.Unit
	for _, sq := range sess.Squads {
		units = append(units, sess.SquadUnits(sq.ID)...)
	}
	reports, skipped, err := o.refillUnits(ctx, sess, units)
	if err != nil {
		return nil, err
	}

	out := &AllOutput{Reports: reports, Skipped: skipped, Spent: startAP - sess.Wallet.AP}
	slog.Info("Refilled roster",
		"units", len(reports),
		"skipped", len(skipped),
		"ap_spent", out.Spent,
		"ap_left", sess.Wallet.AP)
	return out, nil
}

func (o *orchestrator) refillUnits(ctx context.Context, sess *session.Session, units []*session.Unit) ([]*Report, []session.SkippedUnit, error) {
	var reports []*Report
	var skipped []session.SkippedUnit
	seen := make(map[string]bool, len(units))
	for _, u := range units {
		if seen[u.ID()] {
			continue
		}
		seen[u.ID()] = true

		report, err := o.refillUnit(ctx, sess, u)
		if err != nil {
			if errors.GetCode(err) == errors.CodeCanceled {
				return nil, nil, err
			}
			logsink.Logf(o.sink, "Skipping unit %s: %v", u.ID(), err)
			skipped = append(skipped, session.SkippedUnit{ID: u.ID(), Reason: err})
			continue
		}
		reports = append(reports, report)
	}
	return reports, skipped, nil
}

func (o *orchestrator) refillUnit(ctx context.Context, sess *session.Session, unit *session.Unit) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeCanceled, "refill canceled")
	}
	r := &refill{
		ctx:    ctx,
		o:      o,
		base:   sess.Base,
		wallet: sess.Wallet,
		inv:    unit.Inventory,
		report: newReport(unit.ID()),
	}

	var err error
	if r.inv.IsVehicle() {
		err = r.vehicle()
	} else {
		err = r.human()
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to refill %s", unit.ID())
	}

	slog.Debug("Refilled unit",
		"unit", unit.ID(),
		"breed", r.inv.Breed,
		"items", len(r.report.Added),
		"ap_spent", r.report.Spent)
	return r.report, nil
}

// pick returns one of options, chosen by the roller
func (o *orchestrator) pick(options []string) (string, error) {
	if len(options) == 1 {
		return options[0], nil
	}
	roll, err := o.roller.Roll(len(options))
	if err != nil {
		return "", errors.Wrap(err, "failed to roll reference loadout")
	}
	if roll < 1 || roll > len(options) {
		return "", errors.Internalf("roll %d out of range 1..%d", roll, len(options))
	}
	return options[roll-1], nil
}
