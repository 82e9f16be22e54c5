// Package roster edits squad membership: it buys replacements for dead
// members and moves units between squads
package roster

//go:generate mockgen -destination=mock/mock_service.go -package=rostermock github.com/KirkDiggler/conquest-editor/internal/orchestrators/roster Service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/conquest-editor/internal/entities"
	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/session"
	"github.com/KirkDiggler/conquest-editor/internal/patch"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/editorevents"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/idgen"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/logsink"
	"github.com/KirkDiggler/conquest-editor/internal/rules"
)

const (
	infantryPrefix = "mp/"
	stepMembers    = "members"
)

var _ core.Entity = (*entities.SquadInfo)(nil)

// Service defines the interface for roster edits
type Service interface {
	// RefillMembers buys replacements for the dead members of a squad
	RefillMembers(ctx context.Context, input *RefillMembersInput) (*RefillMembersOutput, error)

	// MoveUnit moves a unit to the end of another squad
	MoveUnit(ctx context.Context, input *MoveUnitInput) (*MoveUnitOutput, error)

	// ExchangeUnits swaps the roster slots of two units
	ExchangeUnits(ctx context.Context, input *ExchangeUnitsInput) (*ExchangeUnitsOutput, error)
}

// Config holds the dependencies for the roster orchestrator
type Config struct {
	Rules *rules.Rules
	// Roller draws new entity ids. Defaults to dice.DefaultRoller.
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
	substitutions map[string]string
	roller        dice.Roller
	sink          logsink.Sink
	eventBus      events.EventBus
}

// NewOrchestrator creates a new roster orchestrator
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
		substitutions: cfg.Rules.UnitSubstitutions,
		roller:        roller,
		sink:          sink,
		eventBus:      cfg.EventBus,
	}, nil
}

// substitute maps a composition member to the breed the campaign side
// fields: a foreign member uses the substitution table when it has an
// entry, otherwise the army segment of an infantry path is swapped
func (o *orchestrator) substitute(member, army string) string {
	if !strings.Contains(member, army) {
		if breed, ok := o.substitutions[member]; ok {
			return breed
		}
	}
	if !strings.Contains(member, infantryPrefix) {
		return member
	}
	parts := strings.Split(member, "/")
	if len(parts) > 1 {
		parts[1] = army
	}
	return strings.Join(parts, "/")
}

// standardMembers is the composition of a squad as the campaign side fields
// it, breed to count
func (o *orchestrator) standardMembers(comp entities.SquadCompositionInfo, army string) map[string]int {
	out := make(map[string]int, len(comp.Members))
	for member, n := range comp.Members {
		out[o.substitute(member, army)] += n
	}
	return out
}

func memberCost(base costTable, breed string) (float64, bool) {
	if strings.Contains(breed, infantryPrefix) {
		return base.InfantryCost(breed)
	}
	c, ok := base.VehicleCost(breed)
	return float64(c), ok
}

type costTable interface {
	InfantryCost(member string) (float64, bool)
	VehicleCost(name string) (int, bool)
}

// RefillMembers compares the squad's loaded members with its composition and
// buys each missing breed with MP, up to the number of deceased slots. Every
// new unit takes the first deceased slot and gets a unit declaration queued
// for the next save. A squad is refilled at most once per session.
func (o *orchestrator) RefillMembers(ctx context.Context, input *RefillMembersInput) (*RefillMembersOutput, error) {
	if input == nil || input.Session == nil {
		return nil, errors.InvalidArgument("session is required")
	}
	sess := input.Session
	sq, ok := sess.Squad(input.SquadID)
	if !ok {
		return nil, errors.NotFoundf("squad %d not found", input.SquadID)
	}
	name := sq.QuotedName()
	comp, ok := sess.Base.Composition(name)
	if !ok {
		return nil, errors.NotFoundf("no composition for squad %s", name)
	}

	army := sess.Status().Army
	standard := o.standardMembers(comp, army)
	current := make(map[string]int)
	loaded := 0
	for _, u := range sess.SquadUnits(sq.ID) {
		current[u.Inventory.Breed]++
		loaded++
	}
	wanted := 0
	for _, n := range standard {
		wanted += n
	}

	out := &RefillMembersOutput{}
	if loaded >= wanted {
		logsink.Logf(o.sink, "Squad has maximum number of members... Cannot add more members!")
		out.Reason = "squad is full"
		return out, nil
	}
	if sess.Refilled(sq.ID) {
		logsink.Logf(o.sink, "Squad has already been resupplied with new members!")
		out.Reason = "squad was already refilled"
		return out, nil
	}
	if sq.IndexOf(entities.DeceasedID) < 0 {
		logsink.Logf(o.sink, "No free slot left in squad %s", name)
		out.Reason = "no free slot"
		return out, nil
	}

	gen := idgen.NewEntity(o.roller, takenIDs(sess))
	breeds := make([]string, 0, len(standard))
	for breed := range standard {
		breeds = append(breeds, breed)
	}
	sort.Strings(breeds)

	for _, breed := range breeds {
		for n := current[breed]; n < standard[breed]; n++ {
			if loaded+len(out.Added) >= wanted {
				break
			}
			slot := sq.IndexOf(entities.DeceasedID)
			if slot < 0 {
				logsink.Logf(o.sink, "No free slot left in squad %s", name)
				break
			}
			added, err := o.addMember(ctx, sess, sq, slot, breed, gen)
			if err != nil {
				return nil, err
			}
			if added == nil {
				continue
			}
			out.Added = append(out.Added, *added)
			out.Spent += added.Cost
		}
	}
	if len(out.Added) > 0 {
		sess.MarkRefilled(sq.ID)
	}

	logsink.Logf(o.sink, "Added %d new squad members to squad %s for %v MP.", len(out.Added), name, out.Spent)
	slog.Info("Refilled squad members", "squad", name, "added", len(out.Added), "mp_spent", out.Spent, "mp_left", sess.Wallet.MP)
	return out, nil
}

func (o *orchestrator) addMember(ctx context.Context, sess *session.Session, sq *entities.SquadInfo, slot int, breed string, gen *idgen.EntityGenerator) (*NewMember, error) {
	cost, ok := memberCost(sess.Base, breed)
	if !ok {
		logsink.Logf(o.sink, "Could not find %s in unit costs!", breed)
		return nil, nil
	}
	if !sess.Wallet.CanAfford(editorevents.CurrencyMP, cost) {
		logsink.Logf(o.sink, "Not enough MP to add %s to squad %s!", breed, sq.QuotedName())
		o.publish(ctx, editorevents.BudgetExhausted, sq, map[string]any{
			editorevents.KeyStep:     stepMembers,
			editorevents.KeyBreed:    breed,
			editorevents.KeyCurrency: editorevents.CurrencyMP,
			editorevents.KeyCost:     cost,
		})
		return nil, nil
	}

	id := gen.Generate()
	if id == "" {
		return nil, errors.ResourceExhausted("no free entity id left")
	}
	if err := sess.Wallet.Spend(editorevents.CurrencyMP, cost); err != nil {
		return nil, err
	}
	sq.Replace(slot, id)

	keyword := patch.EntityKeyword
	if strings.Contains(breed, infantryPrefix) {
		keyword = patch.HumanKeyword
	}
	declaration := patch.UnitDeclaration(keyword, breed, id)
	sess.DeclareUnit(declaration)
	logsink.Logf(o.sink, "Added new unit entry to squad %s: %s", sq.QuotedName(), declaration)

	o.publish(ctx, editorevents.CurrencySpent, sq, map[string]any{
		editorevents.KeyStep:     stepMembers,
		editorevents.KeyCurrency: editorevents.CurrencyMP,
		editorevents.KeyCost:     cost,
	})
	o.publish(ctx, editorevents.MemberRefilled, sq, map[string]any{
		editorevents.KeyBreed: breed,
		editorevents.KeyCost:  cost,
	})
	return &NewMember{ID: id, Breed: breed, Cost: cost}, nil
}

// takenIDs covers ids in the save text and ids handed out this session
// that are only in the roster so far
func takenIDs(sess *session.Session) []string {
	ids := sess.EntityIDs()
	for _, sq := range sess.Squads {
		ids = append(ids, sq.Members...)
	}
	return ids
}

func (o *orchestrator) publish(ctx context.Context, eventType string, source core.Entity, data map[string]any) {
	if err := editorevents.Publish(ctx, o.eventBus, eventType, source, data); err != nil {
		slog.Warn("Failed to publish roster event", "type", eventType, "error", err)
	}
}

// MoveUnit removes the unit from its squad and appends it to the target
func (o *orchestrator) MoveUnit(_ context.Context, input *MoveUnitInput) (*MoveUnitOutput, error) {
	if input == nil || input.Session == nil {
		return nil, errors.InvalidArgument("session is required")
	}
	sess := input.Session
	from, _, ok := sess.SquadOf(input.UnitID)
	if !ok {
		return nil, errors.NotFoundf("unit %s is not in the roster", input.UnitID).WithEntity(input.UnitID)
	}
	to, ok := sess.Squad(input.SquadID)
	if !ok {
		return nil, errors.NotFoundf("squad %d not found", input.SquadID)
	}
	if from.ID == to.ID {
		return nil, errors.FailedPreconditionf("unit %s is already in squad %s", input.UnitID, to.QuotedName())
	}

	from.Remove(input.UnitID)
	to.Append(input.UnitID)
	if u, ok := sess.Unit(input.UnitID); ok {
		u.Inventory.SquadID = to.ID
	}

	logsink.Logf(o.sink, "Moved %s from squad %s to squad %s", input.UnitID, from.QuotedName(), to.QuotedName())
	return &MoveUnitOutput{FromSquadID: from.ID, ToSquadID: to.ID}, nil
}

// ExchangeUnits puts each unit in the other's roster slot
func (o *orchestrator) ExchangeUnits(_ context.Context, input *ExchangeUnitsInput) (*ExchangeUnitsOutput, error) {
	if input == nil || input.Session == nil {
		return nil, errors.InvalidArgument("session is required")
	}
	if input.UnitA == input.UnitB {
		return nil, errors.InvalidArgumentf("cannot exchange %s with itself", input.UnitA)
	}
	sess := input.Session
	sqA, slotA, ok := sess.SquadOf(input.UnitA)
	if !ok {
		return nil, errors.NotFoundf("unit %s is not in the roster", input.UnitA).WithEntity(input.UnitA)
	}
	sqB, slotB, ok := sess.SquadOf(input.UnitB)
	if !ok {
		return nil, errors.NotFoundf("unit %s is not in the roster", input.UnitB).WithEntity(input.UnitB)
	}

	sqA.Replace(slotA, input.UnitB)
	sqB.Replace(slotB, input.UnitA)
	if u, ok := sess.Unit(input.UnitA); ok {
		u.Inventory.SquadID = sqB.ID
	}
	if u, ok := sess.Unit(input.UnitB); ok {
		u.Inventory.SquadID = sqA.ID
	}

	logsink.Logf(o.sink, "Exchanged %s (squad %s) with %s (squad %s)", input.UnitA, sqA.QuotedName(), input.UnitB, sqB.QuotedName())
	return &ExchangeUnitsOutput{SquadA: sqA.ID, SquadB: sqB.ID}, nil
}
