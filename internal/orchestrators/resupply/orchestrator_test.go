package resupply_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/inventory"
	"github.com/KirkDiggler/conquest-editor/internal/knowledge"
	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/resupply"
	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/session"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/editorevents"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/logsink"
	"github.com/KirkDiggler/conquest-editor/internal/repositories/campaign"
	"github.com/KirkDiggler/conquest-editor/internal/rules"
	"github.com/KirkDiggler/conquest-editor/internal/testutils"
)

// fixedRoller always rolls the same value, or fails when err is set
type fixedRoller struct {
	value int
	err   error
	sizes []int
}

func (r *fixedRoller) Roll(size int) (int, error) {
	r.sizes = append(r.sizes, size)
	if r.err != nil {
		return 0, r.err
	}
	return r.value, nil
}

func (r *fixedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

type OrchestratorTestSuite struct {
	suite.Suite
	ctx          context.Context
	base         *knowledge.Base
	sessions     session.Service
	sink         *logsink.Recorder
	roller       *fixedRoller
	received     map[string]int
	orchestrator resupply.Service
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.sink = logsink.NewRecorder()
	dataDir := testutils.WriteGameData(s.T(), testutils.DefaultGameData())

	built, err := knowledge.Build(s.ctx, &knowledge.BuildInput{DataDir: dataDir, Rules: rules.Default()})
	s.Require().NoError(err)
	s.base = built.Base

	repo, err := campaign.NewFileRepository(&campaign.Config{Dir: filepath.Join(dataDir, "campaign")})
	s.Require().NoError(err)
	s.sessions, err = session.NewOrchestrator(&session.Config{CampaignRepo: repo})
	s.Require().NoError(err)

	s.received = make(map[string]int)
	bus := events.NewBus()
	for _, eventType := range []string{
		editorevents.ItemAdded,
		editorevents.StackFilled,
		editorevents.PlacementFailed,
		editorevents.CurrencySpent,
		editorevents.BudgetExhausted,
	} {
		eventType := eventType
		bus.SubscribeFunc(eventType, 0, func(_ context.Context, _ events.Event) error {
			s.received[eventType]++
			return nil
		})
	}

	s.roller = &fixedRoller{value: 1}
	s.orchestrator, err = resupply.NewOrchestrator(&resupply.Config{
		Rules:    rules.Default(),
		Roller:   s.roller,
		Sink:     s.sink,
		EventBus: bus,
	})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) open() *session.Session {
	out, err := s.sessions.Open(s.ctx, &session.OpenInput{Base: s.base})
	s.Require().NoError(err)
	return out.Session
}

func (s *OrchestratorTestSuite) unit(sess *session.Session, id string) *inventory.EntityInventory {
	u, ok := sess.Unit(id)
	s.Require().True(ok)
	return u.Inventory
}

func (s *OrchestratorTestSuite) TestRefillRifleman() {
	sess := s.open()

	out, err := s.orchestrator.Unit(s.ctx, &resupply.UnitInput{Session: sess, UnitID: testutils.RiflemanID})
	s.Require().NoError(err)

	inv := s.unit(sess, testutils.RiflemanID)
	s.Equal(40, inv.Count("kar98k.ammo"))
	s.Equal(2, inv.Count("medkit.item"))
	s.Equal(1, inv.Count("kar98k.weapon"))
	s.Equal(10, inv.Resources)

	// medkits 2 x 0.2, ammo round(30 x 0.05, 1), resources 30 units x 0.25
	s.InDelta(0.4+1.5+7.5, out.Report.Spent, 1e-9)
	s.InDelta(57.25-9.4, sess.Wallet.AP, 1e-9)
	s.Equal(map[string]int{"kar98k.ammo": 30, "medkit.item": 2}, out.Report.Added)
	s.Empty(out.Report.Exhausted)

	s.Equal(1, s.received[editorevents.StackFilled])
	s.Equal(2, s.received[editorevents.ItemAdded])
	s.Equal(3, s.received[editorevents.CurrencySpent])
	s.True(s.sink.Contains("Total 30 resources added to 0x10 for 7.5 AP."))
	s.Empty(s.roller.sizes)
}

func (s *OrchestratorTestSuite) TestRefillIsIdempotent() {
	sess := s.open()
	_, err := s.orchestrator.Unit(s.ctx, &resupply.UnitInput{Session: sess, UnitID: testutils.RiflemanID})
	s.Require().NoError(err)
	ap := sess.Wallet.AP
	entries := s.unit(sess, testutils.RiflemanID).Entries()

	out, err := s.orchestrator.Unit(s.ctx, &resupply.UnitInput{Session: sess, UnitID: testutils.RiflemanID})
	s.Require().NoError(err)
	s.Empty(out.Report.Added)
	s.Zero(out.Report.Spent)
	s.Equal(ap, sess.Wallet.AP)
	s.Equal(entries, s.unit(sess, testutils.RiflemanID).Entries())
}

func (s *OrchestratorTestSuite) TestRefillUnarmedInfantry() {
	sess := s.open()

	out, err := s.orchestrator.Unit(s.ctx, &resupply.UnitInput{Session: sess, UnitID: testutils.SMGunnerID})
	s.Require().NoError(err)

	inv := s.unit(sess, testutils.SMGunnerID)
	s.Equal(1, inv.Count("mp40.weapon"))
	s.Equal(2, inv.Count("m24.grenade"))
	s.Equal(192, inv.Count("mp40.ammo"))
	s.Len(inv.Entries(), 1+2+6)
	s.Equal(10, inv.Resources)

	s.InDelta(4.5+1.2+19.2, out.Report.Spent, 1e-9)
	s.True(s.sink.Contains("Added weapon to inventory: mp40.weapon of 0x11."))
}

func (s *OrchestratorTestSuite) TestRefillVehicle() {
	sess := s.open()
	sess.Wallet.AP = 1000

	out, err := s.orchestrator.Unit(s.ctx, &resupply.UnitInput{Session: sess, UnitID: testutils.TankID})
	s.Require().NoError(err)

	inv := s.unit(sess, testutils.TankID)
	s.Equal(1, inv.Count("medkit.item"))
	s.Equal(4, inv.Count("m24.grenade"))
	s.Equal(20, inv.Count("75mm_he.ammo"))
	s.Zero(inv.Count("mp40.ammo"))
	s.Equal(0, inv.Supplies)
	s.InDelta(300, inv.Fuel, 1e-9)

	// medkit 0.2, grenades 2.4, shells 120, supplies 40 x 0.15, fuel 179.5 x 0.25
	s.InDelta(0.2+2.4+120+6+44.9, out.Report.Spent, 1e-9)
	s.True(s.sink.Contains("Total 40 supplies added to 0x20 for 6.0 AP."))
}

func (s *OrchestratorTestSuite) TestBudgetExhaustionSkipsSteps() {
	sess := s.open()
	sess.Wallet.AP = 5

	out, err := s.orchestrator.Unit(s.ctx, &resupply.UnitInput{Session: sess, UnitID: testutils.RiflemanID})
	s.Require().NoError(err)

	inv := s.unit(sess, testutils.RiflemanID)
	s.Equal(40, inv.Count("kar98k.ammo"))
	s.Equal(7, inv.Resources)
	s.Equal([]string{"resources supplies/resources"}, out.Report.Exhausted)
	s.InDelta(5-0.4-1.5, sess.Wallet.AP, 1e-9)
	s.Equal(1, s.received[editorevents.BudgetExhausted])
	s.True(s.sink.Contains("Not enough AP to refill supplies/resources in 0x10 inventory."))
}

func (s *OrchestratorTestSuite) TestPlacementFailureKeepsGoing() {
	sess := s.open()
	inv := s.unit(sess, testutils.RiflemanID)

	// rifles across x 0..4 of every row, full ammo stacks in x 5..7
	var entries []string
	for y := 0; y < 6; y++ {
		entries = append(entries, inventory.FormatEntry("kar98k.weapon", 1, 0, y))
		for x := 5; x < 8; x++ {
			entries = append(entries, inventory.FormatEntry("kar98k.ammo", 20, x, y))
		}
	}
	s.Require().NoError(inv.SetEntries(entries))

	out, err := s.orchestrator.Unit(s.ctx, &resupply.UnitInput{Session: sess, UnitID: testutils.RiflemanID})
	s.Require().NoError(err)

	s.Zero(inv.Count("medkit.item"))
	s.Equal([]string{"medkit.item"}, out.Report.Failed)
	s.Equal(1, s.received[editorevents.PlacementFailed])
	s.Equal(10, inv.Resources)
	s.InDelta(7.5, out.Report.Spent, 1e-9)
}

func (s *OrchestratorTestSuite) TestForeignWeaponUsesRolledBreed() {
	sess := s.open()
	sess.Wallet.AP = 1000
	inv := s.unit(sess, testutils.RiflemanID)
	s.Require().NoError(inv.SetEntries(append(inv.Entries(), inventory.FormatEntry("mp40.weapon", 1, 0, 2))))
	s.roller.value = 2

	_, err := s.orchestrator.Unit(s.ctx, &resupply.UnitInput{Session: sess, UnitID: testutils.RiflemanID})
	s.Require().NoError(err)

	// smg_1 and tankman carry the mp40; the roll of 2 picks the tankman
	s.Equal([]int{2}, s.roller.sizes)
	s.Equal(64, inv.Count("mp40.ammo"))
	s.Equal(40, inv.Count("kar98k.ammo"))
}

func (s *OrchestratorTestSuite) TestSquadSkipsFailingUnit() {
	sess := s.open()
	sess.Wallet.AP = 1000
	inv := s.unit(sess, testutils.RiflemanID)
	s.Require().NoError(inv.SetEntries(append(inv.Entries(), inventory.FormatEntry("mp40.weapon", 1, 0, 2))))
	s.roller.err = fmt.Errorf("dice jammed")

	out, err := s.orchestrator.Squad(s.ctx, &resupply.SquadInput{Session: sess, SquadID: 0})
	s.Require().NoError(err)

	s.Require().Len(out.Skipped, 1)
	s.Equal(testutils.RiflemanID, out.Skipped[0].ID)
	s.Require().Len(out.Reports, 1)
	s.Equal(testutils.SMGunnerID, out.Reports[0].UnitID)
	s.Equal(192, s.unit(sess, testutils.SMGunnerID).Count("mp40.ammo"))
	s.True(s.sink.Contains("Skipping unit 0x10"))
}

func (s *OrchestratorTestSuite) TestAll() {
	sess := s.open()

	out, err := s.orchestrator.All(s.ctx, &resupply.AllInput{Session: sess})
	s.Require().NoError(err)

	s.Require().Len(out.Reports, 3)
	s.Empty(out.Skipped)
	s.InDelta(9.4+24.9+0.2+2.4+6, out.Spent, 1e-9)
	s.InDelta(57.25-out.Spent, sess.Wallet.AP, 1e-9)

	tank := out.Reports[2]
	s.Equal(testutils.TankID, tank.UnitID)
	s.Equal([]string{"ammo 75mm_he.ammo", "fuel fuel"}, tank.Exhausted)
	s.Equal([]string{"m24.grenade", "medkit.item"}, tank.Items())
}

func (s *OrchestratorTestSuite) TestAllThenSave() {
	sess := s.open()
	_, err := s.orchestrator.All(s.ctx, &resupply.AllInput{Session: sess})
	s.Require().NoError(err)

	saved, err := s.sessions.Save(s.ctx, &session.SaveInput{Session: sess})
	s.Require().NoError(err)
	// three inventories, rifleman resources, tank supplies
	s.Equal(5, saved.SceneEdits)
	s.Equal(1, saved.StatusEdits)
}

func (s *OrchestratorTestSuite) TestErrors() {
	sess := s.open()

	_, err := s.orchestrator.Unit(s.ctx, &resupply.UnitInput{Session: sess, UnitID: "0x999"})
	s.True(errors.IsNotFound(err))

	_, err = s.orchestrator.Unit(s.ctx, &resupply.UnitInput{Session: sess})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.orchestrator.Squad(s.ctx, &resupply.SquadInput{Session: sess, SquadID: 7})
	s.True(errors.IsNotFound(err))

	_, err = s.orchestrator.All(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err = s.orchestrator.All(ctx, &resupply.AllInput{Session: sess})
	s.Equal(errors.CodeCanceled, errors.GetCode(err))
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func TestNewOrchestratorValidation(t *testing.T) {
	_, err := resupply.NewOrchestrator(&resupply.Config{})
	assert.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = resupply.NewOrchestrator(nil)
	assert.Error(t, err)
}
