package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/knowledge"
	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/catalog"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/editorevents"
	"github.com/KirkDiggler/conquest-editor/internal/repositories/kbsnapshot"
	kbsnapshotmock "github.com/KirkDiggler/conquest-editor/internal/repositories/kbsnapshot/mock"
	"github.com/KirkDiggler/conquest-editor/internal/rules"
	"github.com/KirkDiggler/conquest-editor/internal/testutils"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctx           context.Context
	ctrl          *gomock.Controller
	mockSnapshots *kbsnapshotmock.MockRepository
	bus           events.EventBus
	loaded        []events.Event
	dataDir       string
	orchestrator  catalog.Service
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.mockSnapshots = kbsnapshotmock.NewMockRepository(s.ctrl)
	s.dataDir = testutils.WriteGameData(s.T(), testutils.DefaultGameData())

	s.loaded = nil
	bus := events.NewBus()
	bus.SubscribeFunc(editorevents.KnowledgeLoaded, 0, func(_ context.Context, e events.Event) error {
		s.loaded = append(s.loaded, e)
		return nil
	})
	s.bus = bus

	orch, err := catalog.NewOrchestrator(&catalog.Config{
		Snapshots: s.mockSnapshots,
		Rules:     rules.Default(),
		EventBus:  s.bus,
	})
	s.Require().NoError(err)
	s.orchestrator = orch
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) TestLoadBuildsAndStoresOnMiss() {
	key, err := catalog.Fingerprint(s.dataDir, rules.Default())
	s.Require().NoError(err)

	s.mockSnapshots.EXPECT().
		Get(s.ctx, kbsnapshot.GetInput{Key: key}).
		Return(nil, errors.NotFound("snapshot not found"))
	s.mockSnapshots.EXPECT().
		Put(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input kbsnapshot.PutInput) (*kbsnapshot.PutOutput, error) {
			s.Equal(key, input.Key)
			s.Require().NotNil(input.Tables)
			s.Len(input.Tables.Weapons, 4)
			return &kbsnapshot.PutOutput{Snapshot: &kbsnapshot.Snapshot{Key: key, Tables: input.Tables}, Bytes: 10}, nil
		})

	out, err := s.orchestrator.Load(s.ctx, &catalog.LoadInput{DataDir: s.dataDir})
	s.Require().NoError(err)
	s.False(out.FromSnapshot)
	s.Equal(key, out.Key)
	s.Equal(4, out.Base.Stats().Weapons)

	s.Require().Len(s.loaded, 1)
	cached, _ := s.loaded[0].Context().Get(editorevents.KeyCached)
	s.Equal(false, cached)
}

func (s *OrchestratorTestSuite) TestLoadUsesSnapshot() {
	built, err := knowledge.Build(s.ctx, &knowledge.BuildInput{DataDir: s.dataDir, Rules: rules.Default()})
	s.Require().NoError(err)

	s.mockSnapshots.EXPECT().
		Get(s.ctx, gomock.Any()).
		Return(&kbsnapshot.GetOutput{Snapshot: &kbsnapshot.Snapshot{Tables: built.Base.Tables()}}, nil)

	out, err := s.orchestrator.Load(s.ctx, &catalog.LoadInput{DataDir: s.dataDir})
	s.Require().NoError(err)
	s.True(out.FromSnapshot)
	s.Equal(built.Base.Stats(), out.Base.Stats())

	cost, ok := out.Base.CostOf("rifle_squad(ger)")
	s.True(ok)
	s.Equal(73, cost)
}

func (s *OrchestratorTestSuite) TestRebuildSkipsLookup() {
	s.mockSnapshots.EXPECT().
		Put(s.ctx, gomock.Any()).
		Return(&kbsnapshot.PutOutput{}, nil)

	out, err := s.orchestrator.Load(s.ctx, &catalog.LoadInput{DataDir: s.dataDir, Rebuild: true})
	s.Require().NoError(err)
	s.False(out.FromSnapshot)
}

func (s *OrchestratorTestSuite) TestSnapshotFailuresDoNotFailLoad() {
	s.mockSnapshots.EXPECT().
		Get(s.ctx, gomock.Any()).
		Return(nil, errors.Internal("redis down"))
	s.mockSnapshots.EXPECT().
		Put(s.ctx, gomock.Any()).
		Return(nil, errors.Internal("redis down"))

	out, err := s.orchestrator.Load(s.ctx, &catalog.LoadInput{DataDir: s.dataDir})
	s.Require().NoError(err)
	s.NotNil(out.Base)
}

func (s *OrchestratorTestSuite) TestMissingAssetsAreFatal() {
	s.Require().NoError(os.RemoveAll(filepath.Join(s.dataDir, "properties")))

	_, err := s.orchestrator.Load(s.ctx, &catalog.LoadInput{DataDir: s.dataDir})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestInvalidate() {
	s.mockSnapshots.EXPECT().
		Delete(s.ctx, gomock.Any()).
		Return(&kbsnapshot.DeleteOutput{Deleted: true}, nil)

	out, err := s.orchestrator.Invalidate(s.ctx, &catalog.InvalidateInput{DataDir: s.dataDir})
	s.Require().NoError(err)
	s.True(out.Deleted)
}

func (s *OrchestratorTestSuite) TestPrune() {
	s.mockSnapshots.EXPECT().
		Prune(s.ctx, kbsnapshot.PruneInput{}).
		Return(&kbsnapshot.PruneOutput{Checked: 3, Removed: []string{"a1", "b2"}}, nil)

	out, err := s.orchestrator.Prune(s.ctx, &catalog.PruneInput{})
	s.Require().NoError(err)
	s.Equal(3, out.Checked)
	s.Equal([]string{"a1", "b2"}, out.Removed)
}

func (s *OrchestratorTestSuite) TestLoadRequiresDataDir() {
	_, err := s.orchestrator.Load(s.ctx, &catalog.LoadInput{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func TestLoadWithoutSnapshots(t *testing.T) {
	orch, err := catalog.NewOrchestrator(&catalog.Config{Rules: rules.Default()})
	require.NoError(t, err)

	out, err := orch.Load(context.Background(), &catalog.LoadInput{
		DataDir: testutils.WriteGameData(t, testutils.DefaultGameData()),
	})
	require.NoError(t, err)
	assert.False(t, out.FromSnapshot)

	inv, err := orch.Invalidate(context.Background(), &catalog.InvalidateInput{})
	require.NoError(t, err)
	assert.False(t, inv.Deleted)

	pruned, err := orch.Prune(context.Background(), &catalog.PruneInput{})
	require.NoError(t, err)
	assert.Zero(t, pruned.Checked)
}

func TestFingerprint(t *testing.T) {
	dir := testutils.WriteGameData(t, testutils.DefaultGameData())

	a, err := catalog.Fingerprint(dir, rules.Default())
	require.NoError(t, err)
	b, err := catalog.Fingerprint(dir, rules.Default())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)

	r := rules.Default()
	r.Resupply.MaxResources = 20
	c, err := catalog.Fingerprint(dir, r)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	path := filepath.Join(dir, "set", "stuff", "rifle", "kar98k.weapon")
	require.NoError(t, os.WriteFile(path, []byte("{item\n\t{mass 5}\n}\n"), 0o600))
	d, err := catalog.Fingerprint(dir, rules.Default())
	require.NoError(t, err)
	assert.NotEqual(t, a, d)
}

func TestNewOrchestratorValidation(t *testing.T) {
	_, err := catalog.NewOrchestrator(&catalog.Config{})
	assert.True(t, errors.IsInvalidArgument(err))
}
