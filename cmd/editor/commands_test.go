package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/conquest-editor/internal/config"
	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/knowledge"
	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/catalog"
	catalogmock "github.com/KirkDiggler/conquest-editor/internal/orchestrators/catalog/mock"
	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/resupply"
	resupplymock "github.com/KirkDiggler/conquest-editor/internal/orchestrators/resupply/mock"
	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/roster"
	rostermock "github.com/KirkDiggler/conquest-editor/internal/orchestrators/roster/mock"
	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/session"
	sessionmock "github.com/KirkDiggler/conquest-editor/internal/orchestrators/session/mock"
	"github.com/KirkDiggler/conquest-editor/internal/testutils/mocks"
)

const mockDataDir = "/games/conquest"

type CommandTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockCatalog  *catalogmock.MockService
	mockSessions *sessionmock.MockService
	mockResupply *resupplymock.MockService
	mockRoster   *rostermock.MockService
	base         *knowledge.Base
	editor       *app
}

func TestCommandSuite(t *testing.T) {
	suite.Run(t, new(CommandTestSuite))
}

func (s *CommandTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockCatalog = catalogmock.NewMockService(s.ctrl)
	s.mockSessions = sessionmock.NewMockService(s.ctrl)
	s.mockResupply = resupplymock.NewMockService(s.ctrl)
	s.mockRoster = rostermock.NewMockService(s.ctrl)
	s.base = mocks.EmptyBase()

	s.editor = &app{
		cfg:      &config.Config{DataDir: mockDataDir},
		catalog:  s.mockCatalog,
		sessions: s.mockSessions,
		resupply: s.mockResupply,
		roster:   s.mockRoster,
	}
}

func (s *CommandTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

// exec runs a command line against the mocked editor
func (s *CommandTestSuite) exec(args ...string) (string, error) {
	opts := &options{editor: s.editor}
	root := newRootCmd(opts)
	root.SetArgs(append([]string{"--data-dir", mockDataDir, "--log-level", "error"}, args...))

	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	err := root.Execute()
	return stdout.String(), err
}

func (s *CommandTestSuite) TestKBStatsFromSnapshot() {
	mocks.ExpectKnowledgeLoad(s.mockCatalog, mockDataDir, s.base, true)

	out, err := s.exec("kb", "stats")
	s.Require().NoError(err)
	s.Contains(out, "Knowledge base "+mocks.SnapshotKey)
	s.Contains(out, "From snapshot: true (25ms)")
	s.Contains(out, "Items:          0")
}

func (s *CommandTestSuite) TestKBStatsRebuild() {
	s.mockCatalog.EXPECT().
		Load(gomock.Any(), &catalog.LoadInput{DataDir: mockDataDir, Rebuild: true}).
		Return(&catalog.LoadOutput{Base: s.base, Key: mocks.SnapshotKey}, nil)

	out, err := s.exec("kb", "stats", "--rebuild")
	s.Require().NoError(err)
	s.Contains(out, "From snapshot: false")
}

func (s *CommandTestSuite) TestKBPrune() {
	s.mockCatalog.EXPECT().
		Prune(gomock.Any(), &catalog.PruneInput{}).
		Return(&catalog.PruneOutput{Checked: 4, Removed: []string{"aa", "bb"}}, nil)

	out, err := s.exec("kb", "prune")
	s.Require().NoError(err)
	s.Contains(out, "  - aa\n  - bb\n")
	s.Contains(out, "Checked 4 snapshots, removed 2")
}

func (s *CommandTestSuite) TestResupplySquad() {
	mocks.ExpectKnowledgeLoad(s.mockCatalog, mockDataDir, s.base, false)
	sess := mocks.ExpectSessionOpen(s.mockSessions, s.base, 100, 50)

	s.mockResupply.EXPECT().
		Squad(gomock.Any(), &resupply.SquadInput{Session: sess, SquadID: 3}).
		DoAndReturn(func(_ context.Context, input *resupply.SquadInput) (*resupply.SquadOutput, error) {
			input.Session.Wallet.AP -= 12.5
			return &resupply.SquadOutput{
				Reports: []*resupply.Report{{
					UnitID:    "0x30",
					Added:     map[string]int{"mp40.ammo": 64},
					Spent:     12.5,
					Exhausted: []string{"fuel fuel"},
				}},
				Skipped: []session.SkippedUnit{{ID: "0x31", Reason: errors.DataLoss("overlapping items")}},
			}, nil
		})
	mocks.ExpectSessionSave(s.mockSessions, sess, 3, 1)

	out, err := s.exec("resupply", "squad", "3")
	s.Require().NoError(err)
	s.Contains(out, "Unit 0x30: 12.5 AP")
	s.Contains(out, "mp40.ammo")
	s.Contains(out, "Not enough AP for: fuel fuel")
	s.Contains(out, "Skipped unit 0x31")
	s.Contains(out, "AP 50.00 -> 37.50, MP 100.00 -> 100.00")
	s.Contains(out, "Saved 3 scene and 1 status edits")
}

func (s *CommandTestSuite) TestResupplySaveFailure() {
	mocks.ExpectKnowledgeLoad(s.mockCatalog, mockDataDir, s.base, false)
	sess := mocks.ExpectSessionOpen(s.mockSessions, s.base, 100, 50)

	s.mockResupply.EXPECT().
		Unit(gomock.Any(), &resupply.UnitInput{Session: sess, UnitID: "0x10"}).
		Return(&resupply.UnitOutput{Report: &resupply.Report{UnitID: "0x10", Added: map[string]int{}}}, nil)
	s.mockSessions.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		Return(nil, errors.Internal("disk full"))

	_, err := s.exec("resupply", "unit", "0x10")
	s.Require().Error(err)
	s.Contains(err.Error(), "disk full")
}

func (s *CommandTestSuite) TestLoadFailureStopsBeforeOpen() {
	s.mockCatalog.EXPECT().
		Load(gomock.Any(), gomock.Any()).
		Return(nil, errors.FailedPrecondition("missing set/stuff"))

	_, err := s.exec("resupply", "all")
	s.True(errors.IsFailedPrecondition(err))
}

func (s *CommandTestSuite) TestRosterRefillNothingToDo() {
	mocks.ExpectKnowledgeLoad(s.mockCatalog, mockDataDir, s.base, false)
	sess := mocks.ExpectSessionOpen(s.mockSessions, s.base, 10, 10)

	s.mockRoster.EXPECT().
		RefillMembers(gomock.Any(), &roster.RefillMembersInput{Session: sess, SquadID: 0}).
		Return(&roster.RefillMembersOutput{Reason: "squad is full"}, nil)
	mocks.ExpectSessionSave(s.mockSessions, sess, 0, 0)

	out, err := s.exec("roster", "refill", "0")
	s.Require().NoError(err)
	s.Contains(out, "Nothing added: squad is full")
	s.Contains(out, "Nothing to save")
}

func (s *CommandTestSuite) TestRosterMoveDryRun() {
	mocks.ExpectKnowledgeLoad(s.mockCatalog, mockDataDir, s.base, false)
	sess := mocks.ExpectSessionOpen(s.mockSessions, s.base, 10, 10)

	s.mockRoster.EXPECT().
		MoveUnit(gomock.Any(), &roster.MoveUnitInput{Session: sess, UnitID: "0x11", SquadID: 2}).
		Return(&roster.MoveUnitOutput{FromSquadID: 0, ToSquadID: 2}, nil)

	out, err := s.exec("roster", "move", "--dry-run", "0x11", "2")
	s.Require().NoError(err)
	s.Contains(out, "Moved 0x11 from squad 0 to squad 2")
	s.Contains(out, "Dry run, save left untouched")
}

func (s *CommandTestSuite) TestBackupRestore() {
	s.mockSessions.EXPECT().
		Restore(gomock.Any(), &session.RestoreInput{}).
		Return(&session.RestoreOutput{Restored: []string{"campaign.scn", "status"}}, nil)

	out, err := s.exec("backup", "restore")
	s.Require().NoError(err)
	s.Equal("Restored campaign.scn\nRestored status\n", out)
}
