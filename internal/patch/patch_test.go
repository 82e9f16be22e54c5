package patch_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/patch"
	"github.com/KirkDiggler/conquest-editor/internal/testutils"
)

const (
	riflemanBreed = "mp/ger/mid/rifleman_1"
	status        = "{status\n\t{mp 120.5}\n\t{sp 3}\n\t{ap 57.25}\n\t{rp 0}\n\t{army ger}\n}\n"
)

type PatchTestSuite struct {
	suite.Suite
	save string
}

func (s *PatchTestSuite) SetupTest() {
	s.save = testutils.DefaultSave
}

func (s *PatchTestSuite) TestReplaceInventoryRoundTrip() {
	span, ok := patch.LocateInventory(s.save, testutils.RiflemanID)
	s.Require().True(ok)
	fragment := s.save[span.Start:span.End]
	s.True(strings.HasPrefix(fragment, "{Inventory 0x10\n"))
	s.True(strings.HasSuffix(fragment, "\t\t}\n\t}"))

	out, err := patch.ReplaceInventory(s.save, testutils.RiflemanID, fragment)
	s.Require().NoError(err)
	s.Equal(s.save, out)
}

func (s *PatchTestSuite) TestReplaceInventoryTouchesOnlyItsSpan() {
	span, ok := patch.LocateInventory(s.save, testutils.RiflemanID)
	s.Require().True(ok)

	fragment := "{Inventory 0x10\n\t\t{box\n\t\t\t{clear}\n\t\t\t{item \"kar98k\" \"ammo\" 20 {cell 0 1}}\n\t\t}\n\t}"
	out, err := patch.ReplaceInventory(s.save, testutils.RiflemanID, fragment)
	s.Require().NoError(err)

	s.Equal(s.save[:span.Start]+fragment+s.save[span.End:], out)
	s.NotContains(out, "\"kar98k\" \"weapon\"")
}

func (s *PatchTestSuite) TestReplaceInventoryInsertsMissing() {
	_, ok := patch.LocateInventory(s.save, testutils.SMGunnerID)
	s.Require().False(ok)

	fragment := "{Inventory 0x11\n\t\t{box\n\t\t\t{clear}\n\t\t\t{item \"mp40\" \"weapon\" {cell 0 0}}\n\t\t}\n\t}"
	out, err := patch.ReplaceInventory(s.save, testutils.SMGunnerID, fragment)
	s.Require().NoError(err)

	s.Equal(strings.Replace(s.save, patch.RosterOpen, "\t"+fragment+"\n"+patch.RosterOpen, 1), out)

	// the inserted block is found and replaced in place next time
	again, err := patch.ReplaceInventory(out, testutils.SMGunnerID, fragment)
	s.Require().NoError(err)
	s.Equal(out, again)
}

func (s *PatchTestSuite) TestReplaceInventoryWithoutRoster() {
	_, err := patch.ReplaceInventory("{Scene\n}\n", testutils.SMGunnerID, "{Inventory 0x11\n\t}")
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *PatchTestSuite) TestLocateUnitMatchesWholeID() {
	span, ok := patch.LocateUnit(s.save, riflemanBreed, testutils.RiflemanID)
	s.Require().True(ok)
	unit := s.save[span.Start:span.End]
	s.True(strings.HasPrefix(unit, "\t{Human \"mp/ger/mid/rifleman_1\" 0x10\n"))
	s.Contains(unit, "{current 7}")
	s.True(strings.HasSuffix(unit, "\t}\n"))

	span, ok = patch.LocateUnit(s.save, riflemanBreed, "0x100")
	s.Require().True(ok)
	s.Equal("\t{Human \"mp/ger/mid/rifleman_1\" 0x100\n\t}\n", s.save[span.Start:span.End])

	_, ok = patch.LocateUnit(s.save, riflemanBreed, "0x1")
	s.False(ok)
}

func (s *PatchTestSuite) TestLocateUnitSingleLine() {
	text := "\t{Human \"mp/ger/mid/smg_1\" 0x8001}\n\t{Entity \"pz4\" 0x20\n\t}\n"
	span, ok := patch.LocateUnit(text, "", "0x8001")
	s.Require().True(ok)
	s.Equal("\t{Human \"mp/ger/mid/smg_1\" 0x8001}\n", text[span.Start:span.End])
}

func (s *PatchTestSuite) TestPatchUnitScalar() {
	testCases := []struct {
		name  string
		breed string
		id    string
		field patch.Field
		value float64
		from  string
		to    string
	}{
		{"resources", riflemanBreed, testutils.RiflemanID, patch.FieldResources, 10, "{current 7}", "{current 10}"},
		{"supplies", "pz4", testutils.TankID, patch.FieldSupplies, 0, "{current 40}", "{current 0}"},
		{"fuel", "pz4", testutils.TankID, patch.FieldFuel, 300, "{Remain 120.5}", "{Remain 300}"},
		{"fractional fuel", "pz4", testutils.TankID, patch.FieldFuel, 250.75, "{Remain 120.5}", "{Remain 250.75}"},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			out, err := patch.PatchUnitScalar(s.save, tc.breed, tc.id, tc.field, tc.value)
			s.Require().NoError(err)
			s.Equal(strings.Replace(s.save, tc.from, tc.to, 1), out)

			v, ok := patch.ReadUnitScalar(out, tc.breed, tc.id, tc.field)
			s.True(ok)
			s.InDelta(tc.value, v, 1e-9)
		})
	}
}

func (s *PatchTestSuite) TestPatchUnitScalarStaysInsideUnit() {
	// 0x11 holds {current 10}; patching 0x10 must not reach it
	out, err := patch.PatchUnitScalar(s.save, riflemanBreed, testutils.RiflemanID, patch.FieldResources, 3)
	s.Require().NoError(err)
	s.Contains(out, "{current 3}")
	s.Contains(out, "{current 10}")

	_, err = patch.PatchUnitScalar(s.save, "pz4", testutils.TankID, patch.FieldResources, 3)
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))

	_, err = patch.PatchUnitScalar(s.save, riflemanBreed, "0x100", patch.FieldResources, 3)
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))

	_, err = patch.PatchUnitScalar(s.save, riflemanBreed, "0x999", patch.FieldResources, 3)
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *PatchTestSuite) TestRewriteRoster() {
	same, err := patch.RewriteRoster(s.save, []string{
		"{\"rifle_squad(ger)\" 2 0x10 0x11 0xffffffff 0xffffffff}",
		"{\"pz4\" 1 0x20}",
	})
	s.Require().NoError(err)
	s.Equal(s.save, same)

	out, err := patch.RewriteRoster(s.save, []string{
		"{\"rifle_squad(ger)\" 2 0x10 0x11 0x8001 0xffffffff}",
		"{\"pz4\" 1 0x20}",
	})
	s.Require().NoError(err)
	s.Equal(strings.Replace(s.save, "0x11 0xffffffff 0xffffffff", "0x11 0x8001 0xffffffff", 1), out)
}

func (s *PatchTestSuite) TestInsertUnitsIsNotIdempotent() {
	decl := patch.UnitDeclaration(patch.HumanKeyword, "mp/ger/mid/rifleman_1", "0x8001")
	s.Equal("{Human \"mp/ger/mid/rifleman_1\" 0x8001}\n", decl)

	once, err := patch.InsertUnits(s.save, []string{decl})
	s.Require().NoError(err)
	s.Equal(strings.Replace(s.save, patch.PlayerTagsMarker, "\t"+decl+patch.PlayerTagsMarker, 1), once)

	twice, err := patch.InsertUnits(once, []string{decl})
	s.Require().NoError(err)
	s.Equal(2, strings.Count(twice, decl))

	_, err = patch.InsertUnits("{Scene\n}\n", []string{decl})
	s.True(errors.IsNotFound(err))
}

func (s *PatchTestSuite) TestPatchStatus() {
	out, err := patch.PatchStatus(status, patch.StatusMP, 100.456)
	s.Require().NoError(err)
	out, err = patch.PatchStatus(out, patch.StatusAP, 60)
	s.Require().NoError(err)

	s.Equal("{status\n\t{mp 100.46}\n\t{sp 3}\n\t{ap 60.0}\n\t{rp 0}\n\t{army ger}\n}\n", out)

	_, err = patch.PatchStatus(status, "xp", 1)
	s.True(errors.IsNotFound(err))
}

func (s *PatchTestSuite) TestBatch() {
	b := patch.NewBatch()
	b.PatchUnitScalar(riflemanBreed, testutils.RiflemanID, patch.FieldResources, 10)
	b.RewriteRoster([]string{"{\"rifle_squad(ger)\" 2 0x10 0x11 0x8001 0xffffffff}", "{\"pz4\" 1 0x20}"})
	b.InsertUnits([]string{patch.UnitDeclaration(patch.HumanKeyword, "mp/ger/mid/smg_1", "0x8001")})
	b.PatchStatus(patch.StatusMP, 100)
	s.Equal(3, b.Len())
	s.Equal(1, b.StatusLen())

	out, err := b.Apply(s.save)
	s.Require().NoError(err)
	s.Contains(out, "{current 10}")
	s.Contains(out, "0x11 0x8001 0xffffffff")
	s.Contains(out, "\t{Human \"mp/ger/mid/smg_1\" 0x8001}\n\t{Tags")

	st, err := b.ApplyStatus(status)
	s.Require().NoError(err)
	s.Contains(st, "{mp 100.0}")
}

func (s *PatchTestSuite) TestBatchStopsAtFirstError() {
	b := patch.NewBatch()
	b.PatchUnitScalar(riflemanBreed, testutils.RiflemanID, patch.FieldResources, 10)
	b.PatchUnitScalar("pz4", "0x999", patch.FieldFuel, 1)

	out, err := b.Apply(s.save)
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
	s.Empty(out)
}

func TestPatchSuite(t *testing.T) {
	suite.Run(t, new(PatchTestSuite))
}

func TestFormatFloat(t *testing.T) {
	testCases := []struct {
		in   float64
		want string
	}{
		{120, "120.0"},
		{57.25, "57.25"},
		{0, "0.0"},
		{0.1, "0.1"},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, patch.FormatFloat(tc.in))
		})
	}
	assert.InDelta(t, 1.24, patch.Round2(1.2351), 1e-9)
}

func TestSplice(t *testing.T) {
	span := patch.Span{Start: 2, End: 5}
	require.Equal(t, 3, span.Len())
	assert.Equal(t, "abXYZf", patch.Splice("abcdef", span, "XYZ"))
	assert.Equal(t, "ab!cdef", patch.Splice("abcdef", patch.Span{Start: 2, End: 2}, "!"))
}
