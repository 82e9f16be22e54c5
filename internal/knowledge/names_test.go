package knowledge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/conquest-editor/internal/entities"
	"github.com/KirkDiggler/conquest-editor/internal/knowledge"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/logsink"
	"github.com/KirkDiggler/conquest-editor/internal/rules"
)

func TestCanonicalReference(t *testing.T) {
	testCases := []struct {
		ref  string
		want string
	}{
		{"weapon mp40", "mp40.weapon"},
		{"pattern grenade", "grenade.pattern"},
		{"knife bayonet", "knife.bayonet"},
		{"grenade usa_grenade mk2", "grenade.mk2.usa_grenade"},
		{"a b c d", "d.c.b.a"},
		{"single", "single"},
	}
	for _, tc := range testCases {
		t.Run(tc.ref, func(t *testing.T) {
			assert.Equal(t, tc.want, knowledge.CanonicalReference(tc.ref))
		})
	}
}

func TestLoadoutName(t *testing.T) {
	testCases := []struct {
		raw  string
		want string
	}{
		{"weapon kar98k", "kar98k.weapon"},
		{"ammo mp40", "mp40.ammo"},
		{"medkit item", "medkit.item"},
		{"m24 grenade", "m24.grenade"},
		{"grenade usa_grenade mk2", "grenade.mk2.usa_grenade"},
		{"ammo mgun_usa", "mgun_usa.belt.ammo"},
		{"ammo mgun_usa belt", "mgun_usa.belt.ammo"},
		{"ammo mgun_ger", "mgun_ger.ammo"},
		{"mgun_mg34 belt", "mgun_mg34.belt.ammo"},
		{"ammo bullet 7mm", "bullet.7mm.ammo"},
		{"bullet 12mm", "bullet.12mm.ammo"},
		{"mortar 81mm", "mortar.81mm.ammo"},
		{"mortar shell ammo", "mortar.shell.ammo"},
		{"", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, knowledge.LoadoutName(tc.raw))
		})
	}
}

func TestParseLoadoutEntry(t *testing.T) {
	testCases := []struct {
		name   string
		line   string
		want   entities.LoadoutEntry
		wantOK bool
	}{
		{
			name:   "amount",
			line:   "\t\t{item \"ammo mp40\" 192}\n",
			want:   entities.LoadoutEntry{ItemName: "mp40.ammo", Amount: 192, Visible: true},
			wantOK: true,
		},
		{
			name:   "fractional amount is floored",
			line:   "\t\t{item \"ammo mp40\" 2.7}\n",
			want:   entities.LoadoutEntry{ItemName: "mp40.ammo", Amount: 2, Visible: true},
			wantOK: true,
		},
		{
			name:   "zero becomes one",
			line:   "\t\t{item \"medkit item\" 0.5}\n",
			want:   entities.LoadoutEntry{ItemName: "medkit.item", Amount: 1, Visible: true},
			wantOK: true,
		},
		{
			name:   "implicit amount",
			line:   "\t\t{item \"weapon kar98k\"}\n",
			want:   entities.LoadoutEntry{ItemName: "kar98k.weapon", Amount: 1, Visible: true},
			wantOK: true,
		},
		{
			name:   "weapon reference is hidden",
			line:   "\t\t{weapon \"gun kwk40\"}\n",
			want:   entities.LoadoutEntry{ItemName: "gun.kwk40", Amount: 1, Visible: false},
			wantOK: true,
		},
		{
			name: "no item",
			line: "\t\t{skin \"officer\"}\n",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := knowledge.ParseLoadoutEntry(tc.line)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractLoadoutLogsUnknownLines(t *testing.T) {
	rec := logsink.NewRecorder()
	got := knowledge.ExtractLoadout([]string{
		"\t\t{item \"weapon mp40\"}\n",
		"\t\t{broken}\n",
	}, rec)

	require.Len(t, got, 1)
	assert.Equal(t, "mp40.weapon", got[0].ItemName)
	assert.True(t, rec.Contains("Item name not found in: {broken}"))
}

func TestParseSquadComposition(t *testing.T) {
	r := rules.Default()

	t.Run("infantry squad", func(t *testing.T) {
		info, ok := knowledge.ParseSquadComposition(
			"{\"squad_with\" name(rifle_squad) side(ger) period(mid) {cost 10}\n\tunit(rifleman_1:4) unit(smg_1:1)\n}\n", r)
		require.True(t, ok)
		assert.Equal(t, entities.SquadCompositionInfo{
			Name:   "rifle_squad(ger)",
			Side:   "ger",
			Period: "mid",
			Cost:   10,
			Members: map[string]int{
				"mp/ger/mid/rifleman_1": 4,
				"mp/ger/mid/smg_1":      1,
			},
		}, info)
	})

	t.Run("vehicle lists itself", func(t *testing.T) {
		info, ok := knowledge.ParseSquadComposition(
			"\t{\"pz4\" (\"vehicle\") side(ger) period(mid) {cost 200} unit(tankman:3)}\n", r)
		require.True(t, ok)
		assert.Equal(t, "pz4", info.Name)
		assert.Equal(t, 200, info.Cost)
		assert.Equal(t, map[string]int{"mp/ger/mid/tankman": 3, "pz4": 1}, info.Members)
	})

	t.Run("squad vehicle does not list itself", func(t *testing.T) {
		info, ok := knowledge.ParseSquadComposition(
			"\t{\"sdkfz\" (\"squad_vehicle\") side(ger) period(mid) {cost 50} vehicle(sdkfz_251)}\n", r)
		require.True(t, ok)
		assert.Equal(t, map[string]int{"sdkfz_251": 1}, info.Members)
	})

	t.Run("ignored tokens and malformed members", func(t *testing.T) {
		info, ok := knowledge.ParseSquadComposition(
			"{\"squad_with\" name(mg) side(usa) period(late) min_stage(2) {cost 3}\n\tunit(gunner:2) unit(nocount)\n}\n", r)
		require.True(t, ok)
		assert.Equal(t, map[string]int{"mp/usa/late/gunner": 2}, info.Members)
	})

	t.Run("denylisted variant", func(t *testing.T) {
		_, ok := knowledge.ParseSquadComposition("\t{\"tiger_not_for_sale\" (\"vehicle\") side(ger) {cost 500}}\n", r)
		assert.False(t, ok)
	})
}

func TestParseCampaignStatus(t *testing.T) {
	rec := logsink.NewRecorder()
	status := knowledge.ParseCampaignStatus("{status\r\n\t{mp 120.5}\n\t{sp 3}\n\t{ap 57.25}\n\t{rp oops}\n\t{army usa}\n}\n", rec)

	assert.Equal(t, entities.CampaignStatusInfo{MP: 120.5, SP: 3, AP: 57.25, Army: "usa"}, status)
	assert.True(t, rec.Contains("Invalid status value"))
}
