package campaign_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/conquest-editor/internal/entities"
	"github.com/KirkDiggler/conquest-editor/internal/repositories/campaign"
	"github.com/KirkDiggler/conquest-editor/internal/testutils"
)

func TestParseRoster(t *testing.T) {
	squads := campaign.ParseRoster(testutils.DefaultSave, false)
	require.Len(t, squads, 2)

	assert.Equal(t, 0, squads[0].ID)
	assert.Equal(t, `"rifle_squad(ger)"`, squads[0].Name)
	assert.Equal(t, "rifle_squad(ger)", squads[0].QuotedName())
	assert.Equal(t, "2", squads[0].Stage)
	assert.Equal(t, []string{testutils.RiflemanID, testutils.SMGunnerID}, squads[0].Members)
	assert.Equal(t, `{"rifle_squad(ger)" 2 0x10 0x11 0xffffffff 0xffffffff}`, squads[0].Raw)

	assert.Equal(t, 1, squads[1].ID)
	assert.Equal(t, []string{testutils.TankID}, squads[1].Members)

	kept := campaign.ParseRoster(testutils.DefaultSave, true)
	assert.Equal(t, []string{"0x10", "0x11", entities.DeceasedID, entities.DeceasedID}, kept[0].Members)
	assert.Equal(t, kept[0].Raw, kept[0].Entry())
}

func TestParseRosterStopsAtFirstNonEntry(t *testing.T) {
	text := "\t{CampaignSquads\n\t\t{\"a\" 1 0x1}\n\t\t; note\n\t\t{\"b\" 1 0x2}\n\t}\n"
	squads := campaign.ParseRoster(text, false)
	require.Len(t, squads, 1)
	assert.Equal(t, `"a"`, squads[0].Name)

	assert.Nil(t, campaign.ParseRoster("{Scene\n}\n", false))
}

func TestMemberBreed(t *testing.T) {
	breed, ok := campaign.MemberBreed(testutils.DefaultSave, testutils.TankID)
	require.True(t, ok)
	assert.Equal(t, "pz4", breed)

	breed, ok = campaign.MemberBreed(testutils.DefaultSave, "0x100")
	require.True(t, ok)
	assert.Equal(t, "mp/ger/mid/rifleman_1", breed)

	_, ok = campaign.MemberBreed(testutils.DefaultSave, "0x1")
	assert.False(t, ok)
}

func TestMemberInventory(t *testing.T) {
	lines, ok := campaign.MemberInventory(testutils.DefaultSave, testutils.RiflemanID)
	require.True(t, ok)
	assert.Equal(t, []string{
		"\t\t\t{item \"kar98k\" \"weapon\" {cell 0 0}}\n",
		"\t\t\t{item \"kar98k\" \"ammo\" 10 {cell 0 1}}\n",
	}, lines)

	lines, ok = campaign.MemberInventory(testutils.DefaultSave, testutils.TankID)
	require.True(t, ok)
	assert.Empty(t, lines)

	_, ok = campaign.MemberInventory(testutils.DefaultSave, testutils.SMGunnerID)
	assert.False(t, ok)
}

func TestReadMember(t *testing.T) {
	testCases := []struct {
		name string
		id   string
		want campaign.Member
	}{
		{
			name: "rifleman",
			id:   testutils.RiflemanID,
			want: campaign.Member{
				ID:    testutils.RiflemanID,
				Breed: "mp/ger/mid/rifleman_1",
				Entries: []string{
					"\t\t\t{item \"kar98k\" \"weapon\" {cell 0 0}}\n",
					"\t\t\t{item \"kar98k\" \"ammo\" 10 {cell 0 1}}\n",
				},
				HasInventory: true,
				Supplies:     campaign.Missing,
				Resources:    7,
				Fuel:         campaign.Missing,
			},
		},
		{
			name: "smg gunner without inventory",
			id:   testutils.SMGunnerID,
			want: campaign.Member{
				ID:        testutils.SMGunnerID,
				Breed:     "mp/ger/mid/smg_1",
				Supplies:  campaign.Missing,
				Resources: 10,
				Fuel:      campaign.Missing,
			},
		},
		{
			name: "tank",
			id:   testutils.TankID,
			want: campaign.Member{
				SquadID:      1,
				ID:           testutils.TankID,
				Breed:        "pz4",
				HasInventory: true,
				Supplies:     40,
				Resources:    campaign.Missing,
				Fuel:         120.5,
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, ok := campaign.ReadMember(testutils.DefaultSave, tc.want.SquadID, tc.id)
			require.True(t, ok)
			assert.Equal(t, tc.want, *m)
		})
	}

	_, ok := campaign.ReadMember(testutils.DefaultSave, 0, "0x999")
	assert.False(t, ok)
}
