package kbsnapshot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/conquest-editor/internal/entities"
	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/knowledge"
	"github.com/KirkDiggler/conquest-editor/internal/repositories/kbsnapshot"
)

func testTables() *knowledge.Tables {
	return &knowledge.Tables{
		ItemSizes:   map[string]entities.ItemSize{"kar98k.weapon": {X: 5, Y: 1}},
		BlockSizes:  map[string]int{"kar98k.ammo": 20},
		ItemWeights: map[string]float64{"kar98k.weapon": 4},
		Weapons:     []entities.WeaponInfo{{Name: "kar98k.weapon", Category: "rifle"}},
		BreedLoadouts: map[string][]entities.LoadoutEntry{
			"mp/ger/mid/rifleman_1": {{ItemName: "kar98k.weapon", Amount: 1, Visible: true}},
		},
		PropertySizes: map[string]entities.ItemSize{"human": {X: 8, Y: 6}},
		Status:        entities.CampaignStatusInfo{MP: 120.5, AP: 57.25, Army: "ger"},
	}
}

func TestEncodeDecode(t *testing.T) {
	snap := &kbsnapshot.Snapshot{Key: "abc", Tables: testTables()}

	payload, err := kbsnapshot.Encode(snap)
	require.NoError(t, err)
	// zstd frame magic
	require.Equal(t, []byte{0x28, 0xb5, 0x2f, 0xfd}, payload[:4])

	got, err := kbsnapshot.Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, "abc", got.Key)
	assert.Equal(t, snap.Tables, got.Tables)
}

func TestDecodeCorrupt(t *testing.T) {
	_, err := kbsnapshot.Decode([]byte("not a snapshot"))
	require.Error(t, err)
	assert.True(t, errors.IsDataLoss(err))

	_, err = kbsnapshot.Encode(nil)
	assert.True(t, errors.IsInvalidArgument(err))
}
