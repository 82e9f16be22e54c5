package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// GameData maps a slash-separated path below the data dir to file content
type GameData map[string]string

// With returns a copy of d with files added or replaced. An empty content
// removes the file.
func (d GameData) With(files GameData) GameData {
	out := make(GameData, len(d)+len(files))
	for k, v := range d {
		out[k] = v
	}
	for k, v := range files {
		if v == "" {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

// WriteGameData lays data out under a fresh temp dir and returns the dir
func WriteGameData(t testing.TB, data GameData) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range data {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

// Fixture ids used by DefaultGameData's save
const (
	RiflemanID = "0x10"
	SMGunnerID = "0x11"
	TankID     = "0x20"
)

// DefaultGameData is a small but complete asset tree with a campaign save:
// two infantry breeds, a medium tank that inherits part of its setup from an
// include, a property include chain and a conquest list with one infantry
// squad, one vehicle and one vehicle platoon.
func DefaultGameData() GameData {
	return GameData{
		// items
		"set/stuff/rifle/kar98k.weapon":     "{item\n\t{inventory\n\t\t{size 5 1}\n\t}\n\t{mass 4}\n}\n",
		"set/stuff/rifle/kar98k.ammo":       "{item\n\t{inventory\n\t\t{size 1 1}\n\t\t{block 20}\n\t}\n\t{mass 0.05}\n}\n",
		"set/stuff/rifle/grenade/gw_gr.ammo": "{item\n\t{inventory\n\t\t{size 1 2}\n\t}\n\t{mass 0.5}\n}\n",
		"set/stuff/smg/mp40.weapon":         "{item\n\t{inventory\n\t\t{size 4 2}\n\t}\n\t{mass 4.5}\n}\n",
		"set/stuff/smg/mp40.ammo":           "{item\n\t{inventory\n\t\t{size 1 1}\n\t\t{block 32}\n\t}\n\t{mass 0.1}\n}\n",
		"set/stuff/smg/mp40_late.weapon":    "{item\n\t{from \"weapon mp40\"}\n}\n",
		"set/stuff/smg/mp40_dlc.weapon":     "{item\n\t{from \"weapon mp40_late\"}\n}\n",
		"set/stuff/grenade/grenade.pattern": "{item\n\t{inventory\n\t\t{size 1 1}\n\t}\n\t{mass 0.6}\n}\n",
		"set/stuff/grenade/m24.grenade":     "{item\n\t{from \"pattern grenade\"}\n}\n",
		"set/stuff/grenade/smoke grenade/nbks.grenade": "{item\n\t{inventory\n\t\t{size 1 1}\n\t}\n\t{mass 0.4}\n}\n",
		"set/stuff/medicine/medkit.item":    "{item\n\t{inventory\n\t\t{size 2 1}\n\t\t{block 3}\n\t}\n\t{mass 0.2}\n}\n",
		"set/stuff/gun/kwk40.gun":           "{item\n\t{from \"gun cannon\"}\n}\n",
		"set/stuff/shell/75mm_he.ammo":      "{item\n\t{inventory\n\t\t{size 2 1}\n\t}\n\t{mass 6}\n}\n",
		"set/stuff/special/flag.item":       "{item\n\t{inventory\n\t}\n}\n",
		"set/stuff/misc/loop_a.item":        "{item\n\t{from \"item loop_b\"}\n}\n",
		"set/stuff/misc/loop_b.item":        "{item\n\t{from \"item loop_a\"}\n}\n",
		"set/stuff/misc/hidden.item":        "{item\n\t{noView}\n\t{inventory\n\t\t{size 9 9}\n\t}\n}\n",
		"set/stuff/misc/readme.txt":         "{inventory {size 9 9}}\n",

		// breeds
		"set/breed/mp/ger/mid/rifleman_1.set": "{breed\n" +
			"\t{inventory\n" +
			"\t\t{item \"weapon kar98k\"}\n" +
			"\t\t{item \"ammo kar98k\" 40}\n" +
			"\t\t{item \"medkit item\" 2}\n" +
			"\t\t;{item \"m24 grenade\" 1}\n" +
			"\t}\n" +
			"}\n",
		"set/breed/mp/ger/mid/smg_1.set": "{breed\n" +
			"\t{inventory\n" +
			"\t\t{item \"weapon mp40\"}\n" +
			"\t\t{item \"ammo mp40\" 192}\n" +
			"\t\t{item \"m24 grenade\" 2}\n" +
			"\t}\n" +
			"}\n",
		"set/breed/mp/ger/mid/tankman.set": "{breed\n" +
			"\t{inventory\n" +
			"\t\t{item \"weapon mp40\"}\n" +
			"\t\t{item \"ammo mp40\" 64}\n" +
			"\t}\n" +
			"}\n",
		"set/breed/mp/ger/mid/officer.set": "{breed\n\t{skin \"officer\"}\n}\n",

		// vehicles
		"entity/-vehicle/tank/pz4.def": "{game_entity\n" +
			"\t(include \"/properties/tank_medium.ext\")\n" +
			"\t(include \"tank_base.inc\")\n" +
			"\t{Weaponry\n" +
			"\t\t{weapon \"gun kwk40\"}\n" +
			"\t\t{weapon \"mgun mg34\"}\n" +
			"\t\t{weapon \"mgun mg34\"}\n" +
			"\t}\n" +
			"\t{inventory\n" +
			"\t\t{item \"ammo 75mm_he\" 20}\n" +
			"\t}\n" +
			"\tfuel(300)\n" +
			"}\n",
		"entity/-vehicle/tank/pz4_late.def": "{game_entity\n" +
			"\t(include \"tank_base.inc\")\n" +
			"}\n",
		"entity/-vehicle/tank/tank_base.inc": "{game_entity\n" +
			"\t(include \"/properties/tank_medium.ext\")\n" +
			"\t{inventory\n" +
			"\t\t{item \"medkit item\" 1}\n" +
			"\t}\n" +
			"\tfuel(250)\n" +
			"}\n",

		// properties
		"properties/human.ext": "{properties\n" +
			"\t{extender \"inventory\"\n" +
			"\t\t{Size 8 6}\n" +
			"\t}\n" +
			"}\n",
		"properties/tank_common.ext": "{properties\n" +
			"\t{extender \"inventory\"\n" +
			"\t\t{Size 10 4}\n" +
			"\t\t{item \"ammo mp40\" 64}\n" +
			"\t}\n" +
			"}\n",
		"properties/tank_medium.ext": "(include \"/properties/tank_common.ext\")\n" +
			"{properties\n" +
			"\t{extender \"inventory\"\n" +
			"\t\t{item \"m24 grenade\" 4}\n" +
			"\t}\n" +
			"}\n",
		"properties/loop.ext": "(include \"loop.ext\")\n{properties\n}\n",

		// conquest lists
		"set/multiplayer/units/conquest/inf_ger.set": "{infantry\n" +
			"\t{\"mp/ger/mid/rifleman_1\" cost(12)}\n" +
			"\t{\"mp/ger/mid/smg_1\" cost(15)}\n" +
			"\t{\"mp/ger/mid/tankman\" cost(8)}\n" +
			"}\n",
		"set/multiplayer/units/conquest/units_ger.set": "; german conquest squads\n" +
			"{\"squad_with\" name(rifle_squad) side(ger) period(mid) {cost 10}\n" +
			"\tunit(rifleman_1:4) unit(smg_1:1)\n" +
			"}\n" +
			"\t{\"pz4\" (\"vehicle\") side(ger) period(mid) {cost 200} unit(tankman:3)}\n" +
			"{\"squad_with\" name(pz4_platoon) side(ger) period(mid) {cost 5}\n" +
			"\tvehicle(pz4) unit(tankman:1)\n" +
			"}\n" +
			"\t{\"tiger_not_for_sale\" (\"vehicle\") side(ger) period(mid) {cost 500}}\n",

		// campaign
		"campaign/status": "{status\n" +
			"\t{mp 120.5}\n" +
			"\t{sp 3}\n" +
			"\t{ap 57.25}\n" +
			"\t{rp 0}\n" +
			"\t{army ger}\n" +
			"}\n",
		"campaign/campaign.scn": DefaultSave,
	}
}

// DefaultSave is the campaign.scn of DefaultGameData. The rifleman carries
// part of his loadout, the smg gunner has no inventory block and the tank's
// inventory is empty.
const DefaultSave = "{Scene\n" +
	"\t{Human \"mp/ger/mid/rifleman_1\" 0x10\n" +
	"\t\t{Extender \"resources\"\n" +
	"\t\t\t{current 7}\n" +
	"\t\t}\n" +
	"\t}\n" +
	"\t{Human \"mp/ger/mid/smg_1\" 0x11\n" +
	"\t\t{Extender \"resources\"\n" +
	"\t\t\t{current 10}\n" +
	"\t\t}\n" +
	"\t}\n" +
	"\t{Entity \"pz4\" 0x20\n" +
	"\t\t{Extender \"supply_zone\"\n" +
	"\t\t\t{enabled}\n" +
	"\t\t\t{current 40}\n" +
	"\t\t}\n" +
	"\t\t{FuelBag {Remain 120.5}}\n" +
	"\t}\n" +
	"\t{Human \"mp/ger/mid/rifleman_1\" 0x100\n" +
	"\t}\n" +
	"\t{Tags \"_user\" \"player\"}\n" +
	"\t{Inventory 0x10\n" +
	"\t\t{box\n" +
	"\t\t\t{clear}\n" +
	"\t\t\t{item \"kar98k\" \"weapon\" {cell 0 0}}\n" +
	"\t\t\t{item \"kar98k\" \"ammo\" 10 {cell 0 1}}\n" +
	"\t\t}\n" +
	"\t}\n" +
	"\t{Inventory 0x20\n" +
	"\t\t{box\n" +
	"\t\t\t{clear}\n" +
	"\t\t}\n" +
	"\t}\n" +
	"\t{CampaignSquads\n" +
	"\t\t{\"rifle_squad(ger)\" 2 0x10 0x11 0xffffffff 0xffffffff}\n" +
	"\t\t{\"pz4\" 1 0x20}\n" +
	"\t}\n" +
	"}\n"
