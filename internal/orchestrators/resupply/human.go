package resupply

import (
	"strings"

	"github.com/KirkDiggler/conquest-editor/internal/entities"
)

const (
	ammoKeyword   = "ammo"
	bulletKeyword = "bullet"
)

// human refills an infantry unit: weapons when it carries none, equipment,
// ammunition for every carried weapon and finally its resources
func (r *refill) human() error {
	loadout, _ := r.base.BreedLoadout(r.inv.Breed)

	weapons := r.inv.Weapons(r.base)
	if len(weapons) == 0 {
		if err := r.weapons(loadout); err != nil {
			return err
		}
		weapons = r.inv.Weapons(r.base)
	}
	if err := r.equipment(loadout); err != nil {
		return err
	}
	if err := r.ammo(loadout, weapons); err != nil {
		return err
	}
	if r.inv.Resources >= 0 {
		return r.resources()
	}
	return nil
}

// weapons adds every visible standard weapon, one each, at its weight
func (r *refill) weapons(loadout []entities.LoadoutEntry) error {
	for _, item := range loadout {
		if !item.Visible || !r.base.IsWeapon(item.ItemName) {
			continue
		}
		cost := r.base.ResolveItemWeight(item.ItemName)
		if !r.afford(StepWeapons, item.ItemName, cost) {
			continue
		}
		ok, err := r.place(item.ItemName, 1)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := r.spend(StepWeapons, cost); err != nil {
			return err
		}
		r.logf("Added weapon to inventory: %s of %s.", item.ItemName, r.inv.EntityID)
	}
	return nil
}

func isAmmo(name string) bool {
	return strings.Contains(name, ammoKeyword) || strings.Contains(name, bulletKeyword)
}

// equipment tops up visible standard items that are neither weapons nor
// ammunition, in stacks of the item's block size
func (r *refill) equipment(loadout []entities.LoadoutEntry) error {
	for _, item := range loadout {
		name := item.ItemName
		if !item.Visible || r.base.IsWeapon(name) || isAmmo(name) {
			continue
		}
		have := r.inv.Count(name)
		if have >= item.Amount {
			continue
		}
		missing := item.Amount - have
		weight := r.base.ResolveItemWeight(name)
		if !r.afford(StepEquipment, name, weight*float64(missing)) {
			continue
		}

		added, err := r.stackUp(name, missing, r.base.BlockSize(name))
		if err != nil {
			return err
		}
		if added == 0 {
			continue
		}
		cost := weight * float64(added)
		if err := r.spend(StepEquipment, cost); err != nil {
			return err
		}
		r.logf("Added %d of %s for %v AP to inventory of %s.", added, name, cost, r.inv.EntityID)
	}
	return nil
}

// ammo refills the ammunition of each weapon from a reference loadout of a
// breed that carries it
func (r *refill) ammo(own []entities.LoadoutEntry, weapons []entities.WeaponInfo) error {
	for _, w := range weapons {
		reference, err := r.referenceLoadout(w.Name, own)
		if err != nil {
			return err
		}
		if reference == nil {
			r.logf("No breeds with %s found in knowledge base!", w.Name)
			continue
		}
		for i, item := range reference {
			if !strings.Contains(item.ItemName, ammoKeyword) {
				continue
			}
			if !r.o.matchesAmmo(w, reference, i) {
				continue
			}
			if _, err := r.topUp(item.ItemName, item.Amount, r.base.BlockSize(item.ItemName)); err != nil {
				return err
			}
		}
	}
	return nil
}

// referenceLoadout is the unit's own loadout when its breed carries the
// weapon, otherwise the loadout of a breed picked by the roller among those
// that carry it or, failing that, a similarly named item
func (r *refill) referenceLoadout(weapon string, own []entities.LoadoutEntry) ([]entities.LoadoutEntry, error) {
	breeds := r.base.BreedsWithItem(weapon)
	if len(breeds) == 0 {
		breeds = r.base.BreedsWithSimilarItem(itemPrefix(weapon))
	}
	if len(breeds) == 0 {
		return nil, nil
	}
	for _, b := range breeds {
		if b == r.inv.Breed {
			return own, nil
		}
	}
	breed, err := r.o.pick(breeds)
	if err != nil {
		return nil, err
	}
	loadout, _ := r.base.BreedLoadout(breed)
	return loadout, nil
}

// itemPrefix is the part of an item name before the first underscore
func itemPrefix(name string) string {
	if i := strings.Index(name, "_"); i >= 0 {
		return name[:i]
	}
	return name
}

// resources raises a unit's resource level to the maximum. The save shows
// levels 0..max; each level stands for multiplier units.
func (r *refill) resources() error {
	policy := r.o.policy
	if r.inv.Resources >= policy.MaxResources {
		return nil
	}
	units := (policy.MaxResources - r.inv.Resources) * policy.ResourceMultiplier
	cost := round1(float64(units) * policy.ResourceUnitCost)
	if !r.afford(StepResources, "supplies/resources", cost) {
		return nil
	}
	r.inv.Resources = policy.MaxResources
	if err := r.spend(StepResources, cost); err != nil {
		return err
	}
	r.logf("Total %d resources added to %s for %.1f AP.", units, r.inv.EntityID, cost)
	return nil
}
