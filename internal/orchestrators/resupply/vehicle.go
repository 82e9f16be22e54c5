package resupply

import (
	"math"
	"regexp"
	"strings"

	"github.com/KirkDiggler/conquest-editor/internal/entities"
)

var calibreRegex = regexp.MustCompile(`\d+mm_`)

const (
	mgunCategory  = "mgun"
	mortarKeyword = "mortar"
)

// vehicle refills a vehicle: equipment, shells and mounted gun ammunition,
// then supplies and fuel
func (r *refill) vehicle() error {
	loadout, _ := r.base.VehicleLoadout(r.inv.Breed)

	if err := r.equipment(loadout); err != nil {
		return err
	}
	if err := r.vehicleAmmo(loadout); err != nil {
		return err
	}
	if r.inv.Supplies > 0 {
		if err := r.supplies(); err != nil {
			return err
		}
	}
	if r.inv.Fuel >= 0 {
		return r.fuel()
	}
	return nil
}

func isStandardShell(name string) bool {
	if calibreRegex.MatchString(name) && strings.Contains(name, ".ammo") {
		return true
	}
	return strings.Contains(name, bulletKeyword) || strings.Contains(name, mortarKeyword)
}

// ammoTargets maps the vehicle's ammo lines (not bullets) to their amounts
// and returns the largest of them
func ammoTargets(loadout []entities.LoadoutEntry) (map[string]int, int) {
	counts := make(map[string]int)
	largest := 0
	for _, item := range loadout {
		if !strings.Contains(item.ItemName, ammoKeyword) || strings.Contains(item.ItemName, bulletKeyword) {
			continue
		}
		counts[item.ItemName] = item.Amount
		if item.Amount > largest {
			largest = item.Amount
		}
	}
	return counts, largest
}

func (r *refill) vehicleAmmo(loadout []entities.LoadoutEntry) error {
	carried := r.inv.Weapons(r.base)
	standard := r.base.WeaponsIn(loadout)

	if len(standard) > 0 && len(carried) == 0 {
		if err := r.weapons(loadout); err != nil {
			return err
		}
		carried = r.inv.Weapons(r.base)
		if len(carried) > 0 {
			r.logf("Added missing weapons to %s inventory", r.inv.EntityID)
		}
	}

	for _, item := range loadout {
		switch {
		case isStandardShell(item.ItemName):
			if _, err := r.topUp(item.ItemName, item.Amount, item.Amount); err != nil {
				return err
			}
		case !item.Visible && r.base.IsWeapon(item.ItemName):
			if w, ok := r.base.Weapon(item.ItemName); ok {
				carried = append([]entities.WeaponInfo{w}, carried...)
			}
		}
	}

	// weapons beyond the standard count are loot, not mounted guns
	if len(carried) > len(standard) {
		carried = carried[:len(standard)]
	}
	targets, largest := ammoTargets(loadout)
	for _, w := range carried {
		if w.CategoryLeaf() != mgunCategory {
			continue
		}
		if err := r.machineGunAmmo(w, targets, largest/len(standard)); err != nil {
			return err
		}
	}
	return nil
}

// machineGunAmmo resolves the ammo of a mounted gun from a vehicle or breed
// carrying the same gun and tops it up
func (r *refill) machineGunAmmo(w entities.WeaponInfo, targets map[string]int, share int) error {
	reference, err := r.gunReference(w.Name)
	if err != nil {
		return err
	}
	if reference == nil {
		r.logf("No vehicles and breeds with %s found in knowledge base!", w.Name)
		return nil
	}
	for i, item := range reference {
		if !strings.Contains(item.ItemName, ammoKeyword) || strings.Contains(item.ItemName, bulletKeyword) {
			continue
		}
		if !r.o.matchesAmmo(w, reference, i) {
			continue
		}
		target, ok := targets[item.ItemName]
		if !ok {
			target = share
		}
		if target < 1 {
			target = 1
		}
		refilled, err := r.topUp(item.ItemName, target, target)
		if err != nil {
			return err
		}
		if refilled {
			r.logf("Refilled ammunition for %s in %s inventory", w.Name, r.inv.EntityID)
		}
		return nil
	}
	return nil
}

func (r *refill) gunReference(weapon string) ([]entities.LoadoutEntry, error) {
	if vehicles := r.base.VehiclesWithItem(weapon); len(vehicles) > 0 {
		v, err := r.o.pick(vehicles)
		if err != nil {
			return nil, err
		}
		loadout, _ := r.base.VehicleLoadout(v)
		return loadout, nil
	}
	if breeds := r.base.BreedsWithSimilarItem(itemPrefix(weapon)); len(breeds) > 0 {
		b, err := r.o.pick(breeds)
		if err != nil {
			return nil, err
		}
		loadout, _ := r.base.BreedLoadout(b)
		return loadout, nil
	}
	return nil, nil
}

// supplies holds the missing amount; a refill brings it to zero
func (r *refill) supplies() error {
	missing := r.inv.Supplies
	cost := round1(float64(missing) * r.o.policy.SupplyUnitCost)
	if !r.afford(StepSupplies, "supplies", cost) {
		return nil
	}
	r.inv.Supplies = 0
	if err := r.spend(StepSupplies, cost); err != nil {
		return err
	}
	r.logf("Total %d supplies added to %s for %.1f AP.", missing, r.inv.EntityID, cost)
	return nil
}

func (r *refill) fuel() error {
	capacity := r.base.VehicleMaxFuel(r.inv.Breed)
	if capacity < 0 {
		return nil
	}
	missing := math.Round((float64(capacity)-r.inv.Fuel)*1e4) / 1e4
	if missing <= 0 {
		return nil
	}
	cost := round1(missing * r.o.policy.FuelUnitCost)
	if !r.afford(StepFuel, "fuel", cost) {
		return nil
	}
	r.inv.Fuel = float64(capacity)
	if err := r.spend(StepFuel, cost); err != nil {
		return err
	}
	r.logf("Total %v fuel added to %s for %.1f AP.", missing, r.inv.EntityID, cost)
	return nil
}
