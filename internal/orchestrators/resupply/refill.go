package resupply

import (
	"context"
	"log/slog"
	"math"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/inventory"
	"github.com/KirkDiggler/conquest-editor/internal/knowledge"
	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/session"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/editorevents"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/logsink"
)

// refill is one pass over one unit
type refill struct {
	ctx    context.Context
	o      *orchestrator
	base   *knowledge.Base
	wallet *session.Wallet
	inv    *inventory.EntityInventory
	report *Report
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func (r *refill) logf(format string, args ...interface{}) {
	logsink.Logf(r.o.sink, format, args...)
}

func (r *refill) publish(eventType string, data map[string]any) {
	if err := editorevents.Publish(r.ctx, r.o.eventBus, eventType, r.inv, data); err != nil {
		slog.Warn("Failed to publish refill event", "type", eventType, "unit", r.inv.EntityID, "error", err)
	}
}

// afford checks the AP balance for a step. A miss is logged, reported and
// published.
func (r *refill) afford(step, what string, cost float64) bool {
	if r.wallet.CanAfford(editorevents.CurrencyAP, cost) {
		return true
	}
	r.logf("Not enough AP to refill %s in %s inventory.", what, r.inv.EntityID)
	r.report.Exhausted = append(r.report.Exhausted, step+" "+what)
	r.publish(editorevents.BudgetExhausted, map[string]any{
		editorevents.KeyStep:     step,
		editorevents.KeyItem:     what,
		editorevents.KeyCurrency: editorevents.CurrencyAP,
		editorevents.KeyCost:     cost,
	})
	return false
}

func (r *refill) spend(step string, cost float64) error {
	if cost <= 0 {
		return nil
	}
	if err := r.wallet.Spend(editorevents.CurrencyAP, cost); err != nil {
		return err
	}
	r.report.Spent += cost
	r.publish(editorevents.CurrencySpent, map[string]any{
		editorevents.KeyStep:     step,
		editorevents.KeyCurrency: editorevents.CurrencyAP,
		editorevents.KeyCost:     cost,
	})
	return nil
}

// place adds a new stack. An item that does not fit, or has no known size,
// is logged and reported as false; other grid errors are returned.
func (r *refill) place(name string, amount int) (bool, error) {
	placed, err := r.inv.AddNew(name, amount)
	if err != nil {
		if errors.IsResourceExhausted(err) || errors.IsNotFound(err) {
			r.logf("%v", err)
			r.report.Failed = append(r.report.Failed, name)
			r.publish(editorevents.PlacementFailed, map[string]any{
				editorevents.KeyItem:   name,
				editorevents.KeyAmount: amount,
			})
			return false, nil
		}
		return false, err
	}
	r.report.Added[name] += amount
	r.logf("Added %d of %s to inventory of %s.", amount, name, r.inv.EntityID)
	r.publish(editorevents.ItemAdded, map[string]any{
		editorevents.KeyItem:   name,
		editorevents.KeyAmount: placed.Amount,
	})
	return true, nil
}

// fill raises existing stacks of name up to capacity, adding at most limit
// in total, and returns the amount added
func (r *refill) fill(name string, capacity, limit int) int {
	total := 0
	for total < limit {
		n := r.inv.Fill(name, capacity, limit-total)
		if n == 0 {
			break
		}
		total += n
	}
	if total > 0 {
		r.report.Added[name] += total
		r.publish(editorevents.StackFilled, map[string]any{
			editorevents.KeyItem:   name,
			editorevents.KeyAmount: total,
		})
	}
	return total
}

// stackUp puts amount of name into the inventory: existing stacks are
// filled to stack first, then new stacks of at most stack are added. It
// stops at the first stack that does not fit and returns what went in.
func (r *refill) stackUp(name string, amount, stack int) (int, error) {
	if stack < 1 {
		stack = 1
	}
	added := r.fill(name, stack, amount)
	for added < amount {
		n := stack
		if rest := amount - added; rest < n {
			n = rest
		}
		ok, err := r.place(name, n)
		if err != nil {
			return added, err
		}
		if !ok {
			break
		}
		added += n
	}
	return added, nil
}

// topUp brings the carried amount of an ammo item to target. The wallet is
// checked for the whole shortfall; the charge is for what actually went in.
func (r *refill) topUp(name string, target, stack int) (bool, error) {
	current := r.inv.Count(name)
	if current >= target {
		return false, nil
	}
	missing := target - current
	weight := r.base.ResolveItemWeight(name)
	if !r.afford(StepAmmo, name, round1(weight*float64(missing))) {
		return false, nil
	}

	added, err := r.stackUp(name, missing, stack)
	if err != nil {
		return false, err
	}
	if added == 0 {
		return false, nil
	}
	cost := round1(weight * float64(added))
	if err := r.spend(StepAmmo, cost); err != nil {
		return false, err
	}
	r.logf("Total %d of %s for %.1f AP added to %s.", added, name, cost, r.inv.EntityID)
	return true, nil
}
