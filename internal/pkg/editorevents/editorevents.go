// Package editorevents names the events orchestrators publish on the
// rpg-toolkit bus and carries their payload through the event context
package editorevents

import (
	"context"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"
)

// Event types
const (
	ItemAdded       = "editor.item_added"
	StackFilled     = "editor.stack_filled"
	PlacementFailed = "editor.placement_failed"
	CurrencySpent   = "editor.currency_spent"
	BudgetExhausted = "editor.budget_exhausted"
	MemberRefilled  = "editor.member_refilled"
	KnowledgeLoaded = "editor.knowledge_loaded"
	SaveStored      = "editor.save_stored"
)

// Payload keys
const (
	KeyItem     = "item"
	KeyAmount   = "amount"
	KeyCurrency = "currency"
	KeyCost     = "cost"
	KeyStep     = "step"
	KeySeconds  = "seconds"
	KeyCached   = "cached"
	KeyBreed    = "breed"
)

// Currencies
const (
	CurrencyMP = "mp"
	CurrencyAP = "ap"
)

// Publish sends an event about source with data in its context. A nil bus
// drops it.
func Publish(ctx context.Context, bus events.EventBus, eventType string, source core.Entity, data map[string]any) error {
	if bus == nil {
		return nil
	}
	e := events.NewGameEvent(eventType, source, nil)
	for k, v := range data {
		e.Context().Set(k, v)
	}
	return bus.Publish(ctx, e)
}

// Float reads a numeric payload value
func Float(e events.Event, key string) (float64, bool) {
	v, ok := e.Context().Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// String reads a string payload value
func String(e events.Event, key string) string {
	v, ok := e.Context().Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
