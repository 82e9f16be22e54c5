package session

import (
	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/editorevents"
)

// Wallet holds the campaign currencies while a session edits the save.
// It is seeded from the status file and written back on save.
type Wallet struct {
	MP float64
	AP float64
}

func (w *Wallet) balance(currency string) (*float64, error) {
	switch currency {
	case editorevents.CurrencyMP:
		return &w.MP, nil
	case editorevents.CurrencyAP:
		return &w.AP, nil
	default:
		return nil, errors.InvalidArgumentf("unknown currency %q", currency)
	}
}

// Available returns the balance of a currency
func (w *Wallet) Available(currency string) float64 {
	b, err := w.balance(currency)
	if err != nil {
		return 0
	}
	return *b
}

// CanAfford reports whether cost fits the balance
func (w *Wallet) CanAfford(currency string, cost float64) bool {
	b, err := w.balance(currency)
	return err == nil && cost <= *b
}

// Spend takes cost from the balance. An unaffordable cost leaves the wallet
// unchanged and fails with FailedPrecondition.
func (w *Wallet) Spend(currency string, cost float64) error {
	if cost < 0 {
		return errors.InvalidArgumentf("cost cannot be negative, got %v", cost)
	}
	b, err := w.balance(currency)
	if err != nil {
		return err
	}
	if cost > *b {
		return errors.InsufficientFunds(currency, cost, *b)
	}
	*b -= cost
	return nil
}
