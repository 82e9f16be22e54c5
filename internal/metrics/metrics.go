// Package metrics counts editor activity from the event bus into a
// Prometheus registry that can be dumped as a node_exporter textfile
package metrics

import (
	"context"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/editorevents"
)

// DefaultNamespace prefixes every metric name
const DefaultNamespace = "conquest_editor"

// Config holds the dependencies for a Recorder
type Config struct {
	EventBus  events.EventBus
	Namespace string
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()

	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}

	return vb.Build()
}

// Recorder subscribes to editor events and keeps counters for them
type Recorder struct {
	bus           events.EventBus
	registry      *prometheus.Registry
	subscriptions []string

	itemsAdded        *prometheus.CounterVec
	stacksFilled      prometheus.Counter
	placementFailures prometheus.Counter
	spent             *prometheus.CounterVec
	budgetSkips       *prometheus.CounterVec
	membersRefilled   prometheus.Counter
	saves             prometheus.Counter
	knowledgeLoad     *prometheus.GaugeVec
}

// NewRecorder registers the counters and subscribes them to the bus
func NewRecorder(cfg *Config) (*Recorder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}

	r := &Recorder{
		bus:      cfg.EventBus,
		registry: prometheus.NewRegistry(),
		itemsAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "items_added_total",
			Help:      "Item amounts placed into inventories as new stacks.",
		}, []string{"item"}),
		stacksFilled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "stacks_filled_total",
			Help:      "Existing stacks topped up.",
		}),
		placementFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "placement_failures_total",
			Help:      "Items that found no room in an inventory grid.",
		}),
		spent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "currency_spent_total",
			Help:      "Campaign currency spent on refills and new members.",
		}, []string{"currency"}),
		budgetSkips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "budget_skips_total",
			Help:      "Refill steps skipped for lack of currency.",
		}, []string{"step"}),
		membersRefilled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "members_refilled_total",
			Help:      "Squad members bought to replace losses.",
		}),
		saves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "saves_total",
			Help:      "Campaign saves written.",
		}),
		knowledgeLoad: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "knowledge_load_seconds",
			Help:      "Duration of the last knowledge base load.",
		}, []string{"source"}),
	}

	r.registry.MustRegister(
		r.itemsAdded,
		r.stacksFilled,
		r.placementFailures,
		r.spent,
		r.budgetSkips,
		r.membersRefilled,
		r.saves,
		r.knowledgeLoad,
	)

	r.subscribe(editorevents.ItemAdded, func(e events.Event) {
		amount, _ := editorevents.Float(e, editorevents.KeyAmount)
		r.itemsAdded.WithLabelValues(editorevents.String(e, editorevents.KeyItem)).Add(amount)
	})
	r.subscribe(editorevents.StackFilled, func(events.Event) {
		r.stacksFilled.Inc()
	})
	r.subscribe(editorevents.PlacementFailed, func(events.Event) {
		r.placementFailures.Inc()
	})
	r.subscribe(editorevents.CurrencySpent, func(e events.Event) {
		cost, _ := editorevents.Float(e, editorevents.KeyCost)
		if cost > 0 {
			r.spent.WithLabelValues(editorevents.String(e, editorevents.KeyCurrency)).Add(cost)
		}
	})
	r.subscribe(editorevents.BudgetExhausted, func(e events.Event) {
		r.budgetSkips.WithLabelValues(editorevents.String(e, editorevents.KeyStep)).Inc()
	})
	r.subscribe(editorevents.MemberRefilled, func(events.Event) {
		r.membersRefilled.Inc()
	})
	r.subscribe(editorevents.SaveStored, func(events.Event) {
		r.saves.Inc()
	})
	r.subscribe(editorevents.KnowledgeLoaded, func(e events.Event) {
		seconds, _ := editorevents.Float(e, editorevents.KeySeconds)
		source := "build"
		if v, ok := e.Context().Get(editorevents.KeyCached); ok {
			if cached, _ := v.(bool); cached {
				source = "snapshot"
			}
		}
		r.knowledgeLoad.WithLabelValues(source).Set(seconds)
	})

	return r, nil
}

func (r *Recorder) subscribe(eventType string, fn func(events.Event)) {
	id := r.bus.SubscribeFunc(eventType, 0, func(_ context.Context, e events.Event) error {
		fn(e)
		return nil
	})
	r.subscriptions = append(r.subscriptions, id)
}

// Registry exposes the registry the counters live in
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile dumps the registry in the text exposition format
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return errors.InvalidArgument("textfile path is required")
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.Wrapf(err, "failed to write metrics to %s", path)
	}
	return nil
}

// Close drops the bus subscriptions. Counters keep their values.
func (r *Recorder) Close() error {
	for _, id := range r.subscriptions {
		if err := r.bus.Unsubscribe(id); err != nil {
			return errors.Wrap(err, "failed to unsubscribe")
		}
	}
	r.subscriptions = nil
	return nil
}
