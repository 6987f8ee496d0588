package flow

import (
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
)

// Info identifies a generator in observer callbacks without handing out the
// generator itself.
type Info struct {
	ID   uuid.UUID
	Name string
	Kind string
}

// Observer receives callbacks for generator lifecycle events.
//
// Implementations should be fast and non-blocking; heavy work should be done
// asynchronously so as not to delay the poll loop.
type Observer interface {
	// OnComplete is called exactly once, when a generator first
	// transitions to completed.
	OnComplete(g Info)

	// OnFired is called when a generator's callback path runs: a timer
	// elapses, a periodic timer fires, a trigger's predicate is first
	// observed true, or a future receives a value.
	OnFired(g Info, detail string)

	// OnStepError is called when a child's Step returns an error. The
	// error has already been logged by the structural parent and never
	// escalates.
	OnStepError(g Info, err error)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnComplete(g Info)                {}
func (NoopObserver) OnFired(g Info, detail string)    {}
func (NoopObserver) OnStepError(g Info, err error)    {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnComplete(g Info) {
	for _, o := range c.observers {
		o.OnComplete(g)
	}
}

func (c *CompositeObserver) OnFired(g Info, detail string) {
	for _, o := range c.observers {
		o.OnFired(g, detail)
	}
}

func (c *CompositeObserver) OnStepError(g Info, err error) {
	for _, o := range c.observers {
		o.OnStepError(g, err)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs generator lifecycle
// events using the provided slog.Logger. If logger is nil, slog.Default()
// is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnComplete(g Info) {
	o.Logger.Info("generator_completed",
		slog.String("kind", g.Kind),
		slog.String("name", g.Name),
		slog.String("id", g.ID.String()),
	)
}

func (o *LoggingObserver) OnFired(g Info, detail string) {
	o.Logger.Debug("generator_fired",
		slog.String("kind", g.Kind),
		slog.String("name", g.Name),
		slog.String("id", g.ID.String()),
		slog.String("detail", detail),
	)
}

func (o *LoggingObserver) OnStepError(g Info, err error) {
	o.Logger.Error("generator_step_error",
		slog.String("kind", g.Kind),
		slog.String("name", g.Name),
		slog.String("id", g.ID.String()),
		slog.Any("error", err),
	)
}

// BasicMetrics collects simple counters over generator lifecycle events.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	completed  atomic.Int64
	fired      atomic.Int64
	stepErrors atomic.Int64
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	Completed  int64
	Fired      int64
	StepErrors int64
}

func (m *BasicMetrics) OnComplete(g Info)             { m.completed.Add(1) }
func (m *BasicMetrics) OnFired(g Info, detail string) { m.fired.Add(1) }
func (m *BasicMetrics) OnStepError(g Info, err error) { m.stepErrors.Add(1) }

// Snapshot returns a snapshot of the current counters.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	return BasicMetricsSnapshot{
		Completed:  m.completed.Load(),
		Fired:      m.fired.Load(),
		StepErrors: m.stepErrors.Load(),
	}
}
