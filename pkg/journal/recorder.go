package journal

import (
	"context"
	"log/slog"
	"time"

	"github.com/petrijr/flowkit/pkg/flow"
)

// Recorder adapts a Store to flow.Observer: attach it to a factory or
// kernel with flow.WithObserver and lifecycle events are appended as they
// happen.
//
// Append failures are logged, never surfaced; the observer path must not
// disturb the poll loop.
type Recorder struct {
	store Store
	log   *slog.Logger
}

// Ensure Recorder implements flow.Observer.
var _ flow.Observer = (*Recorder)(nil)

// NewRecorder returns a Recorder writing to the given store. If logger is
// nil, slog.Default() is used for append failures.
func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: store, log: logger}
}

func (r *Recorder) OnComplete(g flow.Info) {
	r.append(Event{
		GeneratorID: g.ID,
		Name:        g.Name,
		Kind:        g.Kind,
		Type:        EventCompleted,
	})
}

func (r *Recorder) OnFired(g flow.Info, detail string) {
	r.append(Event{
		GeneratorID: g.ID,
		Name:        g.Name,
		Kind:        g.Kind,
		Type:        EventFired,
		Detail:      detail,
	})
}

func (r *Recorder) OnStepError(g flow.Info, err error) {
	r.append(Event{
		GeneratorID: g.ID,
		Name:        g.Name,
		Kind:        g.Kind,
		Type:        EventStepError,
		Detail:      err.Error(),
	})
}

func (r *Recorder) append(ev Event) {
	ev.At = time.Now()
	if err := r.store.Append(context.Background(), ev); err != nil {
		r.log.Error("journal append failed",
			slog.String("type", string(ev.Type)),
			slog.String("generator", ev.Name),
			slog.Any("error", err),
		)
	}
}
