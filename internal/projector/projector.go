// Package projector republishes a runner's event stream as serializable
// payloads. Each recognized event is reduced to a fixed whitelist of
// fields before it is re-emitted, so the output can be written as JSON
// lines or handed to another process.
package projector

import (
	"github.com/rs/zerolog"

	"github.com/AndreyAkinshin/testrelay/internal/event"
	"github.com/AndreyAkinshin/testrelay/internal/metrics"
)

// Options configures a Projector.
type Options struct {
	// Sink receives projected events. When nil the projector emits on its
	// own bus and acts as a new event source.
	Sink event.Bus
	// Logger receives debug diagnostics. Nil disables logging.
	Logger *zerolog.Logger
	// Metrics counts projected events. Nil disables metrics.
	Metrics *metrics.Metrics
}

// Projector mirrors a runner's events onto its sink.
type Projector struct {
	sink    event.Bus
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// New creates a Projector. Instances are independent: each has its own
// sink and shares no state with others.
func New(opts Options) *Projector {
	p := &Projector{
		sink:    opts.Sink,
		log:     zerolog.Nop(),
		metrics: opts.Metrics,
	}
	if p.sink == nil {
		p.sink = event.NewEmitter()
	}
	if opts.Logger != nil {
		p.log = opts.Logger.With().Str("component", metrics.ComponentProjector).Logger()
	}
	return p
}

// Attach subscribes the projector to every recognized event on src and
// returns the projector. Subscriptions last for the lifetime of src.
func (p *Projector) Attach(src event.Bus) *Projector {
	for _, kind := range event.Kinds() {
		src.On(kind, func(raw event.Payload) error {
			return p.handle(kind, raw)
		})
	}
	return p
}

// On registers h on the projector's sink.
func (p *Projector) On(kind event.Kind, h event.Handler) {
	p.sink.On(kind, h)
}

// Emit emits directly on the projector's sink without projecting.
func (p *Projector) Emit(kind event.Kind, payload event.Payload) error {
	return p.sink.Emit(kind, payload)
}

func (p *Projector) handle(kind event.Kind, raw event.Payload) error {
	out, ok := Project(kind, raw)
	if !ok {
		return nil
	}
	p.metrics.ObserveEvent(metrics.ComponentProjector, kind)
	if e := p.log.Debug(); e.Enabled() {
		e.Str("event", kind.String()).
			Int("fields_in", len(raw)).
			Int("fields_out", len(out)).
			Msg("projected")
	}
	return p.sink.Emit(kind, out)
}
