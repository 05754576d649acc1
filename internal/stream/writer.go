package stream

import (
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AndreyAkinshin/testrelay/internal/errors"
	"github.com/AndreyAkinshin/testrelay/internal/event"
	"github.com/AndreyAkinshin/testrelay/internal/metrics"
)

// WriterOptions configures a Writer.
type WriterOptions struct {
	// RunID tags every line. A random UUID is used when empty.
	RunID   string
	Logger  *zerolog.Logger
	Metrics *metrics.Metrics
}

// Writer encodes events as NDJSON envelopes. It is safe for concurrent
// use.
type Writer struct {
	mu      sync.Mutex
	w       io.Writer
	run     string
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// NewWriter creates a Writer on w.
func NewWriter(w io.Writer, opts WriterOptions) *Writer {
	sw := &Writer{
		w:       w,
		run:     opts.RunID,
		log:     zerolog.Nop(),
		metrics: opts.Metrics,
	}
	if sw.run == "" {
		sw.run = uuid.NewString()
	}
	if opts.Logger != nil {
		sw.log = opts.Logger.With().Str("component", metrics.ComponentStream).Str("run", sw.run).Logger()
	}
	return sw
}

// RunID returns the id written into every envelope.
func (w *Writer) RunID() string {
	return w.run
}

// Attach writes every event emitted on src and returns the writer.
func (w *Writer) Attach(src event.Bus) *Writer {
	for _, kind := range event.Kinds() {
		src.On(kind, func(p event.Payload) error {
			return w.Write(kind, p)
		})
	}
	return w
}

// Write encodes one event as a line. Payloads that cannot be encoded are
// rejected before anything is written.
func (w *Writer) Write(kind event.Kind, p event.Payload) error {
	line, err := Encode(w.run, kind, p)
	if err != nil {
		return errors.Wrap(err, "encode "+kind.String())
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.w.Write(line); err != nil {
		w.metrics.ObserveWriteError(metrics.ComponentStream)
		return errors.IO(kind.String(), err)
	}
	w.log.Debug().Str("event", kind.String()).Int("bytes", len(line)).Msg("wrote")
	return nil
}
