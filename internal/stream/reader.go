package stream

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/AndreyAkinshin/testrelay/internal/errors"
	"github.com/AndreyAkinshin/testrelay/internal/event"
	"github.com/AndreyAkinshin/testrelay/internal/metrics"
)

// ReaderOptions configures a Reader.
type ReaderOptions struct {
	Logger  *zerolog.Logger
	Metrics *metrics.Metrics
}

// Reader replays NDJSON envelopes into a bus. Lines that do not decode to
// a known event are skipped.
type Reader struct {
	log     zerolog.Logger
	metrics *metrics.Metrics

	lines   int
	skipped int
}

// NewReader creates a Reader.
func NewReader(opts ReaderOptions) *Reader {
	r := &Reader{
		log:     zerolog.Nop(),
		metrics: opts.Metrics,
	}
	if opts.Logger != nil {
		r.log = opts.Logger.With().Str("component", metrics.ComponentStream).Logger()
	}
	return r
}

// Lines returns the number of non-blank lines read so far.
func (r *Reader) Lines() int { return r.lines }

// Skipped returns the number of lines that were not emitted.
func (r *Reader) Skipped() int { return r.skipped }

// Replay emits every event in src on bus, in order. It stops at the first
// error returned by bus. A final line without a trailing newline is
// replayed as well.
func (r *Reader) Replay(src io.Reader, bus event.Bus) error {
	t := &tail{br: bufio.NewReader(src)}
	if err := r.drain(t, bus); err != nil {
		return err
	}
	if len(t.partial) > 0 {
		line := t.partial
		t.partial = nil
		return r.emit(line, bus)
	}
	return nil
}

// Follow replays path and then keeps emitting lines appended to it until
// ctx is done. Only complete lines are emitted; a line still being written
// waits for its newline. Follow blocks and emits on the calling goroutine.
func (r *Reader) Follow(ctx context.Context, path string, bus event.Bus) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open stream")
	}
	defer f.Close()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "stream watcher")
	}
	defer w.Close()
	if err := w.Add(path); err != nil {
		return errors.Wrap(err, fmt.Sprintf("stream watcher add %s", path))
	}

	t := &tail{br: bufio.NewReader(f)}
	if err := r.drain(t, bus); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				if err := r.drain(t, bus); err != nil {
					return err
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.log.Warn().Err(err).Str("path", path).Msg("watch error")
		}
	}
}

// tail keeps the unterminated end of a growing input between reads.
type tail struct {
	br      *bufio.Reader
	partial []byte
}

func (r *Reader) drain(t *tail, bus event.Bus) error {
	for {
		chunk, err := t.br.ReadBytes('\n')
		t.partial = append(t.partial, chunk...)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "read stream")
		}
		line := t.partial
		t.partial = nil
		if err := r.emit(line, bus); err != nil {
			return err
		}
	}
}

func (r *Reader) emit(line []byte, bus event.Bus) error {
	if len(bytes.TrimSpace(line)) == 0 {
		return nil
	}
	r.lines++
	kind, p, err := Decode(line)
	if err != nil {
		r.skipped++
		r.metrics.ObserveSkippedLine()
		r.log.Debug().Err(err).Int("line", r.lines).Msg("skipped line")
		return nil
	}
	r.metrics.ObserveEvent(metrics.ComponentStream, kind)
	return bus.Emit(kind, p)
}
