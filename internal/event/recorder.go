package event

// Record is a single emitted event captured by a Recorder.
type Record struct {
	Kind    Kind
	Payload Payload
}

// Recorder is a Bus that keeps every emitted event in order before
// dispatching it to its own handlers. It is used as a sink in tests and
// by the CLI's summary command.
type Recorder struct {
	*Emitter
	records []Record
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{Emitter: NewEmitter()}
}

// Emit records the event, then dispatches it.
func (r *Recorder) Emit(kind Kind, p Payload) error {
	r.records = append(r.records, Record{Kind: kind, Payload: p})
	return r.Emitter.Emit(kind, p)
}

// Records returns a copy of everything recorded so far.
func (r *Recorder) Records() []Record {
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Last returns the most recent payload recorded for kind.
func (r *Recorder) Last(kind Kind) (Payload, bool) {
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].Kind == kind {
			return r.records[i].Payload, true
		}
	}
	return nil, false
}

// Count returns how many events of kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	n := 0
	for _, rec := range r.records {
		if rec.Kind == kind {
			n++
		}
	}
	return n
}

// Counts returns per-kind totals for every kind seen at least once.
func (r *Recorder) Counts() map[Kind]int {
	out := make(map[Kind]int)
	for _, rec := range r.records {
		out[rec.Kind]++
	}
	return out
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.records = nil
}
