// Package stream moves events across process boundaries as JSON lines.
//
// Each line is an envelope:
//
//	{"run":"<uuid>","event":"test:success","data":{"name":"t","uuid":"..."}}
//
// The run id identifies the writer; readers ignore it.
package stream

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/AndreyAkinshin/testrelay/internal/event"
)

// Envelope is one NDJSON line.
type Envelope struct {
	Run   string         `json:"run,omitempty"`
	Event string         `json:"event"`
	Data  map[string]any `json:"data"`
}

// Decode parses a single line. Blank lines, malformed JSON, a missing
// event name and unknown event names are all errors; a missing data
// object decodes as an empty payload.
func Decode(line []byte) (event.Kind, event.Payload, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return 0, nil, fmt.Errorf("empty line")
	}
	var env Envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return 0, nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Event == "" {
		return 0, nil, fmt.Errorf("envelope has no event name")
	}
	kind, ok := event.ParseKind(env.Event)
	if !ok {
		return 0, nil, fmt.Errorf("unknown event %q", env.Event)
	}
	if env.Data == nil {
		return kind, event.Payload{}, nil
	}
	return kind, event.Payload(env.Data), nil
}

// Encode renders one envelope without the trailing newline.
func Encode(run string, kind event.Kind, p event.Payload) ([]byte, error) {
	data := map[string]any(p)
	if data == nil {
		data = map[string]any{}
	}
	return json.Marshal(Envelope{Run: run, Event: kind.String(), Data: data})
}
