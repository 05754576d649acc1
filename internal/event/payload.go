package event

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

// Payload is the raw object a runner attaches to an event. It may carry
// members that cannot be serialized (funcs, channels, cyclic maps); the
// accessors below never panic on absent or mistyped values.
type Payload map[string]any

// Has reports whether key is present.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Get returns the raw value stored under key.
func (p Payload) Get(key string) (any, bool) {
	v, ok := p[key]
	return v, ok
}

// String returns the value under key when it is a string.
func (p Payload) String(key string) (string, bool) {
	s, ok := p[key].(string)
	return s, ok
}

// Int returns the value under key when it is an integral number.
// JSON-decoded float64 values without a fraction are accepted.
func (p Payload) Int(key string) (int, bool) {
	switch v := p[key].(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
	}
	return 0, false
}

// Bool returns the value under key when it is a bool.
func (p Payload) Bool(key string) (bool, bool) {
	b, ok := p[key].(bool)
	return b, ok
}

// Map returns the nested object under key.
func (p Payload) Map(key string) (Payload, bool) {
	switch v := p[key].(type) {
	case Payload:
		return v, true
	case map[string]any:
		return Payload(v), true
	}
	return nil, false
}

// ErrorInfo is the serializable shape of an error raised inside a test.
// Source is set only when the error originated in a hook such as
// "setUp" or "tearDown".
type ErrorInfo struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Stack   string `json:"stack"`
	Source  string `json:"source,omitempty"`
}

func (e *ErrorInfo) Error() string {
	if e.Name == "" {
		return e.Message
	}
	return e.Name + ": " + e.Message
}

// Fields returns the error as a Payload. Empty fields are omitted so
// that absent input stays absent.
func (e ErrorInfo) Fields() Payload {
	p := Payload{}
	if e.Name != "" {
		p["name"] = e.Name
	}
	if e.Message != "" {
		p["message"] = e.Message
	}
	if e.Stack != "" {
		p["stack"] = e.Stack
	}
	if e.Source != "" {
		p["source"] = e.Source
	}
	return p
}

// ErrorFields extracts the error fields from the value under key. The
// value may be a Payload, an ErrorInfo (or pointer), or any Go error; a Go
// error that is not an *ErrorInfo is reported with name "Error".
func (p Payload) ErrorFields(key string) (Payload, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, false
	}
	switch e := v.(type) {
	case ErrorInfo:
		return e.Fields(), true
	case *ErrorInfo:
		if e == nil {
			return nil, false
		}
		return e.Fields(), true
	case error:
		var info *ErrorInfo
		if errors.As(e, &info) {
			return info.Fields(), true
		}
		return ErrorInfo{Name: "Error", Message: e.Error()}.Fields(), true
	}
	if m, ok := p.Map(key); ok {
		return m, true
	}
	return nil, false
}

// Describe renders a short diagnostic of the payload's keys and value types,
// used in debug logs where the payload itself may not be printable.
func (p Payload) Describe() string {
	out := make(map[string]string, len(p))
	for k, v := range p {
		if v == nil {
			out[k] = "nil"
			continue
		}
		out[k] = reflect.TypeOf(v).String()
	}
	return fmt.Sprint(out)
}
