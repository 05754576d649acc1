package projector

import (
	"maps"

	"github.com/AndreyAkinshin/testrelay/internal/event"
)

// rule derives the serializable projection of one raw payload.
type rule func(raw event.Payload) event.Payload

// Stats field names relayed verbatim at suite end.
var statsFields = []string{
	"contexts", "tests", "errors", "failures",
	"assertions", "timeouts", "deferred", "ok",
}

var errorFields = []string{"name", "message", "stack"}

var rules = map[event.Kind]rule{
	event.SuiteConfiguration: fields("uuid", "runtime", "name", "tests"),
	event.SuiteStart:         fields("uuid"),
	event.RunnerFocus:        fields("uuid"),
	event.SuiteEnd:           fields(append([]string{"uuid"}, statsFields...)...),

	event.ContextStart: fields("name", "uuid"),
	event.ContextEnd:   fields("name", "uuid"),
	event.TestSetUp:    fields("name", "uuid"),
	event.TestTearDown: fields("name", "uuid"),
	event.TestStart:    fields("name", "uuid"),
	event.TestAsync:    fields("name", "uuid"),
	event.TestDeferred: fields("name", "uuid", "comment"),
	event.TestSuccess:  fields("name", "uuid", "assertions"),

	event.TestError:   withError,
	event.TestFailure: withError,
	event.TestTimeout: withError,

	event.ContextUnsupported: unsupported,
	event.UncaughtException:  uncaught,
	event.Log:                passthrough,
}

// Project applies the projection rule for kind to raw. The result holds
// only the fields whitelisted for kind; fields absent from raw are
// omitted. ok is false for unrecognized kinds.
func Project(kind event.Kind, raw event.Payload) (event.Payload, bool) {
	r, ok := rules[kind]
	if !ok {
		return nil, false
	}
	return r(raw), true
}

// Whitelist returns the top-level field names kind may carry after
// projection. Log payloads are forwarded as-is and report nil.
func Whitelist(kind event.Kind) []string {
	switch kind {
	case event.SuiteConfiguration:
		return []string{"uuid", "runtime", "name", "tests"}
	case event.SuiteStart, event.RunnerFocus:
		return []string{"uuid"}
	case event.SuiteEnd:
		return append([]string{"uuid"}, statsFields...)
	case event.TestDeferred:
		return []string{"name", "uuid", "comment"}
	case event.TestSuccess:
		return []string{"name", "uuid", "assertions"}
	case event.TestError, event.TestFailure, event.TestTimeout:
		return []string{"name", "uuid", "error"}
	case event.ContextUnsupported:
		return []string{"context", "unsupported", "uuid"}
	case event.UncaughtException:
		return []string{"name", "message", "stack", "source", "uuid"}
	case event.Log:
		return nil
	}
	return []string{"name", "uuid"}
}

func fields(keys ...string) rule {
	return func(raw event.Payload) event.Payload {
		out := event.Payload{}
		copyFields(out, raw, keys...)
		return out
	}
}

func copyFields(dst, src event.Payload, keys ...string) {
	for _, k := range keys {
		v, ok := src[k]
		if !ok {
			continue
		}
		if pv, ok := plain(v); ok {
			dst[k] = pv
		}
	}
}

func withError(raw event.Payload) event.Payload {
	out := event.Payload{}
	copyFields(out, raw, "name", "uuid")
	if info, ok := errorInfo(raw); ok {
		out["error"] = info
	}
	return out
}

// errorInfo builds {name, message, stack, source?}; source is carried
// only when the raw error has one.
func errorInfo(raw event.Payload) (map[string]any, bool) {
	src, ok := raw.ErrorFields("error")
	if !ok {
		return nil, false
	}
	info := event.Payload{}
	copyFields(info, src, errorFields...)
	if s, ok := src["source"]; ok && s != nil {
		copyFields(info, src, "source")
	}
	return map[string]any(info), true
}

func unsupported(raw event.Payload) event.Payload {
	out := event.Payload{}
	if ctx, ok := raw.Map("context"); ok {
		c := event.Payload{}
		copyFields(c, ctx, "name")
		out["context"] = map[string]any(c)
	}
	if list, ok := raw["unsupported"]; ok {
		out["unsupported"] = capabilityNames(list)
	}
	copyFields(out, raw, "uuid")
	return out
}

// capabilityNames keeps the string members of a runner-supplied list.
func capabilityNames(v any) []any {
	out := []any{}
	switch list := v.(type) {
	case []string:
		for _, s := range list {
			out = append(out, s)
		}
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	case string:
		out = append(out, list)
	}
	return out
}

func uncaught(raw event.Payload) event.Payload {
	out := event.Payload{}
	copyFields(out, raw, errorFields...)
	if s, ok := raw["source"]; ok && s != nil {
		copyFields(out, raw, "source")
	}
	copyFields(out, raw, "uuid")
	return out
}

// passthrough forwards log messages as a shallow copy; runners already
// emit them as plain {level, message} objects.
func passthrough(raw event.Payload) event.Payload {
	return maps.Clone(raw)
}
