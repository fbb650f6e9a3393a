package format

import (
	"encoding/json"
	"fmt"

	"github.com/smazurov/loglevel/pkg/level"
)

const rootLoggerName = "root"

const jsonTimeLayout = "2006-01-02T15:04:05.000Z"

// JSON renders each call as a single JSON object string. Colors are never used.
type JSON struct {
	*flags
}

// NewJSON creates a JSON formatter with timestamps on. WithColors has no effect.
func NewJSON(opts ...Option) *JSON {
	j := &JSON{flags: newFlags(settings{timestamps: true}, opts)}
	j.colors = false
	return j
}

type record struct {
	Level     string `json:"level"`
	Logger    string `json:"logger"`
	Timestamp string `json:"timestamp,omitempty"`
	Message   string `json:"message,omitempty"`
	Data      *any   `json:"data,omitempty"`
}

// Format implements Formatter. The first argument becomes "message" when it
// is a non-empty string; the rest become "data", unwrapped when single.
func (j *JSON) Format(lvl level.Level, _ string, loggerName string, args []any) []any {
	if lvl >= level.Silent {
		return []any{}
	}

	s := j.snapshot()
	rec := record{Level: lvl.String(), Logger: loggerName}
	if rec.Logger == "" {
		rec.Logger = rootLoggerName
	}
	if s.timestamps {
		rec.Timestamp = s.now().UTC().Format(jsonTimeLayout)
	}

	rest := args
	if len(args) > 0 {
		if msg, ok := args[0].(string); ok && msg != "" {
			rec.Message = msg
			rest = args[1:]
		}
	}

	switch len(rest) {
	case 0:
	case 1:
		v := jsonValue(rest[0])
		rec.Data = &v
	default:
		values := make([]any, len(rest))
		for i, a := range rest {
			values[i] = jsonValue(a)
		}
		var v any = values
		rec.Data = &v
	}

	out, err := json.Marshal(rec)
	if err != nil {
		// Only reachable through a custom marshaler that fails.
		rec.Data = nil
		out, _ = json.Marshal(rec)
	}
	return []any{string(out)}
}

// jsonValue makes a value safe to marshal: errors become their message and
// anything encoding/json rejects is rendered with fmt.
func jsonValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case error:
		if _, ok := t.(json.Marshaler); !ok {
			return t.Error()
		}
	}
	if _, err := json.Marshal(v); err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return v
}

// UsesColors implements Formatter. It is always false.
func (j *JSON) UsesColors() bool { return false }

// SetUseColors implements Formatter. It is a no-op.
func (j *JSON) SetUseColors(bool) {}

// IncludesTimestamps implements Formatter.
func (j *JSON) IncludesTimestamps() bool { return j.useTimestamps() }

// SetIncludeTimestamps implements Formatter.
func (j *JSON) SetIncludeTimestamps(enable bool) { j.setTimestamps(enable) }

// With implements Formatter.
func (j *JSON) With(opts ...Option) Formatter {
	return NewJSON(append([]Option{restore(j.snapshot())}, opts...)...)
}
