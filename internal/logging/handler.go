package logging

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/smazurov/loglevel/pkg/level"
	"github.com/smazurov/loglevel/pkg/loglevel"
)

// Fields carries a record's attributes to the formatter. Text formatters
// print it as sorted key=value pairs; the JSON formatter encodes it as an
// object under "data".
type Fields map[string]any

// String renders the fields as space-separated key=value pairs.
func (f Fields) String() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(fmt.Sprint(f[k]))
	}
	return sb.String()
}

// Handler is a slog.Handler that prints through a façade logger, so slog
// output obeys the façade's level, formatter and console.
type Handler struct {
	target func() *loglevel.Logger
	fields Fields
	groups []string
}

// NewHandler creates a handler printing through l.
func NewHandler(l *loglevel.Logger) *Handler {
	return &Handler{target: func() *loglevel.Logger { return l }}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, lvl slog.Level) bool {
	return h.target().Enabled(FromSlog(lvl))
}

// Handle implements slog.Handler.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	fields := make(Fields, len(h.fields)+r.NumAttrs())
	for k, v := range h.fields {
		fields[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key != "module" {
			flattenAttr(fields, h.groups, a)
		}
		return true
	})

	args := []any{r.Message}
	if len(fields) > 0 {
		args = append(args, fields)
	}
	h.target().Print(FromSlog(r.Level), args...)
	return nil
}

// flattenAttr extracts a slog.Attr into a flat map with dot-notation keys for groups.
func flattenAttr(attrs Fields, groups []string, a slog.Attr) {
	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		nested := append(groups[:len(groups):len(groups)], a.Key)
		for _, ga := range a.Value.Group() {
			flattenAttr(attrs, nested, ga)
		}
	case slog.KindTime:
		attrs[key] = a.Value.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		attrs[key] = a.Value.Duration().String()
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			attrs[key] = err.Error()
		} else {
			attrs[key] = a.Value.Any()
		}
	default:
		attrs[key] = a.Value.Any()
	}
}

// WithAttrs implements slog.Handler. Attributes are flattened under the
// groups open at the time of the call.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := make(Fields, len(h.fields)+len(attrs))
	for k, v := range h.fields {
		fields[k] = v
	}
	for _, a := range attrs {
		if a.Key != "module" {
			flattenAttr(fields, h.groups, a)
		}
	}

	return &Handler{target: h.target, fields: fields, groups: h.groups}
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups[len(h.groups)] = name

	return &Handler{target: h.target, fields: h.fields, groups: newGroups}
}

// FromSlog maps a slog level onto the façade scale. Anything below
// slog.LevelDebug is Trace.
func FromSlog(l slog.Level) level.Level {
	switch {
	case l >= slog.LevelError:
		return level.Error
	case l >= slog.LevelWarn:
		return level.Warn
	case l >= slog.LevelInfo:
		return level.Info
	case l >= slog.LevelDebug:
		return level.Debug
	default:
		return level.Trace
	}
}
