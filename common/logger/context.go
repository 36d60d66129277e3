package logger

import (
	"context"
	"log/slog"
	"unicode/utf8"
)

type fieldsKey struct{}

// Fields are appended to every record logged with a context that carries
// them. Zero values are left out.
type Fields struct {
	RequestID  string
	SnapshotID int64
	Backend    string
	Policy     string
	Component  string
}

// With merges f into the fields already on ctx. Set values in f win.
func With(ctx context.Context, f Fields) context.Context {
	return context.WithValue(ctx, fieldsKey{}, FromContext(ctx).merge(f))
}

func FromContext(ctx context.Context) Fields {
	f, _ := ctx.Value(fieldsKey{}).(Fields)
	return f
}

func (f Fields) merge(o Fields) Fields {
	if o.RequestID != "" {
		f.RequestID = o.RequestID
	}
	if o.SnapshotID != 0 {
		f.SnapshotID = o.SnapshotID
	}
	if o.Backend != "" {
		f.Backend = o.Backend
	}
	if o.Policy != "" {
		f.Policy = o.Policy
	}
	if o.Component != "" {
		f.Component = o.Component
	}
	return f
}

func (f Fields) attrs() []slog.Attr {
	out := make([]slog.Attr, 0, 5)
	if f.RequestID != "" {
		out = append(out, slog.String("request_id", f.RequestID))
	}
	if f.SnapshotID != 0 {
		out = append(out, slog.Int64("snapshot_id", f.SnapshotID))
	}
	if f.Backend != "" {
		out = append(out, slog.String("backend", f.Backend))
	}
	if f.Policy != "" {
		out = append(out, slog.String("policy", f.Policy))
	}
	if f.Component != "" {
		out = append(out, slog.String("component", f.Component))
	}
	return out
}

// Clip shortens s to at most n runes for logging stored payloads.
func Clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}
