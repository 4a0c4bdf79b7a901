package logging

import (
	"context"
	"log/slog"
)

// ContextProvider returns attributes evaluated each time a record is handled,
// such as the running command.
type ContextProvider func() []slog.Attr

// ContextHandler appends the attributes of a ContextProvider to every record
// before passing it on.
type ContextHandler struct {
	slog.Handler
	provider ContextProvider
}

func NewContextHandler(next slog.Handler, provider ContextProvider) *ContextHandler {
	return &ContextHandler{Handler: next, provider: provider}
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.provider != nil {
		r.AddAttrs(h.provider()...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewContextHandler(h.Handler.WithAttrs(attrs), h.provider)
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return NewContextHandler(h.Handler.WithGroup(name), h.provider)
}
