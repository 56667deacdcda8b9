// Package capture implements the per-application capture strategies
// (spec.md §4.6–§4.8): a closed set of handlers selected by window class,
// each contributing a typed sub-payload to the WindowRecord it produces.
package capture

import (
	"context"

	"github.com/grovetools/hypr-sessions/internal/compositor"
	"github.com/grovetools/hypr-sessions/internal/model"
	"github.com/grovetools/hypr-sessions/internal/process"
)

// Handler captures one window into a WindowRecord. Failure is reported
// through warning, never by leaving the record unproduced — callers still
// get a usable record with the launch command filled in by the builder.
type Handler interface {
	// Matches reports whether this handler owns windows of this class.
	Matches(class string) bool
	// Capture builds the application-specific portion of a WindowRecord.
	// A non-nil error is always a partial-capture warning, not a fatal
	// condition; the caller still has enough to build a generic record.
	Capture(ctx context.Context, win compositor.Window, sessionDir string) (*model.WindowRecord, error)
}

// Registry holds the closed set of handlers, trying the most specific
// match first and falling back to GenericHandler.
type Registry struct {
	handlers []Handler
	generic  *GenericHandler
	introspector *process.Introspector
}

// NewRegistry builds the standard handler set: Terminal, Editor, Browser,
// and Generic as the fallback (spec.md §9's closed-variant guidance).
func NewRegistry(introspector *process.Introspector) *Registry {
	return &Registry{
		handlers: []Handler{
			NewTerminalHandler(introspector),
			NewEditorHandler(),
			NewBrowserHandler(),
		},
		generic:      NewGenericHandler(),
		introspector: introspector,
	}
}

// For selects the most specific handler for a window's class, falling
// back to the generic handler when no application-specific handler
// claims it.
func (r *Registry) For(class string) Handler {
	for _, h := range r.handlers {
		if h.Matches(class) {
			return h
		}
	}
	return r.generic
}

// GenericHandler produces a bare WindowRecord with no application-specific
// payload, used for any window class not otherwise recognized.
type GenericHandler struct{}

// NewGenericHandler returns a GenericHandler.
func NewGenericHandler() *GenericHandler { return &GenericHandler{} }

// Matches is always true; GenericHandler is the fallback of last resort
// and is never consulted before the specific handlers in Registry.For.
func (g *GenericHandler) Matches(class string) bool { return true }

// Capture builds a bare WindowRecord from compositor-reported fields only.
func (g *GenericHandler) Capture(ctx context.Context, win compositor.Window, sessionDir string) (*model.WindowRecord, error) {
	return &model.WindowRecord{
		Class:    win.Class,
		Title:    win.Title,
		PID:      win.PID,
		Position: model.Position{X: win.Position.X, Y: win.Position.Y},
		Size:     model.Size{Width: win.Size.Width, Height: win.Size.Height},
	}, nil
}
