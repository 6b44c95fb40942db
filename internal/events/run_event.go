package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventWarn    EventType = "warn"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

// Event names emitted at pipeline milestones.
const (
	PipelineFetch    = "event:pipeline:fetch"
	PipelineChunk    = "event:pipeline:chunk"
	PipelineGenerate = "event:pipeline:generate"
	PipelineBuild    = "event:pipeline:build"
	PipelineDone     = "event:pipeline:done"
)

// RunEvent is a progress message scoped to one generation run.
type RunEvent struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	RunKey    string            `json:"runKey,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type contextKey string

const runContextKey contextKey = "repodocs/events/run"

// WithRun returns a derived context annotated with the given run key so
// emitters can automatically scope payloads.
func WithRun(ctx context.Context, runKey string) context.Context {
	if strings.TrimSpace(runKey) == "" {
		return ctx
	}
	return context.WithValue(ctx, runContextKey, runKey)
}

// RunFromContext extracts the run key associated with ctx.
func RunFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(runContextKey).(string); ok {
		return v
	}
	return ""
}

func newEvent(eventType EventType, message string) RunEvent {
	return RunEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewInfo creates an info RunEvent.
func NewInfo(message string) RunEvent { return newEvent(EventInfo, message) }

// NewWarn creates a warn RunEvent.
func NewWarn(message string) RunEvent { return newEvent(EventWarn, message) }

// NewError creates an error RunEvent.
func NewError(message string) RunEvent { return newEvent(EventError, message) }

// NewSuccess creates a success RunEvent.
func NewSuccess(message string) RunEvent { return newEvent(EventSuccess, message) }
