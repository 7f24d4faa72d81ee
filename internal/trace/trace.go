// Package trace tags every menu action with an ID and records how long it
// took and whether it failed.
package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"

	"expensetracker/internal/log"
)

// ContextKey type for context keys
type ContextKey string

const (
	// ActionIDKey is the context key for the action ID
	ActionIDKey ContextKey = "action_id"
)

// Tracer wraps menu actions with tracing and logging
type Tracer struct {
	total   atomic.Int64
	failed  atomic.Int64
	lastDur atomic.Int64 // in microseconds
}

// Metrics is a snapshot of the tracer counters
type Metrics struct {
	TotalActions     int64
	FailedActions    int64
	LastActionMicros int64
}

func New() *Tracer {
	return &Tracer{}
}

// Run calls fn with a context carrying a fresh action ID and a logger
// tagged with it. The error of fn is returned unchanged.
func (t *Tracer) Run(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	actionID := GenerateActionID()

	logger := log.FromContext(ctx).With(log.FieldActionID, actionID)
	ctx = context.WithValue(ctx, ActionIDKey, actionID)
	ctx = log.NewContext(ctx, logger)

	logger.DebugContext(ctx, "Action started", log.FieldOperation, name)
	t.total.Add(1)

	err := fn(ctx)

	duration := time.Since(start)
	t.lastDur.Store(duration.Microseconds())
	if err != nil {
		t.failed.Add(1)
		logger.DebugContext(ctx, "Action failed",
			log.FieldOperation, name,
			log.FieldDurationMs, duration.Milliseconds(),
			log.FieldError, err)
		return err
	}

	logger.DebugContext(ctx, "Action completed",
		log.FieldOperation, name,
		log.FieldDurationMs, duration.Milliseconds())
	return nil
}

// Metrics returns current counters
func (t *Tracer) Metrics() Metrics {
	return Metrics{
		TotalActions:     t.total.Load(),
		FailedActions:    t.failed.Load(),
		LastActionMicros: t.lastDur.Load(),
	}
}

// GenerateActionID creates a unique action ID for tracing
func GenerateActionID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("act_%d", time.Now().UnixNano())
	}
	return "act_" + hex.EncodeToString(bytes)
}

// ActionID extracts the action ID from context
func ActionID(ctx context.Context) string {
	if id, ok := ctx.Value(ActionIDKey).(string); ok {
		return id
	}
	return ""
}
