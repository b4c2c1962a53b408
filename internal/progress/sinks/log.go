// Package sinks provides progress.Sink implementations.
package sinks

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/halvorsen/snapreport/internal/progress"
)

// LogSink emits one human-readable status line per progress event.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a Zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Consume logs the event using structured fields.
func (s *LogSink) Consume(_ context.Context, evt progress.Event) error {
	fields := []zap.Field{
		zap.String("run_id", evt.RunID.String()),
		zap.String("stage", string(evt.Stage)),
		zap.String("progress", fmt.Sprintf("%d/%d", evt.Completed, evt.Total)),
	}
	if evt.Name != "" {
		fields = append(fields, zap.String("name", evt.Name), zap.String("url", evt.URL))
	}
	if evt.Artifacts > 0 {
		fields = append(fields, zap.Int("artifacts", evt.Artifacts))
	}
	if evt.Dur > 0 {
		fields = append(fields, zap.Duration("dur", evt.Dur))
	}
	if evt.Note != "" {
		fields = append(fields, zap.String("note", evt.Note))
	}
	if evt.Stage == progress.StageEntryError || evt.Stage == progress.StageRunError {
		s.logger.Warn("progress event", fields...)
	} else {
		s.logger.Info("progress event", fields...)
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *LogSink) Close(context.Context) error {
	return nil
}
