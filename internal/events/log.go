package events

import (
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// Logger adapts a charmbracelet logger into a Sink.
// charmbracelet/log serializes writes internally, so Emit is safe to call
// from the worker pool.
type Logger struct {
	logger *log.Logger
}

// NewLogger wraps the given logger.
func NewLogger(logger *log.Logger) *Logger {
	return &Logger{logger: logger}
}

// Emit implements Sink.
func (l *Logger) Emit(event Event) {
	switch event.Kind {
	case KindSelected:
		l.logger.Debug("selected", "path", event.Path, "size", humanize.IBytes(uint64(max(0, event.Bytes))))
	case KindSkipped:
		l.logger.Warn("skipped", "path", event.Path, "reason", event.Msg)
	case KindLayerBuilt:
		l.logger.Info("layer built", "layer", event.Layer, "size", humanize.IBytes(uint64(max(0, event.Bytes))))
	case KindPayloadReady:
		l.logger.Debug("payload encoded", "path", event.Path, "encoded", humanize.IBytes(uint64(max(0, event.Bytes))))
	case KindOversizePayload:
		l.logger.Warn("payload exceeds advisory size", "path", event.Path, "encoded", event.Bytes, "hint", event.Msg)
	case KindDocumentWritten:
		l.logger.Info("document written", "path", event.Path, "size", humanize.IBytes(uint64(max(0, event.Bytes))))
	}
}
