// Package events decouples the conversion pipeline from console output.
// The pipeline emits discrete progress events to a Sink; the command layer
// decides how they are rendered.
package events

// Kind classifies an event.
type Kind int

const (
	// KindSelected is emitted once per selected input file.
	KindSelected Kind = iota
	// KindSkipped is emitted when a file is rejected by the size ceiling.
	KindSkipped
	// KindLayerBuilt is emitted after an archive layer is completed.
	KindLayerBuilt
	// KindPayloadReady is emitted after Base64 encoding.
	KindPayloadReady
	// KindOversizePayload warns that the encoded payload exceeds the advisory limit.
	KindOversizePayload
	// KindDocumentWritten is emitted after the HTML document lands on disk.
	KindDocumentWritten
)

// Event is a single progress notification.
type Event struct {
	Kind  Kind
	Path  string
	Layer int
	Bytes int64
	Msg   string
}

// Sink receives progress events. Implementations must be safe for
// concurrent use; individual mode emits from multiple goroutines.
type Sink interface {
	Emit(Event)
}

// Nop discards all events.
type Nop struct{}

// Emit implements Sink.
func (Nop) Emit(Event) {}
