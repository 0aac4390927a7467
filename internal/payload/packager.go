// Package payload turns a completed archive into the Base64 payload handed
// to the template stage.
package payload

import (
	"encoding/base64"
	"fmt"

	"github.com/idelchi/file2html/internal/archive"
	"github.com/idelchi/file2html/internal/events"
)

// AdvisoryLimit is the encoded-text size above which a non-fatal warning is
// emitted. Roughly 750 KiB of archive data; browsers handle larger inline
// payloads poorly.
const AdvisoryLimit = 1_000_000

// Payload is the terminal artifact of the conversion core. Ownership passes
// to the template renderer.
type Payload struct {
	// Base64 is the standard-alphabet encoding of the final archive bytes.
	Base64 string

	// FileName is the display name of the source file or directory.
	FileName string

	// DownloadName is the suggested name for the decoded artifact.
	DownloadName string

	// OriginalSize is the total byte length of the selected inputs.
	OriginalSize int64

	// ArchiveSize is the byte length of the final archive.
	ArchiveSize int64

	// Passwords holds the per-layer values in build order, redacted to the
	// empty string when they are not meant to be rendered.
	Passwords []string

	// Encrypted reports whether any layer carries a password.
	Encrypted bool

	// Generated reports whether any layer password was produced by the
	// tool; only those are persisted to the sidecar key file.
	Generated bool
}

// Package encodes the final archive and assembles the embed payload.
// Passwords are redacted unless display is set; redacted generated values
// are recoverable through the sidecar key file instead.
func Package(result *archive.Result, fileName string, display bool, sink events.Sink) *Payload {
	if sink == nil {
		sink = events.Nop{}
	}

	encoded := base64.StdEncoding.EncodeToString(result.Final.Bytes)

	sink.Emit(events.Event{Kind: events.KindPayloadReady, Path: fileName, Bytes: int64(len(encoded))})

	if len(encoded) > AdvisoryLimit {
		sink.Emit(events.Event{
			Kind:  events.KindOversizePayload,
			Path:  fileName,
			Bytes: int64(len(encoded)),
			Msg:   fmt.Sprintf("advisory limit is %d bytes; the document may load slowly", AdvisoryLimit),
		})
	}

	passwords := make([]string, len(result.Layers))

	var encrypted, generated bool

	for i, layer := range result.Layers {
		if layer.Password != "" {
			encrypted = true
		}

		if layer.Generated {
			generated = true
		}

		if display {
			passwords[i] = layer.Password
		}
	}

	return &Payload{
		Base64:       encoded,
		FileName:     fileName,
		DownloadName: result.Final.EntryName,
		OriginalSize: result.OriginalSize,
		ArchiveSize:  int64(len(result.Final.Bytes)),
		Passwords:    passwords,
		Encrypted:    encrypted,
		Generated:    generated,
	}
}
