// Package htmlout renders the embed payload into the self-contained HTML
// document and persists it, together with the sidecar key file, atomically.
package htmlout

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/file2html/internal/archive"
	"github.com/idelchi/file2html/internal/events"
	"github.com/idelchi/file2html/internal/fileutil"
	"github.com/idelchi/file2html/internal/payload"
)

//go:embed template.html
var template string

// ErrRender is returned when placeholder substitution leaves the template
// incomplete.
var ErrRender = errors.New("rendering template")

// Document records what landed on disk for one conversion.
type Document struct {
	// HTMLPath is the written document.
	HTMLPath string

	// KeyPath is the sidecar key file, empty when none was needed.
	KeyPath string
}

// Render substitutes all template placeholders from the payload.
func Render(p *payload.Payload) (string, error) {
	replacer := strings.NewReplacer(
		"{{ZIP_BASE64}}", p.Base64,
		"{{FILE_NAME}}", p.FileName,
		"{{DOWNLOAD_ZIP_NAME}}", p.DownloadName,
		"{{INSTRUCTIONS}}", Instructions(len(p.Passwords), p.Encrypted),
		"{{FILE_SIZE}}", humanize.IBytes(uint64(max(0, p.ArchiveSize))),
		"{{PASSWORD}}", passwordHint(p),
		"{{PASSWORD_DISPLAY}}", passwordBlock(p),
	)

	rendered := replacer.Replace(template)

	if idx := strings.Index(rendered, "{{"); idx != -1 {
		end := min(len(rendered), idx+40)

		return "", fmt.Errorf("%w: unresolved placeholder near %q", ErrRender, rendered[idx:end])
	}

	return rendered, nil
}

// Instructions builds the decryption guidance text from layer count and
// encryption state.
func Instructions(layers int, encrypted bool) string {
	switch {
	case layers == 0:
		return "<p>Use the download button or decode the Base64 payload manually. The result is the original file; no extraction is needed.</p>"
	case layers == 1 && encrypted:
		return "<p>Use the download button or decode the Base64 payload manually into a ZIP file, then extract it with the password. 7-Zip or WinRAR is recommended.</p>"
	case layers == 1:
		return "<p>Use the download button or decode the Base64 payload manually into a ZIP file, then extract it. No password is required. 7-Zip or WinRAR is recommended.</p>"
	case encrypted:
		return "<p>Use the download button or decode the Base64 payload manually into a ZIP file, then extract the outer and inner ZIP with their respective passwords. 7-Zip or WinRAR is recommended.</p>"
	default:
		return "<p>Use the download button or decode the Base64 payload manually into a ZIP file, then extract the outer and inner ZIP. No password is required. 7-Zip or WinRAR is recommended.</p>"
	}
}

// passwordHint tells the reader where the password lives.
func passwordHint(p *payload.Payload) string {
	if !p.Encrypted {
		return "not required"
	}

	for _, pwd := range p.Passwords {
		if pwd != "" {
			return "shown below"
		}
	}

	// Only generated passwords land in the key file; a redacted manual
	// password exists nowhere but with whoever supplied it.
	if !p.Generated {
		return "the password you supplied when creating this document"
	}

	return fmt.Sprintf("see the %s.html.key file", p.FileName)
}

// passwordBlock renders the visible password lines, or nothing when the
// values are redacted.
func passwordBlock(p *payload.Payload) string {
	var lines []string

	for i, pwd := range p.Passwords {
		if pwd == "" {
			continue
		}

		label := "Password"
		if len(p.Passwords) > 1 {
			label = fmt.Sprintf("Layer %d password", i)
		}

		lines = append(lines,
			fmt.Sprintf("<p>%s: <span class=\"password-display\">%s</span></p>", label, pwd))
	}

	return strings.Join(lines, "\n")
}

// Write renders the document and persists it under outputDir as
// <FileName>.html, writing the sidecar key file first when layers require
// one. All writes go through a temp file and rename; on any failure nothing
// partial remains.
func Write(outputDir string, p *payload.Payload, layers []archive.LayerResult, display bool, sink events.Sink) (doc *Document, err error) {
	if sink == nil {
		sink = events.Nop{}
	}

	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating output directory %q: %w", outputDir, err)
	}

	var rendered string

	rendered, err = Render(p)
	if err != nil {
		return nil, err
	}

	doc = &Document{HTMLPath: filepath.Join(outputDir, p.FileName+".html")}

	var keyPath string

	keyPath, err = writeSidecar(outputDir, p.FileName, layers, display)
	if err != nil {
		return nil, err
	}

	doc.KeyPath = keyPath

	defer func() {
		// A failed document write must not leave an orphaned key file.
		if err != nil && keyPath != "" {
			os.Remove(keyPath) //nolint:errcheck,gosec // best-effort cleanup
		}
	}()

	if err = fileutil.WriteAtomic(doc.HTMLPath, []byte(rendered)); err != nil {
		return nil, fmt.Errorf("writing document %q: %w", doc.HTMLPath, err)
	}

	sink.Emit(events.Event{Kind: events.KindDocumentWritten, Path: doc.HTMLPath, Bytes: int64(len(rendered))})

	return doc, nil
}
