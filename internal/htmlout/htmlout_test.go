package htmlout

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/file2html/internal/archive"
	"github.com/idelchi/file2html/internal/payload"
)

func samplePayload() *payload.Payload {
	return &payload.Payload{
		Base64:       "UEsDBA==",
		FileName:     "report.txt",
		DownloadName: "report.txt.zip",
		OriginalSize: 10,
		ArchiveSize:  6,
		Passwords:    []string{"pw0"},
		Encrypted:    true,
		Generated:    true,
	}
}

func TestRenderSubstitutesAllPlaceholders(t *testing.T) {
	t.Parallel()

	rendered, err := Render(samplePayload())
	require.NoError(t, err)

	assert.NotContains(t, rendered, "{{")
	assert.Contains(t, rendered, "UEsDBA==")
	assert.Contains(t, rendered, "report.txt.zip")
	assert.Contains(t, rendered, `<span class="password-display">pw0</span>`)
}

func TestRenderRedacted(t *testing.T) {
	t.Parallel()

	p := samplePayload()
	p.Passwords = []string{""}

	rendered, err := Render(p)
	require.NoError(t, err)

	assert.NotContains(t, rendered, "password-display\">")
	assert.Contains(t, rendered, "report.txt.html.key")
}

func TestRenderManualRedactedHint(t *testing.T) {
	t.Parallel()

	p := samplePayload()
	p.Passwords = []string{""}
	p.Generated = false

	rendered, err := Render(p)
	require.NoError(t, err)

	// No key file exists for a manual password; the hint must not point at one.
	assert.NotContains(t, rendered, ".html.key")
	assert.Contains(t, rendered, "the password you supplied")
}

func TestInstructions(t *testing.T) {
	t.Parallel()

	assert.Contains(t, Instructions(0, false), "no extraction")
	assert.Contains(t, Instructions(1, true), "with the password")
	assert.Contains(t, Instructions(2, true), "outer and inner")
	assert.Contains(t, Instructions(2, false), "No password")
}

func TestWriteWithSidecar(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	p := samplePayload()
	p.Passwords = []string{"", ""} // redacted on display
	layers := []archive.LayerResult{
		{Password: "innerpw", Encryption: archive.AES256, Generated: true},
		{Password: "outerpw", Encryption: archive.AES256, Generated: true},
	}

	doc, err := Write(dir, p, layers, false, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "report.txt.html"), doc.HTMLPath)
	assert.FileExists(t, doc.HTMLPath)

	require.Equal(t, filepath.Join(dir, "report.txt.html.key"), doc.KeyPath)

	key, err := os.ReadFile(doc.KeyPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(key)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "layer 0 (aes256): innerpw", lines[0])
	assert.Equal(t, "layer 1 (aes256): outerpw", lines[1])
}

func TestWriteNoSidecarWhenDisplayed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	layers := []archive.LayerResult{
		{Password: "pw0", Encryption: archive.AES256, Generated: true},
	}

	doc, err := Write(dir, samplePayload(), layers, true, nil)
	require.NoError(t, err)

	assert.Empty(t, doc.KeyPath)
	assert.NoFileExists(t, filepath.Join(dir, "report.txt.html.key"))
}

func TestWriteNoSidecarForManualPassword(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	layers := []archive.LayerResult{
		{Password: "chosen", Encryption: archive.AES256, Generated: false},
	}

	doc, err := Write(dir, samplePayload(), layers, false, nil)
	require.NoError(t, err)

	assert.Empty(t, doc.KeyPath)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := Write(dir, samplePayload(), nil, true, nil)
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, ".tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}
