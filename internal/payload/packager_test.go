package payload_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/file2html/internal/archive"
	"github.com/idelchi/file2html/internal/events"
	"github.com/idelchi/file2html/internal/payload"
)

// recorder captures emitted events for assertions.
type recorder struct {
	events []events.Event
}

func (r *recorder) Emit(e events.Event) {
	r.events = append(r.events, e)
}

func (r *recorder) kinds() []events.Kind {
	kinds := make([]events.Kind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind
	}

	return kinds
}

func TestPackageBase64Invariant(t *testing.T) {
	t.Parallel()

	raw := []byte("some archive bytes")
	result := &archive.Result{
		Final:        archive.Built{Bytes: raw, EntryName: "doc.zip"},
		OriginalSize: 42,
		Layers: []archive.LayerResult{
			{Password: "pw0", Encryption: archive.AES256, Generated: true},
		},
	}

	got := payload.Package(result, "doc", true, nil)

	decoded, err := base64.StdEncoding.DecodeString(got.Base64)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
	assert.Equal(t, int64(len(decoded)), got.ArchiveSize)
	assert.Equal(t, int64(42), got.OriginalSize)
	assert.Equal(t, "doc.zip", got.DownloadName)
	assert.True(t, got.Encrypted)
	assert.True(t, got.Generated)
	assert.Equal(t, []string{"pw0"}, got.Passwords)
}

func TestPackageRedaction(t *testing.T) {
	t.Parallel()

	result := &archive.Result{
		Final: archive.Built{Bytes: []byte("x"), EntryName: "doc_outer.zip"},
		Layers: []archive.LayerResult{
			{Password: "inner", Generated: true},
			{Password: "outer", Generated: true},
		},
	}

	got := payload.Package(result, "doc", false, nil)

	assert.Equal(t, []string{"", ""}, got.Passwords)
	assert.True(t, got.Encrypted)
	assert.True(t, got.Generated)
}

func TestPackageManualNotGenerated(t *testing.T) {
	t.Parallel()

	result := &archive.Result{
		Final: archive.Built{Bytes: []byte("x"), EntryName: "doc.zip"},
		Layers: []archive.LayerResult{
			{Password: "chosen", Generated: false},
		},
	}

	got := payload.Package(result, "doc", false, nil)

	assert.True(t, got.Encrypted)
	assert.False(t, got.Generated)
}

func TestPackageAdvisoryWarning(t *testing.T) {
	t.Parallel()

	big := []byte(strings.Repeat("a", payload.AdvisoryLimit))
	rec := &recorder{}

	payload.Package(&archive.Result{Final: archive.Built{Bytes: big}}, "big", false, rec)

	assert.Contains(t, rec.kinds(), events.KindOversizePayload)
}

func TestPackageNoWarningBelowLimit(t *testing.T) {
	t.Parallel()

	rec := &recorder{}

	payload.Package(&archive.Result{Final: archive.Built{Bytes: []byte("tiny")}}, "tiny", false, rec)

	assert.NotContains(t, rec.kinds(), events.KindOversizePayload)
	assert.Contains(t, rec.kinds(), events.KindPayloadReady)
}
