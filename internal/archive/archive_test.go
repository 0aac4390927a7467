package archive_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeka/zip"

	"github.com/idelchi/file2html/internal/archive"
	"github.com/idelchi/file2html/internal/password"
	"github.com/idelchi/file2html/internal/selector"
)

// writeEntries materializes named contents in a temp dir and returns
// selector entries for them.
func writeEntries(t *testing.T, contents map[string][]byte) []selector.Entry {
	t.Helper()

	dir := t.TempDir()

	var entries []selector.Entry

	for name, data := range contents {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, data, 0o600))

		entries = append(entries, selector.Entry{
			RelPath: name,
			AbsPath: path,
			Size:    int64(len(data)),
		})
	}

	return entries
}

// extract opens an archive with the given password and returns entry
// contents by name.
func extract(t *testing.T, data []byte, pwd string) map[string][]byte {
	t.Helper()

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	out := make(map[string][]byte, len(reader.File))

	for _, file := range reader.File {
		if file.IsEncrypted() {
			require.NotEmpty(t, pwd, "entry %q is encrypted but no password given", file.Name)
			file.SetPassword(pwd)
		}

		rc, err := file.Open()
		require.NoError(t, err)

		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		out[file.Name] = content
	}

	return out
}

func TestBuildEntriesRoundTrip(t *testing.T) {
	t.Parallel()

	contents := map[string][]byte{
		"a.txt":  []byte("0123456789"),
		"b.bin":  {0x00, 0xff, 0x10, 0x80},
		"c/d.md": []byte("# nested"),
	}
	entries := writeEntries(t, contents)

	for name, spec := range map[string]archive.Spec{
		"stored_aes256":   {Encryption: archive.AES256, Compression: archive.Stored},
		"deflated_aes128": {Encryption: archive.AES128, Compression: archive.Deflated},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			data, err := archive.BuildEntries(entries, spec, "secret1")
			require.NoError(t, err)

			got := extract(t, data, "secret1")
			require.Len(t, got, len(contents))

			for name, want := range contents {
				assert.Equal(t, want, got[name], "entry %q", name)
			}
		})
	}
}

func TestBuildEntriesEveryEntryEncrypted(t *testing.T) {
	t.Parallel()

	entries := writeEntries(t, map[string][]byte{"x.txt": []byte("x"), "y.txt": []byte("y")})

	data, err := archive.BuildEntries(entries, archive.Spec{Encryption: archive.AES256}, "pw")
	require.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	for _, file := range reader.File {
		assert.Truef(t, file.IsEncrypted(), "entry %q not encrypted", file.Name)
	}
}

func TestBuildEntriesPlain(t *testing.T) {
	t.Parallel()

	entries := writeEntries(t, map[string][]byte{"plain.txt": []byte("no password")})

	data, err := archive.BuildEntries(entries, archive.Spec{Compression: archive.Deflated}, "")
	require.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, reader.File, 1)
	assert.False(t, reader.File[0].IsEncrypted())

	got := extract(t, data, "")
	assert.Equal(t, []byte("no password"), got["plain.txt"])
}

func TestOrchestratorDoubleLayer(t *testing.T) {
	t.Parallel()

	contents := map[string][]byte{
		"one.txt":   []byte("first"),
		"two.txt":   []byte("second"),
		"three.txt": []byte("third"),
	}
	entries := writeEntries(t, contents)

	plan := archive.Plan{Layers: []archive.Spec{
		{Encryption: archive.AES256, Compression: archive.Deflated, Password: password.Spec{Mode: password.Random}},
		{Encryption: archive.AES256, Compression: archive.Stored, Password: password.Spec{Mode: password.Random}},
	}}

	result, err := archive.NewOrchestrator().Run(entries, plan, "bundle")
	require.NoError(t, err)

	require.Len(t, result.Layers, 2)
	assert.Len(t, result.Layers[0].Password, password.RandomLength)
	assert.Len(t, result.Layers[1].Password, password.RandomLength)
	assert.NotEqual(t, result.Layers[0].Password, result.Layers[1].Password)
	assert.Equal(t, "bundle_outer.zip", result.Final.EntryName)
	assert.Equal(t, int64(16), result.OriginalSize)

	// The outer archive holds exactly the inner archive's raw bytes.
	outer := extract(t, result.Final.Bytes, result.Layers[1].Password)
	require.Len(t, outer, 1)

	inner, ok := outer["bundle.zip"]
	require.True(t, ok)

	// Decrypting the inner archive restores the original entry set.
	got := extract(t, inner, result.Layers[0].Password)
	require.Len(t, got, len(contents))

	for name, want := range contents {
		assert.Equal(t, want, got[name])
	}
}

func TestOrchestratorReusePassword(t *testing.T) {
	t.Parallel()

	entries := writeEntries(t, map[string][]byte{"f.txt": []byte("payload")})

	plan := archive.Plan{
		Layers: []archive.Spec{
			{Encryption: archive.AES256, Password: password.Spec{Mode: password.Random}},
			{Encryption: archive.AES256, Password: password.Spec{Mode: password.Random}},
		},
		ReusePassword: true,
	}

	result, err := archive.NewOrchestrator().Run(entries, plan, "f.txt")
	require.NoError(t, err)
	require.Len(t, result.Layers, 2)
	assert.Equal(t, result.Layers[0].Password, result.Layers[1].Password)
}

func TestOrchestratorPassthrough(t *testing.T) {
	t.Parallel()

	raw := []byte{0xde, 0xad, 0xbe, 0xef}
	entries := writeEntries(t, map[string][]byte{"only.bin": raw})

	result, err := archive.NewOrchestrator().Run(entries, archive.Plan{}, "only.bin")
	require.NoError(t, err)

	assert.Equal(t, raw, result.Final.Bytes)
	assert.Equal(t, "only.bin", result.Final.EntryName)
	assert.Empty(t, result.Layers)
}

func TestOrchestratorPassthroughRejectsMultiple(t *testing.T) {
	t.Parallel()

	entries := writeEntries(t, map[string][]byte{"a": []byte("a"), "b": []byte("b")})

	_, err := archive.NewOrchestrator().Run(entries, archive.Plan{}, "pair")
	require.ErrorIs(t, err, archive.ErrLayerNoneMultiple)
}

func TestOrchestratorManualEmptyAborts(t *testing.T) {
	t.Parallel()

	entries := writeEntries(t, map[string][]byte{"f": []byte("f")})

	plan := archive.Plan{Layers: []archive.Spec{
		{Encryption: archive.AES256, Password: password.Spec{Mode: password.Manual}},
	}}

	_, err := archive.NewOrchestrator().Run(entries, plan, "f")
	require.ErrorIs(t, err, password.ErrEmpty)
}
