// Package archive serializes selected files into zero, one, or two nested
// zip containers with optional per-entry AES encryption.
//
// Encrypted entries use the WinZip AES format, so the output opens with
// standard third-party archive utilities (7-Zip, WinRAR). That compatibility
// is a contract: the archive bytes embedded in the HTML document must stay
// recoverable without this tool.
package archive

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/yeka/zip"

	"github.com/idelchi/file2html/internal/password"
	"github.com/idelchi/file2html/internal/selector"
)

// Encryption selects the AES key size for encrypted entries.
type Encryption int

const (
	AES128 Encryption = iota
	AES192
	AES256
)

// EncryptionFromString maps the configuration surface value to an Encryption.
func EncryptionFromString(s string) (Encryption, error) {
	switch s {
	case "aes128":
		return AES128, nil
	case "aes192":
		return AES192, nil
	case "aes256":
		return AES256, nil
	default:
		return AES256, fmt.Errorf("unknown encryption method %q", s)
	}
}

// String returns the configuration surface name.
func (e Encryption) String() string {
	switch e {
	case AES128:
		return "aes128"
	case AES192:
		return "aes192"
	default:
		return "aes256"
	}
}

// method maps to the yeka/zip encryption constant.
func (e Encryption) method() zip.EncryptionMethod {
	switch e {
	case AES128:
		return zip.AES128Encryption
	case AES192:
		return zip.AES192Encryption
	default:
		return zip.AES256Encryption
	}
}

// Compression selects the entry compression method.
type Compression int

const (
	// Stored writes entries without compression. Preferred when the data is
	// already compressed or encrypted.
	Stored Compression = iota
	// Deflated compresses entries with DEFLATE.
	Deflated
)

// CompressionFromString maps the configuration surface value to a Compression.
func CompressionFromString(s string) (Compression, error) {
	switch s {
	case "stored":
		return Stored, nil
	case "deflated":
		return Deflated, nil
	default:
		return Deflated, fmt.Errorf("unknown compression level %q", s)
	}
}

// method maps to the zip method constant.
func (c Compression) method() uint16 {
	if c == Stored {
		return zip.Store
	}

	return zip.Deflate
}

// Spec describes one archive layer.
type Spec struct {
	Encryption  Encryption
	Compression Compression
	Password    password.Spec
}

// Built is a completed archive layer. Never mutated after creation.
type Built struct {
	// Bytes is the full archive.
	Bytes []byte

	// EntryName is the synthetic name under which these bytes are written
	// when a further layer wraps them.
	EntryName string

	// Password is the value the layer was encrypted with; empty when the
	// layer is unencrypted.
	Password string
}

// BuildEntries serializes the given files into a single archive. When the
// password is non-empty, every entry is individually encrypted under it
// with the spec's AES key size.
func BuildEntries(entries []selector.Entry, spec Spec, pwd string) ([]byte, error) {
	var buf bytes.Buffer

	writer := zip.NewWriter(&buf)

	for _, entry := range entries {
		data, err := os.ReadFile(entry.AbsPath)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %q: %w", ErrWrite, entry.AbsPath, err)
		}

		if err := writeEntry(writer, entry.RelPath, data, spec, pwd); err != nil {
			return nil, fmt.Errorf("entry %q: %w", entry.RelPath, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("%w: finalizing: %w", ErrWrite, err)
	}

	return buf.Bytes(), nil
}

// BuildNested wraps a prior archive as the sole entry of a new one. The
// inner bytes are written verbatim; no re-interpretation of their internal
// structure occurs.
func BuildNested(inner Built, spec Spec, pwd string) ([]byte, error) {
	var buf bytes.Buffer

	writer := zip.NewWriter(&buf)

	if err := writeEntry(writer, inner.EntryName, inner.Bytes, spec, pwd); err != nil {
		return nil, fmt.Errorf("entry %q: %w", inner.EntryName, err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("%w: finalizing: %w", ErrWrite, err)
	}

	return buf.Bytes(), nil
}

// writeEntry adds one named entry, encrypted when pwd is non-empty.
func writeEntry(writer *zip.Writer, name string, data []byte, spec Spec, pwd string) error {
	header := &zip.FileHeader{
		Name:   name,
		Method: spec.Compression.method(),
	}
	header.SetModTime(time.Now())

	if pwd != "" {
		header.SetPassword(pwd)
		header.SetEncryptionMethod(spec.Encryption.method())
	}

	entry, err := writer.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncryption, err)
	}

	if _, err := entry.Write(data); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return nil
}
