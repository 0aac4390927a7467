// Package password produces the per-layer password value for archive
// encryption. Random values come from a cryptographically secure source.
package password

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"
)

// Mode selects how a layer's password value is obtained.
type Mode int

const (
	// Random draws a fresh alphanumeric value from a secure source.
	Random Mode = iota
	// Manual uses a caller-supplied value verbatim.
	Manual
	// Timestamp derives the value from the wall clock.
	Timestamp
	// None disables encryption for the layer.
	None
)

// ErrEmpty is returned when manual mode is selected without a value while
// the layer encrypts.
var ErrEmpty = errors.New("password must not be empty")

// RandomLength is the fixed length of generated random passwords.
const RandomLength = 16

// alphabet is the character set for random passwords.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// timestampLayout renders yyyyMMddhhmmss.
const timestampLayout = "20060102150405"

// Spec is a tagged password request: the mode plus the manual value when
// Mode is Manual.
type Spec struct {
	Mode  Mode
	Value string
}

// ModeFromString maps the configuration surface value to a Mode.
func ModeFromString(s string) (Mode, error) {
	switch s {
	case "random":
		return Random, nil
	case "manual":
		return Manual, nil
	case "timestamp":
		return Timestamp, nil
	case "none":
		return None, nil
	default:
		return None, fmt.Errorf("unknown password mode %q", s)
	}
}

// Generate resolves a spec into a password value.
//
// The clock and random source are injected for testability; pass time.Now
// and crypto/rand.Reader in production. None yields an empty value, which
// signals the archive builder to skip encryption for the layer.
func Generate(spec Spec, clock func() time.Time, rng io.Reader) (string, error) {
	switch spec.Mode {
	case Random:
		return random(rng)
	case Manual:
		if spec.Value == "" {
			return "", ErrEmpty
		}

		return spec.Value, nil
	case Timestamp:
		return clock().Format(timestampLayout), nil
	case None:
		return "", nil
	default:
		return "", fmt.Errorf("unknown password mode %d", spec.Mode)
	}
}

// New resolves a spec with the production clock and random source.
func New(spec Spec) (string, error) {
	return Generate(spec, time.Now, rand.Reader)
}

// random draws RandomLength characters independently and uniformly from the
// alphabet. rand.Int avoids modulo bias.
func random(rng io.Reader) (string, error) {
	out := make([]byte, RandomLength)
	size := big.NewInt(int64(len(alphabet)))

	for i := range out {
		idx, err := rand.Int(rng, size)
		if err != nil {
			return "", fmt.Errorf("drawing random character: %w", err)
		}

		out[i] = alphabet[idx.Int64()]
	}

	return string(out), nil
}
