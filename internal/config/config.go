// Package config holds the fully-resolved run configuration.
//
// The conversion pipeline never reads flags, environment variables, or
// interactive input itself; commands and the interactive flow both produce
// one of these structs before anything runs.
package config

import (
	"fmt"
)

// Modes of operation.
const (
	// ModeIndividual converts every selected file into its own HTML document.
	ModeIndividual = "individual"
	// ModeCompressed bundles all selected files into one archive and one document.
	ModeCompressed = "compressed"
)

// Password modes.
const (
	PasswordRandom    = "random"
	PasswordManual    = "manual"
	PasswordTimestamp = "timestamp"
	PasswordNone      = "none"
)

// Archive layer counts.
const (
	LayerNone   = "none"
	LayerSingle = "single"
	LayerDouble = "double"
)

// OnOversize policies for entries exceeding the size ceiling.
const (
	OversizeSkip  = "skip"
	OversizeAbort = "abort"
)

// Config is the resolved configuration for a single run.
type Config struct {
	// Positional argument
	Input string `validate:"required"`

	Output string `validate:"required"`

	Mode string `validate:"oneof=individual compressed"`

	Include     []string `validate:"dive,glob"`
	Exclude     []string `validate:"dive,glob"`
	IncludeFrom string   `mapstructure:"include-from"`
	ExcludeFrom string   `mapstructure:"exclude-from"`

	// Individual mode only: when false the innermost layer stores entries
	// without compression.
	Compress bool

	PasswordMode     string `mapstructure:"password-mode"     validate:"oneof=random manual timestamp none"`
	Password         string `validate:"required_if=PasswordMode manual"`
	DisplayPassword  bool   `mapstructure:"display-password"`
	ReusePassword    bool   `mapstructure:"reuse-password"`
	Layer            string `validate:"oneof=none single double"`
	EncryptionMethod string `mapstructure:"encryption-method" validate:"oneof=aes128 aes192 aes256"`
	CompressionLevel string `mapstructure:"compression-level" validate:"oneof=stored deflated"`

	MaxSizeMB  float64 `mapstructure:"max-size-mb" validate:"min=0"`
	OnOversize string  `mapstructure:"on-oversize" validate:"oneof=skip abort"`

	NoProgress bool   `mapstructure:"no-progress"`
	LogLevel   string `mapstructure:"log-level" validate:"oneof=debug info warn error"`
	Parallel   int    `validate:"min=1"`
	Quiet      bool
	Show       bool
	Stats      bool
	Dry        bool
}

// Encrypted reports whether any archive layer will be encrypted.
func (c Config) Encrypted() bool {
	return c.Layer != LayerNone && c.PasswordMode != PasswordNone
}

// Layers returns the number of archive layers for this run.
func (c Config) Layers() int {
	switch c.Layer {
	case LayerSingle:
		return 1
	case LayerDouble:
		return 2
	default:
		return 0
	}
}

// Validate normalizes and validates the configuration against the struct tags.
func (c *Config) Validate() error {
	// A payload without an archive layer cannot carry a password.
	if c.Layer == LayerNone {
		c.PasswordMode = PasswordNone
		c.Password = ""
	}

	validate, err := newValidator()
	if err != nil {
		return fmt.Errorf("building validator: %w", err)
	}

	if err := validate.Validator().Struct(*c); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	return nil
}
