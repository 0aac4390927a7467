package archive

import "errors"

var (
	// ErrEncryption is returned when cipher setup for an entry fails.
	ErrEncryption = errors.New("encrypting archive entry")
	// ErrWrite is returned when archive bytes cannot be materialized.
	ErrWrite = errors.New("writing archive")
	// ErrLayerNoneMultiple is returned when raw passthrough is requested
	// for more than one input entry.
	ErrLayerNoneMultiple = errors.New("layer \"none\" requires exactly one input file")
)
