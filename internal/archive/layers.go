package archive

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/idelchi/file2html/internal/events"
	"github.com/idelchi/file2html/internal/password"
	"github.com/idelchi/file2html/internal/selector"
)

// Plan is the ordered layer sequence for one run, innermost first. Layer 0
// is built over the original files; layer 1 (if present) wraps layer 0's
// output as its sole entry.
type Plan struct {
	Layers []Spec

	// ReusePassword carries layer 0's generated value into layer 1 instead
	// of generating independently per layer.
	ReusePassword bool
}

// LayerResult records the password actually applied to one layer.
type LayerResult struct {
	Password   string
	Encryption Encryption

	// Generated marks values produced by the tool (random, timestamp) as
	// opposed to supplied manually. Only generated values are persisted to
	// the sidecar key file.
	Generated bool
}

// Result is the terminal state of a completed run through the state machine.
type Result struct {
	// Final is the outermost archive, or the raw file bytes for a zero-layer
	// plan.
	Final Built

	// Layers lists per-layer password outcomes in build order.
	Layers []LayerResult

	// OriginalSize is the total byte length of the selected inputs.
	OriginalSize int64
}

// Orchestrator composes 0, 1, or 2 archive layers with correct nesting
// order. The outer build strictly depends on the inner build completing;
// the two calls are never parallelized.
type Orchestrator struct {
	clock func() time.Time
	rng   io.Reader
	sink  events.Sink
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the wall clock used for timestamp passwords.
func WithClock(clock func() time.Time) Option {
	return func(o *Orchestrator) {
		o.clock = clock
	}
}

// WithRand overrides the random source used for generated passwords.
func WithRand(rng io.Reader) Option {
	return func(o *Orchestrator) {
		o.rng = rng
	}
}

// WithSink sets the progress event sink.
func WithSink(sink events.Sink) Option {
	return func(o *Orchestrator) {
		o.sink = sink
	}
}

// NewOrchestrator creates an orchestrator with production defaults:
// time.Now, crypto/rand, and a silent sink.
func NewOrchestrator(opts ...Option) *Orchestrator {
	orch := &Orchestrator{
		clock: time.Now,
		rng:   rand.Reader,
		sink:  events.Nop{},
	}

	for _, opt := range opts {
		opt(orch)
	}

	return orch
}

// Run executes the plan over the selected entries. baseName names the
// synthetic entries of nested layers and the final download artifact.
//
// Any failure aborts the whole run; archives are never emitted partially
// built.
func (o *Orchestrator) Run(entries []selector.Entry, plan Plan, baseName string) (*Result, error) {
	var originalSize int64
	for _, entry := range entries {
		originalSize += entry.Size
	}

	result := &Result{OriginalSize: originalSize}

	if len(plan.Layers) == 0 {
		final, err := passthrough(entries, baseName)
		if err != nil {
			return nil, err
		}

		result.Final = *final

		return result, nil
	}

	inner, layer, err := o.buildInner(entries, plan.Layers[0], baseName)
	if err != nil {
		return nil, fmt.Errorf("layer 0: %w", err)
	}

	result.Layers = append(result.Layers, *layer)
	result.Final = *inner

	if len(plan.Layers) > 1 {
		outer, layer, err := o.buildOuter(*inner, plan, baseName)
		if err != nil {
			return nil, fmt.Errorf("layer 1: %w", err)
		}

		result.Layers = append(result.Layers, *layer)
		result.Final = *outer
	}

	return result, nil
}

// passthrough returns the raw bytes of a single input entry. Valid only for
// exactly one entry; concatenating multiple files without an archive has no
// defined semantics.
func passthrough(entries []selector.Entry, baseName string) (*Built, error) {
	if len(entries) != 1 {
		return nil, fmt.Errorf("%w: got %d", ErrLayerNoneMultiple, len(entries))
	}

	data, err := os.ReadFile(entries[0].AbsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %w", ErrWrite, entries[0].AbsPath, err)
	}

	return &Built{Bytes: data, EntryName: baseName}, nil
}

// buildInner builds layer 0 over the original files.
func (o *Orchestrator) buildInner(entries []selector.Entry, spec Spec, baseName string) (*Built, *LayerResult, error) {
	pwd, err := password.Generate(spec.Password, o.clock, o.rng)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving password: %w", err)
	}

	data, err := BuildEntries(entries, spec, pwd)
	if err != nil {
		return nil, nil, err
	}

	o.sink.Emit(events.Event{Kind: events.KindLayerBuilt, Layer: 0, Bytes: int64(len(data))})

	built := &Built{Bytes: data, EntryName: baseName + ".zip", Password: pwd}

	return built, layerResult(spec, pwd), nil
}

// buildOuter wraps the inner archive as the sole entry of layer 1.
func (o *Orchestrator) buildOuter(inner Built, plan Plan, baseName string) (*Built, *LayerResult, error) {
	spec := plan.Layers[1]

	pwd := inner.Password
	if !plan.ReusePassword || spec.Password.Mode == password.None {
		var err error

		pwd, err = password.Generate(spec.Password, o.clock, o.rng)
		if err != nil {
			return nil, nil, fmt.Errorf("resolving password: %w", err)
		}
	}

	data, err := BuildNested(inner, spec, pwd)
	if err != nil {
		return nil, nil, err
	}

	o.sink.Emit(events.Event{Kind: events.KindLayerBuilt, Layer: 1, Bytes: int64(len(data))})

	built := &Built{Bytes: data, EntryName: baseName + "_outer.zip", Password: pwd}

	return built, layerResult(spec, pwd), nil
}

// layerResult records the applied password for sidecar and display handling.
func layerResult(spec Spec, pwd string) *LayerResult {
	return &LayerResult{
		Password:   pwd,
		Encryption: spec.Encryption,
		Generated:  spec.Password.Mode == password.Random || spec.Password.Mode == password.Timestamp,
	}
}
