// Package logic implements the conversion runs: selection, layer planning,
// and per-mode dispatch into the archive/payload/htmlout pipeline.
package logic

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/file2html/internal/archive"
	"github.com/idelchi/file2html/internal/config"
	"github.com/idelchi/file2html/internal/events"
	"github.com/idelchi/file2html/internal/htmlout"
	"github.com/idelchi/file2html/internal/password"
	"github.com/idelchi/file2html/internal/payload"
	"github.com/idelchi/file2html/internal/selector"
)

// Run executes one conversion according to the resolved configuration.
func Run(cfg *config.Config, logger *log.Logger) error {
	start := time.Now()

	var sink events.Sink = events.Nop{}
	if !cfg.Quiet && logger != nil {
		sink = events.NewLogger(logger)
	}

	entries, err := resolveEntries(cfg, sink)
	if err != nil {
		if errors.Is(err, selector.ErrNoMatch) && cfg.Mode == config.ModeIndividual {
			// Zero matches is recoverable for individual mode: there is
			// simply nothing to convert.
			if logger != nil {
				logger.Warn("no files matched; nothing to do", "input", cfg.Input)
			}

			return nil
		}

		return fmt.Errorf("resolving files: %w", err)
	}

	plan, err := buildPlan(cfg)
	if err != nil {
		return fmt.Errorf("planning layers: %w", err)
	}

	if cfg.Dry {
		return dryRun(cfg, entries, logger)
	}

	var processed, errored int

	var totalSize int64

	switch cfg.Mode {
	case config.ModeCompressed:
		processed, errored, totalSize, err = runCompressed(cfg, entries, plan, sink)
	default:
		processed, errored, totalSize, err = runIndividual(cfg, entries, plan, sink)
	}

	if cfg.Stats {
		printStats(len(entries), processed, errored, totalSize, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("converting: %w", err)
	}

	if !cfg.Quiet {
		printSummary(processed, cfg.Output)
	}

	return nil
}

// resolveEntries merges CLI and file-based patterns and runs the selector.
func resolveEntries(cfg *config.Config, sink events.Sink) ([]selector.Entry, error) {
	includes := append([]string{}, cfg.Include...)
	excludes := append([]string{}, cfg.Exclude...)

	if cfg.IncludeFrom != "" {
		patterns, err := selector.LoadPatterns(cfg.IncludeFrom)
		if err != nil {
			return nil, fmt.Errorf("loading include patterns: %w", err)
		}

		includes = append(includes, patterns...)
	}

	if cfg.ExcludeFrom != "" {
		patterns, err := selector.LoadPatterns(cfg.ExcludeFrom)
		if err != nil {
			return nil, fmt.Errorf("loading exclude patterns: %w", err)
		}

		excludes = append(excludes, patterns...)
	}

	const bytesPerMiB = 1 << 20

	return selector.Select(cfg.Input, selector.Options{
		Include:         includes,
		Exclude:         excludes,
		MaxSizeBytes:    int64(cfg.MaxSizeMB * bytesPerMiB),
		AbortOnOversize: cfg.OnOversize == config.OversizeAbort,
		Sink:            sink,
	})
}

// buildPlan maps the configuration onto an ordered layer plan.
func buildPlan(cfg *config.Config) (archive.Plan, error) {
	plan := archive.Plan{ReusePassword: cfg.ReusePassword}

	layers := cfg.Layers()
	if layers == 0 {
		return plan, nil
	}

	encryption, err := archive.EncryptionFromString(cfg.EncryptionMethod)
	if err != nil {
		return plan, err
	}

	compression, err := archive.CompressionFromString(cfg.CompressionLevel)
	if err != nil {
		return plan, err
	}

	// Individual mode without --compress stores the innermost entries
	// verbatim while keeping the layered structure.
	if cfg.Mode == config.ModeIndividual && !cfg.Compress {
		compression = archive.Stored
	}

	mode, err := password.ModeFromString(cfg.PasswordMode)
	if err != nil {
		return plan, err
	}

	spec := password.Spec{Mode: mode, Value: cfg.Password}

	plan.Layers = append(plan.Layers, archive.Spec{
		Encryption:  encryption,
		Compression: compression,
		Password:    spec,
	})

	if layers > 1 {
		// AES-encrypted inner bytes do not deflate; store them.
		outerCompression := compression
		if cfg.Encrypted() {
			outerCompression = archive.Stored
		}

		plan.Layers = append(plan.Layers, archive.Spec{
			Encryption:  encryption,
			Compression: outerCompression,
			Password:    spec,
		})
	}

	return plan, nil
}

// convertOne runs the full pipeline for one entry set and writes the
// document. baseName names the document and nested archive entries.
func convertOne(cfg *config.Config, entries []selector.Entry, plan archive.Plan, baseName string, sink events.Sink) (int64, error) {
	result, err := archive.NewOrchestrator(archive.WithSink(sink)).Run(entries, plan, baseName)
	if err != nil {
		return 0, err
	}

	embed := payload.Package(result, baseName, cfg.DisplayPassword, sink)

	doc, err := htmlout.Write(cfg.Output, embed, result.Layers, cfg.DisplayPassword, sink)
	if err != nil {
		return 0, err
	}

	info, err := os.Stat(doc.HTMLPath)
	if err != nil {
		return 0, fmt.Errorf("stat output %q: %w", doc.HTMLPath, err)
	}

	return info.Size(), nil
}

// runCompressed bundles every selected entry into one document named after
// the input root.
func runCompressed(cfg *config.Config, entries []selector.Entry, plan archive.Plan, sink events.Sink) (processed, errored int, totalSize int64, err error) {
	baseName := filepath.Base(filepath.Clean(cfg.Input))

	size, err := convertOne(cfg, entries, plan, baseName, sink)
	if err != nil {
		return 0, 1, 0, fmt.Errorf("converting %q: %w", cfg.Input, err)
	}

	return 1, 0, size, nil
}

// runIndividual converts each entry independently. Pipelines share nothing,
// so they run concurrently up to the configured parallelism; document
// writes stay atomic per output path.
func runIndividual(cfg *config.Config, entries []selector.Entry, plan archive.Plan, sink events.Sink) (processed, errored int, totalSize int64, err error) {
	type outcome struct {
		input string
		size  int64
		err   error
	}

	results := make(chan outcome, len(entries))

	group := errgroup.Group{}
	group.SetLimit(cfg.Parallel)

	collected := make(chan struct{})

	go func() {
		defer close(collected)

		for res := range results {
			if res.err != nil {
				errored++

				fmt.Fprintf(os.Stderr, "Error converting %q: %v\n", res.input, res.err)
			} else {
				processed++
				totalSize += res.size
			}
		}
	}()

	names := documentNames(entries)

	for i, entry := range entries {
		group.Go(func() error {
			name := names[i]

			// Each document stands alone; its archive entry carries the
			// document name, not the walk-relative path.
			single := entry
			single.RelPath = name

			size, err := convertOne(cfg, []selector.Entry{single}, plan, name, sink)
			if err != nil {
				results <- outcome{input: entry.AbsPath, err: err}

				return fmt.Errorf("converting %q: %w", entry.AbsPath, err)
			}

			results <- outcome{input: entry.AbsPath, size: size}

			return nil
		})
	}

	err = group.Wait()

	close(results)

	<-collected

	return processed, errored, totalSize, err
}

// documentNames assigns each entry a unique document name. Entries keep
// their bare file name unless several share one; those fall back to the
// flattened relative path so no document overwrites another.
func documentNames(entries []selector.Entry) []string {
	counts := make(map[string]int, len(entries))
	for _, entry := range entries {
		counts[filepath.Base(entry.AbsPath)]++
	}

	names := make([]string, len(entries))

	for i, entry := range entries {
		name := filepath.Base(entry.AbsPath)
		if counts[name] > 1 {
			name = strings.ReplaceAll(entry.RelPath, "/", "_")
		}

		names[i] = name
	}

	return names
}

// dryRun previews the documents that would be written without converting.
func dryRun(cfg *config.Config, entries []selector.Entry, logger *log.Logger) error {
	if logger == nil {
		return nil
	}

	if cfg.Mode == config.ModeCompressed {
		baseName := filepath.Base(filepath.Clean(cfg.Input))
		logger.Info("would write", "document", filepath.Join(cfg.Output, baseName+".html"), "files", len(entries))

		return nil
	}

	for i, name := range documentNames(entries) {
		logger.Info("would write",
			"document", filepath.Join(cfg.Output, name+".html"),
			"source", entries[i].AbsPath)
	}

	return nil
}

var summaryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")) //nolint:gochecknoglobals // render style

// printSummary prints the one-line completion summary on stderr.
func printSummary(processed int, output string) {
	noun := "documents"
	if processed == 1 {
		noun = "document"
	}

	fmt.Fprintln(os.Stderr, summaryStyle.Render(fmt.Sprintf("✓ %d %s written to %s", processed, noun, output)))
}

func printStats(scanned, processed, errored int, totalSize int64, duration time.Duration) {
	fmt.Fprintf(os.Stderr, "\nStats\n")
	fmt.Fprintf(os.Stderr, "  Selected:  %d\n", scanned)
	fmt.Fprintf(os.Stderr, "  Processed: %d\n", processed)
	fmt.Fprintf(os.Stderr, "  Errors:    %d\n", errored)
	//nolint:gosec // totalSize is always non-negative (sum of file sizes)
	fmt.Fprintf(os.Stderr, "  Size:      %s\n", humanize.IBytes(uint64(max(0, totalSize))))
	fmt.Fprintf(os.Stderr, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
