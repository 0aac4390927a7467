// Package selector enumerates candidate files and applies include/exclude
// patterns and the size ceiling. Excludes always win over includes.
package selector

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/idelchi/file2html/internal/events"
	"github.com/idelchi/file2html/pkg/pathmatch"
)

// Sentinel conditions reported by Select.
var (
	// ErrInputNotFound is returned when the root path does not exist.
	ErrInputNotFound = errors.New("input path not found")
	// ErrNoMatch is returned when filtering leaves no files. The caller
	// decides whether an empty selection is fatal for the requested mode.
	ErrNoMatch = errors.New("no files matched the provided patterns")
	// ErrFileTooLarge is returned when an entry exceeds the size ceiling
	// and the abort policy is active.
	ErrFileTooLarge = errors.New("file exceeds the size limit")
)

// Entry is one selected input file. Immutable once produced.
type Entry struct {
	// RelPath is the archive-relative path, slash-separated.
	RelPath string

	// AbsPath locates the file on disk.
	AbsPath string

	// Size is the file length in bytes.
	Size int64
}

// Options configure a selection pass.
type Options struct {
	// Include patterns; empty means match everything.
	Include []string

	// Exclude patterns; a match here rejects the entry regardless of includes.
	Exclude []string

	// MaxSizeBytes rejects larger entries when positive.
	MaxSizeBytes int64

	// AbortOnOversize fails the run on the first oversize entry instead of
	// skipping it with a warning.
	AbortOnOversize bool

	// Sink receives selection progress events. Nil means silent.
	Sink events.Sink
}

// filter pairs the compiled include and exclude matchers.
type filter struct {
	includes *pathmatch.Matcher
	excludes *pathmatch.Matcher
	has      bool
}

// newFilter compiles include/exclude patterns into a reusable filter.
func newFilter(includes, excludes []string) (*filter, error) {
	inc, err := pathmatch.NewMatcher(includes)
	if err != nil {
		return nil, fmt.Errorf("compiling include patterns: %w", err)
	}

	exc, err := pathmatch.NewMatcher(excludes)
	if err != nil {
		return nil, fmt.Errorf("compiling exclude patterns: %w", err)
	}

	return &filter{includes: inc, excludes: exc, has: len(includes) > 0}, nil
}

// match returns true if the relative path should be included.
func (f *filter) match(path string) bool {
	included := !f.has || f.includes.MatchAny(path)
	excluded := f.excludes.MatchAny(path)

	return included && !excluded
}

// Select resolves root (file or directory) into an ordered entry sequence.
//
// Relative paths are rooted at the parent of root, so a directory root
// keeps its own name as the leading component. A bare file root yields a
// single entry with no directory prefix. Directory walks are lexical, so
// the order is deterministic.
func Select(root string, opts Options) ([]Entry, error) {
	sink := opts.Sink
	if sink == nil {
		sink = events.Nop{}
	}

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrInputNotFound, root)
		}

		return nil, fmt.Errorf("stat %q: %w", root, err)
	}

	flt, err := newFilter(opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}

	root = filepath.Clean(root)

	var entries []Entry

	if !info.IsDir() {
		entry := Entry{RelPath: filepath.Base(root), AbsPath: root, Size: info.Size()}

		keep, err := admit(entry, flt, opts, sink)
		if err != nil {
			return nil, err
		}

		if keep {
			entries = append(entries, entry)
		}
	} else {
		entries, err = walk(root, flt, opts, sink)
		if err != nil {
			return nil, err
		}
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoMatch, root)
	}

	return entries, nil
}

// walk collects filtered entries below root, relative to root's parent.
func walk(root string, flt *filter, opts Options, sink events.Sink) ([]Entry, error) {
	base := filepath.Dir(root)

	var entries []Entry

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(base, path)
		if err != nil {
			return fmt.Errorf("relativizing %q: %w", path, err)
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %q: %w", path, err)
		}

		entry := Entry{RelPath: filepath.ToSlash(rel), AbsPath: path, Size: info.Size()}

		keep, err := admit(entry, flt, opts, sink)
		if err != nil {
			return err
		}

		if keep {
			entries = append(entries, entry)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %q: %w", root, err)
	}

	return entries, nil
}

// admit applies the filter and size ceiling to one entry.
func admit(entry Entry, flt *filter, opts Options, sink events.Sink) (bool, error) {
	if !flt.match(entry.RelPath) {
		return false, nil
	}

	if opts.MaxSizeBytes > 0 && entry.Size > opts.MaxSizeBytes {
		if opts.AbortOnOversize {
			return false, fmt.Errorf("%w: %q (%d bytes > %d bytes)",
				ErrFileTooLarge, entry.AbsPath, entry.Size, opts.MaxSizeBytes)
		}

		sink.Emit(events.Event{
			Kind:  events.KindSkipped,
			Path:  entry.AbsPath,
			Bytes: entry.Size,
			Msg:   fmt.Sprintf("exceeds size limit of %d bytes", opts.MaxSizeBytes),
		})

		return false, nil
	}

	sink.Emit(events.Event{Kind: events.KindSelected, Path: entry.AbsPath, Bytes: entry.Size})

	return true, nil
}
