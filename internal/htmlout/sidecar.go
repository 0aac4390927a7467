package htmlout

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/idelchi/file2html/internal/archive"
	"github.com/idelchi/file2html/internal/fileutil"
)

// writeSidecar persists generated, non-displayed passwords to
// <base>.html.key so they stay recoverable. Returns the written path, or ""
// when no layer needs one.
func writeSidecar(outputDir, baseName string, layers []archive.LayerResult, display bool) (string, error) {
	if display {
		return "", nil
	}

	var lines []string

	for i, layer := range layers {
		if !layer.Generated || layer.Password == "" {
			continue
		}

		lines = append(lines, fmt.Sprintf("layer %d (%s): %s", i, layer.Encryption, layer.Password))
	}

	if len(lines) == 0 {
		return "", nil
	}

	path := filepath.Join(outputDir, baseName+".html.key")

	if err := fileutil.WriteAtomic(path, []byte(strings.Join(lines, "\n")+"\n")); err != nil {
		return "", fmt.Errorf("writing key file %q: %w", path, err)
	}

	return path, nil
}
