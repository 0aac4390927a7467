// file2html packages files or directories into self-contained HTML
// documents with an embedded, optionally AES-encrypted archive.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/file2html/internal/commands"
)

// version is set at build time through ldflags.
var version = "dev" //nolint:gochecknoglobals // build-time injection

func main() {
	if err := commands.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
