package commands

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/file2html/internal/config"
	"github.com/idelchi/file2html/internal/logic"
)

// NewRootCommand creates the root command with all conversion flags.
// Environment variables with the FILE2HTML_ prefix override defaults and
// are themselves overridden by flags.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:     "file2html [flags] input",
		Short:   "Package files into a self-contained HTML document",
		Long: `
Packages one or more files into an HTML document carrying a Base64-embedded
archive, optionally protected by one or two nested layers of password-based
AES encryption. The archive opens with standard AES-capable tools such as
7-Zip or WinRAR.`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			viper.SetEnvPrefix("FILE2HTML")
			viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			viper.AutomaticEnv()

			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(_ *cobra.Command, args []string) error {
			var cfg config.Config
			if err := viper.Unmarshal(&cfg); err != nil {
				return fmt.Errorf("parsing config: %w", err)
			}

			cfg.Input = args[0]

			return run(&cfg)
		},
	}

	root.Flags().StringP("output", "o", "output", "Output directory for generated documents")
	root.Flags().String("mode", config.ModeIndividual, "Conversion mode: individual or compressed")
	root.Flags().StringSlice("include", nil, "Glob patterns to include (default everything)")
	root.Flags().StringSlice("exclude", nil, "Glob patterns to exclude; excludes win over includes")
	root.Flags().String("include-from", "", "JSONC file with additional include patterns")
	root.Flags().String("exclude-from", "", "JSONC file with additional exclude patterns")
	root.Flags().Bool("compress", true, "Compress entries of the innermost layer (individual mode)")
	root.Flags().String("password-mode", config.PasswordRandom, "Password mode: random, manual, timestamp or none")
	root.Flags().String("password", "", "Password value for manual mode")
	root.Flags().Bool("display-password", false, "Render passwords in the document instead of the key file")
	root.Flags().Bool("reuse-password", false, "Reuse the inner layer's generated password for the outer layer")
	root.Flags().String("layer", config.LayerSingle, "Archive layers: none, single or double")
	root.Flags().String("encryption-method", "aes256", "AES key size: aes128, aes192 or aes256")
	root.Flags().String("compression-level", "deflated", "Entry compression: stored or deflated")
	root.Flags().Float64("max-size-mb", 0, "Skip files larger than this many MiB (0 = unlimited)")
	root.Flags().String("on-oversize", config.OversizeSkip, "Oversize file policy: skip or abort")
	root.Flags().Bool("no-progress", false, "Suppress progress events")
	root.Flags().String("log-level", "info", "Log level: debug, info, warn or error")
	root.Flags().IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	root.Flags().BoolP("quiet", "q", false, "Suppress non-error output")
	root.Flags().BoolP("show", "s", false, "Show the resolved configuration and exit")
	root.Flags().Bool("stats", false, "Print run statistics")
	root.Flags().Bool("dry", false, "Preview the documents that would be written")

	root.AddCommand(NewInteractiveCommand())

	return root
}

// run validates the resolved configuration and executes the conversion.
func run(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.Show {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("rendering config: %w", err)
		}

		fmt.Print(string(out)) //nolint:forbidigo

		return nil
	}

	return logic.Run(cfg, newLogger(cfg))
}

// newLogger builds the stderr logger honoring quiet and log-level settings.
func newLogger(cfg *config.Config) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}

	if cfg.Quiet || cfg.NoProgress {
		level = log.ErrorLevel
	}

	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: false,
	})
}
