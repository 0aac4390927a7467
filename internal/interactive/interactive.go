// Package interactive walks the user through a prompt flow and produces the
// same fully-resolved configuration the flag surface does. The conversion
// core never reads interactive input itself.
package interactive

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/idelchi/file2html/internal/config"
)

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")) //nolint:gochecknoglobals // render style

// Resolve prompts for every option and returns a validated configuration.
func Resolve() (*config.Config, error) {
	fmt.Println(titleStyle.Render("file2html interactive mode")) //nolint:forbidigo

	cfg := &config.Config{
		Output:           "output",
		Compress:         true,
		EncryptionMethod: "aes256",
		CompressionLevel: "deflated",
		OnOversize:       config.OversizeSkip,
		LogLevel:         "info",
		Parallel:         runtime.NumCPU(),
	}

	if err := askPaths(cfg); err != nil {
		return nil, err
	}

	if err := askModeAndLayer(cfg); err != nil {
		return nil, err
	}

	if err := askPassword(cfg); err != nil {
		return nil, err
	}

	if err := askPatterns(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// askPaths prompts for the input path and output directory.
func askPaths(cfg *config.Config) error {
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("File or directory to package").
			Placeholder("./myfile.txt or ./mydir").
			Validate(func(s string) error {
				if s == "" {
					return errors.New("input path is required")
				}

				if _, err := os.Stat(s); err != nil {
					return fmt.Errorf("path %q does not exist", s)
				}

				return nil
			}).
			Value(&cfg.Input),
		huh.NewInput().
			Title("Output directory").
			Value(&cfg.Output),
	))

	if err := form.Run(); err != nil {
		return fmt.Errorf("prompting for paths: %w", err)
	}

	return nil
}

// askModeAndLayer prompts for the conversion mode and the archive layers
// valid for it.
func askModeAndLayer(cfg *config.Config) error {
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Conversion mode").
			Options(
				huh.NewOption("individual — one HTML document per file", config.ModeIndividual),
				huh.NewOption("compressed — one archive, one document", config.ModeCompressed),
			).
			Value(&cfg.Mode),
	))

	if err := form.Run(); err != nil {
		return fmt.Errorf("prompting for mode: %w", err)
	}

	options := []huh.Option[string]{
		huh.NewOption("single — one archive layer", config.LayerSingle),
		huh.NewOption("double — an encrypted archive inside another", config.LayerDouble),
	}

	if cfg.Mode == config.ModeIndividual {
		options = append([]huh.Option[string]{
			huh.NewOption("none — embed the raw file", config.LayerNone),
		}, options...)
	}

	form = huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Archive layers").
			Options(options...).
			Value(&cfg.Layer),
	))

	if err := form.Run(); err != nil {
		return fmt.Errorf("prompting for layers: %w", err)
	}

	return nil
}

// askPassword prompts for the password mode, value, and display policy.
func askPassword(cfg *config.Config) error {
	if cfg.Layer == config.LayerNone {
		cfg.PasswordMode = config.PasswordNone

		return nil
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Password mode").
			Options(
				huh.NewOption("random — 16 generated characters", config.PasswordRandom),
				huh.NewOption("manual — type a password", config.PasswordManual),
				huh.NewOption("timestamp — yyyyMMddhhmmss", config.PasswordTimestamp),
				huh.NewOption("none — no encryption", config.PasswordNone),
			).
			Value(&cfg.PasswordMode),
	))

	if err := form.Run(); err != nil {
		return fmt.Errorf("prompting for password mode: %w", err)
	}

	if cfg.PasswordMode == config.PasswordNone {
		return nil
	}

	if cfg.PasswordMode == config.PasswordManual {
		var confirm string

		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("password must not be empty")
					}

					return nil
				}).
				Value(&cfg.Password),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&confirm),
		))

		if err := form.Run(); err != nil {
			return fmt.Errorf("prompting for password: %w", err)
		}

		if cfg.Password != confirm {
			return errors.New("passwords do not match")
		}
	}

	display := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Show the password inside the HTML document?").
			Description("When off, generated passwords are saved to a .html.key file next to the document.").
			Value(&cfg.DisplayPassword),
	))

	if err := display.Run(); err != nil {
		return fmt.Errorf("prompting for password display: %w", err)
	}

	if cfg.Layer == config.LayerDouble {
		reuse := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Reuse the inner layer's password for the outer layer?").
				Value(&cfg.ReusePassword),
		))

		if err := reuse.Run(); err != nil {
			return fmt.Errorf("prompting for password reuse: %w", err)
		}
	}

	return nil
}

// askPatterns prompts for include/exclude globs.
func askPatterns(cfg *config.Config) error {
	var include, exclude string

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Include patterns (comma separated, empty for everything)").
			Placeholder("*.txt,*.pdf").
			Value(&include),
		huh.NewInput().
			Title("Exclude patterns (comma separated)").
			Placeholder("*.jpg,*draft*").
			Value(&exclude),
	))

	if err := form.Run(); err != nil {
		return fmt.Errorf("prompting for patterns: %w", err)
	}

	cfg.Include = splitPatterns(include)
	cfg.Exclude = splitPatterns(exclude)

	return nil
}

// splitPatterns turns a comma-separated answer into a clean pattern list.
func splitPatterns(s string) []string {
	var patterns []string

	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			patterns = append(patterns, part)
		}
	}

	return patterns
}
