package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ccline/internal/app"
	"ccline/internal/config"
)

// Version is overridden at build time with -ldflags "-X ccline/internal/cli.Version=...".
var Version = "dev"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

type flags struct {
	configFile  string
	configDir   string
	theme       string
	width       int
	nerdFont    bool
	separator   string
	color       string
	logLevel    string
	printConfig bool
	initConfig  bool
}

// NewRootCommand returns the ccline command reading the payload from stdin.
func NewRootCommand(stdin io.Reader, outW, errW io.Writer) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "ccline",
		Short: "Statusline for Claude Code",
		Long: `ccline renders one statusline from the JSON session payload Claude Code
writes to stdin: working directory, git branch and state, model and session
metrics, fitted to the terminal width.

Configuration is read from ~/.claude/ccline/config.toml, then .ccline.toml in
the project directory, then CCLINE_* environment variables, then flags.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appConfig := &app.AppConfig{
				ConfigFile: f.configFile,
				ConfigDir:  f.configDir,
				Overrides:  f.overrides(cmd),
			}
			if f.initConfig {
				return runInit(outW, appConfig)
			}
			a := app.NewApp(outW, errW, appConfig)
			if f.printConfig {
				return runPrintConfig(outW, a)
			}
			return a.Run(cmd.Context(), stdin)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.configFile, "config", "c", "", "Config file to use instead of ~/.claude/ccline/config.toml.")
	fs.StringVar(&f.configDir, "config-dir", "", "Directory holding config.toml, models.toml and themes/.")
	fs.StringVarP(&f.theme, "theme", "t", "", "Theme name: a built-in preset or a file in the themes directory.")
	fs.IntVarP(&f.width, "width", "w", 0, "Width budget in terminal cells. 0 detects the terminal width.")
	fs.BoolVar(&f.nerdFont, "nerd-font", true, "Use Nerd Font icons and powerline glyphs.")
	fs.StringVar(&f.separator, "separator", "", "Separator style: powerline, thin, pipe or space.")
	fs.StringVar(&f.color, "color", "", "Color output: auto, truecolor, 256, 16 or none.")
	fs.StringVar(&f.logLevel, "log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	fs.BoolVar(&f.printConfig, "print-config", false, "Print the effective configuration as TOML and exit.")
	fs.BoolVar(&f.initConfig, "init", false, "Write default config, model and theme files if missing, then exit.")
	cmd.MarkFlagsMutuallyExclusive("print-config", "init")

	cmd.SetIn(stdin)
	cmd.SetOut(outW)
	cmd.SetErr(errW)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error()}
	})
	return cmd
}

// overrides keeps only the flags given on the command line, so their
// defaults never mask config files or the environment.
func (f *flags) overrides(cmd *cobra.Command) app.Overrides {
	var o app.Overrides
	fs := cmd.Flags()
	if fs.Changed("theme") {
		o.Theme = &f.theme
	}
	if fs.Changed("width") {
		o.Width = &f.width
	}
	if fs.Changed("nerd-font") {
		o.NerdFont = &f.nerdFont
	}
	if fs.Changed("separator") {
		o.Separator = &f.separator
	}
	if fs.Changed("color") {
		o.Color = &f.color
	}
	if fs.Changed("log-level") {
		o.LogLevel = &f.logLevel
	}
	return o
}

func runPrintConfig(outW io.Writer, a *app.App) error {
	wd, _ := os.Getwd()
	cfg, _, err := a.LoadConfig(wd)
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}
	raw, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = outW.Write(raw)
	return err
}

func runInit(outW io.Writer, appConfig *app.AppConfig) error {
	dir := appConfig.ConfigDir
	if dir == "" {
		dir = config.Dir()
	}
	results, err := config.Init(dir)
	for _, r := range results {
		status := "exists "
		if r.Created {
			status = "created"
		}
		fmt.Fprintf(outW, "%s %s\n", status, r.Path)
	}
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}
	return nil
}
