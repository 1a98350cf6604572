package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/ipforge/internal/app"
	"github.com/specialistvlad/ipforge/internal/ctxlog"
	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/specialistvlad/ipforge/internal/hcl"
)

// Exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// runError marks an error returned by a command's own logic, as opposed to
// one raised by argument parsing.
type runError struct{ err error }

func (e *runError) Error() string { return e.err.Error() }
func (e *runError) Unwrap() error { return e.err }

// options collects the flags shared by every command.
type options struct {
	configPath string
	libPaths   []string
	libDir     string
	buildDir   string
	exclude    []string
	logLevel   string
	logFormat  string
	notifyURL  string
}

func (o *options) config() app.Config {
	return app.Config{
		ConfigPath:   o.configPath,
		LibraryPaths: o.libPaths,
		LibDir:       o.libDir,
		BuildDir:     o.buildDir,
		Exclude:      o.exclude,
		LogLevel:     o.logLevel,
		LogFormat:    o.logFormat,
		NotifyURL:    o.notifyURL,
	}
}

// env is what a command needs to create and run the app.
type env struct {
	opts *options
	outW io.Writer
	errW io.Writer
}

// newApp resolves the configuration and creates the app. Logs go to errW. A
// failure here is always a configuration mistake.
func (e *env) newApp(ctx context.Context, override func(*app.Config)) (*app.App, error) {
	flags := e.opts.config()
	if override != nil {
		override(&flags)
	}
	bootCtx := ctxlog.WithLogger(ctx, slog.Default())
	cfg, err := app.ResolveConfig(bootCtx, hcl.NewLoader(), flags)
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	a, err := app.NewApp(ctx, e.errW, cfg, hcl.NewLoader())
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return a, nil
}

// NewRootCommand builds the ipforge command tree. Command output is written
// to outW, logs to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	e := &env{opts: &options{}, outW: outW, errW: errW}

	root := &cobra.Command{
		Use:   "ipforge",
		Short: "Hardware IP build orchestrator",
		Long: `ipforge resolves a hierarchy of hardware module descriptors, materializes a
build directory for the top module and generates register maps, port
declarations, configuration headers and system top-level files.

Examples:
  ipforge list --lib hardware/modules
  ipforge setup iob_soc --lib hardware/modules --lib submodules/LIB
  ipforge setup iob_soc --watch
  ipforge system iob_soc --peripherals peripherals.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&e.opts.configPath, "config", "c", "", "path to the project file (default: ./ipforge.hcl, ./.ipforge.hcl, ~/.config/ipforge/config.hcl)")
	pf.StringSliceVarP(&e.opts.libPaths, "lib", "L", nil, "manifest library path; repeatable (default: the project file directory, or .)")
	pf.StringVar(&e.opts.libDir, "lib-dir", "", "directory holding the generic build.mk copied into the build directory")
	pf.StringVarP(&e.opts.buildDir, "build-dir", "o", "", "build directory (default: ../<top>_<version>)")
	pf.StringSliceVar(&e.opts.exclude, "exclude", nil, "file name pattern never copied into the build directory; repeatable")
	pf.StringVar(&e.opts.logLevel, "log-level", "", "logging level: debug, info, warn or error (default info)")
	pf.StringVar(&e.opts.logFormat, "log-format", "", "log output format: text or json (default text)")
	pf.StringVar(&e.opts.notifyURL, "notify-url", "", "socket.io server receiving build events")

	root.AddCommand(newSetupCommand(e), newSystemCommand(e), newListCommand(e))
	return root
}

// Execute runs the command line args and maps any failure to an ExitError:
// usage and configuration mistakes exit with 2, anything else with 1.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	var cfgErr *descriptor.ConfigError
	if errors.As(err, &cfgErr) {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	var re *runError
	if errors.As(err, &re) {
		return &ExitError{Code: ExitFailure, Message: err.Error()}
	}
	// Raised by cobra before any command ran: unknown command, bad arguments.
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

// run adapts a command body into a cobra RunE.
func run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &runError{err: err}
		}
		return nil
	}
}
