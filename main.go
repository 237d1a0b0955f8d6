// Package main is the entry point for the appbundler application.
// This tool publishes a .NET project and packages the result as a macOS
// application bundle (.app): directory structure, Info.plist, executable and icon.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"appbundler/application"
	"appbundler/utilities/config"
	"appbundler/utilities/logger"
	"appbundler/utilities/process"

	"github.com/charmbracelet/fang"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Version is the semantic version (set via -ldflags).
var Version = "dev"

// options are the command-line flags. None of them is required: the
// positional arguments alone describe a complete run.
type options struct {
	configFile      string // YAML config with tool paths and defaults
	descriptionFile string // YAML description overriding Info.plist metadata
	logDir          string // Directory for log files (enables file logging)
	verbose         bool   // Show debug messages, including tool output
	silent          bool   // Only show errors
}

// newRootCmd builds the appbundler command. Every external program is started
// through runner.
func newRootCmd(runner process.Runner) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "appbundler <project> [output-dir] [app-name] [icon-path] [runtime-id]",
		Short: "Package a .NET project as a macOS application bundle",
		Long: `appbundler publishes a .NET project as a self-contained Release build and
packages the result as <app-name>.app in the output directory.

Arguments:
  project     Project file passed to "dotnet publish" (e.g. Foo.csproj)
  output-dir  Directory receiving the bundle (default: current directory)
  app-name    Bundle name (default: project file name without extension)
  icon-path   .icns, .png, .jpg or .jpeg icon (default: placeholder icon)
  runtime-id  Runtime identifier (default: osx-x64, configurable)`,
		Example: `  appbundler Foo.csproj
  appbundler src/Foo/Foo.csproj dist "Cool App" assets/icon.png osx-arm64`,
		Args:         cobra.RangeArgs(1, 5),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), runner, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.configFile, "config", "", "config file (default is $HOME/.appbundler.yaml)")
	cmd.Flags().StringVar(&opts.descriptionFile, "description", "", "bundle description file overriding Info.plist values")
	cmd.Flags().StringVar(&opts.logDir, "logdir", "", "directory for log files (enables file logging)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	cmd.Flags().BoolVarP(&opts.silent, "silent", "s", false, "only print errors")
	cmd.MarkFlagsMutuallyExclusive("verbose", "silent")

	return cmd
}

// run resolves the request and drives the bundler. Any panic below this point
// is turned into an error so the user always gets a diagnostic.
func run(ctx context.Context, runner process.Runner, opts *options, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v\n%s", r, debug.Stack())
		}
	}()

	logger.SetVerbose(opts.verbose)
	logger.SetSilent(opts.silent)

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}

	req := application.NewBuildRequest(arg(args, 0), arg(args, 1), arg(args, 2), arg(args, 3), arg(args, 4), cfg.DefaultRuntime)

	if opts.logDir != "" {
		if err := logger.SetLogFile(req.AppName, opts.logDir); err != nil {
			// file logging is optional
			logger.Warn("Failed to set up file logging: %v", err)
		} else {
			logger.Info("Logging to file: %s", logger.GetLogFilePath())
		}
	}

	logger.With("run", uuid.NewString())

	bundler := application.NewBundler(cfg, runner)
	if opts.descriptionFile != "" {
		desc, err := application.ReadDescription(opts.descriptionFile)
		if err != nil {
			return err
		}
		bundler.SetDescription(desc)
	}

	// fang prints the returned error on the terminal
	if err := bundler.Assemble(ctx, req); err != nil {
		if logger.GetLogFilePath() != "" {
			logger.Error(err)
		}
		return err
	}

	logger.Info("Application Bundler completed successfully")
	return nil
}

// arg returns the i-th positional argument, or "" when it was omitted.
func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(process.NewExecRunner()),
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
