// Package commands implements the CLI commands for bex.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/bex/internal/app"
	"go.trai.ch/bex/internal/build"
	"go.trai.ch/bex/internal/core/domain"
	"go.trai.ch/bex/internal/core/ports"
	"go.trai.ch/bex/internal/engine/bootstrapper"
	"go.trai.ch/zerr"
)

// Environment variables providing flag defaults.
const (
	EnvCacheDir    = "BEX_CACHE_DIR"
	EnvLockTimeout = "BEX_LOCK_TIMEOUT"
	EnvUVBinary    = "BEX_UV_BIN"
)

// CLI represents the command line interface for bex.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	flags   globalFlags
	args    []string
	argsSet bool
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, opts app.RunOptions) error
	Clean(ctx context.Context, opts app.CleanOptions) error
	SetVerbosity(verbose int, quiet bool)
}

type globalFlags struct {
	directory string
	cacheDir  string
	verbose   int
	quiet     bool
}

type runFlags struct {
	file          string
	bootstrapOnly bool
	lockTimeout   time.Duration
	noWait        bool
	strict        bool
	uv            string
	clean         bool
	cleanAll      bool
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	var rf runFlags
	rootCmd := &cobra.Command{
		Use:   "bex [flags] [--] [args...]",
		Short: "Bootstrap a Python environment from a file header and run its entrypoint",
		Long: `bex reads the "/// bootstrap" header of a bex file, builds or reuses the
matching Python environment with uv, and runs the declared entrypoint.
The first argument that is not a bex flag, and everything after it, is passed
to the entrypoint unchanged. Use "--" to pass arguments that look like bex flags.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		PreRun: func(_ *cobra.Command, _ []string) {
			c.app.SetVerbosity(c.flags.verbose, c.flags.quiet)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, rf, args)
		},
	}

	// Registered before the version flag so that -v stays with --verbose.
	flags := rootCmd.Flags()
	flags.StringVarP(&c.flags.directory, "directory", "C", "", "Resolution directory (default: current directory)")
	flags.StringVar(&c.flags.cacheDir, "cache-dir", os.Getenv(EnvCacheDir),
		"Environment cache directory (default: <directory>/.bex) [$"+EnvCacheDir+"]")
	flags.CountVarP(&c.flags.verbose, "verbose", "v", "Show debug output, including uv output")
	flags.BoolVarP(&c.flags.quiet, "quiet", "q", false, "Only show warnings and errors")

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	flags.Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	flags.Lookup("help").Usage = "Show help for command"

	flags.SetInterspersed(false)
	flags.StringVarP(&rf.file, "file", "f", "", "The bex file to use (default: the single bex.* file in the directory)")
	flags.BoolVarP(&rf.bootstrapOnly, "bootstrap-only", "b", false, "Only bootstrap the environment, do not run the entrypoint")
	flags.DurationVar(&rf.lockTimeout, "lock-timeout", domain.DefaultLockTimeout,
		"How long to wait for a concurrent build of the same environment [$"+EnvLockTimeout+"]")
	flags.BoolVar(&rf.noWait, "no-wait", false, "Fail immediately if another process is building the environment")
	flags.BoolVar(&rf.strict, "strict", false, "Reject unknown keys in the bootstrap header")
	flags.StringVar(&rf.uv, "uv", os.Getenv(EnvUVBinary), "Use this uv binary instead of downloading one [$"+EnvUVBinary+"]")
	flags.BoolVar(&rf.clean, "clean", false, "Remove environments that can no longer be reused, then exit")
	flags.BoolVar(&rf.cleanAll, "all", false, "With --clean, remove the whole cache, including ready environments and downloaded tools")

	c.rootCmd = rootCmd

	return c
}

func (c *CLI) run(cmd *cobra.Command, rf runFlags, args []string) error {
	if rf.clean {
		if len(args) > 0 {
			return errors.New("--clean does not take entrypoint arguments")
		}
		return c.clean(cmd, rf.cleanAll)
	}
	if rf.cleanAll {
		return errors.New("--all requires --clean")
	}

	lockTimeout := rf.lockTimeout
	if !cmd.Flags().Changed("lock-timeout") {
		if v := os.Getenv(EnvLockTimeout); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "invalid lock timeout"), "env", EnvLockTimeout)
			}
			lockTimeout = d
		}
	}

	mode := domain.ModeExec
	if rf.bootstrapOnly {
		mode = domain.ModeInit
	}

	return c.app.Run(cmd.Context(), app.RunOptions{
		Bootstrap: bootstrapper.Options{
			Load: domain.LoadOptions{
				Directory: c.flags.directory,
				File:      rf.file,
				Strict:    rf.strict,
			},
			CacheRoot: c.flags.cacheDir,
			Lock: domain.LockPolicy{
				Timeout:      lockTimeout,
				FailFast:     rf.noWait,
				PollInterval: domain.DefaultLockPollInterval,
			},
			ToolBinary: rf.uv,
		},
		Mode: mode,
		Args: args,
		Stdio: ports.Stdio{
			In:  cmd.InOrStdin(),
			Out: cmd.OutOrStdout(),
			Err: cmd.ErrOrStderr(),
		},
	})
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	args := c.args
	if !c.argsSet {
		args = os.Args[1:]
	}
	args = splitPassthrough(c.rootCmd.Flags(), args)
	if args == nil {
		// cobra reads os.Args when no args are set.
		args = []string{}
	}
	c.rootCmd.SetArgs(args)
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.args = args
	c.argsSet = true
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// SetInput sets the input stream forwarded to the entrypoint.
func (c *CLI) SetInput(in io.Reader) {
	c.rootCmd.SetIn(in)
}
