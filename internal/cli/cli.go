package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/vk/streamgraph/internal/app"
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

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// flags collects every option before it is validated into an app.Config.
type flags struct {
	logLevel  string
	logFormat string

	scenes          []string
	hostURL         string
	hostNamespace   string
	hostTimeout     time.Duration
	insecure        bool
	probePaths      bool
	color           bool
	healthcheckPort int
}

func (f *flags) config(snapshot string) (*app.Config, error) {
	cfg, err := app.NewConfig(app.Config{
		SnapshotPath:       snapshot,
		ScenePaths:         f.scenes,
		HostURL:            f.hostURL,
		HostNamespace:      f.hostNamespace,
		HostTimeout:        f.hostTimeout,
		InsecureSkipVerify: f.insecure,
		ProbePaths:         f.probePaths,
		LogFormat:          f.logFormat,
		LogLevel:           f.logLevel,
		Color:              f.color,
		HealthcheckPort:    f.healthcheckPort,
	})
	if err != nil {
		return nil, usageError(err)
	}
	slog.Debug("CLI configuration validated.", "config", cfg)
	return cfg, nil
}

// NewRootCommand builds the command tree writing to outW. Each call returns
// an independent tree, so tests can run commands in parallel.
func NewRootCommand(outW io.Writer) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "streamgraph",
		Short: "Run the write streams of a saved node graph",
		Long: "streamgraph executes the write pipelines of a node graph: each Start node\n" +
			"emits streams whose nodes collect the fields of one output and gate it on checks.",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	root.SetOut(outW)
	root.SetErr(outW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&f.logLevel, "log-level", "info", "Logging level: 'debug', 'info', 'warn' or 'error'.")
	pf.StringVar(&f.logFormat, "log-format", "text", "Log output format: 'text' or 'json'.")

	root.AddCommand(newRunCommand(f), newDescribeCommand(f), newExportCommand(f), newCatalogCommand(f))
	return root
}

// Execute runs the command line args against a fresh command tree.
func Execute(ctx context.Context, outW io.Writer, args []string) error {
	root := NewRootCommand(outW)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func snapshotArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return usageError(fmt.Errorf("%s: %w", cmd.CommandPath(), err))
	}
	return nil
}

// exitCode maps run failures to process exit codes.
func exitCode(err error) error {
	var exitErr *ExitError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &exitErr):
		return err
	case errors.Is(err, app.ErrStreamsFailed):
		return &ExitError{Code: 1, Message: err.Error()}
	default:
		return err
	}
}
