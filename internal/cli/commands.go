package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vk/streamgraph/internal/app"
	"github.com/vk/streamgraph/internal/hostbridge"
)

func newRunCommand(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run SNAPSHOT",
		Short: "Execute every connected stream of a snapshot",
		Long: "Loads a graph snapshot (.json editor save or .hcl) and runs each stream in order.\n" +
			"Streams are written against a live host (--host-url) or an offline scene (--scene).",
		Args: snapshotArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.config(args[0])
			if err != nil {
				return err
			}
			_, err = app.NewApp(cmd.OutOrStdout(), cfg).Run(cmd.Context())
			return exitCode(err)
		},
	}

	fl := cmd.Flags()
	fl.StringSliceVar(&f.scenes, "scene", nil, "HCL scene file or directory for offline runs. Repeatable.")
	fl.StringVar(&f.hostURL, "host-url", "", "socket.io URL of a live host, e.g. ws://localhost:3000.")
	fl.StringVar(&f.hostNamespace, "host-namespace", "/", "socket.io namespace of the live host.")
	fl.DurationVar(&f.hostTimeout, "host-timeout", hostbridge.DefaultTimeout, "Timeout for connecting and for each host request.")
	fl.BoolVar(&f.insecure, "insecure", false, "Skip TLS certificate verification of the host.")
	fl.BoolVar(&f.probePaths, "probe-paths", false, "Verify that output directories exist on this machine.")
	fl.BoolVar(&f.color, "color", false, "Color feedback lines by severity.")
	fl.IntVar(&f.healthcheckPort, "healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	return cmd
}

func newDescribeCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "describe SNAPSHOT",
		Short: "Print the node chain of every stream without running it",
		Args:  snapshotArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.config(args[0])
			if err != nil {
				return err
			}
			return app.NewApp(cmd.OutOrStdout(), cfg).Describe(cmd.Context())
		},
	}
}

func newExportCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "export SNAPSHOT OUT.json",
		Short: "Convert a snapshot to the editor's JSON format",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(2)(cmd, args); err != nil {
				return usageError(fmt.Errorf("%s: %w", cmd.CommandPath(), err))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.config(args[0])
			if err != nil {
				return err
			}
			return app.NewApp(cmd.OutOrStdout(), cfg).Export(cmd.Context(), args[1])
		},
	}
}

func newCatalogCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the available node kinds by category",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return usageError(err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.config("")
			if err != nil {
				return err
			}
			return app.NewApp(cmd.OutOrStdout(), cfg).Catalog()
		},
	}
}
