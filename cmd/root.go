package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ignitionstack/fnctl/internal/config"
	"github.com/ignitionstack/fnctl/internal/di"
	"github.com/ignitionstack/fnctl/internal/ui"
	"github.com/ignitionstack/fnctl/internal/ui/operations"
	"github.com/ignitionstack/fnctl/pkg/logging"
	"github.com/spf13/cobra"
)

var (
	container *di.Container
	logger    *logging.ZapLogger
)

// errReported marks a failure that has already been shown to the user
var errReported = errors.New("failure already reported")

var rootCmd = &cobra.Command{
	Use:   "fnctl",
	Short: "Serverless function console",
	Long: `fnctl manages the functions of a serverless backend and shows how they perform.

Key capabilities:
* List, create, edit and delete function definitions
* Trigger a function and see its output
* Import and export function definitions as YAML or TOML manifests
* Summarize the execution history per runtime on a dashboard`,
	Example: `  # List all functions
  fnctl function list

  # Create a function from a manifest
  fnctl function create --from hello.yaml

  # Run function 3
  fnctl run 3

  # Show the dashboard with the execution log
  fnctl dashboard --log

  # Talk to another backend
  fnctl --api http://functions.internal:8000 function list`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		cfg, err := config.LoadConfig(config.ConfigPath)
		if err != nil {
			return err
		}
		if config.APIOverride != "" {
			cfg.API.BaseURL = config.APIOverride
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		logger, err = logging.NewZapLogger(cfg.Log.Level, cfg.Log.File)
		if err != nil {
			return err
		}
		logger.Debugf("Using backend %s", cfg.API.BaseURL)

		operations.Plain = config.Plain

		container, err = di.BuildContainer(cfg, logger, ui.RunNotifier{Plain: config.Plain})
		if err != nil {
			return fmt.Errorf("failed to build container: %w", err)
		}

		return nil
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return shutdown()
	},
}

func shutdown() error {
	var err error
	if container != nil {
		err = container.Close()
		container = nil
	}
	if logger != nil {
		_ = logger.Sync()
	}
	return err
}

// getContainer hands subcommands the container built in PersistentPreRunE
func getContainer() (*di.Container, error) {
	if container == nil {
		return nil, errors.New("services are not initialized")
	}
	return container, nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	// PersistentPostRunE does not run when the command fails
	_ = shutdown()

	if err != nil {
		if !errors.Is(err, errReported) {
			ui.PrintError(err.Error())
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&config.ConfigPath, "config", "c", config.DefaultConfigPath, "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&config.APIOverride, "api", "a", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&config.Plain, "plain", false, "Output in plain, machine-readable format (useful for piping to other commands)")

	rootCmd.AddCommand(functionCmd)
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewDashboardCommand())
}
