// Package cli implements the restadapter command line: one command per
// adapter operation against a connection from the config file, plus a
// command serving the in-memory mock API.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tansive/restadapter/internal/adapter"
	"github.com/tansive/restadapter/internal/common/logtrace"
	"github.com/tansive/restadapter/internal/config"
	"github.com/tansive/restadapter/internal/connection"
)

// Version of the restadapter CLI.
const Version = "v0.1.0"

// skipConfig marks commands that run without a config file.
const skipConfig = "skip-config"

var ErrAlreadyHandled = errors.New("already handled")

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)
var fieldLabel = color.New(color.FgYellow)

// app carries global flag values and the state loaded before a command runs.
type app struct {
	configFile string
	connection string
	jsonOutput bool
	logLevel   string

	cfg     *config.File
	conn    string
	adapter *adapter.Adapter
}

// NewRootCmd returns the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	a := &app{}
	return a.newRootCmd()
}

func (a *app) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "restadapter [command] [flags]",
		Short: "restadapter - find, create, update and destroy records over REST",
		Long: `restadapter maps record operations onto a REST API described in a
configuration file. Each connection names a host and a set of collections,
and each collection maps to a resource path.

Examples:
  # List the second page of red widgets, 20 per page
  restadapter find widgets --where color=red --skip 20 --limit 20

  # Fetch one record
  restadapter find widgets --id 42

  # Create records from a YAML file, one record per document
  restadapter create widgets -f widgets.yaml

  # Update and delete
  restadapter update widgets 42 --data '{"color":"blue"}'
  restadapter destroy widgets 42

  # Serve an in-memory API to try things out
  restadapter serve-mock --collections widgets,gadgets`,
		PersistentPreRunE: a.preRunHandlePersistents,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "", "", "Path to configuration file to override default")
	rootCmd.PersistentFlags().StringVarP(&a.connection, "connection", "C", "", "Connection to use (default: default_connection from the config file)")
	rootCmd.PersistentFlags().BoolVarP(&a.jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVarP(&a.logLevel, "log-level", "", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(a.newVersionCmd())
	rootCmd.AddCommand(a.newFindCmd())
	rootCmd.AddCommand(a.newCreateCmd())
	rootCmd.AddCommand(a.newUpdateCmd())
	rootCmd.AddCommand(a.newDestroyCmd())
	rootCmd.AddCommand(a.newDescribeCmd())
	rootCmd.AddCommand(a.newCollectionsCmd())
	rootCmd.AddCommand(a.newServeMockCmd())
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	a := &app{}
	rootCmd := a.newRootCmd()
	rootCmd.SilenceErrors = true // Prevent Cobra from printing the error
	rootCmd.SilenceUsage = true  // Prevent Cobra from printing usage on error

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, ErrAlreadyHandled) {
			a.printError(rootCmd.ErrOrStderr(), err)
		}
		os.Exit(1)
	}
}

// preRunHandlePersistents initializes logging and, unless the command runs
// without one, loads the config file and registers its connections.
func (a *app) preRunHandlePersistents(cmd *cobra.Command, args []string) error {
	logtrace.InitLogger(levelOr(a.logLevel, "warn"))
	if cmd.Annotations[skipConfig] == "true" {
		return nil
	}

	cfg, err := config.Load(a.configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file not found, pass one with --config: %w", err)
		}
		return err
	}
	if a.logLevel == "" && cfg.LogLevel != "" {
		logtrace.InitLogger(cfg.LogLevel)
	}

	reg := connection.NewRegistry()
	if err := cfg.Register(reg); err != nil {
		return err
	}
	a.cfg = cfg
	a.adapter = adapter.New(reg)

	if len(cfg.Connections) > 0 {
		c, err := cfg.Connection(a.connection)
		if err != nil {
			return err
		}
		a.conn = c.Identity
	}
	return nil
}

func levelOr(level, def string) string {
	if level == "" {
		return def
	}
	return level
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the version number of restadapter",
		Annotations: map[string]string{skipConfig: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			configPath := a.configFile
			if configPath == "" {
				var err error
				if configPath, err = config.DefaultPath(); err != nil {
					configPath = "unknown"
				}
			}

			if a.jsonOutput {
				kv := map[string]string{
					"version":        Version,
					"config_file":    configPath,
					"config_version": config.FormatVersion,
				}
				printJSON(cmd.OutOrStdout(), kv)
			} else {
				cmd.Printf("restadapter %s\n", Version)
				cmd.Printf("Config file: %s (format %s)\n", configPath, config.FormatVersion)
			}
		},
	}
}

// printError reports err on w, with the details of API errors.
func (a *app) printError(w io.Writer, err error) {
	var apiErr *adapter.APIError
	isAPIErr := errors.As(err, &apiErr)

	if a.jsonOutput {
		kv := map[string]any{
			"error": err.Error(),
		}
		if kind := adapter.KindOf(err); kind != "" {
			kv["code"] = kind
		}
		if isAPIErr {
			kv["status"] = apiErr.StatusCode
			if len(apiErr.Errors) > 0 {
				kv["errors"] = apiErr.Errors
			}
		}
		printJSON(w, kv)
		return
	}

	if !isAPIErr {
		if kind := adapter.KindOf(err); kind != "" {
			errorLabel.Fprintf(w, "Error [%s]: %v\n", kind, err)
			return
		}
		errorLabel.Fprintf(w, "Error: %v\n", err)
		return
	}
	errorLabel.Fprintf(w, "Error [%s]: HTTP %d: %s\n", apiErr.Kind, apiErr.StatusCode, apiErr.Message)
	if len(apiErr.Errors) > 0 {
		out, yerr := toYAML(apiErr.Errors)
		if yerr != nil {
			out = string(apiErr.Errors)
		}
		fieldLabel.Fprintf(w, "%s\n", out)
	}
}
