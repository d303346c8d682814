// Package cli implements the compoundctl command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/compound-analyzer/internal/config"
	"github.com/turtacn/compound-analyzer/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the global flags shared by every subcommand.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
}

// NewRootCommand creates the root command with global flags and all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "compoundctl",
		Short: "Batch molecular descriptor evaluation",
		Long: "compoundctl evaluates batches of SMILES strings: it computes molecular\n" +
			"descriptors, applies the drug-likeness rule set and reports per-compound\n" +
			"compliance.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "table", "output format (table, json)")

	cmd.AddCommand(
		NewAnalyzeCommand(opts),
		NewServeCommand(opts),
	)
	return cmd
}

// Execute runs the command tree.
func Execute() error {
	return NewRootCommand().Execute()
}

// loadConfig resolves the effective configuration for a command: the file
// given by --config when set, environment variables otherwise, then the
// --log-level flag on top.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (logging.Logger, error) {
	lc := logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	}
	if cfg.Log.Output != "" {
		lc.OutputPaths = []string{cfg.Log.Output}
	}
	log, err := logging.NewLogger(lc)
	if err != nil {
		return nil, err
	}
	logging.SetDefault(log)
	return log, nil
}
