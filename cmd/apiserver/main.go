// apiserver is the standalone HTTP API binary.  Configuration comes from
// the file named by COMPOUND_CONFIG_FILE, or entirely from COMPOUND_*
// environment variables when unset.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/turtacn/compound-analyzer/internal/config"
	"github.com/turtacn/compound-analyzer/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/compound-analyzer/internal/interfaces/cli"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate

	var (
		cfg *config.Config
		err error
	)
	path := os.Getenv("COMPOUND_CONFIG_FILE")
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(log)

	if err := cli.RunServer(context.Background(), cfg, log, path); err != nil {
		log.Error("server exited with error", logging.Err(err))
		os.Exit(1)
	}
}
