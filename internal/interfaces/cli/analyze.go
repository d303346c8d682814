package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/compound-analyzer/internal/analyzer"
	"github.com/turtacn/compound-analyzer/internal/application/analysis"
	"github.com/turtacn/compound-analyzer/internal/chem"
)

// AnalyzeOptions holds the analyze subcommand flags.
type AnalyzeOptions struct {
	InputFile string
	IDs       []string
	Workers   int
}

// NewAnalyzeCommand creates the analyze subcommand.  SMILES strings come
// from positional arguments, or line-by-line from --input (use "-" for
// stdin).
func NewAnalyzeCommand(root *RootOptions) *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [SMILES...]",
		Short: "Evaluate a batch of SMILES strings",
		Example: `  compoundctl analyze "CC(=O)OC1=CC=CC=C1C(=O)O" CCO
  compoundctl analyze --input compounds.txt --output json
  cat compounds.txt | compoundctl analyze --input -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.InputFile, "input", "i", "", `file with one SMILES per line ("-" for stdin)`)
	f.StringSliceVar(&opts.IDs, "ids", nil, "comma-separated compound identifiers, one per input")
	f.IntVarP(&opts.Workers, "workers", "w", 0, "worker count for large batches (default from config)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, root *RootOptions, opts *AnalyzeOptions) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	smiles, err := collectSMILES(args, opts.InputFile, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if len(smiles) == 0 {
		return fmt.Errorf("no compounds given: pass SMILES arguments or --input")
	}

	evalOpts := analyzer.Options{
		Workers:           cfg.Analysis.Workers,
		ParallelThreshold: cfg.Analysis.ParallelThreshold,
	}
	if opts.Workers > 0 {
		evalOpts.Workers = opts.Workers
	}

	svc := analysis.NewService(
		analyzer.New(chem.NewToolkit(), analyzer.WithLogger(log.Named("analyzer"))),
		evalOpts,
		analysis.WithLogger(log),
	)
	result, err := svc.AnalyzeLists(cmd.Context(), smiles, opts.IDs)
	if err != nil {
		return err
	}
	return PrintAnalysis(cmd.OutOrStdout(), result, root.OutputFormat)
}

// collectSMILES merges positional arguments with the optional input file.
// Blank lines and lines starting with '#' are skipped.
func collectSMILES(args []string, inputFile string, stdin io.Reader) ([]string, error) {
	smiles := append([]string(nil), args...)
	if inputFile == "" {
		return smiles, nil
	}

	var scanner *bufio.Scanner
	if inputFile == "-" {
		scanner = bufio.NewScanner(stdin)
	} else {
		f, err := os.Open(inputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		scanner = bufio.NewScanner(f)
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		smiles = append(smiles, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return smiles, nil
}
