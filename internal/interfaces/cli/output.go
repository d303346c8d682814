package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/turtacn/compound-analyzer/pkg/types/compound"
)

// PrintAnalysis renders an analysis in the requested format.
func PrintAnalysis(w io.Writer, a *compound.Analysis, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	case "table", "":
		return printResultTable(w, a.Results)
	default:
		return fmt.Errorf("unknown output format %q (use table or json)", format)
	}
}

func printResultTable(w io.Writer, results []compound.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPOUND_ID\tSMILES\tVALID\tMW\tLOGP\tCOMPLIANT\tVIOLATIONS")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\t%t\t%s\n",
			r.CompoundID,
			truncate(r.SMILES, 40),
			r.IsValid,
			formatFloat(r.MolecularWeight),
			formatFloat(r.LogP),
			r.IsCompliant,
			strings.Join(r.RuleViolations, "; "),
		)
	}
	return tw.Flush()
}

func formatFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
