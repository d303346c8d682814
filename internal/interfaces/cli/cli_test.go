package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/compound-analyzer/pkg/types/compound"
)

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeCommandTableOutput(t *testing.T) {
	out, err := runCommand(t, "", "analyze", "CC(=O)OC1=CC=CC=C1C(=O)O", "CCO")
	require.NoError(t, err)
	assert.Contains(t, out, "COMPOUND_ID")
	assert.Contains(t, out, "CPND000001")
	assert.Contains(t, out, "CPND000002")
	assert.Contains(t, out, "180.16")
}

func TestAnalyzeCommandJSONOutput(t *testing.T) {
	out, err := runCommand(t, "", "analyze", "-o", "json", "CCO")
	require.NoError(t, err)

	var a compound.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	require.Len(t, a.Results, 1)
	assert.True(t, a.Results[0].IsValid)
	assert.True(t, a.Results[0].IsCompliant)
}

func TestAnalyzeCommandInvalidCompound(t *testing.T) {
	out, err := runCommand(t, "", "analyze", "-o", "json", "garbage!")
	require.NoError(t, err)

	var a compound.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	require.Len(t, a.Results, 1)
	assert.False(t, a.Results[0].IsValid)
	assert.Equal(t, []string{"invalid SMILES"}, a.Results[0].RuleViolations)
}

func TestAnalyzeCommandCustomIDs(t *testing.T) {
	out, err := runCommand(t, "", "analyze", "-o", "json", "--ids", "asa,eth", "CC(=O)OC1=CC=CC=C1C(=O)O", "CCO")
	require.NoError(t, err)

	var a compound.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, "asa", a.Results[0].CompoundID)
	assert.Equal(t, "eth", a.Results[1].CompoundID)
}

func TestAnalyzeCommandIDMismatch(t *testing.T) {
	_, err := runCommand(t, "", "analyze", "--ids", "only-one", "C", "CC")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identifier count")
}

func TestAnalyzeCommandInputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compounds.txt")
	content := "# test batch\nCCO\n\nc1ccccc1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out, err := runCommand(t, "", "analyze", "-o", "json", "--input", path)
	require.NoError(t, err)

	var a compound.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, 2, a.Count)
}

func TestAnalyzeCommandStdin(t *testing.T) {
	out, err := runCommand(t, "CCO\nC\n", "analyze", "-o", "json", "--input", "-")
	require.NoError(t, err)

	var a compound.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, 2, a.Count)
}

func TestAnalyzeCommandNoInput(t *testing.T) {
	_, err := runCommand(t, "", "analyze")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no compounds given")
}

func TestAnalyzeCommandUnknownFormat(t *testing.T) {
	_, err := runCommand(t, "", "analyze", "-o", "yaml", "C")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestCollectSMILESSkipsComments(t *testing.T) {
	smiles, err := collectSMILES([]string{"CC"}, "-", strings.NewReader("# skip\nCCO\n\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"CC", "CCO"}, smiles)
}

func TestRootVersionFlag(t *testing.T) {
	out, err := runCommand(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "compoundctl")
}
