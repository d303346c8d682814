// End-to-end flow tests: full stack from HTTP request through the analysis
// service, evaluator and toolkit, with no external infrastructure.
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/compound-analyzer/internal/analyzer"
	"github.com/turtacn/compound-analyzer/internal/application/analysis"
	"github.com/turtacn/compound-analyzer/internal/chem"
	"github.com/turtacn/compound-analyzer/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/compound-analyzer/internal/infrastructure/monitoring/prometheus"
	httpiface "github.com/turtacn/compound-analyzer/internal/interfaces/http"
	"github.com/turtacn/compound-analyzer/pkg/types/compound"
)

func newTestServer(t *testing.T, opts analyzer.Options) *httptest.Server {
	t.Helper()
	svc := analysis.NewService(analyzer.New(chem.NewToolkit()), opts)
	router := httpiface.NewRouter(httpiface.RouterConfig{
		Service: svc,
		Logger:  logging.NewNopLogger(),
		Metrics: prometheus.NewMetrics(),
		Version: "integration-test",
		Mode:    gin.TestMode,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func analyze(t *testing.T, srv *httptest.Server, body any) (*compound.Analysis, *http.Response) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+"/api/v1/compounds/analyze", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp
	}
	var a compound.Analysis
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&a))
	return &a, resp
}

func TestFullBatchFlow(t *testing.T) {
	srv := newTestServer(t, analyzer.Options{})

	a, resp := analyze(t, srv, map[string]any{
		"compounds": []map[string]string{
			{"compound_id": "aspirin", "smiles": "CC(=O)OC1=CC=CC=C1C(=O)O"},
			{"compound_id": "ethanol", "smiles": "CCO"},
			{"compound_id": "broken", "smiles": "INVALID_SMILES"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 3, a.Count)

	aspirin := a.Results[0]
	assert.True(t, aspirin.IsValid)
	assert.True(t, aspirin.IsCompliant)
	require.NotNil(t, aspirin.MolecularWeight)
	assert.InDelta(t, 180.16, *aspirin.MolecularWeight, 0.5)

	assert.True(t, a.Results[1].IsCompliant)

	broken := a.Results[2]
	assert.False(t, broken.IsValid)
	assert.False(t, broken.IsCompliant)
	assert.Nil(t, broken.MolecularWeight)
	assert.Equal(t, []string{"invalid SMILES"}, broken.RuleViolations)
}

func TestLargeBatchParallelDeterminism(t *testing.T) {
	smiles := []string{"CCO", "CC(=O)OC1=CC=CC=C1C(=O)O", "c1ccccc1", "definitely-wrong", "CC(=O)NC"}

	build := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = smiles[i%len(smiles)]
		}
		return out
	}
	batch := build(1500)

	sequential := newTestServer(t, analyzer.Options{Workers: 1})
	parallel := newTestServer(t, analyzer.Options{Workers: 8, ParallelThreshold: 200})

	seqA, resp := analyze(t, sequential, map[string]any{"smiles": batch})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	parA, resp := analyze(t, parallel, map[string]any{"smiles": batch})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Equal(t, seqA.Count, parA.Count)
	assert.Equal(t, seqA.Results, parA.Results)

	// Auto identifiers are positional regardless of execution mode.
	for i := 0; i < 5; i++ {
		assert.Equal(t, fmt.Sprintf("CPND%06d", i+1), parA.Results[i].CompoundID)
	}
}

func TestBatchConfigErrorsFailFast(t *testing.T) {
	srv := newTestServer(t, analyzer.Options{MaxBatchSize: 10})

	_, resp := analyze(t, srv, map[string]any{
		"smiles":       []string{"C", "CC"},
		"compound_ids": []string{"just-one"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	big := make([]string, 11)
	for i := range big {
		big[i] = "C"
	}
	_, resp = analyze(t, srv, map[string]any{"smiles": big})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
