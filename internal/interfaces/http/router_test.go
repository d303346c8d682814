package http

import (
	"bytes"
	"context"
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
	"github.com/turtacn/compound-analyzer/internal/interfaces/http/handlers"
	"github.com/turtacn/compound-analyzer/pkg/errors"
	"github.com/turtacn/compound-analyzer/pkg/types/compound"
)

func newTestRouter(t *testing.T, opts ...analysis.ServiceOption) *gin.Engine {
	t.Helper()
	svc := analysis.NewService(
		analyzer.New(chem.NewToolkit()),
		analyzer.Options{MaxBatchSize: 100},
		opts...,
	)
	return NewRouter(RouterConfig{
		Service: svc,
		Logger:  logging.NewNopLogger(),
		Metrics: prometheus.NewMetrics(),
		Version: "test",
		Mode:    gin.TestMode,
	})
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rec := postJSON(t, router, "/api/v1/compounds/analyze", map[string]any{
		"compounds": []map[string]string{
			{"compound_id": "ASA", "smiles": "CC(=O)OC1=CC=CC=C1C(=O)O"},
			{"smiles": "garbage"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var a compound.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, 2, a.Count)
	require.Len(t, a.Results, 2)
	assert.Equal(t, "ASA", a.Results[0].CompoundID)
	assert.True(t, a.Results[0].IsCompliant)
	assert.False(t, a.Results[1].IsValid)
	assert.Equal(t, []string{"invalid SMILES"}, a.Results[1].RuleViolations)
}

func TestAnalyzeEndpointListShape(t *testing.T) {
	router := newTestRouter(t)
	rec := postJSON(t, router, "/api/v1/compounds/analyze", map[string]any{
		"smiles":       []string{"C", "CC"},
		"compound_ids": []string{"m1", "m2"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var a compound.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, "m1", a.Results[0].CompoundID)
	assert.Equal(t, "m2", a.Results[1].CompoundID)
}

func TestAnalyzeEndpointValidation(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name string
		body map[string]any
		code string
	}{
		{"empty request", map[string]any{}, "COMMON_002"},
		{"both shapes", map[string]any{
			"compounds": []map[string]string{{"smiles": "C"}},
			"smiles":    []string{"C"},
		}, "COMMON_002"},
		{"id count mismatch", map[string]any{
			"smiles":       []string{"C", "CC"},
			"compound_ids": []string{"one"},
		}, "CPD_003"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, router, "/api/v1/compounds/analyze", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var resp struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.code, resp.Error.Code)
		})
	}
}

func TestAnalyzeEndpointBatchTooLarge(t *testing.T) {
	router := newTestRouter(t)
	smiles := make([]string, 101)
	for i := range smiles {
		smiles[i] = "C"
	}
	rec := postJSON(t, router, "/api/v1/compounds/analyze", map[string]any{"smiles": smiles})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "CPD_003")
}

func TestGetAnalysisNotFound(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "CPD_004")
}

type memoryStore struct {
	byID map[string]*compound.Analysis
}

func newMemoryStore() *memoryStore {
	return &memoryStore{byID: map[string]*compound.Analysis{}}
}

func (m *memoryStore) Save(_ context.Context, a *compound.Analysis) error {
	m.byID[a.ID] = a
	return nil
}

func (m *memoryStore) GetByID(_ context.Context, id string) (*compound.Analysis, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, errors.New(errors.CodeAnalysisNotFound, "analysis not found").WithDetail(id)
	}
	return a, nil
}

func (m *memoryStore) ListRecent(_ context.Context, limit int) ([]compound.Analysis, error) {
	out := make([]compound.Analysis, 0, len(m.byID))
	for _, a := range m.byID {
		if len(out) == limit {
			break
		}
		out = append(out, *a)
	}
	return out, nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return errors.New(errors.CodeAnalysisNotFound, "analysis not found").WithDetail(id)
	}
	delete(m.byID, id)
	return nil
}

func TestDeleteAnalysisEndpoint(t *testing.T) {
	router := newTestRouter(t, analysis.WithStore(newMemoryStore()))
	rec := postJSON(t, router, "/api/v1/compounds/analyze", map[string]any{
		"smiles": []string{"CCO"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var a compound.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/analyses/"+a.ID, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The analysis is gone afterwards, and a second delete reports so.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+a.ID, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/analyses/"+a.ID, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "CPD_004")
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"test"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadinessFailsWhenDependencyDown(t *testing.T) {
	svc := analysis.NewService(analyzer.New(chem.NewToolkit()), analyzer.Options{})
	router := NewRouter(RouterConfig{
		Service: svc,
		Logger:  logging.NewNopLogger(),
		Version: "test",
		Mode:    gin.TestMode,
		Checkers: []handlers.HealthChecker{
			handlers.CheckerFunc{
				CheckerName: "database",
				Fn:          func(context.Context) error { return fmt.Errorf("connection refused") },
			},
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	// Drive one request through so the HTTP counters exist.
	postJSON(t, router, "/api/v1/compounds/analyze", map[string]any{"smiles": []string{"C"}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "compound_analyzer_batches_total")
	assert.Contains(t, rec.Body.String(), "compound_analyzer_http_requests_total")
}

func TestUnknownRoute(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "COMMON_003")
}
