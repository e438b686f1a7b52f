package httpapi

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/property-intel/acumidata"
	"github.com/yourorg/property-intel/internal/batch"
)

func batchServer(t *testing.T, vendor http.HandlerFunc) (*httptest.Server, func()) {
	t.Helper()
	upstream := httptest.NewServer(vendor)
	client := acumidata.NewClient(acumidata.Credentials{UAT: "k"}, acumidata.WithBaseURL(upstream.URL))

	r := chi.NewRouter()
	RegisterBatch(r, BatchDeps{
		Processor: &batch.Processor{
			Client: client,
			Log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		},
		DefaultEnv: acumidata.EnvUAT,
	})
	api := httptest.NewServer(r)
	return api, func() { api.Close(); upstream.Close() }
}

func uploadCSV(t *testing.T, api *httptest.Server, csvBody string, fields map[string]string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", "upload.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csvBody))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(api.URL+"/batch", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestBatchCSVDownload(t *testing.T) {
	api, stop := batchServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Details": {"PropertyValuation": {"EstimatedValue": 300000}}}`))
	})
	defer stop()

	body := "address,city,state,zip\n1 First St,Belfair,WA,98528\n,,,98528\n2 Second St,Belfair,WA,98528\n"
	resp := uploadCSV(t, api, body, map[string]string{"endpoint": "valuation_estimate"})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "enriched_valuation_estimate.csv")

	records, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4) // header + one row per input row, order preserved

	errIdx := len(records[0]) - 1
	assert.Empty(t, records[1][errIdx])
	assert.NotEmpty(t, records[2][errIdx], "blank-address row carries its error")
	assert.Empty(t, records[3][errIdx])
	assert.Equal(t, "1 First St", records[1][0])
	assert.Equal(t, "2 Second St", records[3][0])
}

func TestBatchJSONFormat(t *testing.T) {
	api, stop := batchServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Details": {"PropertyValuation": {"EstimatedValue": 300000}}}`))
	})
	defer stop()

	body := "address,zip\n1 First St,98528\n,98528\n"
	resp := uploadCSV(t, api, body, map[string]string{
		"endpoint": "valuation_estimate",
		"format":   "json",
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var doc struct {
		OK      bool     `json:"ok"`
		Total   int      `json:"total"`
		Failed  int      `json:"failed"`
		Results []rowDoc `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.True(t, doc.OK)
	assert.Equal(t, 2, doc.Total)
	assert.Equal(t, 1, doc.Failed)
	require.Len(t, doc.Results, 2)
	assert.NotNil(t, doc.Results[0].Report)
	assert.NotEmpty(t, doc.Results[1].Error)
}

func TestBatchRejectsBadCSV(t *testing.T) {
	api, stop := batchServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	defer stop()

	resp := uploadCSV(t, api, "city,zip\nBelfair,98528\n", map[string]string{"endpoint": "valuation_estimate"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var doc map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "invalid_csv", doc["error"])
}

func TestBatchUnknownEndpoint(t *testing.T) {
	api, stop := batchServer(t, func(w http.ResponseWriter, r *http.Request) {})
	defer stop()

	resp := uploadCSV(t, api, "address,zip\n1 Main St,98528\n", map[string]string{"endpoint": "nope"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBatchEnvironmentOverride(t *testing.T) {
	var auth string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`{"Details": {"PropertyValuation": {"EstimatedValue": 1}}}`))
	}))
	defer upstream.Close()

	client := acumidata.NewClient(
		acumidata.Credentials{UAT: "uat-key", Prod: "prod-key"},
		acumidata.WithBaseURL(upstream.URL),
	)
	r := chi.NewRouter()
	RegisterBatch(r, BatchDeps{
		Processor: &batch.Processor{
			Client: client,
			Log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		},
		DefaultEnv: acumidata.EnvUAT,
	})
	api := httptest.NewServer(r)
	defer api.Close()

	resp := uploadCSV(t, api, "address,zip\n1 Main St,98528\n", map[string]string{
		"endpoint":    "valuation_estimate",
		"environment": "prod",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Bearer prod-key", auth)
}
