package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExtractionServer(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/extract", r.URL.Path)
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func testExtractionClient(baseURL string) *ExtractionClient {
	return &ExtractionClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: time.Second},
	}
}

func TestExtractMapsWireKeys(t *testing.T) {
	srv := newExtractionServer(t, http.StatusOK, map[string]any{
		"name": "Greek yogurt",
		"nutrients": map[string]float64{
			"ENERC_KCAL": 120,
			"PROCNT":     17,
			"CHOCDF":     8,
			"FAT":        0.7,
			"CA":         200,
			"sugar":      6,   // already an internal id
			"XYZZY":      1.5, // unknown code, dropped
		},
	})
	defer srv.Close()

	profile, err := testExtractionClient(srv.URL).Extract(context.Background(), models.ExtractionInput{Text: "greek yogurt"})
	require.NoError(t, err)

	assert.Equal(t, "Greek yogurt", profile.Name)
	assert.Equal(t, 120.0, profile.Amount(models.Calories))
	assert.Equal(t, 17.0, profile.Amount(models.Protein))
	assert.Equal(t, 200.0, profile.Amount(models.Calcium))
	assert.Equal(t, 6.0, profile.Amount(models.Sugar))
	_, hasUnknown := profile.Nutrients[models.NutrientID("xyzzy")]
	assert.False(t, hasUnknown)
}

func TestExtractRejectsIncompleteMapping(t *testing.T) {
	srv := newExtractionServer(t, http.StatusOK, map[string]any{
		"name":      "Mystery snack",
		"nutrients": map[string]float64{"ENERC_KCAL": 200},
	})
	defer srv.Close()

	_, err := testExtractionClient(srv.URL).Extract(context.Background(), models.ExtractionInput{Text: "snack"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestExtractSurfacesAPIErrors(t *testing.T) {
	srv := newExtractionServer(t, http.StatusServiceUnavailable, map[string]string{"error": "model warming up"})
	defer srv.Close()

	_, err := testExtractionClient(srv.URL).Extract(context.Background(), models.ExtractionInput{Text: "apple"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestExtractManualPassthrough(t *testing.T) {
	manual := chickenProfile()
	// No server: manual input must never hit the network.
	profile, err := testExtractionClient("http://127.0.0.1:0").Extract(
		context.Background(), models.ExtractionInput{Manual: &manual})
	require.NoError(t, err)
	assert.Equal(t, manual, profile)
}

func TestExtractEmptyInput(t *testing.T) {
	_, err := testExtractionClient("http://127.0.0.1:0").Extract(context.Background(), models.ExtractionInput{})
	assert.Error(t, err)
}
