package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/caldera-labs/agentgraph/api"
)

func TestModelsHandler_BackendRoster(t *testing.T) {
	backend := &stubBackend{}
	h := NewModelsHandler(backend, []string{"mistral", "llama3", "qwen2"}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.HandleList(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.ModelsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Models, 1)
	assert.Equal(t, "mistral", resp.Models[0].Name)
	assert.True(t, resp.Models[0].Available)
}

func TestModelsHandler_FallbackWhenBackendDown(t *testing.T) {
	backend := &stubBackend{err: errors.New("connection refused")}
	h := NewModelsHandler(backend, []string{"mistral", "llama3", "qwen2"}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.HandleList(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.ModelsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Models, 3)
	for i, name := range []string{"mistral", "llama3", "qwen2"} {
		assert.Equal(t, name, resp.Models[i].Name)
		assert.True(t, resp.Models[i].Available)
	}
}
