package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/caldera-labs/agentgraph/types"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "world", body["hello"])
}

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		code       types.ErrorCode
		wantStatus int
	}{
		{"invalid request", types.ErrInvalidRequest, http.StatusBadRequest},
		{"unsupported method", types.ErrUnsupportedMethod, http.StatusBadRequest},
		{"workflow not found", types.ErrWorkflowNotFound, http.StatusNotFound},
		{"execution not found", types.ErrExecutionNotFound, http.StatusNotFound},
		{"timeout", types.ErrTimeout, http.StatusGatewayTimeout},
		{"store unavailable", types.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"backend unavailable", types.ErrBackendUnavailable, http.StatusServiceUnavailable},
		{"internal", types.ErrInternalError, http.StatusInternalServerError},
		{"unknown code", types.ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, types.NewError(tt.code, "boom"), zap.NewNop())

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, string(tt.code), resp.Error.Code)
			assert.Equal(t, "boom", resp.Error.Message)
		})
	}
}

func TestWriteError_ExplicitStatusWins(t *testing.T) {
	rec := httptest.NewRecorder()
	err := types.NewError(types.ErrInvalidRequest, "nope").WithHTTPStatus(http.StatusTeapot)
	WriteError(rec, err, zap.NewNop())

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"wf"}`))
		rec := httptest.NewRecorder()

		var dst payload
		err := DecodeJSONBody(rec, req, &dst, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "wf", dst.Name)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"wf","bogus":1}`))
		rec := httptest.NewRecorder()

		var dst payload
		err := DecodeJSONBody(rec, req, &dst, zap.NewNop())
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		rec := httptest.NewRecorder()

		var dst payload
		err := DecodeJSONBody(rec, req, &dst, zap.NewNop())
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestValidateContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"text/plain", false},
		{"", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if tt.contentType != "" {
			req.Header.Set("Content-Type", tt.contentType)
		}
		rec := httptest.NewRecorder()

		assert.Equal(t, tt.want, ValidateContentType(rec, req, zap.NewNop()), "content type %q", tt.contentType)
	}
}

func TestResponseWriter_CapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := NewResponseWriter(rec)

	rw.WriteHeader(http.StatusAccepted)
	rw.WriteHeader(http.StatusInternalServerError) // 第二次写入应被忽略

	assert.Equal(t, http.StatusAccepted, rw.StatusCode)
	assert.True(t, rw.Written)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestResponseWriter_ImplicitOK(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := NewResponseWriter(rec)

	_, err := rw.Write([]byte("body"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rw.StatusCode)
	assert.True(t, rw.Written)
}
