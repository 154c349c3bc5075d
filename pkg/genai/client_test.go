package genai_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foomo/sitegen/pkg/genai"
	"github.com/foomo/sitegen/pkg/vendorapi"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	googleai "google.golang.org/genai"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *genai.Client {
	t.Helper()
	svr := httptest.NewServer(handler)
	t.Cleanup(svr.Close)
	c, err := genai.New(zaptest.NewLogger(t), "key", genai.WithBaseURL(svr.URL), genai.WithHTTPClient(svr.Client()))
	require.NoError(t, err)
	return c
}

func TestClient_GenerateJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-3-flash-preview:generateContent", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-goog-api-key"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"responseMimeType":"application/json"`)
		assert.Contains(t, string(body), `"responseSchema"`)
		assert.Contains(t, string(body), `"OBJECT"`)
		assert.Contains(t, string(body), `"text":"prompt"`)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"hero\":"},{"text":"{}}"}]}}]}`))
	})

	text, err := c.GenerateJSON(context.Background(), genai.DefaultTextModel, "prompt", &googleai.Schema{Type: googleai.TypeObject})
	require.NoError(t, err)
	assert.Equal(t, `{"hero":{}}`, text)
}

func TestClient_GenerateImage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"here you go"},{"inlineData":{"mimeType":"image/jpeg","data":"QUJD"}}]}}]}`))
	})

	img, err := c.GenerateImage(context.Background(), genai.DefaultImageModel, "prompt")
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,QUJD", img.DataURI())
}

func TestClient_GenerateImage_NoImage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"sorry"}]}}]}`))
	})

	_, err := c.GenerateImage(context.Background(), genai.DefaultImageModel, "prompt")
	assert.True(t, errors.Is(err, genai.ErrNoImage))
}

func TestClient_ModelNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Requested entity was not found.","status":"NOT_FOUND"}}`))
	})

	_, err := c.GenerateJSON(context.Background(), "missing", "prompt", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, vendorapi.StatusCode(err))
	assert.Contains(t, err.Error(), "Requested entity was not found")
}

func TestClient_NotConfigured(t *testing.T) {
	c, err := genai.New(zaptest.NewLogger(t), "")
	require.NoError(t, err)
	_, err = c.GenerateJSON(context.Background(), genai.DefaultTextModel, "prompt", nil)
	assert.True(t, errors.Is(err, vendorapi.ErrNotConfigured))
}
