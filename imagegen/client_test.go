package imagegen

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal PNG header so content sniffing recognizes the bytes.
var pngBytes = []byte("\x89PNG\r\n\x1a\n" + "0000000000000000")

func newTestClient(serverURL string) *Client {
	return NewClient(Settings{
		BaseURL:       serverURL,
		APIKey:        "test-key",
		AllowedModels: []string{"flux", "sdxl"},
	})
}

func TestClientGenerateBinaryBody(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "image/png")
		w.Write(pngBytes)
	}))
	defer server.Close()

	payload, err := newTestClient(server.URL).Generate(context.Background(), "a red cube", "flux", "1/1")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "a red cube", gotBody["inputs"])

	params := gotBody["parameters"].(map[string]any)
	assert.Equal(t, float64(512), params["width"])
	assert.Equal(t, float64(512), params["height"])

	assert.Equal(t, pngBytes, payload.Data)
	assert.Equal(t, "image/png", payload.ContentType)
}

func TestClientGenerateJSONEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"image": base64.StdEncoding.EncodeToString(pngBytes),
		})
	}))
	defer server.Close()

	payload, err := newTestClient(server.URL).Generate(context.Background(), "a red cube", "flux", "1/1")
	require.NoError(t, err)
	assert.Equal(t, pngBytes, payload.Data)
	assert.Equal(t, "image/png", payload.ContentType)
}

func TestClientGenerateDataURLBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpegdata"))))
	}))
	defer server.Close()

	payload, err := newTestClient(server.URL).Generate(context.Background(), "a red cube", "flux", "1/1")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpegdata"), payload.Data)
	assert.Equal(t, "image/jpeg", payload.ContentType)
}

func TestClientGenerateBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "model overloaded"})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), "a red cube", "flux", "1/1")

	var backendErr BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, http.StatusInternalServerError, backendErr.Status)
	assert.Equal(t, "model overloaded", backendErr.Message)
}

func TestClientGenerateNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	_, err := newTestClient(server.URL).Generate(context.Background(), "a red cube", "flux", "1/1")

	var networkErr NetworkError
	assert.ErrorAs(t, err, &networkErr)
}

func TestClientGenerateTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(Settings{
		BaseURL:       server.URL,
		APIKey:        "test-key",
		Timeout:       20 * time.Millisecond,
		AllowedModels: []string{"flux"},
	})

	_, err := client.Generate(context.Background(), "a red cube", "flux", "1/1")

	var networkErr NetworkError
	assert.ErrorAs(t, err, &networkErr)
}

func TestClientGenerateDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"unexpected": true}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), "a red cube", "flux", "1/1")

	var decodeErr DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestClientGenerateLocalValidation(t *testing.T) {
	// Backend must never be reached for local validation failures.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend should not be called")
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ctx := context.Background()

	_, err := client.Generate(ctx, "   ", "flux", "1/1")
	assert.ErrorIs(t, err, ErrPromptRequired)

	_, err = client.Generate(ctx, "a red cube", "not-on-list", "1/1")
	assert.ErrorIs(t, err, ErrModelNotAllowed)

	_, err = client.Generate(ctx, "a red cube", "flux", "bogus")
	assert.ErrorAs(t, err, &ErrInvalidAspectRatio{})
}
