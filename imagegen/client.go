package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

// Settings carries everything the client needs. Credentials and the backend
// URL are injected here, never read from ambient globals.
type Settings struct {
	BaseURL       string
	APIKey        string
	BaseSize      int
	Timeout       time.Duration
	AllowedModels []string
}

// Client issues one outbound request per Generate call against a Hugging
// Face style inference router. No retries, no caching: retry policy belongs
// to the caller.
type Client struct {
	settings Settings
	http     *http.Client
}

func NewClient(settings Settings) *Client {
	if settings.BaseSize <= 0 {
		settings.BaseSize = DefaultBaseSize
	}
	if settings.Timeout <= 0 {
		settings.Timeout = defaultTimeout
	}

	return &Client{
		settings: settings,
		http:     &http.Client{Timeout: settings.Timeout},
	}
}

type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
}

type generateParameters struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Generate validates inputs, resolves dimensions and performs a single POST
// to the configured backend. The context cancels the in-flight request.
func (c *Client) Generate(ctx context.Context, prompt, model, aspectRatio string) (*ImagePayload, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrPromptRequired
	}
	if len(c.settings.AllowedModels) > 0 && !slices.Contains(c.settings.AllowedModels, model) {
		return nil, fmt.Errorf("%w: %s", ErrModelNotAllowed, model)
	}

	width, height, err := ResolveDimensions(aspectRatio, c.settings.BaseSize)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(generateRequest{
		Inputs:     prompt,
		Parameters: generateParameters{Width: width, Height: height},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s", strings.TrimSuffix(c.settings.BaseURL, "/"), model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.settings.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, BackendError{Status: resp.StatusCode, Message: parseErrorMessage(raw)}
	}

	return normalizeResponse(resp.Header.Get("Content-Type"), raw)
}

func parseErrorMessage(raw []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}
	if envelope.Error != "" {
		return envelope.Error
	}
	return envelope.Message
}

// normalizeResponse folds the backend's response shapes into one payload:
// a raw binary image body, a JSON envelope with base64 content, or a data
// URL string.
func normalizeResponse(contentType string, raw []byte) (*ImagePayload, error) {
	if len(raw) == 0 {
		return nil, DecodeError{Reason: "empty response body"}
	}

	mediaType, _, _ := strings.Cut(contentType, ";")
	mediaType = strings.TrimSpace(mediaType)

	if strings.HasPrefix(mediaType, "image/") {
		return &ImagePayload{Data: raw, ContentType: mediaType}, nil
	}

	if mediaType != "application/json" && mediaType != "text/plain" {
		// Some routers answer with octet-stream; trust the sniffer.
		if detected := http.DetectContentType(raw); strings.HasPrefix(detected, "image/") {
			return &ImagePayload{Data: raw, ContentType: detected}, nil
		}
	}

	var envelope struct {
		Image string `json:"image"`
		Data  []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Image != "" {
			return payloadFromEncoded(envelope.Image)
		}
		if len(envelope.Data) > 0 && envelope.Data[0].B64JSON != "" {
			return payloadFromEncoded(envelope.Data[0].B64JSON)
		}
	}

	if s := strings.TrimSpace(string(raw)); strings.HasPrefix(s, "data:") {
		return payloadFromDataURL(s)
	}

	return nil, DecodeError{Reason: "response body is neither an image nor a known envelope"}
}

// payloadFromEncoded accepts either a bare base64 string or a full data URL.
func payloadFromEncoded(s string) (*ImagePayload, error) {
	if strings.HasPrefix(s, "data:") {
		return payloadFromDataURL(s)
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, DecodeError{Reason: "envelope image is not valid base64"}
	}

	return &ImagePayload{Data: data, ContentType: http.DetectContentType(data)}, nil
}
