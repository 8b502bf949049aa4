package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const visionEndpoint = "https://vision.googleapis.com/v1/images:annotate"

// ErrNoText reports an image in which Vision found nothing to read.
var ErrNoText = errors.New("no text detected in image")

// Client extracts text from images through the Google Vision annotate API.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		endpoint: visionEndpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithEndpoint exists for tests against a local server.
func NewClientWithEndpoint(apiKey, endpoint string) *Client {
	c := NewClient(apiKey)
	c.endpoint = endpoint
	return c
}

type visionImage struct {
	Content string `json:"content"`
}

type visionFeature struct {
	Type string `json:"type"`
}

type visionRequest struct {
	Image    visionImage     `json:"image"`
	Features []visionFeature `json:"features"`
}

type annotateRequest struct {
	Requests []visionRequest `json:"requests"`
}

type annotateResponse struct {
	Responses []struct {
		FullTextAnnotation *struct {
			Text string `json:"text"`
		} `json:"fullTextAnnotation"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// ExtractText sends the image bytes for TEXT_DETECTION and returns the full
// text annotation.
func (c *Client) ExtractText(ctx context.Context, image []byte) (string, error) {
	body, err := json.Marshal(annotateRequest{
		Requests: []visionRequest{{
			Image:    visionImage{Content: base64.StdEncoding.EncodeToString(image)},
			Features: []visionFeature{{Type: "TEXT_DETECTION"}},
		}},
	})
	if err != nil {
		return "", err
	}

	url := c.endpoint + "?key=" + c.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("vision response read failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("vision returned status %d", resp.StatusCode)
	}

	var annotated annotateResponse
	if err := json.Unmarshal(raw, &annotated); err != nil {
		return "", fmt.Errorf("vision response parse failed: %w", err)
	}

	if len(annotated.Responses) == 0 {
		return "", ErrNoText
	}
	first := annotated.Responses[0]
	if first.Error != nil {
		return "", fmt.Errorf("vision rejected image: %s", first.Error.Message)
	}
	if first.FullTextAnnotation == nil || first.FullTextAnnotation.Text == "" {
		return "", ErrNoText
	}

	return first.FullTextAnnotation.Text, nil
}
