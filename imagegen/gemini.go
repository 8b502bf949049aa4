package imagegen

import (
	"context"
	"strings"

	"google.golang.org/genai"
)

// GeminiModelPrefix routes model ids like "gemini-2.5-flash-image-preview"
// to the Gemini backend instead of the inference router.
const GeminiModelPrefix = "gemini-"

// GeminiClient generates images through the Gemini API. It satisfies the
// same contract as Client: one request per call, no retries.
type GeminiClient struct {
	client *genai.Client
}

func NewGeminiClient(ctx context.Context) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &GeminiClient{client: client}, nil
}

// Generate asks Gemini for an image. Dimensions cannot be passed through the
// content API, so the aspect ratio is validated and woven into the prompt.
func (g *GeminiClient) Generate(ctx context.Context, prompt, model, aspectRatio string) (*ImagePayload, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrPromptRequired
	}
	if _, _, err := ParseAspectRatio(aspectRatio); err != nil {
		return nil, err
	}

	result, err := g.client.Models.GenerateContent(
		ctx,
		model,
		genai.Text(prompt+" (aspect ratio "+aspectRatio+")"),
		&genai.GenerateContentConfig{},
	)
	if err != nil {
		return nil, NetworkError{Err: err}
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, DecodeError{Reason: "no candidates in Gemini response"}
	}

	for _, part := range result.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			contentType := part.InlineData.MIMEType
			if contentType == "" {
				contentType = "image/png"
			}
			return &ImagePayload{Data: part.InlineData.Data, ContentType: contentType}, nil
		}
	}

	return nil, DecodeError{Reason: "no inline image data in Gemini response"}
}
