package imagegen

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Generator produces one image for a prompt. Both backend clients satisfy
// it, which also lets tests fake either side of the Mux.
type Generator interface {
	Generate(ctx context.Context, prompt, model, aspectRatio string) (*ImagePayload, error)
}

// Mux routes Generate calls to a backend by model id: Gemini model ids go
// to the Gemini client, everything else to the inference router. The model
// allow-list is enforced here, before routing, so no backend can be reached
// with an unconfigured model id.
type Mux struct {
	Default       Generator
	Gemini        Generator
	AllowedModels []string
}

func (m *Mux) Generate(ctx context.Context, prompt, model, aspectRatio string) (*ImagePayload, error) {
	if len(m.AllowedModels) > 0 && !slices.Contains(m.AllowedModels, model) {
		return nil, fmt.Errorf("%w: %s", ErrModelNotAllowed, model)
	}

	if m.Gemini != nil && strings.HasPrefix(model, GeminiModelPrefix) {
		return m.Gemini.Generate(ctx, prompt, model, aspectRatio)
	}
	return m.Default.Generate(ctx, prompt, model, aspectRatio)
}
