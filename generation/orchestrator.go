package generation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/DeePham/ai-image-app/imagegen"
	"github.com/DeePham/ai-image-app/models"
)

// ErrNotAuthenticated reports a run with no owner attached.
var ErrNotAuthenticated = errors.New("no authenticated owner")

// MissingInputError reports which required field was empty, before any
// network call is made.
type MissingInputError struct {
	Field string
}

func (e MissingInputError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// Generator produces one image for a prompt. Implemented by the inference
// router client and the Gemini client.
type Generator interface {
	Generate(ctx context.Context, prompt, model, aspectRatio string) (*imagegen.ImagePayload, error)
}

// Recorder persists a generated image for an owner. Implemented by the
// history store.
type Recorder interface {
	Save(ctx context.Context, ownerID uint, payload *imagegen.ImagePayload, prompt, model, aspectRatio string) (*models.GeneratedImage, error)
}

// Result is the outcome of one generate-then-persist run. The payload is
// always set on success; Record is nil and PersistWarning set when the image
// was produced but could not be saved to history.
type Result struct {
	Payload        *imagegen.ImagePayload
	Record         *models.GeneratedImage
	PersistWarning error
}

// Saved reports whether the run left a history record behind.
func (r *Result) Saved() bool { return r.Record != nil }

// Orchestrator runs the generate-then-persist pipeline: validate, generate
// exactly once, save exactly once. Generation failures abort the run with
// nothing persisted. Persistence failures are downgraded to a warning,
// because a generated image is too expensive to throw away over a failed
// insert.
type Orchestrator struct {
	generator Generator
	recorder  Recorder
}

func NewOrchestrator(generator Generator, recorder Recorder) *Orchestrator {
	return &Orchestrator{generator: generator, recorder: recorder}
}

func (o *Orchestrator) Run(ctx context.Context, ownerID uint, prompt, model, aspectRatio string) (*Result, error) {
	if ownerID == 0 {
		return nil, ErrNotAuthenticated
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, MissingInputError{Field: "prompt"}
	}
	if model == "" {
		return nil, MissingInputError{Field: "model"}
	}
	if aspectRatio == "" {
		return nil, MissingInputError{Field: "aspect ratio"}
	}

	payload, err := o.generator.Generate(ctx, prompt, model, aspectRatio)
	if err != nil {
		return nil, err
	}

	result := &Result{Payload: payload}

	record, err := o.recorder.Save(ctx, ownerID, payload, prompt, model, aspectRatio)
	if err != nil {
		log.Printf("generated image for user %d not saved to history: %v", ownerID, err)
		result.PersistWarning = err
		return result, nil
	}

	result.Record = record
	return result, nil
}
