package handler

import (
	"errors"

	"github.com/DeePham/ai-image-app/generation"
	"github.com/DeePham/ai-image-app/imagegen"
	"github.com/DeePham/ai-image-app/middleware"
	"github.com/gofiber/fiber/v2"
)

func GenerateImage(c *fiber.Ctx) error {
	userID, err := middleware.CheckUserLoggedIn(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Authentication required",
			"data":    nil,
		})
	}

	type GenerateImageRequest struct {
		Prompt      string `json:"prompt"`
		Model       string `json:"model"`
		AspectRatio string `json:"aspect_ratio"`
	}

	var genImage GenerateImageRequest
	if err := c.BodyParser(&genImage); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
			"data":    nil,
		})
	}

	if len(genImage.Prompt) > 1000 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Prompt too long (max 1000 characters)",
			"data":    nil,
		})
	}

	result, err := orchestrator.Run(c.Context(), userID, genImage.Prompt, genImage.Model, genImage.AspectRatio)
	if err != nil {
		return generateErrorResponse(c, err)
	}

	data := fiber.Map{
		"image": result.Payload.DataURL(),
	}
	if result.Saved() {
		data["record"] = result.Record
	}
	if result.PersistWarning != nil {
		data["persist_warning"] = "Image generated but could not be saved to history"
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Successfully generated image",
		"data":    data,
	})
}

// generateErrorResponse maps the generation error taxonomy onto status codes
// so clients can tell "fix your input" from "try again" from "backend said
// no".
func generateErrorResponse(c *fiber.Ctx, err error) error {
	var missing generation.MissingInputError
	var invalidRatio imagegen.ErrInvalidAspectRatio
	var tooSmall imagegen.ErrDimensionTooSmall
	var backendErr imagegen.BackendError
	var networkErr imagegen.NetworkError
	var decodeErr imagegen.DecodeError

	switch {
	case errors.As(err, &missing), errors.As(err, &invalidRatio), errors.As(err, &tooSmall),
		errors.Is(err, imagegen.ErrPromptRequired), errors.Is(err, imagegen.ErrModelNotAllowed):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
			"data":    nil,
		})
	case errors.Is(err, generation.ErrNotAuthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Authentication required",
			"data":    nil,
		})
	case errors.As(err, &backendErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"status":  "error",
			"message": backendErr.Error(),
			"data":    fiber.Map{"backend_status": backendErr.Status},
		})
	case errors.As(err, &networkErr):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  "error",
			"message": "Image backend unreachable, please try again",
			"data":    nil,
		})
	case errors.As(err, &decodeErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"status":  "error",
			"message": "Image backend returned an unexpected response",
			"data":    nil,
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to generate image",
			"data":    nil,
		})
	}
}
