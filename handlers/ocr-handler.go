package handler

import (
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"github.com/DeePham/ai-image-app/middleware"
	"github.com/DeePham/ai-image-app/ocr"
	"github.com/gofiber/fiber/v2"
)

// OCR accepts a multipart "image" file or a JSON body with a base64 image
// and returns the detected text.
func OCR(c *fiber.Ctx) error {
	if _, err := middleware.CheckUserLoggedIn(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Authentication required",
			"data":    nil,
		})
	}

	image, err := readOCRImage(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "No image provided",
			"data":    nil,
		})
	}

	text, err := ocrClient.ExtractText(c.Context(), image)
	if err != nil {
		if errors.Is(err, ocr.ErrNoText) {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"status":  "success",
				"message": "No text detected",
				"data":    fiber.Map{"text": ""},
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"status":  "error",
			"message": "Text extraction failed",
			"data":    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Text extracted successfully",
		"data":    fiber.Map{"text": text},
	})
}

func readOCRImage(c *fiber.Ctx) ([]byte, error) {
	if file, err := c.FormFile("image"); err == nil {
		blobFile, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer blobFile.Close()
		return io.ReadAll(blobFile)
	}

	type ocrRequest struct {
		Image string `json:"image"`
	}
	var req ocrRequest
	if err := c.BodyParser(&req); err != nil || req.Image == "" {
		return nil, errors.New("no image in request")
	}

	encoded := req.Image
	if idx := strings.Index(encoded, ","); strings.HasPrefix(encoded, "data:") && idx != -1 {
		encoded = encoded[idx+1:]
	}

	return base64.StdEncoding.DecodeString(encoded)
}
