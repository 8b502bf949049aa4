package handler

import (
	"github.com/DeePham/ai-image-app/auth"
	"github.com/DeePham/ai-image-app/generation"
	"github.com/DeePham/ai-image-app/history"
	"github.com/DeePham/ai-image-app/ocr"
	"github.com/DeePham/ai-image-app/storage"
	"github.com/gofiber/fiber/v2"
)

var (
	authService  *auth.Service
	orchestrator *generation.Orchestrator
	historyStore *history.Store
	ocrClient    *ocr.Client
	objectStore  storage.ObjectStore
)

// Setup wires handler dependencies once at startup. Handlers stay plain
// functions so the router reads like a route table.
func Setup(a *auth.Service, o *generation.Orchestrator, h *history.Store, c *ocr.Client, s storage.ObjectStore) {
	authService = a
	orchestrator = o
	historyStore = h
	ocrClient = c
	objectStore = s
}

func Hello(c *fiber.Ctx) error {
	return c.SendString("Hello, World!")
}
