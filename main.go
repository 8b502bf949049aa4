package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/DeePham/ai-image-app/auth"
	"github.com/DeePham/ai-image-app/config"
	"github.com/DeePham/ai-image-app/database"
	"github.com/DeePham/ai-image-app/generation"
	handler "github.com/DeePham/ai-image-app/handlers"
	"github.com/DeePham/ai-image-app/history"
	"github.com/DeePham/ai-image-app/imagegen"
	"github.com/DeePham/ai-image-app/models"
	"github.com/DeePham/ai-image-app/ocr"
	"github.com/DeePham/ai-image-app/router"
	"github.com/DeePham/ai-image-app/storage"
)

func main() {
	db := database.GetDB()

	// Run migrations
	err := database.MigrateModels(&models.User{}, &models.GeneratedImage{}, &models.FavoriteMark{})
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	defer func() {
		if err := database.CloseDB(); err != nil {
			log.Printf("Error closing the database connection: %v", err)
		}
	}()

	ctx := context.Background()

	objects, err := storage.NewGCSStore(ctx, config.Config("GCS_BUCKET_NAME"))
	if err != nil {
		log.Fatalf("Failed to create object store: %v", err)
	}

	allowedModels := strings.Split(config.ConfigDefault("ALLOWED_MODELS",
		"black-forest-labs/FLUX.1-dev,stabilityai/stable-diffusion-xl-base-1.0,gemini-2.5-flash-image-preview"), ",")

	hfClient := imagegen.NewClient(imagegen.Settings{
		BaseURL:       config.ConfigDefault("HF_BASE_URL", "https://router.huggingface.co/hf-inference"),
		APIKey:        config.Config("HF_API_KEY"),
		Timeout:       60 * time.Second,
		AllowedModels: allowedModels,
	})

	generator := &imagegen.Mux{Default: hfClient, AllowedModels: allowedModels}
	if gemini, err := imagegen.NewGeminiClient(ctx); err != nil {
		log.Printf("Gemini backend unavailable: %v", err)
	} else {
		generator.Gemini = gemini
	}

	authService := auth.NewService(db)
	historyStore := history.NewStore(db, objects)
	orchestrator := generation.NewOrchestrator(generator, historyStore)
	ocrClient := ocr.NewClient(config.Config("GOOGLE_VISION_API_KEY"))

	handler.Setup(authService, orchestrator, historyStore, ocrClient, objects)

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024,
	})
	router.SetupRoutes(app, authService)

	addr := ":" + config.ConfigDefault("PORT", "3000")
	log.Printf("Server is listening at %s", addr)
	log.Fatal(app.Listen(addr))
}
