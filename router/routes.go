package router

import (
	"github.com/DeePham/ai-image-app/auth"
	handler "github.com/DeePham/ai-image-app/handlers"
	"github.com/DeePham/ai-image-app/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App, authService *auth.Service) {
	api := app.Group("/api", logger.New())
	api.Get("/hello", handler.Hello)

	// Auth
	authGroup := api.Group("/auth")
	authGroup.Post("/register", handler.Register)
	authGroup.Post("/login", handler.Login)
	authGroup.Post("/logout", handler.Logout)
	authGroup.Post("/change-password", middleware.AuthMiddleware(authService), handler.ChangePassword)

	// User
	user := api.Group("/user", middleware.AuthMiddleware(authService))
	user.Get("/me", handler.Me)
	user.Post("/avatar", handler.UploadAvatar)

	// Images
	images := api.Group("/images", middleware.AuthMiddleware(authService))
	images.Post("/generate", handler.GenerateImage)
	images.Get("/history", handler.GetHistory)
	images.Delete("/history", handler.ClearHistory)
	images.Delete("/history/:id", handler.DeleteHistoryImage)
	images.Post("/history/:id/favorite", handler.FavoriteImage)
	images.Delete("/history/:id/favorite", handler.UnfavoriteImage)
	images.Get("/favorites", handler.GetFavorites)

	// OCR
	api.Post("/ocr", middleware.AuthMiddleware(authService), handler.OCR)
}
