package restapi

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"github.com/imgvault/image-vault/config"
	v1 "github.com/imgvault/image-vault/internal/controller/restapi/v1"
	"github.com/imgvault/image-vault/internal/usecase"
	"github.com/imgvault/image-vault/pkg/logger"
)

// @title Image Vault
// @version 1.0.0
// @host localhost:8080
// @BasePath /v1
func NewRouter(app *fiber.App, cfg *config.Config, img usecase.ImageUseCase, l logger.Interface) {
	// Swagger
	if cfg.Swagger.Enabled {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	app.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(http.StatusOK)
	})

	// Routers
	apiV1Group := app.Group("/v1")
	{
		v1.NewImageRoutes(apiV1Group, img, l)
	}
}
