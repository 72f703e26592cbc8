package v1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/imgvault/image-vault/internal/usecase"
	"github.com/imgvault/image-vault/pkg/logger"
)

func NewImageRoutes(apiV1Group fiber.Router, img usecase.ImageUseCase, l logger.Interface) {
	r := &V1{img: img, logger: l}

	{
		apiV1Group.Post("/images", r.createImage)
		apiV1Group.Get("/images", r.listImages)
		apiV1Group.Get("/images/:id", r.getImage)
		apiV1Group.Delete("/images/:id", r.deleteImage)
	}
}
