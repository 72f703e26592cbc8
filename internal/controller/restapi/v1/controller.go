package v1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/imgvault/image-vault/internal/controller/restapi/v1/response"
	"github.com/imgvault/image-vault/internal/usecase"
	"github.com/imgvault/image-vault/pkg/logger"
)

type V1 struct {
	img    usecase.ImageUseCase
	logger logger.Interface
}

func errorResponse(ctx *fiber.Ctx, code int, msg string) error {
	return ctx.Status(code).JSON(response.Error{Message: msg})
}
