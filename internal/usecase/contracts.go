package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/imgvault/image-vault/internal/dto"
)

type (
	ImageUseCase interface {
		// CreateImage persists a pending record and issues the write
		// credential for the derived storage location.
		CreateImage(ctx context.Context, req dto.CreateImage) (*dto.UploadSlot, error)
		GetImage(ctx context.Context, id uuid.UUID) (*dto.ImageDownload, error)
		ListImages(ctx context.Context, req dto.ListImages) (*dto.ImagePage, error)
		DeleteImage(ctx context.Context, id uuid.UUID) error
		// ApplyCompletions processes a batch of object-store completion
		// keys. Best effort: per-key failures are logged and dropped,
		// never returned, so an at-least-once notification source cannot
		// be driven into a retry storm.
		ApplyCompletions(ctx context.Context, objectKeys []string)
	}
)
