package image

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/imgvault/image-vault/internal/dto"
	"github.com/imgvault/image-vault/internal/entity"
	"github.com/imgvault/image-vault/internal/repo"
	"github.com/imgvault/image-vault/pkg/logger"
	"github.com/imgvault/image-vault/pkg/types/errs"
)

const _defaultListLimit = 50

type ImageUseCase struct {
	metadataRepo repo.ImageMetadataRepo
	objectRepo   repo.ObjectRepo
	credentials  repo.CredentialIssuer

	bucket     string
	keyPrefix  string
	presignTTL time.Duration

	logger logger.Interface
}

func New(
	metadataRepo repo.ImageMetadataRepo,
	objectRepo repo.ObjectRepo,
	credentials repo.CredentialIssuer,
	bucket string,
	keyPrefix string,
	presignTTL time.Duration,
	l logger.Interface,
) *ImageUseCase {
	return &ImageUseCase{
		metadataRepo: metadataRepo,
		objectRepo:   objectRepo,
		credentials:  credentials,
		bucket:       bucket,
		keyPrefix:    keyPrefix,
		presignTTL:   presignTTL,
		logger:       l,
	}
}

func (uc *ImageUseCase) CreateImage(ctx context.Context, req dto.CreateImage) (*dto.UploadSlot, error) {
	if req.OwnerID == "" {
		return nil, fmt.Errorf("ImageUseCase - CreateImage - owner_id is required: %w", errs.ErrValidation)
	}
	if req.ContentType == "" {
		return nil, fmt.Errorf("ImageUseCase - CreateImage - content_type is required: %w", errs.ErrValidation)
	}

	imageID := uuid.New()
	objectKey := buildObjectKey(uc.keyPrefix, req.OwnerID, imageID)
	now := time.Now().UTC()

	image := &entity.Image{
		ID:          imageID,
		OwnerID:     req.OwnerID,
		Bucket:      uc.bucket,
		ObjectKey:   objectKey,
		ContentType: req.ContentType,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Status:      entity.Pending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// 1. persist the pending record
	if err := uc.metadataRepo.Create(ctx, image); err != nil {
		return nil, fmt.Errorf("ImageUseCase - CreateImage - uc.metadataRepo.Create: %w", err)
	}

	// 2. issue the write credential for exactly this key and content type.
	// If this fails the pending record stays behind; there is no
	// reconciliation sweep, so the orphan is the caller's retry to clean up.
	uploadURL, err := uc.credentials.IssueWrite(ctx, image.Bucket, objectKey, req.ContentType, uc.presignTTL)
	if err != nil {
		uc.logger.Warn("orphaned pending record id=%s after credential failure", imageID)

		return nil, fmt.Errorf("ImageUseCase - CreateImage - uc.credentials.IssueWrite: %w", err)
	}

	return &dto.UploadSlot{
		ImageID:   imageID,
		UploadURL: uploadURL,
		ObjectKey: objectKey,
		ExpiresIn: int(uc.presignTTL.Seconds()),
	}, nil
}

func (uc *ImageUseCase) GetImage(ctx context.Context, id uuid.UUID) (*dto.ImageDownload, error) {
	image, err := uc.metadataRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ImageUseCase - GetImage - uc.metadataRepo.GetByID: %w", err)
	}

	// issued even while the record is still pending; callers interpret
	// status themselves. The record's bucket is authoritative, not the
	// configured one.
	downloadURL, err := uc.credentials.IssueRead(ctx, image.Bucket, image.ObjectKey, uc.presignTTL)
	if err != nil {
		return nil, fmt.Errorf("ImageUseCase - GetImage - uc.credentials.IssueRead: %w", err)
	}

	return &dto.ImageDownload{
		Image:       image,
		DownloadURL: downloadURL,
		ExpiresIn:   int(uc.presignTTL.Seconds()),
	}, nil
}

func (uc *ImageUseCase) ListImages(ctx context.Context, req dto.ListImages) (*dto.ImagePage, error) {
	if req.OwnerID == "" {
		return nil, fmt.Errorf("ImageUseCase - ListImages - owner_id is required: %w", errs.ErrValidation)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = _defaultListLimit
	}

	images, nextToken, err := uc.metadataRepo.ListByOwner(ctx, req.OwnerID, req.CreatedFrom, req.CreatedTo, limit, req.PageToken)
	if err != nil {
		return nil, fmt.Errorf("ImageUseCase - ListImages - uc.metadataRepo.ListByOwner: %w", err)
	}

	// the tag filter runs after the store-level limit, so a page can come
	// back shorter than limit while more matches exist beyond it; the
	// token still points at the unfiltered query position
	if req.Tag != "" {
		filtered := images[:0]
		for _, image := range images {
			if image.HasTag(req.Tag) {
				filtered = append(filtered, image)
			}
		}
		images = filtered
	}

	return &dto.ImagePage{
		Items:     images,
		NextToken: nextToken,
	}, nil
}

func (uc *ImageUseCase) DeleteImage(ctx context.Context, id uuid.UUID) error {
	image, err := uc.metadataRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("ImageUseCase - DeleteImage - uc.metadataRepo.GetByID: %w", err)
	}

	// object first: a crash between the two steps leaves a dangling
	// metadata record that can be deleted again, never an unreferenced
	// object with no record pointing at it
	if err := uc.objectRepo.Delete(ctx, image.Bucket, image.ObjectKey); err != nil {
		return fmt.Errorf("ImageUseCase - DeleteImage - uc.objectRepo.Delete: %w", err)
	}

	if err := uc.metadataRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("ImageUseCase - DeleteImage - uc.metadataRepo.Delete: %w", err)
	}

	return nil
}

// ApplyCompletions flips records to available for a batch of completion
// keys. Each key is independent; nothing here returns an error. The
// notification source delivers at least once, so unknown ids (created and
// already deleted, or foreign objects in the bucket), malformed keys and
// redeliveries are all normal traffic, and store failures are only logged —
// propagating them would turn redelivery into a retry storm.
func (uc *ImageUseCase) ApplyCompletions(ctx context.Context, objectKeys []string) {
	for _, key := range objectKeys {
		id, err := imageIDFromObjectKey(key)
		if err != nil {
			uc.logger.Warn("skipping completion for malformed key=%s", key)

			continue
		}

		err = uc.metadataRepo.MarkAvailable(ctx, id, time.Now().UTC())
		if err != nil {
			if errors.Is(err, errs.ErrRecordNotFound) {
				continue
			}

			uc.logger.Error(err, "ImageUseCase - ApplyCompletions - uc.metadataRepo.MarkAvailable")
		}
	}
}
