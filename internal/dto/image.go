package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/imgvault/image-vault/internal/entity"
)

type CreateImage struct {
	OwnerID     string
	ContentType string
	Title       *string
	Description *string
	Tags        []string
}

// UploadSlot is what a client needs to push bytes straight to the object
// store: a presigned PUT URL scoped to one key and content type.
type UploadSlot struct {
	ImageID   uuid.UUID
	UploadURL string
	ObjectKey string
	ExpiresIn int // seconds
}

type ImageDownload struct {
	Image       *entity.Image
	DownloadURL string
	ExpiresIn   int // seconds
}

type ListImages struct {
	OwnerID     string
	CreatedFrom *time.Time // inclusive
	CreatedTo   *time.Time // inclusive
	Tag         string     // post-filter, applied after the store-level limit
	Limit       int
	PageToken   string
}

type ImagePage struct {
	Items []*entity.Image
	// NextToken continues the unfiltered owner query; empty when exhausted.
	NextToken string
}
