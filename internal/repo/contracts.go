package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/imgvault/image-vault/internal/entity"
)

type (
	// ObjectRepo is the object store side of the lifecycle. Bytes never
	// pass through this service, so the only direct operation is delete;
	// reads and writes happen through issued credentials. The bucket comes
	// from the record, not from config: existing records keep pointing at
	// the location they were created in even if S3_BUCKET changes.
	ObjectRepo interface {
		Delete(ctx context.Context, bucket, key string) error
	}

	// CredentialIssuer mints time-limited URLs scoped to a single object
	// location.
	CredentialIssuer interface {
		IssueWrite(ctx context.Context, bucket, key, contentType string, ttl time.Duration) (string, error)
		IssueRead(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
	}

	ImageMetadataRepo interface {
		Create(ctx context.Context, image *entity.Image) error
		GetByID(ctx context.Context, id uuid.UUID) (*entity.Image, error)
		// ListByOwner returns records newest first, restricted to the
		// closed [from, to] interval when bounds are set, starting after
		// pageToken. The second result is the continuation token for the
		// next page, empty when the query is exhausted.
		ListByOwner(ctx context.Context, ownerID string, from, to *time.Time, limit int, pageToken string) ([]*entity.Image, string, error)
		// MarkAvailable unconditionally sets status available and
		// refreshes updated_at. errs.ErrRecordNotFound when id is unknown.
		MarkAvailable(ctx context.Context, id uuid.UUID, now time.Time) error
		Delete(ctx context.Context, id uuid.UUID) error
	}
)
