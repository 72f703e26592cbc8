package persistent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/imgvault/image-vault/internal/entity"
	"github.com/imgvault/image-vault/pkg/postgres"
	"github.com/imgvault/image-vault/pkg/types/errs"
)

const (
	// Table
	imagesTable = "images"

	// Columns
	idColumn          = "id"
	ownerIDColumn     = "owner_id"
	bucketColumn      = "bucket"
	objectKeyColumn   = "object_key"
	contentTypeColumn = "content_type"
	titleColumn       = "title"
	descriptionColumn = "description"
	tagsColumn        = "tags"
	statusColumn      = "status"
	createdAtColumn   = "created_at"
	updatedAtColumn   = "updated_at"
)

type ImageMetadataRepo struct {
	*postgres.Postgres
}

func NewImageMetadataRepo(pg *postgres.Postgres) *ImageMetadataRepo {
	return &ImageMetadataRepo{pg}
}

func (r *ImageMetadataRepo) Create(ctx context.Context, image *entity.Image) error {
	sql, args, err := r.Builder.
		Insert(imagesTable).
		Columns(
			idColumn,
			ownerIDColumn,
			bucketColumn,
			objectKeyColumn,
			contentTypeColumn,
			titleColumn,
			descriptionColumn,
			tagsColumn,
			statusColumn,
			createdAtColumn,
			updatedAtColumn,
		).
		Values(
			image.ID,
			image.OwnerID,
			image.Bucket,
			image.ObjectKey,
			image.ContentType,
			image.Title,
			image.Description,
			image.Tags,
			image.Status,
			image.CreatedAt,
			image.UpdatedAt,
		).ToSql()
	if err != nil {
		return fmt.Errorf("ImageMetadataRepo - Create - r.Builder.ToSql: %w", err)
	}

	_, err = r.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("ImageMetadataRepo - Create - r.Pool.Exec: %w", err)
	}

	return nil
}

func (r *ImageMetadataRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Image, error) {
	sql, args, err := r.selectImages().
		Where(squirrel.Eq{idColumn: id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ImageMetadataRepo - GetByID - r.Builder.ToSql: %w", err)
	}

	var image entity.Image
	err = r.Pool.QueryRow(ctx, sql, args...).Scan(
		&image.ID,
		&image.OwnerID,
		&image.Bucket,
		&image.ObjectKey,
		&image.ContentType,
		&image.Title,
		&image.Description,
		&image.Tags,
		&image.Status,
		&image.CreatedAt,
		&image.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ImageMetadataRepo - GetByID: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("ImageMetadataRepo - GetByID - r.Pool.QueryRow: %w", err)
	}

	return &image, nil
}

func (r *ImageMetadataRepo) ListByOwner(
	ctx context.Context,
	ownerID string,
	from, to *time.Time,
	limit int,
	token string,
) ([]*entity.Image, string, error) {
	q := r.selectImages().
		Where(squirrel.Eq{ownerIDColumn: ownerID}).
		OrderBy(createdAtColumn+" DESC", idColumn+" DESC").
		Limit(uint64(limit))

	// closed interval on both sides
	if from != nil {
		q = q.Where(squirrel.GtOrEq{createdAtColumn: *from})
	}
	if to != nil {
		q = q.Where(squirrel.LtOrEq{createdAtColumn: *to})
	}

	if token != "" {
		cursor, err := decodePageToken(token)
		if err != nil {
			return nil, "", fmt.Errorf("ImageMetadataRepo - ListByOwner - decodePageToken: %w", errs.ErrInvalidPageToken)
		}

		q = q.Where(squirrel.Expr("("+createdAtColumn+", "+idColumn+") < (?, ?)", cursor.CreatedAt, cursor.ID))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, "", fmt.Errorf("ImageMetadataRepo - ListByOwner - q.ToSql: %w", err)
	}

	rows, err := r.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, "", fmt.Errorf("ImageMetadataRepo - ListByOwner - r.Pool.Query: %w", err)
	}
	defer rows.Close()

	var images []*entity.Image
	for rows.Next() {
		var image entity.Image
		err = rows.Scan(
			&image.ID,
			&image.OwnerID,
			&image.Bucket,
			&image.ObjectKey,
			&image.ContentType,
			&image.Title,
			&image.Description,
			&image.Tags,
			&image.Status,
			&image.CreatedAt,
			&image.UpdatedAt,
		)
		if err != nil {
			return nil, "", fmt.Errorf("ImageMetadataRepo - ListByOwner - rows.Scan: %w", err)
		}

		images = append(images, &image)
	}
	if err = rows.Err(); err != nil {
		return nil, "", fmt.Errorf("ImageMetadataRepo - ListByOwner - rows.Err: %w", err)
	}

	// a full page means there may be more; hand back the cursor of the
	// last row so the next query resumes after it
	next := ""
	if len(images) == limit {
		last := images[len(images)-1]
		next = encodePageToken(last.CreatedAt, last.ID)
	}

	return images, next, nil
}

// MarkAvailable is deliberately unconditional on the current status: the
// update is idempotent, so redelivered completion notifications collapse
// into no-ops.
func (r *ImageMetadataRepo) MarkAvailable(ctx context.Context, id uuid.UUID, now time.Time) error {
	sql, args, err := r.Builder.
		Update(imagesTable).
		Set(statusColumn, entity.Available).
		Set(updatedAtColumn, now).
		Where(squirrel.Eq{idColumn: id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ImageMetadataRepo - MarkAvailable - r.Builder.ToSql: %w", err)
	}

	tag, err := r.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("ImageMetadataRepo - MarkAvailable - r.Pool.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ImageMetadataRepo - MarkAvailable: %w", errs.ErrRecordNotFound)
	}

	return nil
}

func (r *ImageMetadataRepo) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := r.Builder.
		Delete(imagesTable).
		Where(squirrel.Eq{idColumn: id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ImageMetadataRepo - Delete - r.Builder.ToSql: %w", err)
	}

	tag, err := r.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("ImageMetadataRepo - Delete - r.Pool.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ImageMetadataRepo - Delete: %w", errs.ErrRecordNotFound)
	}

	return nil
}

func (r *ImageMetadataRepo) selectImages() squirrel.SelectBuilder {
	return r.Builder.
		Select(
			idColumn,
			ownerIDColumn,
			bucketColumn,
			objectKeyColumn,
			contentTypeColumn,
			titleColumn,
			descriptionColumn,
			tagsColumn,
			statusColumn,
			createdAtColumn,
			updatedAtColumn,
		).
		From(imagesTable)
}
