package persistent

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/imgvault/image-vault/pkg/s3client"
)

// ImageObjectRepo addresses objects by the bucket stored on each record,
// so records created under an earlier S3_BUCKET value keep resolving to
// their original location.
type ImageObjectRepo struct {
	*s3client.S3Client
}

func NewImageObjectRepo(s3c *s3client.S3Client) *ImageObjectRepo {
	return &ImageObjectRepo{s3c}
}

func (r *ImageObjectRepo) Delete(ctx context.Context, bucket, key string) error {
	_, err := r.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("ImageObjectRepo - Delete - r.Client.DeleteObject: %w", err)
	}

	return nil
}

// IssueWrite mints a presigned PUT URL bound to exactly one key and
// content type. The uploader must send the same Content-Type header or
// the store rejects the signature.
func (r *ImageObjectRepo) IssueWrite(ctx context.Context, bucket, key, contentType string, ttl time.Duration) (string, error) {
	req, err := r.Presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("ImageObjectRepo - IssueWrite - r.Presign.PresignPutObject: %w", err)
	}

	return req.URL, nil
}

func (r *ImageObjectRepo) IssueRead(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	req, err := r.Presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("ImageObjectRepo - IssueRead - r.Presign.PresignGetObject: %w", err)
	}

	return req.URL, nil
}
