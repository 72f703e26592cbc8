package image_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imgvault/image-vault/internal/dto"
	"github.com/imgvault/image-vault/internal/entity"
	"github.com/imgvault/image-vault/internal/usecase/image"
	"github.com/imgvault/image-vault/pkg/logger"
	"github.com/imgvault/image-vault/pkg/types/errs"
)

const testTTL = 900 * time.Second

// fakeMetadataRepo is an in-memory ImageMetadataRepo with the same
// contract as the Postgres one: newest first, closed-interval bounds,
// offset-style continuation tokens.
type fakeMetadataRepo struct {
	mu     sync.Mutex
	images map[uuid.UUID]*entity.Image

	failCreate error
	failMark   error
}

func newFakeMetadataRepo() *fakeMetadataRepo {
	return &fakeMetadataRepo{images: make(map[uuid.UUID]*entity.Image)}
}

func (f *fakeMetadataRepo) Create(_ context.Context, img *entity.Image) error {
	if f.failCreate != nil {
		return f.failCreate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	cp := *img
	f.images[img.ID] = &cp

	return nil
}

func (f *fakeMetadataRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	img, ok := f.images[id]
	if !ok {
		return nil, errs.ErrRecordNotFound
	}

	cp := *img

	return &cp, nil
}

func (f *fakeMetadataRepo) ListByOwner(
	_ context.Context,
	ownerID string,
	from, to *time.Time,
	limit int,
	token string,
) ([]*entity.Image, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []*entity.Image
	for _, img := range f.images {
		if img.OwnerID != ownerID {
			continue
		}
		if from != nil && img.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && img.CreatedAt.After(*to) {
			continue
		}

		cp := *img
		all = append(all, &cp)
	}

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() > all[j].ID.String()
	})

	offset := 0
	if token != "" {
		var err error
		offset, err = strconv.Atoi(token)
		if err != nil {
			return nil, "", errs.ErrInvalidPageToken
		}
	}

	if offset >= len(all) {
		return nil, "", nil
	}

	end := offset + limit
	next := ""
	if end < len(all) {
		next = strconv.Itoa(end)
	} else {
		end = len(all)
	}

	return all[offset:end], next, nil
}

func (f *fakeMetadataRepo) MarkAvailable(_ context.Context, id uuid.UUID, now time.Time) error {
	if f.failMark != nil {
		return f.failMark
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	img, ok := f.images[id]
	if !ok {
		return errs.ErrRecordNotFound
	}

	img.Status = entity.Available
	img.UpdatedAt = now

	return nil
}

func (f *fakeMetadataRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.images[id]; !ok {
		return errs.ErrRecordNotFound
	}

	delete(f.images, id)

	return nil
}

type deletedObject struct {
	bucket string
	key    string
}

type fakeObjectRepo struct {
	mu      sync.Mutex
	deleted []deletedObject
	fail    error
}

func (f *fakeObjectRepo) Delete(_ context.Context, bucket, key string) error {
	if f.fail != nil {
		return f.fail
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, deletedObject{bucket: bucket, key: key})

	return nil
}

type fakeIssuer struct {
	failWrite error
	failRead  error
}

func (f *fakeIssuer) IssueWrite(_ context.Context, bucket, key, contentType string, ttl time.Duration) (string, error) {
	if f.failWrite != nil {
		return "", f.failWrite
	}

	return fmt.Sprintf("https://s3.test/put/%s/%s?ct=%s&ttl=%d", bucket, key, contentType, int(ttl.Seconds())), nil
}

func (f *fakeIssuer) IssueRead(_ context.Context, bucket, key string, ttl time.Duration) (string, error) {
	if f.failRead != nil {
		return "", f.failRead
	}

	return fmt.Sprintf("https://s3.test/get/%s/%s?ttl=%d", bucket, key, int(ttl.Seconds())), nil
}

type fixtures struct {
	uc       *image.ImageUseCase
	metadata *fakeMetadataRepo
	objects  *fakeObjectRepo
	issuer   *fakeIssuer
}

func newFixtures() *fixtures {
	metadata := newFakeMetadataRepo()
	objects := &fakeObjectRepo{}
	issuer := &fakeIssuer{}

	return &fixtures{
		uc:       image.New(metadata, objects, issuer, "test-bucket", "images", testTTL, logger.New("error")),
		metadata: metadata,
		objects:  objects,
		issuer:   issuer,
	}
}

func strPtr(s string) *string { return &s }

func TestCreateImage(t *testing.T) {
	f := newFixtures()

	slot, err := f.uc.CreateImage(context.Background(), dto.CreateImage{
		OwnerID:     "u1",
		ContentType: "image/png",
		Title:       strPtr("t"),
		Tags:        []string{"a", "b"},
	})
	require.NoError(t, err)

	assert.Equal(t, 900, slot.ExpiresIn)
	assert.Equal(t, "images/u1/"+slot.ImageID.String(), slot.ObjectKey)
	assert.Contains(t, slot.UploadURL, slot.ObjectKey)
	assert.Contains(t, slot.UploadURL, "image/png")

	// retrievable immediately, still pending
	got, err := f.uc.GetImage(context.Background(), slot.ImageID)
	require.NoError(t, err)
	assert.Equal(t, entity.Pending, got.Image.Status)
	assert.Equal(t, "u1", got.Image.OwnerID)
	assert.Equal(t, []string{"a", "b"}, got.Image.Tags)
	assert.Equal(t, 900, got.ExpiresIn)
}

func TestCreateImage_Validation(t *testing.T) {
	f := newFixtures()

	_, err := f.uc.CreateImage(context.Background(), dto.CreateImage{ContentType: "image/png"})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = f.uc.CreateImage(context.Background(), dto.CreateImage{OwnerID: "u1"})
	assert.ErrorIs(t, err, errs.ErrValidation)

	assert.Empty(t, f.metadata.images, "validation failures must persist nothing")
}

func TestCreateImage_CredentialFailureLeavesPendingRecord(t *testing.T) {
	f := newFixtures()
	f.issuer.failWrite = errors.New("presign backend down")

	_, err := f.uc.CreateImage(context.Background(), dto.CreateImage{OwnerID: "u1", ContentType: "image/png"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrValidation)

	// the documented gap: the pending row stays behind
	assert.Len(t, f.metadata.images, 1)
}

func TestApplyCompletions(t *testing.T) {
	f := newFixtures()

	slot, err := f.uc.CreateImage(context.Background(), dto.CreateImage{OwnerID: "u2", ContentType: "image/jpeg"})
	require.NoError(t, err)

	f.uc.ApplyCompletions(context.Background(), []string{slot.ObjectKey})

	got, err := f.uc.GetImage(context.Background(), slot.ImageID)
	require.NoError(t, err)
	assert.Equal(t, entity.Available, got.Image.Status)

	// redelivery is a no-op in effect
	f.uc.ApplyCompletions(context.Background(), []string{slot.ObjectKey})

	got, err = f.uc.GetImage(context.Background(), slot.ImageID)
	require.NoError(t, err)
	assert.Equal(t, entity.Available, got.Image.Status)
}

func TestApplyCompletions_UnknownAndMalformedKeys(t *testing.T) {
	f := newFixtures()

	slot, err := f.uc.CreateImage(context.Background(), dto.CreateImage{OwnerID: "u2", ContentType: "image/jpeg"})
	require.NoError(t, err)

	// none of these may panic, error out, or touch the existing record
	f.uc.ApplyCompletions(context.Background(), []string{
		"images/u2/" + uuid.NewString(), // unknown id
		"images/u2/not-a-uuid",          // malformed
		"",                              // empty
	})

	got, err := f.uc.GetImage(context.Background(), slot.ImageID)
	require.NoError(t, err)
	assert.Equal(t, entity.Pending, got.Image.Status)
}

func TestApplyCompletions_StoreFailureIsSwallowed(t *testing.T) {
	f := newFixtures()
	f.metadata.failMark = errors.New("store unavailable")

	// must not panic or propagate
	f.uc.ApplyCompletions(context.Background(), []string{"images/u1/" + uuid.NewString()})
}

func TestDeleteImage(t *testing.T) {
	f := newFixtures()

	slot, err := f.uc.CreateImage(context.Background(), dto.CreateImage{OwnerID: "u3", ContentType: "image/png"})
	require.NoError(t, err)

	require.NoError(t, f.uc.DeleteImage(context.Background(), slot.ImageID))
	assert.Equal(t, []deletedObject{{bucket: "test-bucket", key: slot.ObjectKey}}, f.objects.deleted)

	_, err = f.uc.GetImage(context.Background(), slot.ImageID)
	assert.ErrorIs(t, err, errs.ErrRecordNotFound)

	// not idempotent success: a second delete reports not-found
	err = f.uc.DeleteImage(context.Background(), slot.ImageID)
	assert.ErrorIs(t, err, errs.ErrRecordNotFound)
}

func TestStoredBucketIsUsedForReadsAndDeletes(t *testing.T) {
	f := newFixtures()
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	// record created under an earlier bucket configuration
	img := &entity.Image{
		ID:          uuid.New(),
		OwnerID:     "u7",
		Bucket:      "legacy-bucket",
		ObjectKey:   "images/u7/" + uuid.NewString(),
		ContentType: "image/png",
		Status:      entity.Available,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	require.NoError(t, f.metadata.Create(ctx, img))

	got, err := f.uc.GetImage(ctx, img.ID)
	require.NoError(t, err)
	assert.Contains(t, got.DownloadURL, "legacy-bucket", "download credential must target the record's bucket")

	require.NoError(t, f.uc.DeleteImage(ctx, img.ID))
	require.Len(t, f.objects.deleted, 1)
	assert.Equal(t, deletedObject{bucket: "legacy-bucket", key: img.ObjectKey}, f.objects.deleted[0])
}

func TestDeleteImage_ObjectStoreFailureKeepsRecord(t *testing.T) {
	f := newFixtures()

	slot, err := f.uc.CreateImage(context.Background(), dto.CreateImage{OwnerID: "u3", ContentType: "image/png"})
	require.NoError(t, err)

	f.objects.fail = errors.New("object store down")

	err = f.uc.DeleteImage(context.Background(), slot.ImageID)
	require.Error(t, err)

	// record must survive so the caller can retry
	_, err = f.uc.GetImage(context.Background(), slot.ImageID)
	require.NoError(t, err)
}

func seedImage(f *fixtures, owner string, createdAt time.Time, tags ...string) *entity.Image {
	img := &entity.Image{
		ID:          uuid.New(),
		OwnerID:     owner,
		Bucket:      "test-bucket",
		ObjectKey:   "images/" + owner + "/" + uuid.NewString(),
		ContentType: "image/jpeg",
		Tags:        tags,
		Status:      entity.Pending,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	_ = f.metadata.Create(context.Background(), img)

	return img
}

func TestListImages(t *testing.T) {
	f := newFixtures()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	older := seedImage(f, "u2", base, "sunset")
	newer := seedImage(f, "u2", base.Add(time.Hour), "city")
	seedImage(f, "someone-else", base, "sunset")

	page, err := f.uc.ListImages(context.Background(), dto.ListImages{OwnerID: "u2"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, newer.ID, page.Items[0].ID, "newest first")
	assert.Equal(t, older.ID, page.Items[1].ID)

	// tag post-filter
	page, err = f.uc.ListImages(context.Background(), dto.ListImages{OwnerID: "u2", Tag: "sunset"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, older.ID, page.Items[0].ID)
}

func TestListImages_Validation(t *testing.T) {
	f := newFixtures()

	_, err := f.uc.ListImages(context.Background(), dto.ListImages{})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = f.uc.ListImages(context.Background(), dto.ListImages{OwnerID: "u1", PageToken: "%%%"})
	assert.ErrorIs(t, err, errs.ErrInvalidPageToken)
}

func TestListImages_RangeBoundsAreInclusive(t *testing.T) {
	f := newFixtures()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	before := seedImage(f, "u4", base.Add(-time.Hour))
	atFrom := seedImage(f, "u4", base)
	atTo := seedImage(f, "u4", base.Add(2*time.Hour))
	after := seedImage(f, "u4", base.Add(3*time.Hour))

	from := atFrom.CreatedAt
	to := atTo.CreatedAt

	page, err := f.uc.ListImages(context.Background(), dto.ListImages{
		OwnerID:     "u4",
		CreatedFrom: &from,
		CreatedTo:   &to,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	ids := []uuid.UUID{page.Items[0].ID, page.Items[1].ID}
	assert.Contains(t, ids, atFrom.ID, "record exactly at the lower bound is included")
	assert.Contains(t, ids, atTo.ID, "record exactly at the upper bound is included")
	assert.NotContains(t, ids, before.ID)
	assert.NotContains(t, ids, after.ID)
}

func TestListImages_TagFilterRunsAfterLimit(t *testing.T) {
	f := newFixtures()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	// newest two records are untagged; the only sunset record sits
	// beyond the page boundary
	seedImage(f, "u5", base.Add(3*time.Hour))
	seedImage(f, "u5", base.Add(2*time.Hour))
	tagged := seedImage(f, "u5", base.Add(time.Hour), "sunset")

	page, err := f.uc.ListImages(context.Background(), dto.ListImages{OwnerID: "u5", Tag: "sunset", Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Items, "filter applies after the store-level limit")
	require.NotEmpty(t, page.NextToken, "token tracks the unfiltered query")

	page, err = f.uc.ListImages(context.Background(), dto.ListImages{
		OwnerID:   "u5",
		Tag:       "sunset",
		Limit:     2,
		PageToken: page.NextToken,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, tagged.ID, page.Items[0].ID)
}

func TestLifecycleScenario(t *testing.T) {
	f := newFixtures()
	ctx := context.Background()

	slotA, err := f.uc.CreateImage(ctx, dto.CreateImage{OwnerID: "u2", ContentType: "image/jpeg", Tags: []string{"sunset"}})
	require.NoError(t, err)

	slotB, err := f.uc.CreateImage(ctx, dto.CreateImage{OwnerID: "u2", ContentType: "image/jpeg", Tags: []string{"city"}})
	require.NoError(t, err)

	f.uc.ApplyCompletions(ctx, []string{slotA.ObjectKey})

	gotA, err := f.uc.GetImage(ctx, slotA.ImageID)
	require.NoError(t, err)
	assert.Equal(t, entity.Available, gotA.Image.Status)

	page, err := f.uc.ListImages(ctx, dto.ListImages{OwnerID: "u2"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	page, err = f.uc.ListImages(ctx, dto.ListImages{OwnerID: "u2", Tag: "sunset"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, slotA.ImageID, page.Items[0].ID)

	require.NoError(t, f.uc.DeleteImage(ctx, slotA.ImageID))

	_, err = f.uc.GetImage(ctx, slotA.ImageID)
	assert.ErrorIs(t, err, errs.ErrRecordNotFound)

	_, err = f.uc.GetImage(ctx, slotB.ImageID)
	require.NoError(t, err)
}
