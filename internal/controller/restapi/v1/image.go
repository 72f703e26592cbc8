package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/imgvault/image-vault/internal/controller/restapi/v1/response"
	"github.com/imgvault/image-vault/internal/dto"
	"github.com/imgvault/image-vault/pkg/types/errs"
)

type createImageRequest struct {
	OwnerID     string   `json:"owner_id"`
	ContentType string   `json:"content_type"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
}

// @Summary  	Request an upload slot
// @Description Persists a pending image record and returns a time-limited presigned PUT URL for direct upload to the object store
// @Tags 		images
// @Accept 		json
// @Produce 	json
// @Param 		request body createImageRequest true "Image metadata"
// @Success 	201 {object} response.CreateImage
// @Failure 	400 {object} response.Error "Missing or malformed fields"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/images [post]
func (r *V1) createImage(ctx *fiber.Ctx) error {
	var req createImageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "body must be a JSON object")
	}

	slot, err := r.img.CreateImage(ctx.UserContext(), dto.CreateImage{
		OwnerID:     req.OwnerID,
		ContentType: req.ContentType,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		if errors.Is(err, errs.ErrValidation) {
			return errorResponse(ctx, http.StatusBadRequest, "'owner_id' and 'content_type' are required")
		}
		r.logger.Error(err, "restapi - v1 - createImage")

		return errorResponse(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.Status(http.StatusCreated).JSON(response.CreateImage{
		ImageID:   slot.ImageID.String(),
		UploadURL: slot.UploadURL,
		ObjectKey: slot.ObjectKey,
		ExpiresIn: slot.ExpiresIn,
	})
}

// @Summary 	List images for an owner
// @Description Newest first, optionally restricted to a closed created_at interval and post-filtered by tag
// @Tags 		images
// @Produce 	json
// @Param 		owner_id	 query string true  "Owner"
// @Param 		created_from query string false "Inclusive lower bound, RFC 3339 UTC"
// @Param 		created_to	 query string false "Inclusive upper bound, RFC 3339 UTC"
// @Param 		tag			 query string false "Exact tag to filter by"
// @Param 		limit		 query int	  false "Page size of the underlying query (default 50)"
// @Param 		next_token	 query string false "Continuation token from a previous page"
// @Success 	200 {object} response.ListImages
// @Failure 	400 {object} response.Error "Missing owner_id or malformed bounds"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/images [get]
func (r *V1) listImages(ctx *fiber.Ctx) error {
	req := dto.ListImages{
		OwnerID:   ctx.Query("owner_id"),
		Tag:       ctx.Query("tag"),
		Limit:     ctx.QueryInt("limit", 0),
		PageToken: ctx.Query("next_token"),
	}

	if from := ctx.Query("created_from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return errorResponse(ctx, http.StatusBadRequest, "'created_from' must be an RFC 3339 timestamp")
		}
		req.CreatedFrom = &t
	}
	if to := ctx.Query("created_to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return errorResponse(ctx, http.StatusBadRequest, "'created_to' must be an RFC 3339 timestamp")
		}
		req.CreatedTo = &t
	}

	page, err := r.img.ListImages(ctx.UserContext(), req)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidPageToken) {
			return errorResponse(ctx, http.StatusBadRequest, "'next_token' is not a valid continuation token")
		}
		if errors.Is(err, errs.ErrValidation) {
			return errorResponse(ctx, http.StatusBadRequest, "'owner_id' query parameter is required")
		}
		r.logger.Error(err, "restapi - v1 - listImages")

		return errorResponse(ctx, http.StatusInternalServerError, "internal server error")
	}

	items := make([]response.ImageSummary, 0, len(page.Items))
	for _, image := range page.Items {
		items = append(items, response.ImageSummary{
			ImageID:   image.ID.String(),
			OwnerID:   image.OwnerID,
			Title:     image.Title,
			Tags:      image.Tags,
			CreatedAt: formatTime(image.CreatedAt),
		})
	}

	return ctx.Status(http.StatusOK).JSON(response.ListImages{
		Items:     items,
		NextToken: page.NextToken,
	})
}

// @Summary 	Get one image
// @Description Returns the metadata projection and a time-limited presigned GET URL; the URL is issued even while the record is still PENDING
// @Tags 		images
// @Produce 	json
// @Param 		id path string true "Image ID(uuid)"
// @Success 	200 {object} response.GetImage
// @Failure 	400 {object} response.Error "Invalid ID"
// @Failure 	404 {object} response.Error "Image not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/images/{id} [get]
func (r *V1) getImage(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	download, err := r.img.GetImage(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "image not found")
		}
		r.logger.Error(err, "restapi - v1 - getImage")

		return errorResponse(ctx, http.StatusInternalServerError, "internal server error")
	}

	image := download.Image

	return ctx.Status(http.StatusOK).JSON(response.GetImage{
		ImageID:     image.ID.String(),
		DownloadURL: download.DownloadURL,
		ExpiresIn:   download.ExpiresIn,
		Metadata: response.ImageMetadata{
			ContentType: image.ContentType,
			Title:       image.Title,
			Description: image.Description,
			Tags:        image.Tags,
			CreatedAt:   formatTime(image.CreatedAt),
			Status:      string(image.Status),
		},
	})
}

// @Summary 	Delete image
// @Description Deletes the object from the store first, then the metadata record
// @Tags 		images
// @Param		id 	path	 string true "Image ID(uuid)"
// @Success		204 "Deleted"
// @Failure 	400 {object} response.Error "Invalid ID"
// @Failure 	404 {object} response.Error "Image not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/images/{id} [delete]
func (r *V1) deleteImage(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	err = r.img.DeleteImage(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "image not found")
		}
		r.logger.Error(err, "restapi - v1 - deleteImage")

		return errorResponse(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.SendStatus(http.StatusNoContent)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
