package entity

import (
	"time"

	"github.com/google/uuid"
)

type Image struct {
	ID      uuid.UUID `json:"id"`
	OwnerID string    `json:"owner_id"`

	Bucket    string `json:"bucket"`
	ObjectKey string `json:"object_key"` // <prefix>/<owner_id>/<id>

	ContentType string   `json:"content_type"`
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags"`

	Status Status `json:"status"` // PENDING, AVAILABLE

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasTag reports whether tag occurs in the record's tag sequence.
func (i *Image) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
