package persistent

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// pageToken is the keyset cursor for the owner query: the position of the
// last row returned, under the (created_at DESC, id DESC) ordering. It is
// opaque to callers and tracks the unfiltered query position, so a tag
// post-filter does not shift it.
type pageToken struct {
	CreatedAt time.Time `json:"created_at"`
	ID        uuid.UUID `json:"id"`
}

func encodePageToken(createdAt time.Time, id uuid.UUID) string {
	b, _ := json.Marshal(pageToken{CreatedAt: createdAt, ID: id})

	return base64.RawURLEncoding.EncodeToString(b)
}

func decodePageToken(token string) (pageToken, error) {
	var t pageToken

	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return t, fmt.Errorf("decodePageToken - base64 decode: %w", err)
	}

	if err := json.Unmarshal(b, &t); err != nil {
		return t, fmt.Errorf("decodePageToken - json.Unmarshal: %w", err)
	}

	return t, nil
}
