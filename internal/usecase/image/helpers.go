package image

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/imgvault/image-vault/pkg/types/errs"
)

// buildObjectKey derives the storage location deterministically from the
// owner and image id. The layout is load-bearing: completion notifications
// carry only the key, and imageIDFromObjectKey recovers the id from it.
func buildObjectKey(prefix, ownerID string, id uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s", prefix, ownerID, id)
}

// imageIDFromObjectKey recovers the image id from a completion
// notification's object key. Keys are built as <prefix>/<owner_id>/<id>,
// so the final path segment must parse as a uuid; anything else is a
// malformed key. This is the one place the notification-format contract
// with the object store is interpreted.
func imageIDFromObjectKey(key string) (uuid.UUID, error) {
	segment := key
	if idx := strings.LastIndexByte(key, '/'); idx >= 0 {
		segment = key[idx+1:]
	}

	id, err := uuid.Parse(segment)
	if err != nil {
		return uuid.Nil, fmt.Errorf("imageIDFromObjectKey - uuid.Parse(%q): %w", segment, errs.ErrMalformedObjectKey)
	}

	return id, nil
}
