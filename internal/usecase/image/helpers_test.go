package image

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/imgvault/image-vault/pkg/types/errs"
)

func TestBuildObjectKey(t *testing.T) {
	id := uuid.MustParse("9f4c2b6e-8a51-4a2e-b9d3-0c7f1d2e3a4b")

	got := buildObjectKey("images", "u1", id)
	want := "images/u1/9f4c2b6e-8a51-4a2e-b9d3-0c7f1d2e3a4b"
	if got != want {
		t.Errorf("buildObjectKey() = %q, want %q", got, want)
	}
}

func TestImageIDFromObjectKey_RoundTrip(t *testing.T) {
	id := uuid.New()
	key := buildObjectKey("images", "owner-42", id)

	got, err := imageIDFromObjectKey(key)
	if err != nil {
		t.Fatalf("imageIDFromObjectKey(%q) error: %v", key, err)
	}
	if got != id {
		t.Errorf("imageIDFromObjectKey(%q) = %s, want %s", key, got, id)
	}
}

func TestImageIDFromObjectKey_Malformed(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"empty key", ""},
		{"no uuid tail", "images/u1/not-a-uuid"},
		{"trailing slash", fmt.Sprintf("images/u1/%s/", uuid.New())},
		{"bare prefix", "images"},
		{"foreign object", "thumbnails/u1/photo.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := imageIDFromObjectKey(tt.key)
			if !errors.Is(err, errs.ErrMalformedObjectKey) {
				t.Errorf("imageIDFromObjectKey(%q) err = %v, want ErrMalformedObjectKey", tt.key, err)
			}
		})
	}
}

func TestImageIDFromObjectKey_BareUUID(t *testing.T) {
	// a key with no separators at all still resolves if it is a uuid
	id := uuid.New()

	got, err := imageIDFromObjectKey(id.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != id {
		t.Errorf("got %s, want %s", got, id)
	}
}
