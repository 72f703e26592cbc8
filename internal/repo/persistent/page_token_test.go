package persistent

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPageToken_RoundTrip(t *testing.T) {
	id := uuid.New()
	createdAt := time.Date(2024, 5, 1, 12, 30, 45, 123456000, time.UTC)

	token := encodePageToken(createdAt, id)
	if token == "" {
		t.Fatal("empty token")
	}

	got, err := decodePageToken(token)
	if err != nil {
		t.Fatalf("decodePageToken error: %v", err)
	}
	if !got.CreatedAt.Equal(createdAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, createdAt)
	}
	if got.ID != id {
		t.Errorf("ID = %s, want %s", got.ID, id)
	}
}

func TestDecodePageToken_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "%%%"},
		{"not json", "bm90IGpzb24"},
		{"wrong shape", "WyJhcnJheSJd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodePageToken(tt.token); err == nil {
				t.Errorf("decodePageToken(%q) expected error", tt.token)
			}
		})
	}
}
