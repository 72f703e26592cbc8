package entity_test

import (
	"testing"

	"github.com/imgvault/image-vault/internal/entity"
)

func TestImage_HasTag(t *testing.T) {
	img := &entity.Image{Tags: []string{"sunset", "beach", "sunset"}}

	if !img.HasTag("sunset") {
		t.Error("expected tag to be found")
	}
	if img.HasTag("city") {
		t.Error("unexpected tag match")
	}
	if (&entity.Image{}).HasTag("sunset") {
		t.Error("empty tag sequence must not match")
	}
}
