package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adpulse/adpulse/internal/db/models"
)

func TestSelectPlatform(t *testing.T) {
	tests := []struct {
		name       string
		explicit   models.Platform
		inputType  models.InputType
		productURL string
		imageURL   string
		avatarID   string
		want       models.Platform
	}{
		{
			name:     "explicit choice always wins",
			explicit: models.PlatformTopview,
			imageURL: "https://example.com/shot.png",
			want:     models.PlatformTopview,
		},
		{
			name:       "explicit beats product url",
			explicit:   models.PlatformHiggsfield,
			productURL: "https://shop.example.com/item",
			want:       models.PlatformHiggsfield,
		},
		{
			name:       "product url routes to topview",
			inputType:  models.InputTypeProductURL,
			productURL: "https://shop.example.com/item",
			want:       models.PlatformTopview,
		},
		{
			name:      "text-to-video routes to higgsfield",
			inputType: models.InputTypeTextToVideo,
			want:      models.PlatformHiggsfield,
		},
		{
			name:      "text-to-video wins over avatar id",
			inputType: models.InputTypeTextToVideo,
			avatarID:  "avatar-7",
			want:      models.PlatformHiggsfield,
		},
		{
			name:      "image url routes to higgsfield",
			inputType: models.InputTypeImage,
			imageURL:  "https://example.com/shot.png",
			want:      models.PlatformHiggsfield,
		},
		{
			name:      "avatar id routes to topview",
			inputType: models.InputTypeAvatar,
			avatarID:  "avatar-7",
			want:      models.PlatformTopview,
		},
		{
			name:       "product url beats image url",
			inputType:  models.InputTypeImage,
			productURL: "https://shop.example.com/item",
			imageURL:   "https://example.com/shot.png",
			want:       models.PlatformTopview,
		},
		{
			name:      "image url beats avatar id",
			inputType: models.InputTypeImage,
			imageURL:  "https://example.com/shot.png",
			avatarID:  "avatar-7",
			want:      models.PlatformHiggsfield,
		},
		{
			name:      "empty input falls back to higgsfield",
			inputType: models.InputTypeImage,
			want:      models.PlatformHiggsfield,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectPlatform(tt.explicit, tt.inputType, tt.productURL, tt.imageURL, tt.avatarID)
			assert.Equal(t, tt.want, got)

			// Routing is deterministic: same inputs, same platform
			again := SelectPlatform(tt.explicit, tt.inputType, tt.productURL, tt.imageURL, tt.avatarID)
			assert.Equal(t, got, again)
		})
	}
}
