package services

import "github.com/adpulse/adpulse/internal/db/models"

// SelectPlatform chooses which external render provider handles a job from
// its creation-time inputs. Pure and total: an explicit caller choice always
// wins, otherwise the inputs are matched in priority order and Higgsfield is
// the fallback.
func SelectPlatform(explicit models.Platform, inputType models.InputType, productURL, imageURL, avatarID string) models.Platform {
	if explicit != "" {
		return explicit
	}
	if productURL != "" {
		return models.PlatformTopview
	}
	if inputType == models.InputTypeTextToVideo {
		return models.PlatformHiggsfield
	}
	if imageURL != "" {
		return models.PlatformHiggsfield
	}
	if avatarID != "" {
		return models.PlatformTopview
	}
	return models.PlatformHiggsfield
}
