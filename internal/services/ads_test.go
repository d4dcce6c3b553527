package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adpulse/adpulse/internal/db/models"
	"github.com/adpulse/adpulse/internal/types"
)

func seedAd(t *testing.T, ts *TestSetup, id string, impressions int64, runningDays int) *models.Ad {
	ad := &models.Ad{
		ID:             id,
		Platform:       "facebook",
		AdvertiserName: "Acme",
		Headline:       "Headline " + id,
		Impressions:    impressions,
		Likes:          impressions / 50,
		Comments:       impressions / 500,
		Shares:         impressions / 1000,
		RunningDays:    runningDays,
	}
	require.NoError(t, ts.AdRepo.Create(ts.ctx, ad))
	return ad
}

func TestAdsService_Intelligence(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	ad := seedAd(t, ts, "ad-1", 500000, 90)

	report, err := ts.Ads.Intelligence(ts.ctx, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, ad.ID, report.AdID)
	assert.Greater(t, report.WinnerScore, 0.0)
	assert.LessOrEqual(t, report.WinnerScore, 100.0)
	assert.Greater(t, report.EstimatedSpend, 0.0)

	// Intelligence alone does not persist annotations
	stored, err := ts.AdRepo.GetByID(ts.ctx, ad.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.WinnerScore)

	_, err = ts.Ads.Intelligence(ts.ctx, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestAdsService_AnalyzeAll(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	seedAd(t, ts, "ad-1", 500000, 90)
	seedAd(t, ts, "ad-2", 1000, 2)

	updated, err := ts.Ads.AnalyzeAll(ts.ctx, "", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	ad, err := ts.AdRepo.GetByID(ts.ctx, "ad-1")
	require.NoError(t, err)
	require.NotNil(t, ad.WinnerScore)
	require.NotNil(t, ad.EstimatedSpend)
	assert.NotEmpty(t, ad.Audience)

	// The long-running high-reach ad must outscore the fresh low-reach one
	other, err := ts.AdRepo.GetByID(ts.ctx, "ad-2")
	require.NoError(t, err)
	require.NotNil(t, other.WinnerScore)
	assert.Greater(t, *ad.WinnerScore, *other.WinnerScore)
}
