// Package intelligence derives winner scoring, spend estimation, and audience
// inference from scraped ad records. The scoring functions are deterministic
// over the ad's fields; the generation lifecycle consumes them as opaque
// functions and never depends on their internals.
package intelligence

import (
	"context"
	"math"

	"golang.org/x/time/rate"

	"github.com/adpulse/adpulse/internal/db/models"
)

// DefaultBatchRate is the pacing for bulk analysis, in ads per second. Bulk
// runs are deliberately throttled so a long batch cannot monopolize shared
// resources while webhook traffic is being served.
const DefaultBatchRate = 2

// Audience is the inferred audience profile for an ad
type Audience struct {
	AgeRange  string   `json:"age_range"`
	Genders   []string `json:"genders"`
	Interests []string `json:"interests"`
}

// Report bundles the derived intelligence for one ad
type Report struct {
	AdID           string   `json:"ad_id"`
	WinnerScore    float64  `json:"winner_score"`
	EstimatedSpend float64  `json:"estimated_spend"`
	Audience       Audience `json:"audience"`
}

// Engine computes ad intelligence. It is constructed once at process start
// and passed explicitly to whatever needs it; there is no ambient singleton.
type Engine struct {
	limiter *rate.Limiter
}

// NewEngine creates an engine whose bulk operations are paced at adsPerSecond
func NewEngine(adsPerSecond float64) *Engine {
	if adsPerSecond <= 0 {
		adsPerSecond = DefaultBatchRate
	}
	return &Engine{limiter: rate.NewLimiter(rate.Limit(adsPerSecond), 1)}
}

// WinnerScore scores how likely the ad is a proven winner, 0..100.
// Longevity dominates: advertisers keep paying for creatives that convert.
func (e *Engine) WinnerScore(ad *models.Ad) float64 {
	engagement := float64(ad.Likes + 2*ad.Comments + 3*ad.Shares)
	engagementRate := 0.0
	if ad.Impressions > 0 {
		engagementRate = engagement / float64(ad.Impressions)
	}

	longevity := math.Min(float64(ad.RunningDays)/30.0, 1.0) * 60.0
	traction := math.Min(engagementRate*1000.0, 1.0) * 30.0
	reach := math.Min(math.Log10(float64(ad.Impressions)+1)/7.0, 1.0) * 10.0

	return math.Round((longevity+traction+reach)*100) / 100
}

// EstimateDailySpend estimates the advertiser's daily spend in USD from
// impression volume and ad age
func (e *Engine) EstimateDailySpend(ad *models.Ad) float64 {
	days := ad.RunningDays
	if days <= 0 {
		days = 1
	}
	dailyImpressions := float64(ad.Impressions) / float64(days)

	// Rough blended CPM for paid social video placements.
	const blendedCPM = 8.5
	spend := dailyImpressions / 1000.0 * blendedCPM
	return math.Round(spend*100) / 100
}

// InferAudience infers the target audience from the ad's engagement shape
func (e *Engine) InferAudience(ad *models.Ad) Audience {
	audience := Audience{
		AgeRange: "25-44",
		Genders:  []string{"all"},
	}

	engagement := float64(ad.Likes + ad.Comments + ad.Shares)
	if ad.Impressions > 0 && engagement/float64(ad.Impressions) > 0.05 {
		audience.AgeRange = "18-34"
	}
	if ad.Shares > ad.Comments*2 {
		audience.Interests = append(audience.Interests, "viral-content")
	}
	if ad.RunningDays > 60 {
		audience.Interests = append(audience.Interests, "evergreen-offers")
	}
	return audience
}

// Analyze derives the full report for one ad
func (e *Engine) Analyze(ad *models.Ad) Report {
	return Report{
		AdID:           ad.ID,
		WinnerScore:    e.WinnerScore(ad),
		EstimatedSpend: e.EstimateDailySpend(ad),
		Audience:       e.InferAudience(ad),
	}
}

// AnalyzeBatch analyzes ads at the engine's configured pace. The pacing is a
// property of bulk analysis only; single-ad calls are never throttled.
func (e *Engine) AnalyzeBatch(ctx context.Context, ads []models.Ad) ([]Report, error) {
	reports := make([]Report, 0, len(ads))
	for i := range ads {
		if err := e.limiter.Wait(ctx); err != nil {
			return reports, err
		}
		reports = append(reports, e.Analyze(&ads[i]))
	}
	return reports, nil
}
