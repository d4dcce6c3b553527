package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// adOutput is the filtered output for a catalog ad
type adOutput struct {
	ID          string   `json:"id"`
	Headline    string   `json:"headline"`
	Platform    string   `json:"platform"`
	WinnerScore *float64 `json:"winner_score,omitempty"`
}

func init() {
	adsCmd.AddCommand(listAdsCmd)
	adsCmd.AddCommand(getAdCmd)

	listAdsCmd.Flags().IntP("limit", "l", 0, "Limit the number of ads returned")
	listAdsCmd.Flags().String("platform", "", "Filter ads by source platform")

	getAdCmd.Flags().StringP("id", "i", "", "Ad ID to fetch")
	_ = getAdCmd.MarkFlagRequired("id")
}

var adsCmd = &cobra.Command{
	Use:   "ads",
	Short: "Browse the scraped ads catalog",
}

var listAdsCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog ads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		platform, _ := cmd.Flags().GetString("platform")

		ads, err := apiClient.ListAds(context.Background(), platform, limit, 0)
		if err != nil {
			return fmt.Errorf("error fetching ads: %w", err)
		}

		output := make([]adOutput, len(ads))
		for i, ad := range ads {
			output[i] = adOutput{
				ID:          ad.ID,
				Headline:    ad.Headline,
				Platform:    ad.Platform,
				WinnerScore: ad.WinnerScore,
			}
		}
		return printJSON(output)
	},
}

var getAdCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a specific catalog ad",
	RunE: func(cmd *cobra.Command, _ []string) error {
		adID, _ := cmd.Flags().GetString("id")

		ad, err := apiClient.GetAd(context.Background(), adID)
		if err != nil {
			return fmt.Errorf("error fetching ad: %w", err)
		}
		return printJSON(ad)
	},
}

// GetAdsCmd returns the ads command
func GetAdsCmd() *cobra.Command {
	return adsCmd
}
