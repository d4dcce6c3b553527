package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adpulse/adpulse/internal/db/models"
	"github.com/adpulse/adpulse/internal/types"
)

// generationOutput is the filtered output for a generation job
type generationOutput struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	Status   string `json:"status"`
	Retries  int    `json:"retries"`
}

func init() {
	generationsCmd.AddCommand(listGenerationsCmd)
	generationsCmd.AddCommand(getGenerationCmd)
	generationsCmd.AddCommand(approveGenerationCmd)
	generationsCmd.AddCommand(rejectGenerationCmd)
	generationsCmd.AddCommand(deleteGenerationCmd)
	generationsCmd.AddCommand(sweepGenerationsCmd)

	listGenerationsCmd.Flags().IntP("limit", "l", 0, "Limit the number of jobs returned")
	listGenerationsCmd.Flags().String("status", "", "Filter jobs by status")
	listGenerationsCmd.Flags().String("platform", "", "Filter jobs by platform")

	getGenerationCmd.Flags().StringP("id", "i", "", "Job ID to fetch")
	_ = getGenerationCmd.MarkFlagRequired("id")

	approveGenerationCmd.Flags().StringP("id", "i", "", "Job ID to approve")
	approveGenerationCmd.Flags().StringP("notes", "n", "", "Reviewer notes")
	_ = approveGenerationCmd.MarkFlagRequired("id")

	rejectGenerationCmd.Flags().StringP("id", "i", "", "Job ID to reject")
	rejectGenerationCmd.Flags().StringP("notes", "n", "", "Reviewer notes")
	rejectGenerationCmd.Flags().BoolP("regenerate", "r", false, "Spawn a regenerated job")
	_ = rejectGenerationCmd.MarkFlagRequired("id")

	deleteGenerationCmd.Flags().StringP("id", "i", "", "Job ID to delete")
	_ = deleteGenerationCmd.MarkFlagRequired("id")

	sweepGenerationsCmd.Flags().Int("older-than", 0, "Sweep pending jobs older than this many minutes")
}

var generationsCmd = &cobra.Command{
	Use:   "generations",
	Short: "Manage generation jobs",
}

var listGenerationsCmd = &cobra.Command{
	Use:   "list",
	Short: "List generation jobs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		statusStr, _ := cmd.Flags().GetString("status")
		platformStr, _ := cmd.Flags().GetString("platform")

		opts := &models.ListOptions{Limit: limit}
		if statusStr != "" {
			status, err := models.ParseGenerationStatus(statusStr)
			if err != nil {
				return err
			}
			opts.Status = &status
		}
		if platformStr != "" {
			platform, err := models.ParsePlatform(platformStr)
			if err != nil {
				return err
			}
			opts.Platform = &platform
		}

		jobs, err := apiClient.ListGenerations(context.Background(), opts)
		if err != nil {
			return fmt.Errorf("error fetching jobs: %w", err)
		}

		output := make([]generationOutput, len(jobs))
		for i, job := range jobs {
			output[i] = generationOutput{
				ID:       job.ID,
				Platform: string(job.Platform),
				Status:   job.Status.String(),
				Retries:  job.RetryCount,
			}
		}
		return printJSON(output)
	},
}

var getGenerationCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a specific generation job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetString("id")

		detail, err := apiClient.GetGeneration(context.Background(), jobID)
		if err != nil {
			return fmt.Errorf("error fetching job: %w", err)
		}
		return printJSON(detail)
	},
}

var approveGenerationCmd = &cobra.Command{
	Use:   "approve",
	Short: "Approve a review-ready generation job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetString("id")
		req := &types.ApproveGenerationRequest{}
		if notes, _ := cmd.Flags().GetString("notes"); notes != "" {
			req.Notes = &notes
		}

		resp, err := apiClient.ApproveGeneration(context.Background(), jobID, req)
		if err != nil {
			return fmt.Errorf("error approving job: %w", err)
		}
		return printJSON(resp)
	},
}

var rejectGenerationCmd = &cobra.Command{
	Use:   "reject",
	Short: "Reject a review-ready generation job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetString("id")
		regenerate, _ := cmd.Flags().GetBool("regenerate")
		req := &types.RejectGenerationRequest{Regenerate: regenerate}
		if notes, _ := cmd.Flags().GetString("notes"); notes != "" {
			req.Notes = &notes
		}

		resp, err := apiClient.RejectGeneration(context.Background(), jobID, req)
		if err != nil {
			return fmt.Errorf("error rejecting job: %w", err)
		}
		return printJSON(resp)
	},
}

var deleteGenerationCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a generation job and its queue entry",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetString("id")

		if err := apiClient.DeleteGeneration(context.Background(), jobID); err != nil {
			return fmt.Errorf("error deleting job: %w", err)
		}
		fmt.Println("deleted", jobID)
		return nil
	},
}

var sweepGenerationsCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Fail pending jobs that never received a provider callback",
	RunE: func(cmd *cobra.Command, _ []string) error {
		olderThan, _ := cmd.Flags().GetInt("older-than")

		resp, err := apiClient.SweepGenerations(context.Background(), &types.SweepGenerationsRequest{
			OlderThanMinutes: olderThan,
		})
		if err != nil {
			return fmt.Errorf("error sweeping jobs: %w", err)
		}
		return printJSON(resp)
	},
}

// GetGenerationsCmd returns the generations command
func GetGenerationsCmd() *cobra.Command {
	return generationsCmd
}

func printJSON(v interface{}) error {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	fmt.Println(string(prettyJSON))
	return nil
}
