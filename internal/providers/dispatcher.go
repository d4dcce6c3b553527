// Package providers routes outbound render submissions to the configured
// provider clients.
package providers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/adpulse/adpulse/internal/db/models"
	"github.com/adpulse/adpulse/internal/providers/higgsfield"
	"github.com/adpulse/adpulse/internal/providers/topview"
)

// Dispatcher implements services.Dispatcher by forwarding a job's input
// snapshot to the client matching its platform.
type Dispatcher struct {
	higgsfield *higgsfield.Client
	topview    *topview.Client
	webhookURL string
}

// NewDispatcher creates a dispatcher over the given clients. webhookBaseURL
// is this service's externally reachable address; each submission tells the
// provider where to call back.
func NewDispatcher(hf *higgsfield.Client, tv *topview.Client, webhookBaseURL string) *Dispatcher {
	return &Dispatcher{
		higgsfield: hf,
		topview:    tv,
		webhookURL: webhookBaseURL,
	}
}

// Dispatch submits the job to its provider and returns the provider-issued
// correlation id
func (d *Dispatcher) Dispatch(ctx context.Context, job *models.GenerationJob) (string, error) {
	var input models.GenerationInput
	if len(job.InputData) > 0 {
		if err := json.Unmarshal(job.InputData, &input); err != nil {
			return "", fmt.Errorf("invalid input snapshot for job %s: %w", job.ID, err)
		}
	}

	switch job.Platform {
	case models.PlatformHiggsfield:
		return d.higgsfield.SubmitRender(ctx, &higgsfield.RenderRequest{
			Prompt:      input.Prompt,
			ImageURL:    input.ImageURL,
			Model:       job.Model,
			AspectRatio: input.AspectRatio,
			Duration:    input.Duration,
			WebhookURL:  d.webhookURL + "/webhooks/higgsfield",
		})
	case models.PlatformTopview:
		return d.topview.SubmitTask(ctx, &topview.TaskRequest{
			ProductURL:  input.ProductURL,
			AvatarID:    input.AvatarID,
			Script:      input.Script,
			AspectRatio: input.AspectRatio,
			Duration:    input.Duration,
			WebhookURL:  d.webhookURL + "/webhooks/topview",
		})
	}
	return "", fmt.Errorf("no client configured for platform %q", job.Platform)
}
