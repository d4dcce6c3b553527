// Package higgsfield provides the outbound API client for the Higgsfield
// rendering provider. Render completion arrives asynchronously through the
// webhook endpoint; this client only submits work and polls status.
package higgsfield

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	fiber "github.com/gofiber/fiber/v2"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// Client is the Higgsfield API client
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
}

// Options contains configuration options for the client
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewClient creates a new Higgsfield API client
func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		timeout: opts.Timeout,
	}
}

// RenderRequest is the submission payload for a render
type RenderRequest struct {
	Prompt      string `json:"prompt,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Model       string `json:"model,omitempty"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
	Duration    int    `json:"duration,omitempty"`
	WebhookURL  string `json:"webhook_url,omitempty"`
}

// RenderResponse is the acknowledgment returned on submission
type RenderResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

// StatusResponse mirrors the provider's status/webhook payload shape
type StatusResponse struct {
	RequestID   string     `json:"request_id"`
	Status      string     `json:"status"`
	VideoURL    *string    `json:"video_url,omitempty"`
	Error       *string    `json:"error,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Model       *string    `json:"model,omitempty"`
}

// SubmitRender submits a render and returns the provider-issued request id
func (c *Client) SubmitRender(ctx context.Context, req *RenderRequest) (string, error) {
	var resp RenderResponse
	if err := c.do(ctx, fiber.MethodPost, "/v1/renders", req, &resp); err != nil {
		return "", err
	}
	return resp.RequestID, nil
}

// GetStatus fetches the current render status for a request id
func (c *Client) GetStatus(ctx context.Context, requestID string) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.do(ctx, fiber.MethodGet, "/v1/renders/"+requestID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	fullURL := c.baseURL + endpoint

	var agent *fiber.Agent
	switch method {
	case fiber.MethodGet:
		agent = fiber.Get(fullURL)
	case fiber.MethodPost:
		agent = fiber.Post(fullURL)
	default:
		return fmt.Errorf("unsupported HTTP method: %s", method)
	}

	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	agent.Set("Authorization", "Bearer "+c.apiKey)
	agent.Set("Content-Type", "application/json")
	if body != nil {
		agent.JSON(body)
	}

	statusCode, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("higgsfield request failed: %w", errs[0])
	}
	if statusCode < 200 || statusCode >= 300 {
		return &fiber.Error{Code: statusCode, Message: string(respBody)}
	}
	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("error decoding higgsfield response: %w", err)
		}
	}
	return nil
}
