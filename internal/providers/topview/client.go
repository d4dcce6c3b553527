// Package topview provides the outbound API client for the TopView rendering
// provider. Completion arrives asynchronously through the webhook endpoint.
package topview

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	fiber "github.com/gofiber/fiber/v2"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// Client is the TopView API client
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

// NewClient creates a new TopView API client
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

// TaskRequest is the submission payload for a render task
type TaskRequest struct {
	ProductURL  string `json:"product_url,omitempty"`
	AvatarID    string `json:"avatar_id,omitempty"`
	Script      string `json:"script,omitempty"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
	Duration    int    `json:"duration,omitempty"`
	WebhookURL  string `json:"webhook_url,omitempty"`
}

// TaskResponse is the acknowledgment returned on submission
type TaskResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

// StatusResponse mirrors the provider's status/webhook payload shape
type StatusResponse struct {
	TaskID      string     `json:"task_id"`
	Status      string     `json:"status"`
	VideoURL    *string    `json:"video_url,omitempty"`
	PreviewURL  *string    `json:"preview_url,omitempty"`
	Error       *string    `json:"error,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SubmitTask submits a render task and returns the provider-issued task id
func (c *Client) SubmitTask(ctx context.Context, req *TaskRequest) (string, error) {
	var resp TaskResponse
	if err := c.do(ctx, fiber.MethodPost, "/api/tasks", req, &resp); err != nil {
		return "", err
	}
	return resp.TaskID, nil
}

// GetStatus fetches the current status for a task id
func (c *Client) GetStatus(ctx context.Context, taskID string) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.do(ctx, fiber.MethodGet, "/api/tasks/"+taskID, nil, &resp); err != nil {
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

	agent.Set("X-API-Key", c.apiKey)
	agent.Set("Content-Type", "application/json")
	if body != nil {
		agent.JSON(body)
	}

	statusCode, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("topview request failed: %w", errs[0])
	}
	if statusCode < 200 || statusCode >= 300 {
		return &fiber.Error{Code: statusCode, Message: string(respBody)}
	}
	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("error decoding topview response: %w", err)
		}
	}
	return nil
}
