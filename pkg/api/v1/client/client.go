// Package client provides the API client for interacting with the AdPulse API
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/adpulse/adpulse/internal/db/models"
	"github.com/adpulse/adpulse/internal/types"
	"github.com/adpulse/adpulse/pkg/api/v1/routes"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// Client is the interface for the API client
type Client interface {
	// Health Check
	HealthCheck(ctx context.Context) (map[string]string, error)

	// Generation endpoints
	CreateGeneration(ctx context.Context, req *types.CreateGenerationRequest) (*types.CreateGenerationResponse, error)
	GetGeneration(ctx context.Context, id string) (*types.GenerationDetail, error)
	ListGenerations(ctx context.Context, opts *models.ListOptions) ([]models.GenerationJob, error)
	UpdateGeneration(ctx context.Context, id string, req *types.UpdateGenerationRequest) error
	DeleteGeneration(ctx context.Context, id string) error
	ApproveGeneration(ctx context.Context, id string, req *types.ApproveGenerationRequest) (*types.ApproveGenerationResponse, error)
	RejectGeneration(ctx context.Context, id string, req *types.RejectGenerationRequest) (*types.RejectGenerationResponse, error)
	SweepGenerations(ctx context.Context, req *types.SweepGenerationsRequest) (*types.SweepGenerationsResponse, error)

	// Ads endpoints
	ListAds(ctx context.Context, platform string, limit, offset int) ([]models.Ad, error)
	GetAd(ctx context.Context, id string) (*models.Ad, error)
}

var _ Client = &APIClient{}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string

	// Timeout is the request timeout
	Timeout time.Duration
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: routes.DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL string
	timeout time.Duration
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return &APIClient{
		baseURL: opts.BaseURL,
		timeout: opts.Timeout,
	}, nil
}

// createAgent creates a new Fiber Agent for the given method and endpoint
func (c *APIClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	fullURL := c.baseURL + endpoint

	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	case http.MethodPatch:
		agent = fiber.Patch(fullURL)
	case http.MethodDelete:
		agent = fiber.Delete(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	// Set timeout from context or client default
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	agent.Set("Content-Type", "application/json")
	agent.Set("Accept", "application/json")

	if body != nil {
		agent.JSON(body)
	}

	return agent, nil
}

// doRequest sends the HTTP request and processes the response
func (c *APIClient) doRequest(agent *fiber.Agent, v interface{}) error {
	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("error sending request: %w", errs[0])
	}

	if statusCode < 200 || statusCode >= 300 {
		return &fiber.Error{
			Code:    statusCode,
			Message: string(body),
		}
	}

	if v != nil && len(body) > 0 {
		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}

	return nil
}

// executeRequest creates an agent, sends the request, and processes the response
func (c *APIClient) executeRequest(ctx context.Context, method, endpoint string, body, response interface{}) error {
	agent, err := c.createAgent(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	return c.doRequest(agent, response)
}

// HealthCheck checks the API server health
func (c *APIClient) HealthCheck(ctx context.Context) (map[string]string, error) {
	var resp map[string]string
	err := c.executeRequest(ctx, http.MethodGet, "/health", nil, &resp)
	return resp, err
}

// CreateGeneration submits a new generation job
func (c *APIClient) CreateGeneration(ctx context.Context, req *types.CreateGenerationRequest) (*types.CreateGenerationResponse, error) {
	var resp types.CreateGenerationResponse
	err := c.executeRequest(ctx, http.MethodPost, routes.APIv1Prefix+"/generations", req, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetGeneration fetches one generation job with its detail view
func (c *APIClient) GetGeneration(ctx context.Context, id string) (*types.GenerationDetail, error) {
	var resp types.GenerationDetail
	err := c.executeRequest(ctx, http.MethodGet, routes.APIv1Prefix+"/generations/"+id, nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListGenerations lists generation jobs with optional filters
func (c *APIClient) ListGenerations(ctx context.Context, opts *models.ListOptions) ([]models.GenerationJob, error) {
	endpoint := routes.APIv1Prefix + "/generations"

	params := url.Values{}
	if opts != nil {
		if opts.Limit > 0 {
			params.Set("limit", fmt.Sprintf("%d", opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", fmt.Sprintf("%d", opts.Offset))
		}
		if opts.Status != nil {
			params.Set("status", opts.Status.String())
		}
		if opts.Platform != nil {
			params.Set("platform", string(*opts.Platform))
		}
	}
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var resp types.ListResponse[models.GenerationJob]
	err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Rows, nil
}

// UpdateGeneration applies the administrative override patch
func (c *APIClient) UpdateGeneration(ctx context.Context, id string, req *types.UpdateGenerationRequest) error {
	return c.executeRequest(ctx, http.MethodPatch, routes.APIv1Prefix+"/generations/"+id, req, nil)
}

// DeleteGeneration deletes a generation job and its queue entry
func (c *APIClient) DeleteGeneration(ctx context.Context, id string) error {
	return c.executeRequest(ctx, http.MethodDelete, routes.APIv1Prefix+"/generations/"+id, nil, nil)
}

// ApproveGeneration approves a review-ready generation job
func (c *APIClient) ApproveGeneration(ctx context.Context, id string, req *types.ApproveGenerationRequest) (*types.ApproveGenerationResponse, error) {
	var resp types.ApproveGenerationResponse
	err := c.executeRequest(ctx, http.MethodPost, routes.APIv1Prefix+"/generations/"+id+"/approve", req, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// RejectGeneration rejects a review-ready generation job
func (c *APIClient) RejectGeneration(ctx context.Context, id string, req *types.RejectGenerationRequest) (*types.RejectGenerationResponse, error) {
	var resp types.RejectGenerationResponse
	err := c.executeRequest(ctx, http.MethodPost, routes.APIv1Prefix+"/generations/"+id+"/reject", req, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SweepGenerations fails stale pending jobs
func (c *APIClient) SweepGenerations(ctx context.Context, req *types.SweepGenerationsRequest) (*types.SweepGenerationsResponse, error) {
	var resp types.SweepGenerationsResponse
	err := c.executeRequest(ctx, http.MethodPost, routes.APIv1Prefix+"/generations/sweep", req, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListAds lists catalog ads
func (c *APIClient) ListAds(ctx context.Context, platform string, limit, offset int) ([]models.Ad, error) {
	endpoint := routes.APIv1Prefix + "/ads"

	params := url.Values{}
	if platform != "" {
		params.Set("platform", platform)
	}
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}
	if offset > 0 {
		params.Set("offset", fmt.Sprintf("%d", offset))
	}
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var resp types.ListResponse[models.Ad]
	err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Rows, nil
}

// GetAd fetches one catalog ad
func (c *APIClient) GetAd(ctx context.Context, id string) (*models.Ad, error) {
	var resp models.Ad
	err := c.executeRequest(ctx, http.MethodGet, routes.APIv1Prefix+"/ads/"+id, nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
