// Package crudclient is the narrow HTTP client the pipeline uses to talk to
// the CRUD service.
package crudclient

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client is a thin resty wrapper scoped to the endpoints the pipeline
// actually consumes: GET /api/streams, GET /api/stream/{id}, GET /api/sops/{id},
// POST /api/analysis.
type Client struct {
	http    *resty.Client
	baseURL string
}

// New builds a Client pointed at baseURL (from API_BASE_URL).
func New(baseURL string) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(1)
	return &Client{http: http, baseURL: baseURL}
}

// SOPRef identifies an SOP attached to a stream, as returned in a stream
// summary.
type SOPRef struct {
	ID uint `json:"id"`
}

// StreamSummary is the shape GET /api/streams and GET /api/stream/{id}
// return for one stream.
type StreamSummary struct {
	ID      uint     `json:"id"`
	Name    string   `json:"name"`
	RTSPUrl string   `json:"rtsp_url"`
	SOPs    []SOPRef `json:"sops"`
}

type listStreamsResponse struct {
	Streams []StreamSummary `json:"streams"`
}

type getStreamResponse struct {
	Stream StreamSummary `json:"stream"`
}

// ListStreams calls GET /api/streams.
func (c *Client) ListStreams() ([]StreamSummary, error) {
	var body listStreamsResponse
	resp, err := c.http.R().SetResult(&body).Get("/api/streams")
	if err != nil {
		return nil, fmt.Errorf("crudclient: list streams: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("crudclient: list streams returned status %d", resp.StatusCode())
	}
	return body.Streams, nil
}

// GetStream calls GET /api/stream/{id}.
func (c *Client) GetStream(id uint) (*StreamSummary, error) {
	var body getStreamResponse
	resp, err := c.http.R().SetResult(&body).Get(fmt.Sprintf("/api/stream/%d", id))
	if err != nil {
		return nil, fmt.Errorf("crudclient: get stream %d: %w", id, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("crudclient: get stream %d returned status %d", id, resp.StatusCode())
	}
	return &body.Stream, nil
}

// SOPDetail is the shape GET /api/sops/{id} returns.
type SOPDetail struct {
	ID               uint   `json:"id"`
	Prompt           string `json:"prompt"`
	StructuredOutput string `json:"structured_output"`
}

type getSOPResponse struct {
	SOP SOPDetail `json:"sop"`
}

// GetSOP calls GET /api/sops/{id}.
func (c *Client) GetSOP(id uint) (*SOPDetail, error) {
	var body getSOPResponse
	resp, err := c.http.R().SetResult(&body).Get(fmt.Sprintf("/api/sops/%d", id))
	if err != nil {
		return nil, fmt.Errorf("crudclient: get sop %d: %w", id, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("crudclient: get sop %d returned status %d", id, resp.StatusCode())
	}
	return &body.SOP, nil
}

// CreateAnalysisRequest is the body POST /api/analysis expects.
type CreateAnalysisRequest struct {
	RTSPID uint            `json:"rtspId"`
	SOPID  uint            `json:"sopId"`
	Output any             `json:"output"`
}

// CreateAnalysis calls POST /api/analysis.
func (c *Client) CreateAnalysis(req CreateAnalysisRequest) error {
	resp, err := c.http.R().SetBody(req).Post("/api/analysis")
	if err != nil {
		return fmt.Errorf("crudclient: create analysis: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("crudclient: create analysis returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
