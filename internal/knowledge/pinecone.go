// Package knowledge stores and retrieves F1 context in a Pinecone index.
package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/pranjalekhande/paddock-ai/internal/config"
)

// Vector is one embedded document with its metadata.
type Vector struct {
	ID       string            `json:"id"`
	Values   []float32         `json:"values"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Match is one query hit.
type Match struct {
	ID       string            `json:"id"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// PineconeClient talks to a Pinecone index over its REST data plane.
type PineconeClient struct {
	httpClient *retryablehttp.Client
	cfg        *config.PineconeConfig
	logger     *logrus.Entry
}

// NewPineconeClient creates a vector index client from configuration.
func NewPineconeClient(cfg *config.PineconeConfig, baseLogger *logrus.Logger) *PineconeClient {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 250 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	return &PineconeClient{
		httpClient: retryClient,
		cfg:        cfg,
		logger:     baseLogger.WithField("component", "pinecone"),
	}
}

type upsertRequest struct {
	Vectors   []Vector `json:"vectors"`
	Namespace string   `json:"namespace,omitempty"`
}

type upsertResponse struct {
	UpsertedCount int `json:"upsertedCount"`
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	Namespace       string    `json:"namespace,omitempty"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []Match `json:"matches"`
}

// Upsert writes vectors into the index and returns the accepted count.
func (c *PineconeClient) Upsert(ctx context.Context, vectors []Vector) (int, error) {
	if len(vectors) == 0 {
		return 0, nil
	}

	var resp upsertResponse
	err := c.post(ctx, "/vectors/upsert", upsertRequest{
		Vectors:   vectors,
		Namespace: c.cfg.Namespace,
	}, &resp)
	if err != nil {
		return 0, err
	}

	c.logger.WithField("count", resp.UpsertedCount).Debug("Vectors upserted")
	return resp.UpsertedCount, nil
}

// Query returns the nearest matches for the given embedding.
func (c *PineconeClient) Query(ctx context.Context, vector []float32) ([]Match, error) {
	var resp queryResponse
	err := c.post(ctx, "/query", queryRequest{
		Vector:          vector,
		TopK:            c.cfg.TopK,
		Namespace:       c.cfg.Namespace,
		IncludeMetadata: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Matches, nil
}

// post sends a JSON request to the index host and decodes the response.
func (c *PineconeClient) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.cfg.IndexHost+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("vector index request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("vector index returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse vector index response: %w", err)
	}
	return nil
}
