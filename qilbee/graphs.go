package qilbee

import (
	"context"
	"fmt"
	"net/http"

	"github.com/qilbeedb/qilbee-go/auth"
)

// HealthStatus is the server's health report.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// Health returns the server health. The endpoint itself is public, but a
// server configured to require authentication answers 401, which surfaces as
// an AuthenticationError.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	reply, err := c.session.GetJSON(ctx, "/health")
	if err != nil {
		return nil, &auth.ConnectivityError{Op: "health", Err: err}
	}
	if reply.StatusCode == http.StatusUnauthorized {
		return nil, &auth.AuthenticationError{Reason: "health check rejected: authentication required"}
	}
	if !reply.OK() {
		return nil, fmt.Errorf("health check failed with status %d", reply.StatusCode)
	}

	var status HealthStatus
	if err := reply.Decode(&status); err != nil {
		return nil, err
	}
	return &status, nil
}

type listGraphsResponse struct {
	Graphs []string `json:"graphs"`
}

// ListGraphs returns the names of all graphs in the database.
func (c *Client) ListGraphs(ctx context.Context) ([]string, error) {
	var resp listGraphsResponse
	if err := c.getJSON(ctx, "list graphs", "/graphs", &resp); err != nil {
		return nil, err
	}
	return resp.Graphs, nil
}

// CreateGraph creates a new named graph.
func (c *Client) CreateGraph(ctx context.Context, name string) error {
	return c.postJSON(ctx, "create graph", "/graphs/"+name, nil, nil)
}

// DeleteGraph deletes a graph and all its data.
func (c *Client) DeleteGraph(ctx context.Context, name string) error {
	return c.deleteJSON(ctx, "delete graph", "/graphs/"+name)
}
