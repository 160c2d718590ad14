package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/de-tools/relief-atlas/pkg/models/api"
)

func (c *Client) ListReports(ctx context.Context) ([]api.Report, error) {
	var reports []api.Report
	if err := c.doJSON(ctx, http.MethodGet, "/api/reports", nil, &reports); err != nil {
		return nil, fmt.Errorf("failed to fetch reports: %w", err)
	}
	if reports == nil {
		reports = []api.Report{}
	}
	return reports, nil
}

func (c *Client) UpdateReportStatus(ctx context.Context, id string, status string) error {
	path := fmt.Sprintf("/api/reports/%s/status", url.PathEscape(id))
	if err := c.doJSON(ctx, http.MethodPut, path, api.StatusUpdate{Status: status}, nil); err != nil {
		return fmt.Errorf("failed to update report status: %w", err)
	}
	return nil
}
