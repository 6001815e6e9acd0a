// Package client provides typed access to the reports API plus a state
// controller for map-and-list views.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"citypulse/models"
)

// APIError carries the status code and server-side message of a non-2xx
// response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// Filters is the client-side filter set. Note the severity query key
// differs from the severityLevel field name on the wire format.
type Filters struct {
	Category string
	Status   string
	Severity string
	Search   string
}

// Values serializes the filter set into URL query parameters, dropping
// empty entries.
func (f Filters) Values() url.Values {
	v := url.Values{}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	if f.Status != "" {
		v.Set("status", f.Status)
	}
	if f.Severity != "" {
		v.Set("severity", f.Severity)
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	return v
}

// Client wraps the reports HTTP API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: http.DefaultClient,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var serverErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&serverErr); err == nil && serverErr.Error != "" {
			apiErr.Message = serverErr.Error
		} else {
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) ListReports(ctx context.Context, filters Filters) ([]models.Report, error) {
	path := "/reports"
	if query := filters.Values().Encode(); query != "" {
		path += "?" + query
	}
	var reports []models.Report
	if err := c.do(ctx, http.MethodGet, path, nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *Client) GetReport(ctx context.Context, id int) (*models.Report, error) {
	var report models.Report
	if err := c.do(ctx, http.MethodGet, "/reports/"+strconv.Itoa(id), nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) CreateReport(ctx context.Context, req *models.CreateReportRequest) (*models.Report, error) {
	var report models.Report
	if err := c.do(ctx, http.MethodPost, "/reports", req, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) UpdateReport(ctx context.Context, id int, patch *models.UpdateReportRequest) (*models.Report, error) {
	var report models.Report
	if err := c.do(ctx, http.MethodPut, "/reports/"+strconv.Itoa(id), patch, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) DeleteReport(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/reports/"+strconv.Itoa(id), nil, nil)
}

// Health probes the liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}
