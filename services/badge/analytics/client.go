package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iulianpascalau/views-badge/services/badge/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/tidwall/gjson"
)

const runReportPathFormat = "%s/v1beta/properties/%s:runReport"

var log = logger.GetOrCreate("analytics")

type valueDTO struct {
	Value string `json:"value"`
}

type rowDTO struct {
	DimensionValues []valueDTO `json:"dimensionValues"`
	MetricValues    []valueDTO `json:"metricValues"`
}

type runReportResponse struct {
	Rows []rowDTO `json:"rows"`
}

// ArgsHTTPReportClient defines the arguments for the HTTP report client
type ArgsHTTPReportClient struct {
	BaseURL       string
	PropertyID    string
	TokenProvider TokenProvider
	Timeout       time.Duration
}

type httpReportClient struct {
	baseURL       string
	propertyID    string
	tokenProvider TokenProvider
	client        *http.Client
}

// NewHTTPReportClient creates a client issuing runReport calls against the analytics backend
func NewHTTPReportClient(args ArgsHTTPReportClient) (*httpReportClient, error) {
	if check.IfNil(args.TokenProvider) {
		return nil, errors.New("nil token provider")
	}
	if len(args.PropertyID) == 0 {
		return nil, errors.New("empty property identifier")
	}
	if len(args.BaseURL) == 0 {
		return nil, errors.New("empty base URL")
	}

	return &httpReportClient{
		baseURL:       args.BaseURL,
		propertyID:    args.PropertyID,
		tokenProvider: args.TokenProvider,
		client: &http.Client{
			Timeout: args.Timeout,
		},
	}, nil
}

// RunReport posts the query to the backend's runReport endpoint and returns the
// decoded rows. An empty report yields an empty slice, not an error.
func (c *httpReportClient) RunReport(ctx context.Context, q common.MetricQuery) ([]common.ReportRow, error) {
	token, err := c.tokenProvider.GetAccessToken(ctx)
	if err != nil {
		return nil, &AuthError{Err: err}
	}

	body, err := json.Marshal(&q)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report query: %w", err)
	}

	url := fmt.Sprintf(runReportPathFormat, c.baseURL, c.propertyID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create report request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error calling backend: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read backend response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       respBody,
			Message:    extractBackendError(respBody),
		}
	}

	var decoded runReportResponse
	err = json.Unmarshal(respBody, &decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode backend response: %w", err)
	}

	rows := make([]common.ReportRow, 0, len(decoded.Rows))
	for _, row := range decoded.Rows {
		rows = append(rows, common.ReportRow{
			DimensionValues: flattenValues(row.DimensionValues),
			MetricValues:    flattenValues(row.MetricValues),
		})
	}

	log.Debug("report fetched", "rows", len(rows), "property", c.propertyID)

	return rows, nil
}

func flattenValues(values []valueDTO) []string {
	flattened := make([]string, 0, len(values))
	for _, v := range values {
		flattened = append(flattened, v.Value)
	}

	return flattened
}

// extractBackendError pulls the human-readable message out of the backend's
// JSON error envelope, falling back to the raw body
func extractBackendError(body []byte) string {
	message := gjson.GetBytes(body, "error.message")
	if message.Exists() {
		return message.String()
	}

	return string(body)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (c *httpReportClient) IsInterfaceNil() bool {
	return c == nil
}
