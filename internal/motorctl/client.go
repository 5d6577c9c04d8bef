package motorctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/liftmotor/internal/domain/requirement"
	"github.com/okian/liftmotor/internal/domain/types"
)

// Client calls a running selection service.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for baseURL with a request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type remoteError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Select posts q to /select. A 503 carrying per-type results is returned as
// a response, since it only means every catalog was unavailable.
func (c *Client) Select(ctx context.Context, q requirement.Query) (types.Response, error) {
	body, err := json.Marshal(q)
	if err != nil {
		return types.Response{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/select", bytes.NewReader(body))
	if err != nil {
		return types.Response{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return types.Response{}, fmt.Errorf("%w: %w", ErrRemote, err)
	}
	data, err := readResponseBody(resp)
	if err != nil {
		return types.Response{}, fmt.Errorf("%w: read body: %w", ErrRemote, err)
	}

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusServiceUnavailable {
		var out types.Response
		if err := json.Unmarshal(data, &out); err == nil && len(out.Results) > 0 {
			return out, nil
		}
	}

	var re remoteError
	if err := json.Unmarshal(data, &re); err != nil || re.Message == "" {
		return types.Response{}, fmt.Errorf("%w: %s", ErrRemote, resp.Status)
	}
	return types.Response{}, fmt.Errorf("%w: %s: %s", ErrRemote, re.Code, re.Message)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}
