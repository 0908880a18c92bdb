package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/itsells/billing-api/pkg/apperror"
)

// providerError is a non-2xx answer from the provider: the request arrived,
// the provider said no. Distinct from connectivity failures.
type providerError struct {
	StatusCode int
	Detail     string
}

func (e *providerError) Error() string {
	return fmt.Sprintf("provider returned %d: %s", e.StatusCode, e.Detail)
}

// apiClient performs JSON requests against the resolved provider base URL
type apiClient struct {
	endpoints *Endpoints
	http      *http.Client
}

func newAPIClient(endpoints *Endpoints, requestTimeout time.Duration) *apiClient {
	return &apiClient{
		endpoints: endpoints,
		http:      &http.Client{Timeout: requestTimeout},
	}
}

// do resolves the working base URL, sends the request and decodes the
// response into out (when non-nil). Transport failures invalidate the cached
// base and surface as ConnectivityError.
func (c *apiClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	base, err := c.endpoints.Resolve(ctx)
	if err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.endpoints.Invalidate()
		return &apperror.ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Detail string `json:"detail"`
		}
		detail := resp.Status
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil && errBody.Detail != "" {
			detail = errBody.Detail
		}
		return &providerError{StatusCode: resp.StatusCode, Detail: detail}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
