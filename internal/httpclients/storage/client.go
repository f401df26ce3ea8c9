// Package storage fetches document files from the blob store the portal hands out download links for.
// Requests carry no portal credentials.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/samandr77/healthportal/internal/entity"
)

const (
	timeout  = time.Second * 60
	retryMax = 2
)

type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retryMax
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.HTTPClient.Timeout = timeout
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{httpClient: retryClient.StandardClient()}
}

// NewClientWith wraps an existing client without retries.
func NewClientWith(httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient}
}

// Download streams the file at url into w and returns the number of bytes written.
func (c *Client) Download(ctx context.Context, url string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &entity.APIError{Kind: entity.ErrNetwork, Cause: fmt.Errorf("send request: %w", err)}
	}

	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, &entity.APIError{Kind: entity.ErrNotFound, StatusCode: resp.StatusCode, Message: "File not found"}
	case resp.StatusCode != http.StatusOK:
		return 0, &entity.APIError{
			Kind:       entity.ErrNetwork,
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("unexpected code %d", resp.StatusCode),
		}
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &entity.APIError{Kind: entity.ErrNetwork, StatusCode: resp.StatusCode, Cause: fmt.Errorf("read body: %w", err)}
	}

	return n, nil
}
