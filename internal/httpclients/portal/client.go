package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/samandr77/healthportal/internal/entity"
	"github.com/samandr77/healthportal/pkg/logger"
)

// Client talks to the portal REST API. Authentication headers are added by the
// transport, so the same Client serves anonymous and signed-in calls.
type Client struct {
	client *http.Client
	url    string
}

func NewClient(url string, httpClient *http.Client) *Client {
	return &Client{
		client: httpClient,
		url:    url,
	}
}

type ctxKeyBearer struct{}

// withBearer pins the token for one call, overriding whatever the session currently holds.
func withBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKeyBearer{}, token)
}

type ResponseError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader

	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request in JSON: %w", err)
		}

		body = bytes.NewReader(jsonData)
	}

	contentType := ""
	if in != nil {
		contentType = "application/json"
	}

	return c.do(ctx, op, method, path, body, contentType, out)
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out any) error {
	ctx = logger.SetOperation(ctx, op)

	req, err := http.NewRequestWithContext(ctx, method, c.url+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	req.Header.Set("Accept", "application/json")

	if token, ok := ctx.Value(ctxKeyBearer{}).(string); ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &entity.APIError{Kind: entity.ErrNetwork, Cause: fmt.Errorf("send request: %w", err)}
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &entity.APIError{Kind: entity.ErrNetwork, StatusCode: resp.StatusCode, Cause: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errorFromResponse(resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	err = json.Unmarshal(respBody, out)
	if err != nil {
		return &entity.APIError{Kind: entity.ErrNetwork, StatusCode: resp.StatusCode, Cause: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}

func errorFromResponse(code int, body []byte) error {
	var data ResponseError

	msg := ""
	if err := json.Unmarshal(body, &data); err == nil {
		msg = data.Message
		if msg == "" {
			msg = data.Error
		}
	}

	apiErr := &entity.APIError{
		Kind:       kindFromStatus(code),
		StatusCode: code,
		Message:    msg,
		Cause:      fmt.Errorf("unexpected code %d", code),
	}

	return apiErr
}

func kindFromStatus(code int) error {
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusConflict:
		return entity.ErrValidation
	case http.StatusUnauthorized:
		return entity.ErrAuth
	case http.StatusForbidden:
		return entity.ErrForbidden
	case http.StatusNotFound, http.StatusGone:
		return entity.ErrNotFound
	default:
		return entity.ErrNetwork
	}
}

// IsStatus reports whether err is an APIError carrying the given HTTP status.
func IsStatus(err error, code int) bool {
	var apiErr *entity.APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	return apiErr.StatusCode == code
}
