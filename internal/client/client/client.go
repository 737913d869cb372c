package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/fieldreports/internal/client/models"
	"github.com/dmitrijs2005/fieldreports/internal/common"
	"github.com/dmitrijs2005/fieldreports/internal/netx"
	"github.com/tidwall/gjson"
)

// Client talks to the field reports server.
type Client interface {
	Ping(ctx context.Context) error
	SyncRecords(ctx context.Context, token string, items []json.RawMessage) (*models.SyncResult, error)
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func serverMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "error"); msg.Exists() {
		return msg.String()
	}
	return strings.TrimSpace(string(body))
}

// statusError maps an unexpected status to one of the client errors.
// Server side failures are reported as unavailable so callers retry later.
func statusError(resp *netx.Response) error {
	switch {
	case resp.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.Status >= 500:
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.Status, serverMessage(resp.Body))
	default:
		return fmt.Errorf("%w: status %d: %s", common.ErrorValidation, resp.Status, serverMessage(resp.Body))
	}
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	resp, err := netx.DoJSON(ctx, c.http, http.MethodGet, c.baseURL+"/health", nil, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.Status != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

func (c *HTTPClient) SyncRecords(ctx context.Context, token string, items []json.RawMessage) (*models.SyncResult, error) {
	if items == nil {
		items = []json.RawMessage{}
	}
	body, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode batch: %w", err)
	}

	h := http.Header{}
	h.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)

	resp, err := netx.DoJSON(ctx, c.http, http.MethodPost, c.baseURL+"/sync/records", h, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.Status != http.StatusOK {
		return nil, statusError(resp)
	}

	var result models.SyncResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("decode sync result: %w", err)
	}
	return &result, nil
}
