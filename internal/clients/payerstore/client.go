// Package payerstore is the HTTP client for the payer store API. It
// implements reconcile.Store.
package payerstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/payerdesk/internal/domain/registry"
	"github.com/yungbote/payerdesk/internal/http/response"
	"github.com/yungbote/payerdesk/internal/observability"
	"github.com/yungbote/payerdesk/internal/platform/apierr"
	"github.com/yungbote/payerdesk/internal/platform/ctxutil"
	"github.com/yungbote/payerdesk/internal/platform/logger"
)

const headerRequestID = "X-Request-Id"

type Config struct {
	// BaseURL is the store root, e.g. http://localhost:8080. Required.
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default traced client (tests).
	HTTPClient *http.Client
}

type Client struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
}

func New(cfg Config, log *logger.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("payerstore: base url required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("payerstore: invalid base url %q: %w", base, err)
	}
	if log == nil {
		log = logger.Nop()
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout, Transport: observability.HTTPTransport(nil)}
	}
	return &Client{
		log:        log.With("client", "PayerStore", "base_url", base),
		baseURL:    base,
		httpClient: hc,
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) FetchUnmapped(ctx context.Context, page, perPage int) (registry.UnmappedPage, error) {
	var out registry.UnmappedPage
	err := c.do(ctx, http.MethodGet, pagePath("/api/unmapped", page, perPage), nil, &out)
	return out, err
}

func (c *Client) FetchPayers(ctx context.Context, page, perPage int) (registry.PayerPage, error) {
	var out registry.PayerPage
	err := c.do(ctx, http.MethodGet, pagePath("/api/payers", page, perPage), nil, &out)
	return out, err
}

func (c *Client) FetchGroups(ctx context.Context, page, perPage int) (registry.GroupPage, error) {
	var out registry.GroupPage
	err := c.do(ctx, http.MethodGet, pagePath("/api/payer_groups", page, perPage), nil, &out)
	return out, err
}

func (c *Client) MapPayer(ctx context.Context, detailID int64, payerID string) error {
	return c.mutate(ctx, "/api/map_payer", registry.MapPayerRequest{DetailID: detailID, PayerID: payerID})
}

func (c *Client) UpdatePrettyName(ctx context.Context, payerID, prettyName string) error {
	return c.mutate(ctx, "/api/update_pretty_name", registry.UpdatePrettyNameRequest{PayerID: payerID, PrettyName: prettyName})
}

func (c *Client) UpdateGroup(ctx context.Context, payerID, groupID string) error {
	return c.mutate(ctx, "/api/update_group", registry.UpdateGroupRequest{PayerID: payerID, GroupID: groupID})
}

func pagePath(path string, page, perPage int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	return path + "?" + q.Encode()
}

func (c *Client) mutate(ctx context.Context, path string, body any) error {
	var out registry.StatusResponse
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return err
	}
	if out.Status != "" && out.Status != "success" {
		return fmt.Errorf("payerstore %s: unexpected status %q", path, out.Status)
	}
	return nil
}

// do sends one request. There is no retry: a failed call is reported once and
// recovery is left to the operator.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	start := time.Now()
	resp, raw, err := c.doOnce(ctx, method, path, body)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	if err != nil {
		c.log.Debug("Store request failed", "method", method, "path", path, "status", status, "error", err)
		return err
	}
	c.log.Debug("Store request", "method", method, "path", path, "status", status, "duration_ms", time.Since(start).Milliseconds())
	if out == nil {
		return nil
	}
	if uErr := json.Unmarshal(raw, out); uErr != nil {
		return fmt.Errorf("payerstore decode %s: %w", path, uErr)
	}
	return nil
}

func (c *Client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := ctxutil.RequestID(ctx)
	if reqID == "" {
		reqID = uuid.New().String()
	}
	req.Header.Set(headerRequestID, reqID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, decodeError(resp.StatusCode, raw)
	}
	return resp, raw, nil
}

// decodeError turns the store's error envelope into an *apierr.Error. Bodies
// that are not an envelope keep their text as the message.
func decodeError(status int, raw []byte) error {
	var env response.ErrorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Error.Message != "" {
		return apierr.New(status, env.Error.Code, errors.New(env.Error.Message))
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return apierr.New(status, "", fmt.Errorf("payerstore http %d: %s", status, msg))
}
