package shop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrNotFound is returned when the shop API answers 404.
var ErrNotFound = errors.New("shop resource not found")

// StockPayload is the body of GET /stock/{id}.
type StockPayload struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// ProductPayload is the body of GET /products/{id}.
type ProductPayload struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// Client talks to the shop API serving stock and product resources.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewShopClient instantiates the shop client with sane defaults.
// A nil httpClient gets a traced transport and a five second timeout.
func NewShopClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("shop base URL is required")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse shop base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("shop base URL %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   5 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{baseURL: parsed, httpClient: httpClient}, nil
}

// GetStock fetches the stock record of a product.
func (c *Client) GetStock(ctx context.Context, id int64) (StockPayload, error) {
	var payload StockPayload
	if err := c.get(ctx, "stock", id, &payload); err != nil {
		return StockPayload{}, err
	}
	return payload, nil
}

// GetProduct fetches the catalog entry of a product.
func (c *Client) GetProduct(ctx context.Context, id int64) (ProductPayload, error) {
	var payload ProductPayload
	if err := c.get(ctx, "products", id, &payload); err != nil {
		return ProductPayload{}, err
	}
	return payload, nil
}

func (c *Client) get(ctx context.Context, resource string, id int64, out any) error {
	if c == nil || c.httpClient == nil || c.baseURL == nil {
		return errors.New("shop client not configured")
	}
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, id)
	if err != nil {
		return fmt.Errorf("encode %s id: %w", resource, err)
	}
	target, err := c.baseURL.Parse(fmt.Sprintf("%s/%s", resource, pathParam))
	if err != nil {
		return fmt.Errorf("build %s URL: %w", resource, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", resource, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call shop API: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s %d: %w", resource, id, err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%s %d: %w", resource, id, ErrNotFound)
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("shop API error: %s", errorMessage(resp))
	default:
		return fmt.Errorf("shop API unexpected status: %s", resp.Status)
	}
}

// problem is the subset of an RFC 7807 body the client reports.
type problem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func errorMessage(resp *http.Response) string {
	var body problem
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err != nil {
		return resp.Status
	}
	if msg := strings.TrimSpace(body.Detail); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(body.Title); msg != "" {
		return msg
	}
	return resp.Status
}
