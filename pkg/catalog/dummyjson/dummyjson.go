// Package dummyjson implements pkg/catalog's Driver against the DummyJSON
// quotes API.
package dummyjson

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/UladRH/quotes-assignment-task/pkg/catalog"
	"github.com/UladRH/quotes-assignment-task/pkg/quote"
	"github.com/UladRH/quotes-assignment-task/pkg/utils"
)

const (
	// DefaultBaseURL is the public DummyJSON API URL.
	DefaultBaseURL = "https://dummyjson.com"

	defaultTimeout = 10 * time.Second

	// maxExternalStringLength caps strings received from the external API.
	maxExternalStringLength = 10000
)

// Client wraps the DummyJSON quotes API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds configuration for the DummyJSON client.
type Config struct {
	// BaseURL is the API URL. Defaults to DefaultBaseURL if empty.
	BaseURL string
}

// apiQuote is the DummyJSON wire representation of a single quote.
type apiQuote struct {
	ID     int64  `json:"id"`
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

// apiQuoteList is the DummyJSON wire representation of a quote listing.
type apiQuoteList struct {
	Quotes []apiQuote `json:"quotes"`
	Total  int        `json:"total"`
	Skip   int        `json:"skip"`
	Limit  int        `json:"limit"`
}

// NewClient creates a new DummyJSON catalog client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// GetByID retrieves one quote by its string id.
func (c *Client) GetByID(ctx context.Context, id string) (*quote.Quote, error) {
	numericID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || numericID <= 0 {
		return nil, fmt.Errorf("%w: %q", catalog.ErrInvalidID, id)
	}

	var payload apiQuote
	if err := c.getJSON(ctx, fmt.Sprintf("/quotes/%d", numericID), &payload); err != nil {
		return nil, err
	}

	return mapQuote(payload), nil
}

// GetRandom retrieves one uniformly random quote.
func (c *Client) GetRandom(ctx context.Context) (*quote.Quote, error) {
	var payload apiQuote
	if err := c.getJSON(ctx, "/quotes/random", &payload); err != nil {
		return nil, err
	}

	return mapQuote(payload), nil
}

// GetPage retrieves one page of the catalog listing.
func (c *Client) GetPage(ctx context.Context, limit, skip int) (*quote.Page, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if skip > 0 {
		query.Set("skip", strconv.Itoa(skip))
	}

	path := "/quotes"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var payload apiQuoteList
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return nil, err
	}

	page := &quote.Page{
		Quotes: make([]quote.Quote, 0, len(payload.Quotes)),
		Total:  payload.Total,
		Skip:   payload.Skip,
		Limit:  payload.Limit,
	}
	for _, q := range payload.Quotes {
		page.Quotes = append(page.Quotes, *mapQuote(q))
	}

	return page, nil
}

// getJSON performs a GET against the API and decodes the response body.
// A 404 maps to catalog.ErrNotFound; any other non-2xx status maps to
// catalog.ErrUpstream.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: creating request: %v", catalog.ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: sending request: %v", catalog.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", catalog.ErrNotFound, path)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("catalog request failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return fmt.Errorf("%w: status %d", catalog.ErrUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", catalog.ErrUpstream, err)
	}

	return nil
}

func mapQuote(q apiQuote) *quote.Quote {
	return &quote.Quote{
		QuoteID: strconv.FormatInt(q.ID, 10),
		Text:    utils.Truncate(q.Quote, maxExternalStringLength),
		Author:  utils.Truncate(q.Author, maxExternalStringLength),
	}
}
