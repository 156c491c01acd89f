package imagesearch

import (
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

	"github.com/rs/zerolog"

	"webgen/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("unsplash: api key is required")

// Options configures the Unsplash client.
type Options struct {
	APIKey         string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client calls the Unsplash photo search API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

type searchResponse struct {
	Results []struct {
		ID             string `json:"id"`
		AltDescription string `json:"alt_description"`
		URLs           struct {
			Regular string `json:"regular"`
			Thumb   string `json:"thumb"`
		} `json:"urls"`
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	} `json:"results"`
}

type errorResponse struct {
	Errors []string `json:"errors"`
}

// NewClient constructs a client with defaults for every unset option.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.unsplash.com"
	}
	logger := opts.Logger
	if logger == nil {
		l := infra.Logger(zerolog.New(io.Discard))
		logger = &l
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Search returns up to count landscape photos matching query. Unsplash
// serves at most MaxPerPage results per page.
func (c *Client) Search(ctx context.Context, query string, count int) ([]Image, error) {
	if count > MaxPerPage {
		count = MaxPerPage
	}
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(count))
	params.Set("orientation", "landscape")
	params.Set("client_id", c.apiKey)
	endpoint := c.baseURL + "/search/photos?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("unsplash: build request: %w", err)
	}
	req.Header.Set("Accept-Version", "v1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unsplash: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("unsplash: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var detail errorResponse
		if err := json.Unmarshal(raw, &detail); err == nil && len(detail.Errors) > 0 {
			return nil, fmt.Errorf("unsplash: status %d: %s", resp.StatusCode, strings.Join(detail.Errors, "; "))
		}
		return nil, fmt.Errorf("unsplash: status %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("unsplash: decode response: %w", err)
	}

	images := make([]Image, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		description := r.AltDescription
		if description == "" {
			description = "Image professionnelle"
		}
		images = append(images, Image{
			ID:          r.ID,
			URL:         r.URLs.Regular,
			Thumb:       r.URLs.Thumb,
			Description: description,
			Author:      r.User.Name,
		})
	}
	c.logger.Debug().Str("query", query).Int("results", len(images)).Msg("unsplash search")
	return images, nil
}
