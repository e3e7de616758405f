package weatherapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/storm-forecast-digest/internal/domain"
	"github.com/couchcryptid/storm-forecast-digest/internal/observability"
	"github.com/hashicorp/go-retryablehttp"
)

// maxBodyBytes bounds how much of an upstream response is read.
const maxBodyBytes = 4 << 20

// Source fetches the forecast feed for a coordinate.
type Source interface {
	FetchFeed(ctx context.Context, lat, lon float64) (domain.Feed, error)
}

// Client fetches feeds from the upstream /weather endpoint. Each call makes a
// single attempt; there is no retry or backoff.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a weather data source client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.RetryMax = 0
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	httpClient := rc.StandardClient()
	httpClient.Timeout = timeout

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		metrics:    metrics,
		logger:     logger,
	}
}

// FetchFeed requests /weather?lat=..&lon=.. and decodes the body. A feed that
// carries an upstream error string is returned without error; callers check
// domain.Feed.Err before digesting.
func (c *Client) FetchFeed(ctx context.Context, lat, lon float64) (domain.Feed, error) {
	params := url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon": {strconv.FormatFloat(lon, 'f', -1, 64)},
	}
	fullURL := c.baseURL + "/weather?" + params.Encode()

	start := time.Now()
	feed, err := c.doRequest(ctx, fullURL)
	c.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.UpstreamRequests.WithLabelValues("error").Inc()
		c.logger.Warn("weather fetch failed", "lat", lat, "lon", lon, "error", err)
		return domain.Feed{}, err
	case feed.Error != "":
		c.metrics.UpstreamRequests.WithLabelValues("upstream_error").Inc()
	default:
		c.metrics.UpstreamRequests.WithLabelValues("success").Inc()
	}

	if feed.Location.Lat == 0 && feed.Location.Lon == 0 {
		feed.Location.Lat = lat
		feed.Location.Lon = lon
	}
	return feed, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.Feed{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Feed{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Feed{}, fmt.Errorf("read response: %w", err)
	}

	feed, parseErr := domain.ParseFeed(body)

	if resp.StatusCode != http.StatusOK {
		// The upstream reports failures as {"error": "..."}; prefer its message.
		if parseErr == nil && feed.Error != "" {
			return feed, nil
		}
		return domain.Feed{}, fmt.Errorf("weather API error: status %d: %s", resp.StatusCode, truncate(body, 256))
	}
	if parseErr != nil {
		return domain.Feed{}, parseErr
	}
	return feed, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
