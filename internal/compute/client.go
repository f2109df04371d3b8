package compute

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/terrasight/terrasight/internal/properties"
	"github.com/terrasight/terrasight/internal/utils"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrAuth means the compute service rejected our credentials. Unlike every
// other failure it halts the whole session.
var ErrAuth = errors.New("unauthorized access to the compute service, check your client ID and secret")

// ErrEmpty means the request was valid but no qualifying data exists: no
// imagery in the date range, no pixels surviving the masks. Modules surface
// it as a warning instead of an error.
var ErrEmpty = errors.New("no qualifying data found")

const (
	requestRetries = 5
	retryDelay     = 5 * time.Second
)

// Client talks to the remote geospatial compute service. Every raster and
// vector computation is delegated there; this side only builds request
// descriptors and parses returned scalars, series, features and images.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient authenticates against the compute service with OAuth2 client
// credentials taken from the environment. A failed token exchange is fatal
// for the session.
func NewClient(ctx context.Context) (*Client, error) {
	clientID := properties.ComputeClientID()
	clientSecret := properties.ComputeClientSecret()
	tokenURL := properties.ComputeTokenURL()

	if clientID == "" || clientSecret == "" || tokenURL == "" {
		return nil, fmt.Errorf("missing required environment variables: TERRASIGHT_CLIENT_ID, TERRASIGHT_CLIENT_SECRET, or TERRASIGHT_TOKEN_URL: %w", ErrAuth)
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}

	if _, err := config.Token(ctx); err != nil {
		return nil, fmt.Errorf("token exchange failed: %v: %w", err, ErrAuth)
	}

	return &Client{
		httpClient: config.Client(ctx),
		baseURL:    strings.TrimSuffix(properties.ComputeBaseURL(), "/"),
	}, nil
}

// post sends a JSON payload and returns the raw response body. Transient
// failures are retried; 401/403 aborts immediately as an auth failure and
// 404 maps to ErrEmpty.
func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %v", err)
	}

	url := c.baseURL + path

	var lastErr error
	for attempt := 1; attempt <= requestRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		response, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			fmt.Printf("Attempt %d failed: %v\n", attempt, err)
			time.Sleep(retryDelay)
			continue
		}

		body, readErr := io.ReadAll(response.Body)
		response.Body.Close()

		switch {
		case response.StatusCode == http.StatusOK:
			if readErr != nil {
				lastErr = fmt.Errorf("failed to read response body: %v", readErr)
				continue
			}
			return body, nil
		case response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden:
			return nil, ErrAuth
		case response.StatusCode == http.StatusNotFound || response.StatusCode == http.StatusNoContent:
			return nil, ErrEmpty
		default:
			lastErr = fmt.Errorf("status %d: %s", response.StatusCode, string(body))
			fmt.Printf("Attempt %d failed: %s\n", attempt, string(body))
			time.Sleep(retryDelay)
		}
	}

	return nil, fmt.Errorf("request to %s failed after %d attempts: %w", path, requestRetries, lastErr)
}

// Process renders a pipeline to an image and returns the raw bytes
// (GeoTIFF unless the request asks for something else).
func (c *Client) Process(ctx context.Context, req ProcessRequest) ([]byte, error) {
	return c.post(ctx, "/process", req.payload())
}

// Statistics reduces a pipeline over the request geometry and returns the
// named scalar values. All-null results map to ErrEmpty.
func (c *Client) Statistics(ctx context.Context, req StatsRequest) (map[string]float64, error) {
	body, err := c.post(ctx, "/statistics", req.payload())
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Values map[string]*float64 `json:"values"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to parse statistics response: %v", err)
	}

	values := make(map[string]float64)
	for name, v := range decoded.Values {
		if v != nil {
			values[name] = *v
		}
	}
	if len(values) == 0 {
		return nil, ErrEmpty
	}
	return values, nil
}

// SeriesPoint is one dated scalar of a per-scene time series.
type SeriesPoint struct {
	Date  time.Time
	Value float64
}

// Series reduces a pipeline per scene and returns the dated statistics,
// nulls dropped and sorted ascending by acquisition date. Same-day scenes
// (adjacent tiles of one overpass) are averaged into a single point.
func (c *Client) Series(ctx context.Context, req SeriesRequest) ([]SeriesPoint, error) {
	body, err := c.post(ctx, "/series", req.payload())
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Points []struct {
			Date  string   `json:"date"`
			Value *float64 `json:"value"`
		} `json:"points"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to parse series response: %v", err)
	}

	byDay := make(map[time.Time][]float64)
	for _, p := range decoded.Points {
		if p.Value == nil {
			continue
		}
		date, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse series date %q: %v", p.Date, err)
		}
		byDay[date] = append(byDay[date], *p.Value)
	}
	if len(byDay) == 0 {
		return nil, ErrEmpty
	}

	points := make([]SeriesPoint, 0, len(byDay))
	for _, date := range utils.GetSortedKeys(byDay, true) {
		var sum float64
		for _, v := range byDay[date] {
			sum += v
		}
		points = append(points, SeriesPoint{Date: date, Value: sum / float64(len(byDay[date]))})
	}
	return points, nil
}

// Feature is a vector feature returned by a boundary query.
type Feature struct {
	Properties map[string]any `json:"properties"`
}

// Features runs a spatial filter against a vector collection and returns the
// intersecting features.
func (c *Client) Features(ctx context.Context, req FeatureRequest) ([]Feature, error) {
	body, err := c.post(ctx, "/features", req.payload())
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Features []Feature `json:"features"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to parse features response: %v", err)
	}
	if len(decoded.Features) == 0 {
		return nil, ErrEmpty
	}
	return decoded.Features, nil
}

// SubmitBatch submits an asynchronous full-resolution export job and returns
// its id. Completion is not awaited.
func (c *Client) SubmitBatch(ctx context.Context, req BatchRequest) (string, error) {
	body, err := c.post(ctx, "/batch", req.payload())
	if err != nil {
		return "", err
	}
	return decodeJobID(body)
}

// SubmitVideo submits a timelapse render job and returns its id.
func (c *Client) SubmitVideo(ctx context.Context, req VideoRequest) (string, error) {
	body, err := c.post(ctx, "/video", req.payload())
	if err != nil {
		return "", err
	}
	return decodeJobID(body)
}

func decodeJobID(body []byte) (string, error) {
	var decoded struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("failed to parse job response: %v", err)
	}
	if decoded.ID == "" {
		return "", fmt.Errorf("job response carried no id")
	}
	return decoded.ID, nil
}
