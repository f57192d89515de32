package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/g33150641-hub/matziprank/utils"
)

const defaultBaseURL = "http://api.vworld.kr/req/address"

// errNoMatch means the service answered but found no coordinate for the
// address/type pair. Only this outcome warrants retrying with another type.
var errNoMatch = errors.New("geocode: no match")

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lon float64
}

type vworldBody struct {
	Response struct {
		Status string `json:"status"`
		Result struct {
			Point struct {
				X float64 `json:"x,string"`
				Y float64 `json:"y,string"`
			} `json:"point"`
		} `json:"result"`
	} `json:"response"`
}

// Client resolves free-text addresses to coordinates via the vworld address
// service. Lookups are best-effort: any network error, timeout or malformed
// response yields (Point{}, false) and never an error.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	logger     *utils.Logger
}

// NewClient creates a geocoding client with a bounded per-request timeout.
func NewClient(apiKey string, timeout time.Duration, logger *utils.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		logger:     logger,
	}
}

// WithBaseURL overrides the service endpoint. Used by tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// Resolve looks up an address, requesting a road-type match first and
// retrying once with a parcel-type match when the service reports a
// non-success status. Parenthetical suffixes are stripped before lookup.
func (c *Client) Resolve(ctx context.Context, address string) (Point, bool) {
	clean := address
	if i := strings.Index(clean, "("); i >= 0 {
		clean = clean[:i]
	}
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return Point{}, false
	}

	for _, addrType := range []string{"ROAD", "PARCEL"} {
		p, err := c.lookup(ctx, clean, addrType)
		if err == nil {
			return p, true
		}
		if !errors.Is(err, errNoMatch) {
			// The request itself failed; a second type won't fare better.
			c.logger.Debug("[geocode] %s lookup failed: %v", addrType, err)
			break
		}
	}

	c.logger.Debug("[geocode] No coordinates for %q", clean)
	return Point{}, false
}

func (c *Client) lookup(ctx context.Context, address, addrType string) (Point, error) {
	params := url.Values{}
	params.Set("service", "address")
	params.Set("request", "getcoord")
	params.Set("version", "2.0")
	params.Set("crs", "epsg:4326")
	params.Set("address", address)
	params.Set("refine", "true")
	params.Set("simple", "false")
	params.Set("format", "json")
	params.Set("type", addrType)
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Point{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Point{}, fmt.Errorf("%s request: %w", addrType, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("%s request: http %d", addrType, resp.StatusCode)
	}

	var body vworldBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Point{}, fmt.Errorf("%s response: %w", addrType, err)
	}
	if body.Response.Status != "OK" {
		return Point{}, errNoMatch
	}

	return Point{
		Lat: body.Response.Result.Point.Y,
		Lon: body.Response.Result.Point.X,
	}, nil
}
