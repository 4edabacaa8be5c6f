package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultEndpoint = "https://nominatim.openstreetmap.org/search"

// Address is the free-form delivery address from the submission form.
type Address struct {
	Street  string
	City    string
	Country string
}

func (a Address) query() string {
	parts := []string{}
	for _, p := range []string{a.Street, a.City, a.Country} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// Empty reports whether no address field is set.
func (a Address) Empty() bool {
	return a.query() == ""
}

// MapArtifacts are the optional enrichments embedded in the
// notification email. Either field may be empty when the lookup fails;
// a missing map degrades gracefully.
type MapArtifacts struct {
	ImageURL string
	LinkURL  string
}

// Client resolves addresses to map artifacts through a
// Nominatim-compatible geocoding endpoint (free, no API key, subject to
// the usage policy's 1 req/s limit).
type Client struct {
	httpClient *http.Client
	endpoint   string
	userAgent  string
}

// NewClient creates a geocoding client. userAgent identifies the
// deployment per the Nominatim usage policy; empty picks a generic one.
func NewClient(userAgent string) *Client {
	if userAgent == "" {
		userAgent = "fedex-task-system/1.0"
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		endpoint:  defaultEndpoint,
		userAgent: userAgent,
	}
}

// NewClientWithEndpoint points the client at a self-hosted or test
// endpoint.
func NewClientWithEndpoint(endpoint, userAgent string) *Client {
	c := NewClient(userAgent)
	c.endpoint = endpoint
	return c
}

// nominatimResult is the subset of the search response we read.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve geocodes the address and builds map artifacts. Best-effort:
// any failure returns empty artifacts, never an error a caller should
// abort a request over.
func (c *Client) Resolve(ctx context.Context, addr Address) MapArtifacts {
	q := addr.query()
	if q == "" {
		return MapArtifacts{}
	}

	u := fmt.Sprintf("%s?format=json&limit=1&q=%s", c.endpoint, url.QueryEscape(q))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return MapArtifacts{}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return MapArtifacts{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return MapArtifacts{}
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return MapArtifacts{}
	}
	if len(results) == 0 || results[0].Lat == "" || results[0].Lon == "" {
		return MapArtifacts{}
	}

	lat, lon := results[0].Lat, results[0].Lon
	return MapArtifacts{
		ImageURL: fmt.Sprintf("https://staticmap.openstreetmap.de/staticmap.php?center=%s,%s&zoom=15&size=560x300&markers=%s,%s,red-pushpin", lat, lon, lat, lon),
		LinkURL:  fmt.Sprintf("https://www.openstreetmap.org/?mlat=%s&mlon=%s#map=17/%s/%s", lat, lon, lat, lon),
	}
}
