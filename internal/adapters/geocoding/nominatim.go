package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"trip-route-resolver/internal/domain"
	"trip-route-resolver/internal/platform/httpclient"
	"trip-route-resolver/internal/ports"
)

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NominatimOptions configures a NominatimClient.
type NominatimOptions struct {
	BaseURL   string
	Email     string
	UserAgent string
	Timeout   time.Duration
}

// NominatimClient implements ports.Geocoder against an OpenStreetMap
// Nominatim instance (/search, best match only).
//
// The client is safe for concurrent use. It issues exactly one request per
// call; throttling is the caller's concern.
type NominatimClient struct {
	session   httpclient.Doer
	baseURL   string
	email     string
	userAgent string
}

func NewNominatimClient(opts NominatimOptions) (*NominatimClient, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("nominatim base url is empty")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &NominatimClient{
		session:   &http.Client{Timeout: timeout},
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		email:     opts.Email,
		userAgent: opts.UserAgent,
	}, nil
}

// WithDoer swaps the HTTP transport.
func (n *NominatimClient) WithDoer(d httpclient.Doer) *NominatimClient {
	n.session = d
	return n
}

// Geocode resolves name to the first Nominatim match.
func (n *NominatimClient) Geocode(ctx context.Context, name string) (domain.GeocodeResult, error) {
	if strings.TrimSpace(name) == "" {
		return domain.GeocodeResult{}, errors.New("geocode: name must be non-empty")
	}

	req, err := httpclient.NewRequest(ctx, http.MethodGet, n.baseURL+"/search", n.userAgent, nil)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("geocode %q: %w", name, err)
	}

	q := req.URL.Query()
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("addressdetails", "0")
	if n.email != "" {
		q.Set("email", n.email)
	}
	q.Set("q", name)
	req.URL.RawQuery = q.Encode()

	resp, err := httpclient.Do(n.session, req)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("geocode %q: execute request: %w", name, err)
	}
	defer resp.Body.Close()

	var decoded []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("geocode %q: decode response: %w", name, err)
	}

	if len(decoded) == 0 {
		return domain.GeocodeResult{}, fmt.Errorf("geocode %q: %w", name, ports.ErrLocationNotFound)
	}

	// Nominatim encodes coordinates as decimal strings.
	lat, err := strconv.ParseFloat(decoded[0].Lat, 64)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("geocode %q: invalid latitude %q: %w", name, decoded[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(decoded[0].Lon, 64)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("geocode %q: invalid longitude %q: %w", name, decoded[0].Lon, err)
	}

	return domain.GeocodeResult{
		Coords:  domain.Coordinates{Lat: lat, Lon: lon},
		Address: decoded[0].DisplayName,
	}, nil
}
