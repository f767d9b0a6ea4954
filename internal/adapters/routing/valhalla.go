package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"
	"trip-route-resolver/internal/domain"
	"trip-route-resolver/internal/platform/httpclient"
	"trip-route-resolver/internal/ports"

	"github.com/twpayne/go-polyline"
)

// Valhalla reports "no path could be found" with this error code.
const errCodeNoPath = 442

// polyline6 shapes carry six decimal places.
var shapeCodec = polyline.Codec{Dim: 2, Scale: 1e6}

type routeLocation struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type autoCosting struct {
	FixedSpeed int `json:"fixed_speed,omitempty"`
	TopSpeed   int `json:"top_speed,omitempty"`
}

type routeRequest struct {
	Format         string                 `json:"format"`
	ShapeFormat    string                 `json:"shape_format"`
	Units          string                 `json:"units"`
	Alternates     int                    `json:"alternates"`
	SearchFilter   map[string]bool        `json:"search_filter"`
	Costing        string                 `json:"costing"`
	CostingOptions map[string]autoCosting `json:"costing_options"`
	Locations      []routeLocation        `json:"locations"`
}

type routeLeg struct {
	Shape string `json:"shape"`
}

type routeResponse struct {
	Trip *struct {
		Legs    []routeLeg `json:"legs"`
		Summary struct {
			Length float64 `json:"length"`
			Time   float64 `json:"time"`
		} `json:"summary"`
	} `json:"trip"`
}

type errorResponse struct {
	ErrorCode int    `json:"error_code"`
	Error     string `json:"error"`
}

// ValhallaOptions configures a ValhallaClient. Costing is the routing
// profile name; FixedSpeed and TopSpeed (km/h) tune it.
type ValhallaOptions struct {
	BaseURL    string
	UserAgent  string
	Costing    string
	FixedSpeed int
	TopSpeed   int
	Timeout    time.Duration
}

// ValhallaClient implements ports.Router against a Valhalla /route endpoint.
// The client is safe for concurrent use.
type ValhallaClient struct {
	session    httpclient.Doer
	baseURL    string
	userAgent  string
	costing    string
	fixedSpeed int
	topSpeed   int
}

func NewValhallaClient(opts ValhallaOptions) (*ValhallaClient, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("valhalla base url is empty")
	}

	costing := opts.Costing
	if costing == "" {
		costing = "auto"
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &ValhallaClient{
		session:    &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		costing:    costing,
		fixedSpeed: opts.FixedSpeed,
		topSpeed:   opts.TopSpeed,
	}, nil
}

// WithDoer swaps the HTTP transport.
func (v *ValhallaClient) WithDoer(d httpclient.Doer) *ValhallaClient {
	v.session = d
	return v
}

// Route fetches the best route between source and destination.
func (v *ValhallaClient) Route(
	ctx context.Context,
	tripCode string,
	source domain.Coordinates,
	destination domain.Coordinates,
) (domain.RouteResult, error) {
	bodyObj := routeRequest{
		Format:       "json",
		ShapeFormat:  "polyline6",
		Units:        "kilometers",
		Alternates:   0,
		SearchFilter: map[string]bool{"exclude_closures": true},
		Costing:      v.costing,
		CostingOptions: map[string]autoCosting{
			v.costing: {FixedSpeed: v.fixedSpeed, TopSpeed: v.topSpeed},
		},
		Locations: []routeLocation{
			{Lat: source.Lat, Lon: source.Lon},
			{Lat: destination.Lat, Lon: destination.Lon},
		},
	}

	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return domain.RouteResult{}, fmt.Errorf("route %s: marshal request: %w", tripCode, err)
	}

	req, err := httpclient.NewRequest(ctx, http.MethodPost, v.baseURL+"/route", v.userAgent, bytes.NewReader(payload))
	if err != nil {
		return domain.RouteResult{}, fmt.Errorf("route %s: %w", tripCode, err)
	}

	resp, err := httpclient.Do(v.session, req)
	if err != nil {
		if isNoPath(err) {
			return domain.RouteResult{}, fmt.Errorf("route %s: %w", tripCode, ports.ErrNoRoute)
		}
		return domain.RouteResult{}, fmt.Errorf("route %s: execute request: %w", tripCode, err)
	}
	defer resp.Body.Close()

	var rr routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return domain.RouteResult{}, fmt.Errorf("route %s: decode response: %w", tripCode, err)
	}

	if rr.Trip == nil || len(rr.Trip.Legs) == 0 {
		return domain.RouteResult{}, fmt.Errorf("route %s: %w", tripCode, ports.ErrNoRoute)
	}

	shape, err := decodeShape(rr.Trip.Legs)
	if err != nil {
		return domain.RouteResult{}, fmt.Errorf("route %s: %w", tripCode, err)
	}

	return domain.RouteResult{
		TripCode:        tripCode,
		LengthKm:        rr.Trip.Summary.Length,
		DurationSeconds: rr.Trip.Summary.Time,
		Source:          source,
		Destination:     destination,
		Shape:           shape,
	}, nil
}

// decodeShape joins the polyline6 geometry of every leg. Consecutive legs
// share their boundary point, which is kept once.
func decodeShape(legs []routeLeg) ([]domain.Coordinates, error) {
	var out []domain.Coordinates
	for i, leg := range legs {
		if leg.Shape == "" {
			continue
		}

		coords, _, err := shapeCodec.DecodeCoords([]byte(leg.Shape))
		if err != nil {
			return nil, fmt.Errorf("decode shape of leg %d: %w", i, err)
		}

		for j, c := range coords {
			if j == 0 && len(out) > 0 {
				last := out[len(out)-1]
				if samePoint(last, c) {
					continue
				}
			}
			out = append(out, domain.Coordinates{Lat: c[0], Lon: c[1]})
		}
	}
	return out, nil
}

// samePoint compares at half the polyline6 resolution.
func samePoint(a domain.Coordinates, b []float64) bool {
	return math.Abs(a.Lat-b[0]) < 5e-7 && math.Abs(a.Lon-b[1]) < 5e-7
}

func isNoPath(err error) bool {
	var se *httpclient.StatusError
	if !errors.As(err, &se) || se.Code != http.StatusBadRequest {
		return false
	}

	var er errorResponse
	if json.Unmarshal([]byte(se.Body), &er) != nil {
		return false
	}
	return er.ErrorCode == errCodeNoPath
}
