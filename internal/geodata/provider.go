// Package geodata fetches remote-sensing reductions (a mean over a buffered
// point and a date window) for the bands the scoring engine consumes.
package geodata

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

	"github.com/phuslu/log"
	"golang.org/x/time/rate"
)

// Band names a dataset band the reducer understands.
type Band string

const (
	BandNDVI          Band = "MODIS/061/MOD13Q1:NDVI"
	BandPrecipitation Band = "UCSB-CHG/CHIRPS/DAILY:precipitation"
	BandVV            Band = "COPERNICUS/S1_GRD:VV"
	BandNO2           Band = "COPERNICUS/S5P/NRTI/L3_NO2:NO2_column_number_density"
	BandCO            Band = "COPERNICUS/S5P/NRTI/L3_CO:CO_column_number_density"
	BandSO2           Band = "COPERNICUS/S5P/NRTI/L3_SO2:SO2_column_number_density"
	BandO3            Band = "COPERNICUS/S5P/NRTI/L3_O3:O3_column_number_density"
	BandAOD           Band = "MODIS/006/MCD19A2_GRANULES:Optical_Depth_055"
	BandPM25          Band = "NASA/GEOS-CF/v1/rpl/htf:PM25"
	BandLST           Band = "MODIS/006/MOD11A1:LST_Day_1km"
	BandNightLight    Band = "NOAA/VIIRS/DNB/MONTHLY_V1/VCMSLCFG:avg_rad"
	BandSolar         Band = "ECMWF/ERA5_LAND/MONTHLY:surface_solar_radiation_downwards_sum"
)

// Query is one reduction request.
type Query struct {
	Band         Band
	Lat, Lon     float64
	Start, End   time.Time
	BufferMeters float64
	ScaleMeters  float64
}

// Provider returns the mean of a band around a point, or nil when the data
// source has no observation for the window.
type Provider interface {
	Fetch(ctx context.Context, q Query) (*float64, error)
}

const (
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5
)

// HTTPProvider talks to a reducer service over HTTP.
type HTTPProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type Option func(*HTTPProvider)

func WithHTTPClient(c *http.Client) Option {
	return func(p *HTTPProvider) { p.httpClient = c }
}

func WithTimeout(d time.Duration) Option {
	return func(p *HTTPProvider) { p.httpClient.Timeout = d }
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(rps float64) Option {
	return func(p *HTTPProvider) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func NewHTTPProvider(baseURL, apiKey string, opts ...Option) *HTTPProvider {
	p := &HTTPProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// APIError is a non-200 reducer response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("geodata: reducer error %d: %s", e.StatusCode, e.Message)
}

type reduceResponse struct {
	Value *float64 `json:"value"`
}

func (p *HTTPProvider) Fetch(ctx context.Context, q Query) (*float64, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("geodata: rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("band", string(q.Band))
	params.Set("lat", strconv.FormatFloat(q.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(q.Lon, 'f', -1, 64))
	params.Set("start", q.Start.Format(time.DateOnly))
	params.Set("end", q.End.Format(time.DateOnly))
	params.Set("buffer", strconv.FormatFloat(q.BufferMeters, 'f', -1, 64))
	params.Set("scale", strconv.FormatFloat(q.ScaleMeters, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1/reduce?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geodata: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	log.Debug().Str("band", string(q.Band)).Float64("lat", q.Lat).Float64("lon", q.Lon).Msg("geodata reduce")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geodata: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	var out reduceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("geodata: decode: %w", err)
	}
	return out.Value, nil
}

// ErrUnavailable is returned by Unavailable.
var ErrUnavailable = errors.New("geodata: provider unavailable")

// Unavailable is the offline provider: every fetch fails.
type Unavailable struct{}

func (Unavailable) Fetch(context.Context, Query) (*float64, error) { return nil, ErrUnavailable }

// Static serves fixed band values regardless of location; absent bands are
// unobserved.
type Static map[Band]float64

func (s Static) Fetch(_ context.Context, q Query) (*float64, error) {
	v, ok := s[q.Band]
	if !ok {
		return nil, nil
	}
	return &v, nil
}
