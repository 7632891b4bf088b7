package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/debeshghorui/Roomsy/internal/domain"
	"github.com/debeshghorui/Roomsy/internal/platform/logger"
	"go.uber.org/zap"
)

const (
	mapboxBaseURL  = "https://api.mapbox.com/geocoding/v5/mapbox.places"
	defaultTimeout = 10 * time.Second
	resultLimit    = 1
)

// MapboxClient implements domain.Geocoder against the Mapbox forward
// geocoding API.
type MapboxClient struct {
	httpClient *http.Client
	token      string
	baseURL    string
	logger     *logger.Logger
}

func NewMapboxClient(token string, log *logger.Logger) *MapboxClient {
	return &MapboxClient{
		httpClient: &http.Client{Timeout: defaultTimeout},
		token:      token,
		baseURL:    mapboxBaseURL,
		logger:     log.Named("MapboxClient"),
	}
}

type mapboxResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Forward resolves a free-text query to coordinates. An empty feature list
// is a valid response, returned as an empty slice.
func (c *MapboxClient) Forward(ctx context.Context, query string) ([]domain.GeoPoint, error) {
	endpoint := fmt.Sprintf("%s/%s.json?access_token=%s&limit=%d",
		c.baseURL, url.PathEscape(query), url.QueryEscape(c.token), resultLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build geocoding request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Geocoding request failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Geocoding returned non-OK status",
			zap.String("query", query), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("geocoding status %d", resp.StatusCode)
	}

	var body mapboxResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode geocoding response: %w", err)
	}

	points := make([]domain.GeoPoint, 0, len(body.Features))
	for _, feature := range body.Features {
		if len(feature.Geometry.Coordinates) < 2 {
			continue
		}
		points = append(points, domain.GeoPoint{
			Longitude: feature.Geometry.Coordinates[0],
			Latitude:  feature.Geometry.Coordinates[1],
		})
	}

	c.logger.Debug("Geocoding resolved",
		zap.String("query", query), zap.Int("matches", len(points)))
	return points, nil
}
