package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tripmate/console/internal/models"
	"github.com/tripmate/console/internal/observability"
)

// Resolver produces the road-following polyline between two waypoints.
type Resolver interface {
	Route(ctx context.Context, from, to models.LatLng) []models.LatLng
}

// OSRMClient resolves route geometry against an OSRM HTTP server.
type OSRMClient struct {
	Endpoint string
	Profile  string
	Client   *http.Client
}

func NewOSRMClient(endpoint, profile string) *OSRMClient {
	if profile == "" {
		profile = "driving"
	}
	return &OSRMClient{Endpoint: endpoint, Profile: profile, Client: &http.Client{Timeout: 2 * time.Second}}
}

// Route queries OSRM /route between the waypoints and returns the full
// geometry as (lat, lng) pairs. On any failure it degrades to the straight
// line [from, to]; the display must always have something to draw between
// two known points.
func (o *OSRMClient) Route(ctx context.Context, from, to models.LatLng) []models.LatLng {
	// OSRM route query: /route/v1/{profile}/{lon1},{lat1};{lon2},{lat2}
	url := fmt.Sprintf("%s/route/v1/%s/%.6f,%.6f;%.6f,%.6f?overview=full&geometries=geojson",
		o.Endpoint, o.Profile, from.Lng, from.Lat, to.Lng, to.Lat)
	path, err := o.fetch(ctx, url)
	if err != nil {
		observability.RouteLookupsTotal.WithLabelValues("fallback").Inc()
		return []models.LatLng{from, to}
	}
	observability.RouteLookupsTotal.WithLabelValues("ok").Inc()
	return path
}

func (o *OSRMClient) fetch(ctx context.Context, url string) ([]models.LatLng, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var out struct {
		Routes []struct {
			Geometry struct {
				Coordinates [][2]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"routes"`
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.Code != "Ok" || len(out.Routes) == 0 {
		return nil, fmt.Errorf("osrm no route: %v", out.Code)
	}
	coords := out.Routes[0].Geometry.Coordinates
	path := make([]models.LatLng, 0, len(coords))
	for _, c := range coords {
		// geojson is [lng, lat]
		path = append(path, models.LatLng{Lat: c[1], Lng: c[0]})
	}
	return path, nil
}
