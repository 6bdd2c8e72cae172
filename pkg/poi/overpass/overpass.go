// Package overpass fetches named points of interest from the OpenStreetMap
// Overpass API.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/czestoguide/cityguide/pkg/poi"
)

const (
	// DefaultURL is the public Overpass API interpreter endpoint.
	DefaultURL = "https://overpass-api.de/api/interpreter"

	// queryTimeoutSecs is the server-side timeout baked into the query.
	queryTimeoutSecs = 60
)

// BBox is a bounding box in Overpass order: south, west, north, east.
type BBox struct {
	South float64
	West  float64
	North float64
	East  float64
}

// CzestochowaBBox covers the city of Częstochowa.
var CzestochowaBBox = BBox{
	South: 50.7500,
	West:  19.0500,
	North: 50.8500,
	East:  19.1800,
}

// selectors are the tag filters queried, each as both node and way.
var selectors = []string{
	`["amenity"="restaurant"]`,
	`["amenity"="cafe"]`,
	`["tourism"="museum"]`,
	`["tourism"="hotel"]`,
	`["tourism"="attraction"]`,
	`["amenity"="place_of_worship"]`,
	`["leisure"="park"]`,
	`["historic"]`,
	`["amenity"="nightclub"]`,
	`["amenity"="bar"]`,
	`["amenity"="pub"]`,
	`["shop"="clothes"]`,
	`["shop"="mall"]`,
	`["shop"="department_store"]`,
	`["shop"="shoes"]`,
	`["shop"="fashion"]`,
}

// Client queries the Overpass API.
type Client struct {
	url        string
	bbox       BBox
	httpClient *http.Client
}

// Config holds configuration for the Overpass client.
type Config struct {
	// URL is the interpreter endpoint. Defaults to DefaultURL if empty.
	URL string

	// BBox bounds the query area. Defaults to CzestochowaBBox when zero.
	BBox BBox
}

// NewClient creates an Overpass API client.
func NewClient(cfg Config) *Client {
	u := cfg.URL
	if u == "" {
		u = DefaultURL
	}

	bbox := cfg.BBox
	if bbox == (BBox{}) {
		bbox = CzestochowaBBox
	}

	return &Client{
		url:  u,
		bbox: bbox,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// BuildQuery renders the Overpass QL query for the configured bounding box.
func (c *Client) BuildQuery() string {
	bbox := fmt.Sprintf("%g,%g,%g,%g", c.bbox.South, c.bbox.West, c.bbox.North, c.bbox.East)

	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", queryTimeoutSecs)
	for _, sel := range selectors {
		fmt.Fprintf(&b, "  node%s(%s);\n", sel, bbox)
		fmt.Fprintf(&b, "  way%s(%s);\n", sel, bbox)
	}
	b.WriteString(");\nout center;\n")

	return b.String()
}

// Fetch queries Overpass and converts the response into POIs. Elements
// without a name tag or without coordinates are skipped.
func (c *Client) Fetch(ctx context.Context) ([]poi.POI, error) {
	form := url.Values{"data": {c.BuildQuery()}}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending overpass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("overpass returned status %d: %s", resp.StatusCode, string(body))
	}

	var overpassResp response
	if err := json.NewDecoder(resp.Body).Decode(&overpassResp); err != nil {
		return nil, fmt.Errorf("decoding overpass response: %w", err)
	}

	pois := make([]poi.POI, 0, len(overpassResp.Elements))
	for _, el := range overpassResp.Elements {
		p, ok := elementToPOI(el)
		if !ok {
			continue
		}
		pois = append(pois, p)
	}

	return pois, nil
}

// elementToPOI converts one Overpass element. Ways carry their centroid in
// the center field; nodes carry lat/lon directly.
func elementToPOI(el element) (poi.POI, bool) {
	name := el.Tags["name"]
	if name == "" {
		return poi.POI{}, false
	}

	lat, lon := el.Lat, el.Lon
	if el.Type != "node" {
		if el.Center == nil {
			return poi.POI{}, false
		}
		lat, lon = el.Center.Lat, el.Center.Lon
	}
	if lat == 0 || lon == 0 {
		return poi.POI{}, false
	}

	nameEN := el.Tags["name:en"]
	if nameEN == "" {
		nameEN = name
	}

	city := el.Tags["addr:city"]
	if city == "" {
		city = "Częstochowa"
	}

	return poi.POI{
		ID:       el.ID,
		Name:     name,
		NameEN:   nameEN,
		Category: poi.DetermineCategory(el.Tags),
		Lat:      lat,
		Lon:      lon,
		Address: poi.Address{
			Street:      el.Tags["addr:street"],
			HouseNumber: el.Tags["addr:housenumber"],
			City:        city,
			Postcode:    el.Tags["addr:postcode"],
		},
		Contact: poi.Contact{
			Phone:   el.Tags["phone"],
			Website: el.Tags["website"],
			Email:   el.Tags["email"],
		},
		OpeningHours: el.Tags["opening_hours"],
		Cuisine:      el.Tags["cuisine"],
		Description:  el.Tags["description"],
		Wikipedia:    el.Tags["wikipedia"],
		Wikidata:     el.Tags["wikidata"],
	}, true
}
