package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Geocoder resolves free-form address text to coordinates via a
// Nominatim-compatible endpoint.
type Geocoder struct {
	BaseURL string
	Client  *http.Client
}

var pinRe = regexp.MustCompile(`\b(\d{6})\b`)

func NewGeocoder(baseURL string) *Geocoder {
	return &Geocoder{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode looks up an address, auto-appending the country for better hit
// rate. If the full address misses and a 6-digit Indian PIN is present, the
// PIN alone is tried as a fallback.
func (g *Geocoder) Geocode(address string) (lat, lon float64, err error) {
	query := address
	if !strings.Contains(strings.ToLower(address), "india") {
		query = address + ", India"
	}

	lat, lon, err = g.lookup(query)
	if err == nil {
		return lat, lon, nil
	}

	if m := pinRe.FindStringSubmatch(address); m != nil {
		return g.lookup(m[1] + ", India")
	}
	return 0, 0, err
}

func (g *Geocoder) lookup(query string) (float64, float64, error) {
	u := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", g.BaseURL, url.QueryEscape(query))
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "savr_backend")

	resp, err := g.Client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocoder returned %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, fmt.Errorf("geocoder response decode failed: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("no match for %q", query)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, err
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

// ValidPincode reports whether s is a 6-digit Indian PIN code.
func ValidPincode(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
