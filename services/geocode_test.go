package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGeocodeAppendsCountry(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(`[{"lat":"17.7041","lon":"83.2977"}]`))
	}))
	defer srv.Close()

	g := NewGeocoder(srv.URL)
	lat, lon, err := g.Geocode("MVP Colony, Visakhapatnam")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(gotQuery, ", India") {
		t.Errorf("query = %q, want country appended", gotQuery)
	}
	if lat != 17.7041 || lon != 83.2977 {
		t.Errorf("got (%v, %v), want (17.7041, 83.2977)", lat, lon)
	}
}

func TestGeocodePinFallback(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		queries = append(queries, q)
		if strings.HasPrefix(q, "530016") {
			w.Write([]byte(`[{"lat":"17.73","lon":"83.31"}]`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g := NewGeocoder(srv.URL)
	lat, lon, err := g.Geocode("Nonexistent Street 42, 530016")
	if err != nil {
		t.Fatal(err)
	}
	if len(queries) != 2 {
		t.Fatalf("lookups = %d, want full address then PIN", len(queries))
	}
	if lat != 17.73 || lon != 83.31 {
		t.Errorf("got (%v, %v), want the PIN match", lat, lon)
	}
}

func TestGeocodeNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g := NewGeocoder(srv.URL)
	if _, _, err := g.Geocode("nowhere at all"); err == nil {
		t.Fatal("expected an error for an unmatched address")
	}
}

func TestValidPincode(t *testing.T) {
	valid := []string{"530016", " 530016 "}
	for _, s := range valid {
		if !ValidPincode(s) {
			t.Errorf("ValidPincode(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "53001", "5300166", "53001a", "53 016"}
	for _, s := range invalid {
		if ValidPincode(s) {
			t.Errorf("ValidPincode(%q) = true, want false", s)
		}
	}
}
