package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); !strings.Contains(got, "Lagos") {
			t.Errorf("query missing address: %q", got)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("requests must carry a User-Agent")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"6.4550","lon":"3.3841"}]`))
	}))
	defer srv.Close()

	c := NewClientWithEndpoint(srv.URL, "test-agent")
	art := c.Resolve(context.Background(), Address{Street: "1 Marina Rd", City: "Lagos", Country: "NG"})

	if !strings.Contains(art.LinkURL, "mlat=6.4550") || !strings.Contains(art.LinkURL, "mlon=3.3841") {
		t.Errorf("unexpected link URL: %s", art.LinkURL)
	}
	if !strings.Contains(art.ImageURL, "center=6.4550,3.3841") {
		t.Errorf("unexpected image URL: %s", art.ImageURL)
	}
}

func TestResolve_NoResultsDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClientWithEndpoint(srv.URL, "")
	art := c.Resolve(context.Background(), Address{City: "Nowhere"})
	if art.ImageURL != "" || art.LinkURL != "" {
		t.Errorf("empty result should yield empty artifacts, got %+v", art)
	}
}

func TestResolve_ServerErrorDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClientWithEndpoint(srv.URL, "")
	art := c.Resolve(context.Background(), Address{City: "Lagos"})
	if art.ImageURL != "" || art.LinkURL != "" {
		t.Errorf("server error should yield empty artifacts, got %+v", art)
	}
}

func TestResolve_EmptyAddressSkipsLookup(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClientWithEndpoint(srv.URL, "")
	art := c.Resolve(context.Background(), Address{})
	if called {
		t.Error("empty address must not hit the geocoder")
	}
	if art.ImageURL != "" || art.LinkURL != "" {
		t.Errorf("empty address should yield empty artifacts, got %+v", art)
	}
}
