package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/g33150641-hub/matziprank/utils"
)

func okBody(x, y string) string {
	return fmt.Sprintf(`{"response":{"status":"OK","result":{"point":{"x":"%s","y":"%s"}}}}`, x, y)
}

const notFoundBody = `{"response":{"status":"NOT_FOUND"}}`

func newTestClient(serverURL string) *Client {
	c := NewClient("test-key", 2*time.Second, utils.NewLogger())
	return c.WithBaseURL(serverURL)
}

func TestResolveRoadType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("type"); got != "ROAD" {
			t.Errorf("first request type = %q, want ROAD", got)
		}
		fmt.Fprint(w, okBody("127.0276", "37.4979"))
	}))
	defer srv.Close()

	p, ok := newTestClient(srv.URL).Resolve(context.Background(), "서울 강남구 테헤란로 1")
	if !ok {
		t.Fatal("Resolve returned not-found for a resolvable address")
	}
	if p.Lat != 37.4979 || p.Lon != 127.0276 {
		t.Errorf("Resolve = (%v, %v), want (37.4979, 127.0276)", p.Lat, p.Lon)
	}
}

func TestResolveParcelFallback(t *testing.T) {
	var types []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addrType := r.URL.Query().Get("type")
		types = append(types, addrType)
		if addrType == "PARCEL" {
			fmt.Fprint(w, okBody("126.9780", "37.5665"))
			return
		}
		fmt.Fprint(w, notFoundBody)
	}))
	defer srv.Close()

	p, ok := newTestClient(srv.URL).Resolve(context.Background(), "서울 중구 태평로1가 31")
	if !ok {
		t.Fatal("Resolve should succeed via the parcel fallback")
	}
	if len(types) != 2 || types[0] != "ROAD" || types[1] != "PARCEL" {
		t.Errorf("request type sequence = %v, want [ROAD PARCEL]", types)
	}
	if p.Lat != 37.5665 {
		t.Errorf("Lat = %v, want 37.5665", p.Lat)
	}
}

func TestResolveStripsParenthetical(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("address"); got != "서울 마포구 양화로 45" {
			t.Errorf("address = %q, want parenthetical suffix stripped", got)
		}
		fmt.Fprint(w, okBody("126.9", "37.5"))
	}))
	defer srv.Close()

	if _, ok := newTestClient(srv.URL).Resolve(context.Background(), "서울 마포구 양화로 45 (서교동)"); !ok {
		t.Fatal("Resolve failed")
	}
}

func TestResolveFailuresAreSilent(t *testing.T) {
	// Only a clean not-found answer is worth retrying with the parcel type;
	// transport and decode failures abort after the first request.
	tests := []struct {
		name         string
		handler      http.HandlerFunc
		wantRequests int
	}{
		{"non-success status", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, notFoundBody)
		}, 2},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html>not json</html>")
		}, 1},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requests := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests++
				tt.handler(w, r)
			}))
			defer srv.Close()

			if _, ok := newTestClient(srv.URL).Resolve(context.Background(), "어딘가"); ok {
				t.Error("Resolve reported success on a failing backend")
			}
			if requests != tt.wantRequests {
				t.Errorf("made %d requests, want %d", requests, tt.wantRequests)
			}
		})
	}
}

func TestResolveEmptyAddress(t *testing.T) {
	if _, ok := newTestClient("http://127.0.0.1:0").Resolve(context.Background(), "  "); ok {
		t.Error("Resolve should not succeed for a blank address")
	}
}
