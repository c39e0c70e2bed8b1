package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTrackRouter(st *fakeEventStore) *gin.Engine {
	r := gin.New()
	r.POST("/api/track", NewTrackHandlers(st).TrackPageView)
	return r
}

func postTrack(t *testing.T, r *gin.Engine, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/track", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTrackPageView_Minimal(t *testing.T) {
	st := &fakeEventStore{}
	w := postTrack(t, newTrackRouter(st), `{"sessionId":"s1","path":"/"}`, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		OK bool `json:"ok"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || !resp.OK {
		t.Fatalf("body = %s, want {\"ok\":true}", w.Body.String())
	}

	if len(st.inserted) != 1 {
		t.Fatalf("inserted %d events, want 1", len(st.inserted))
	}
	ev := st.inserted[0]
	if ev.SessionID != "s1" || ev.Path != "/" {
		t.Errorf("stored event = %+v", ev)
	}
	// Optional fields normalize to nulls, timestamp to the server clock.
	if ev.Referrer != nil || ev.UserAgent != nil || ev.Screen != nil || ev.IP != nil || ev.Geo != nil {
		t.Errorf("optional fields not normalized to nil: %+v", ev)
	}
	if time.Since(ev.Timestamp) > time.Minute {
		t.Errorf("timestamp not defaulted to now: %v", ev.Timestamp)
	}
}

func TestTrackPageView_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing path", `{"sessionId":"s1"}`},
		{"missing sessionId", `{"path":"/"}`},
		{"empty object", `{}`},
		{"malformed JSON treated as empty payload", `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &fakeEventStore{}
			w := postTrack(t, newTrackRouter(st), tt.body, nil)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			var resp struct {
				OK    bool   `json:"ok"`
				Error string `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid response body: %v", err)
			}
			if resp.OK || resp.Error != "Missing required fields" {
				t.Errorf("body = %s", w.Body.String())
			}
			if len(st.inserted) != 0 {
				t.Errorf("inserted %d events, want 0", len(st.inserted))
			}
		})
	}
}

func TestTrackPageView_FullPayload(t *testing.T) {
	st := &fakeEventStore{}
	header := http.Header{}
	header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.1")
	header.Set("x-vercel-ip-country", "DE")
	header.Set("x-vercel-ip-city", "Frankfurt%20am%20Main")

	body := `{
		"sessionId":"s1","path":"/blog?tag=go",
		"referrer":"https://google.com/","userAgent":"Mozilla/5.0",
		"screen":{"width":1920,"height":1080},
		"timezone":"Europe/Berlin","language":"de",
		"languages":["de","en"],
		"timestamp":"2026-08-29T10:00:00Z"
	}`
	w := postTrack(t, newTrackRouter(st), body, header)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(st.inserted) != 1 {
		t.Fatalf("inserted %d events, want 1", len(st.inserted))
	}
	ev := st.inserted[0]

	if ev.Referrer == nil || *ev.Referrer != "https://google.com/" {
		t.Errorf("referrer = %v", ev.Referrer)
	}
	if ev.Screen == nil || ev.Screen.Width != 1920 || ev.Screen.Height != 1080 {
		t.Errorf("screen = %v", ev.Screen)
	}
	if len(ev.Languages) != 2 {
		t.Errorf("languages = %v", ev.Languages)
	}
	if !ev.Timestamp.Equal(time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("client timestamp not honored: %v", ev.Timestamp)
	}
	if ev.IP == nil || *ev.IP != "203.0.113.9" {
		t.Errorf("ip = %v, want first X-Forwarded-For value", ev.IP)
	}
	if ev.Geo == nil || ev.Geo.Country != "DE" || ev.Geo.City != "Frankfurt am Main" {
		t.Errorf("geo = %+v", ev.Geo)
	}
}

func TestTrackPageView_UnparseableTimestampFallsBack(t *testing.T) {
	st := &fakeEventStore{}
	w := postTrack(t, newTrackRouter(st), `{"sessionId":"s1","path":"/","timestamp":"yesterday"}`, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if time.Since(st.inserted[0].Timestamp) > time.Minute {
		t.Errorf("timestamp should fall back to server clock, got %v", st.inserted[0].Timestamp)
	}
}

func TestTrackPageView_StoreError(t *testing.T) {
	st := &fakeEventStore{insertErr: errors.New("mongo down")}
	w := postTrack(t, newTrackRouter(st), `{"sessionId":"s1","path":"/"}`, nil)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	// The internal detail must not leak.
	if strings.Contains(w.Body.String(), "mongo") {
		t.Errorf("response leaks store error: %s", w.Body.String())
	}
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Error != "Internal Server Error" {
		t.Errorf("body = %s", w.Body.String())
	}
}
