// Package beacon reports page views to the ingestion endpoint with
// fire-and-forget semantics: sends are asynchronous, failures are logged and
// swallowed, and analytics loss is accepted over caller-visible errors.
package beacon

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Witt007/techos-api/models"
)

const sessionKey = "sessionId"

// PageView is one page load as observed by the caller. Zero-value fields are
// sent as nulls and normalized by the server.
type PageView struct {
	Path      string
	Referrer  string
	UserAgent string
	Screen    *models.ScreenSize
	Timezone  string
	Language  string
	Languages []string
}

// Beacon posts page-view events to a track endpoint. Connections are kept
// alive across sends so an in-flight report is not torn down with its caller.
type Beacon struct {
	endpoint string
	client   *http.Client
	storage  Storage
	wg       sync.WaitGroup
}

// New creates a beacon posting to endpoint (the full /api/track URL) and
// keeping its session ID in storage.
func New(endpoint string, storage Storage) *Beacon {
	return &Beacon{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    4,
				IdleConnTimeout: 90 * time.Second,
			},
		},
		storage: storage,
	}
}

// SessionID returns the stable per-installation session identifier,
// generating and persisting one on first use. A storage write failure is
// logged and the fresh ID is used anyway; the next run simply gets a new one.
func (b *Beacon) SessionID() string {
	if id, ok := b.storage.Get(sessionKey); ok && id != "" {
		return id
	}
	id := uuid.New().String()
	if err := b.storage.Set(sessionKey, id); err != nil {
		log.Printf("beacon: failed to persist session id: %v", err)
	}
	return id
}

// Page reports one page view. It returns immediately; delivery happens in the
// background and is never acknowledged to the caller.
func (b *Beacon) Page(view PageView) {
	payload := models.TrackRequest{
		SessionID: b.SessionID(),
		Path:      view.Path,
		Referrer:  optional(view.Referrer),
		UserAgent: optional(view.UserAgent),
		Screen:    view.Screen,
		Timezone:  optional(view.Timezone),
		Language:  optional(view.Language),
		Languages: view.Languages,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.send(ctx, payload)
	}()
}

// Close waits for in-flight sends to finish. Events are still best-effort;
// this only keeps process exit from cancelling reports already on the wire.
func (b *Beacon) Close() {
	b.wg.Wait()
}

func (b *Beacon) send(ctx context.Context, payload models.TrackRequest) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("beacon: failed to encode event: %v", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		log.Printf("beacon: failed to build request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		log.Printf("beacon: send failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		log.Printf("beacon: track endpoint returned status %d", resp.StatusCode)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
