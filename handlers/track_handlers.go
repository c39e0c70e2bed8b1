// api/handlers/track_handlers.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Witt007/techos-api/models"
	"github.com/Witt007/techos-api/store"
	"github.com/Witt007/techos-api/utils"
)

type TrackHandlers struct {
	Events store.EventStore
}

func NewTrackHandlers(events store.EventStore) *TrackHandlers {
	return &TrackHandlers{Events: events}
}

// TrackPageView ingests one beacon payload and appends exactly one document.
//
// Beacons are fire-and-forget, so malformed JSON is treated as an empty
// payload rather than a parse error; it then fails the required-field check
// like any other incomplete event.
func (h *TrackHandlers) TrackPageView(c *gin.Context) {
	var req models.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = models.TrackRequest{}
	}

	if req.SessionID == "" || req.Path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Missing required fields"})
		return
	}

	ev := models.PageViewEvent{
		SessionID: req.SessionID,
		Path:      req.Path,
		Referrer:  req.Referrer,
		UserAgent: req.UserAgent,
		Screen:    req.Screen,
		Timezone:  req.Timezone,
		Language:  req.Language,
		Languages: req.Languages,
		Timestamp: time.Now(),
		IP:        utils.ClientIP(c.Request.Header),
		Geo:       utils.GeoFromHeaders(c.Request.Header),
	}

	// Client clocks are taken at face value when parseable; anything else
	// falls back to the server clock assigned above.
	if req.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, req.Timestamp); err == nil {
			ev.Timestamp = ts
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Events.InsertPageView(ctx, ev); err != nil {
		log.Printf("Error inserting page view: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
