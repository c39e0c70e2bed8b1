// api/models/event.go
package models

import "time"

// ScreenSize is the client viewport reported by the beacon.
type ScreenSize struct {
	Width  int `json:"width" bson:"width"`
	Height int `json:"height" bson:"height"`
}

// GeoInfo is the edge-injected geolocation attached at ingestion time.
// It is never computed by this service; when the hosting platform does not
// provide it the whole struct stays nil.
type GeoInfo struct {
	Country   string `json:"country" bson:"country"`
	Region    string `json:"region" bson:"region"`
	City      string `json:"city" bson:"city"`
	Latitude  string `json:"latitude" bson:"latitude"`
	Longitude string `json:"longitude" bson:"longitude"`
}

// PageViewEvent is the sole persisted entity: one document per page load,
// append-only. Optional fields are pointers so absent values are stored as
// explicit nulls and the document shape stays uniform.
type PageViewEvent struct {
	SessionID string      `json:"sessionId" bson:"session_id"`
	Path      string      `json:"path" bson:"path"`
	Referrer  *string     `json:"referrer" bson:"referrer"`
	UserAgent *string     `json:"userAgent" bson:"user_agent"`
	Screen    *ScreenSize `json:"screen" bson:"screen"`
	Timezone  *string     `json:"timezone" bson:"timezone"`
	Language  *string     `json:"language" bson:"language"`
	Languages []string    `json:"languages" bson:"languages"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
	IP        *string     `json:"ip" bson:"ip"`
	Geo       *GeoInfo    `json:"geo" bson:"geo"`
}

// TrackRequest is the POST /api/track payload. Timestamp is a raw string so
// an unparseable client clock degrades to the server clock instead of a 400.
type TrackRequest struct {
	SessionID string      `json:"sessionId"`
	Path      string      `json:"path"`
	Referrer  *string     `json:"referrer"`
	UserAgent *string     `json:"userAgent"`
	Screen    *ScreenSize `json:"screen"`
	Timezone  *string     `json:"timezone"`
	Language  *string     `json:"language"`
	Languages []string    `json:"languages"`
	Timestamp string      `json:"timestamp"`
}
