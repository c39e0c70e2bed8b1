// api/utils/request_utils.go
package utils

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/Witt007/techos-api/models"
)

// ClientIP derives the caller's address from proxy headers: the first
// comma-separated value of X-Forwarded-For, then X-Real-IP. Returns nil when
// neither is present; the socket address is deliberately not used because the
// service always sits behind an edge proxy.
func ClientIP(h http.Header) *string {
	if fwd := h.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return &first
		}
	}
	if real := strings.TrimSpace(h.Get("X-Real-IP")); real != "" {
		return &real
	}
	return nil
}

// GeoFromHeaders reads the geolocation the hosting edge attaches to each
// request (Vercel header names). The city arrives URI-escaped. Returns nil
// when no geo header is present at all, e.g. when self-hosted.
func GeoFromHeaders(h http.Header) *models.GeoInfo {
	geo := &models.GeoInfo{
		Country:   h.Get("x-vercel-ip-country"),
		Region:    h.Get("x-vercel-ip-country-region"),
		City:      h.Get("x-vercel-ip-city"),
		Latitude:  h.Get("x-vercel-ip-latitude"),
		Longitude: h.Get("x-vercel-ip-longitude"),
	}
	if geo.City != "" {
		if city, err := url.QueryUnescape(geo.City); err == nil {
			geo.City = city
		}
	}
	if geo.Country == "" && geo.Region == "" && geo.City == "" && geo.Latitude == "" && geo.Longitude == "" {
		return nil
	}
	return geo
}
