// Package maplink builds "open in maps" URLs for the driver dashboard.
package maplink

import "net/url"

const (
	searchBase     = "https://www.google.com/maps/search/?api=1&query="
	directionsBase = "https://www.google.com/maps/dir/?api=1&destination="
)

// Pickup resolves the restaurant side of a delivery. A stored maps URL passes
// through untouched; free text becomes a maps search.
func Pickup(location string) string {
	if location == "" {
		return ""
	}
	if isURL(location) {
		return location
	}
	return searchBase + url.QueryEscape(location)
}

// Destination builds a directions link to the customer's free-text address.
func Destination(address string) string {
	if address == "" {
		return ""
	}
	return directionsBase + url.QueryEscape(address)
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}
