package utils

import (
	"fmt"
	"net/url"
)

// ValidateHTTPURL checks webhookUrl parameters (spec.md §4.D, §4.E) before
// they are persisted or dialed.
func ValidateHTTPURL(urlStr string) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("URL must start with https:// or http://")
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
