package utils

import (
	"fmt"
	"net/url"
)

// WithApplicationName tags a Postgres URL with application_name so
// connections are attributable in pg_stat_activity.
func WithApplicationName(baseURL, appName string) (string, error) {
	if appName == "" {
		return baseURL, nil
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid DB URL: %w", err)
	}
	q := u.Query()
	if q.Get("application_name") == "" {
		q.Set("application_name", appName)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
