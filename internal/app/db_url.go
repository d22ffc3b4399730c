package app

import (
	"net/url"
	"strings"
)

// normalizeDBURL fills lib/pq connection options the service relies on. Values already
// present in the URL are kept. Key/value DSNs are returned unchanged.
func normalizeDBURL(raw, applicationName string, binaryParameters bool) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	changed := false
	if binaryParameters && query.Get("binary_parameters") == "" {
		query.Set("binary_parameters", "yes")
		changed = true
	}
	if applicationName != "" && query.Get("application_name") == "" {
		query.Set("application_name", applicationName)
		changed = true
	}
	if !changed {
		return raw
	}

	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(token, "dbname="))
		name = strings.Trim(name, `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}
