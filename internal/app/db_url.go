package app

import (
	"net/url"
	"strings"
)

// normalizeDBURL appends disable_prepared_binary_result=yes when the flag is
// set. Connection pool proxies in transaction mode reject prepared binary
// results, so the option has to travel inside the DSN. Both URL and keyword
// DSN forms are handled.
func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	if strings.Contains(raw, "disable_prepared_binary_result") {
		return raw
	}

	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		query := parsed.Query()
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
		return parsed.String()
	}

	return strings.TrimSpace(raw) + " disable_prepared_binary_result=yes"
}

// dbNameFromURL extracts the database name for span attribution. An empty
// return means the DSN did not carry one.
func dbNameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)

	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		return strings.TrimPrefix(parsed.Path, "/")
	}

	for _, field := range strings.Fields(raw) {
		key, value, ok := strings.Cut(field, "=")
		if ok && key == "dbname" {
			return strings.Trim(value, `"'`)
		}
	}

	return ""
}
