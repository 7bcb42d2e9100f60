package utils

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryInt reads an integer query parameter, returning def when absent or malformed.
func QueryInt(q url.Values, key string, def int) int {
	if v := strings.TrimSpace(q.Get(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// QueryFloat reads a float query parameter, returning def when absent or malformed.
func QueryFloat(q url.Values, key string, def float64) float64 {
	if v := strings.TrimSpace(q.Get(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// QueryBool reads a boolean query parameter, returning def when absent or malformed.
func QueryBool(q url.Values, key string, def bool) bool {
	if v := strings.TrimSpace(q.Get(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
