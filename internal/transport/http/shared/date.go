package shared

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// ValidClock reports whether value is a well-formed "HH:MM" time.
func ValidClock(value string) bool {
	if value == "" {
		return true
	}
	_, err := time.Parse("15:04", value)
	return err == nil
}

// ParsePeriod reads optional year/month query parameters; both must be
// present together.
func ParsePeriod(r *http.Request) (int, int, error) {
	rawYear := r.URL.Query().Get("year")
	rawMonth := r.URL.Query().Get("month")
	if rawYear == "" && rawMonth == "" {
		return 0, 0, nil
	}
	year, err := strconv.Atoi(rawYear)
	if err != nil || year < 1 {
		return 0, 0, errors.New("year and month query parameters must be given together")
	}
	month, err := strconv.Atoi(rawMonth)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, errors.New("month must be between 1 and 12")
	}
	return year, month, nil
}

func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return host
}
