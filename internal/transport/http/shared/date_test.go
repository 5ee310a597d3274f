package shared

import (
	"net/http/httptest"
	"testing"
)

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2026-07-01"); err != nil {
		t.Fatalf("plain date rejected: %v", err)
	}
	if _, err := ParseDate("2026-07-01T09:00:00Z"); err != nil {
		t.Fatalf("RFC3339 rejected: %v", err)
	}
	if _, err := ParseDate("July 1st"); err == nil {
		t.Fatal("expected error for free-form date")
	}
}

func TestValidClock(t *testing.T) {
	for _, ok := range []string{"", "09:00", "23:59"} {
		if !ValidClock(ok) {
			t.Fatalf("ValidClock(%q) = false, want true", ok)
		}
	}
	for _, bad := range []string{"24:00", "9am", "09:60"} {
		if ValidClock(bad) {
			t.Fatalf("ValidClock(%q) = true, want false", bad)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	r := httptest.NewRequest("GET", "/payroll/records?year=2026&month=7", nil)
	year, month, err := ParsePeriod(r)
	if err != nil || year != 2026 || month != 7 {
		t.Fatalf("got (%d, %d, %v)", year, month, err)
	}

	r = httptest.NewRequest("GET", "/payroll/records", nil)
	year, month, err = ParsePeriod(r)
	if err != nil || year != 0 || month != 0 {
		t.Fatalf("absent period: got (%d, %d, %v), want zeros", year, month, err)
	}

	r = httptest.NewRequest("GET", "/payroll/records?year=2026", nil)
	if _, _, err := ParsePeriod(r); err == nil {
		t.Fatal("expected error for year without month")
	}

	r = httptest.NewRequest("GET", "/payroll/records?year=2026&month=13", nil)
	if _, _, err := ParsePeriod(r); err == nil {
		t.Fatal("expected error for month out of range")
	}
}
