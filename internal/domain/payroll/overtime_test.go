package payroll

import (
	"fmt"
	"testing"
)

func TestQuantizeDay(t *testing.T) {
	cases := []struct {
		name     string
		clockIn  string
		clockOut string
		ot1      float64
		ot2      float64
	}{
		{"before standard end", "09:00", "15:30", 0, 0},
		{"at standard end", "09:00", "16:00", 0, 0},
		{"inside grace buffer", "09:00", "16:07", 0, 0},
		{"one past buffer", "09:00", "16:08", 0.5, 0},
		{"half hour edge not crossed", "09:00", "16:37", 0.5, 0},
		{"half hour edge crossed", "09:00", "16:38", 1.0, 0},
		{"hour edge not crossed", "09:00", "17:07", 1.0, 0},
		{"hour edge crossed", "09:00", "17:08", 1.5, 0},
		{"ninety edge not crossed", "09:00", "17:37", 1.5, 0},
		{"ninety edge crossed", "09:00", "17:38", 2.0, 0},
		{"tier one full window", "09:00", "18:00", 2.0, 0},
		{"tier two inside buffer", "09:00", "18:07", 2.0, 0},
		{"tier two starts", "09:00", "18:08", 2.0, 0.5},
		{"tier two full window", "09:00", "20:00", 2.0, 2.0},
		{"flat inside buffer", "09:00", "20:07", 2.0, 2.0},
		{"first flat increment", "09:00", "20:08", 2.0, 2.5},
		{"flat exact half hour", "09:00", "20:37", 2.0, 2.5},
		{"flat remainder grants step", "09:00", "20:38", 2.0, 3.0},
		{"documented example", "09:00", "20:47", 2.0, 3.0},
		{"end of day", "09:00", "23:59", 2.0, 6.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := QuantizeDay(tc.clockIn, tc.clockOut)
			if got.OT1Hours != tc.ot1 || got.OT2Hours != tc.ot2 {
				t.Fatalf("QuantizeDay(%q, %q) = (%.1f, %.1f), want (%.1f, %.1f)",
					tc.clockIn, tc.clockOut, got.OT1Hours, got.OT2Hours, tc.ot1, tc.ot2)
			}
		})
	}
}

func TestQuantizeDayOpenOrMalformed(t *testing.T) {
	cases := []struct {
		name     string
		clockIn  string
		clockOut string
	}{
		{"missing clock out", "09:00", ""},
		{"missing clock in", "", "20:47"},
		{"garbage clock out", "09:00", "late"},
		{"out of range hour", "09:00", "25:00"},
		{"out of range minute", "09:00", "20:65"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := QuantizeDay(tc.clockIn, tc.clockOut)
			if got.OT1Hours != 0 || got.OT2Hours != 0 {
				t.Fatalf("QuantizeDay(%q, %q) = (%.1f, %.1f), want zero",
					tc.clockIn, tc.clockOut, got.OT1Hours, got.OT2Hours)
			}
		})
	}
}

// A later clock-out must never lower the granted hours.
func TestQuantizeDayMonotonic(t *testing.T) {
	prev := 0.0
	for minute := StandardEndMinute; minute < 24*60; minute++ {
		clockOut := formatClock(minute)
		got := QuantizeDay("09:00", clockOut)
		total := got.OT1Hours + got.OT2Hours
		if total < prev {
			t.Fatalf("total hours dropped from %.1f to %.1f at %s", prev, total, clockOut)
		}
		prev = total
	}
}

func TestQuantizeDayTierOneCap(t *testing.T) {
	for _, clockOut := range []string{"18:00", "19:30", "23:59"} {
		got := QuantizeDay("09:00", clockOut)
		if got.OT1Hours != 2.0 {
			t.Fatalf("OT1 at %s = %.1f, want capped 2.0", clockOut, got.OT1Hours)
		}
	}
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
