package payroll

import (
	"strconv"
	"strings"
)

// Overtime day boundaries, in minutes since midnight.
const (
	StandardEndMinute = 16 * 60 // 16:00
	Tier1EndMinute    = 18 * 60 // 18:00
	Tier2EndMinute    = 20 * 60 // 20:00

	// GraceMinutes is subtracted from every tier boundary before an
	// increment is granted, so a punch inside the buffer earns nothing.
	GraceMinutes = 7
)

// DayOvertime is the quantized result for a single attendance day.
type DayOvertime struct {
	OT1Hours float64 `json:"ot1Hours"`
	OT2Hours float64 `json:"ot2Hours"`
}

// QuantizeDay converts one day's clock-in/clock-out pair into tiered
// overtime hours. It is the single shared copy of the quantization rule:
// settlement and report rendering must both call it so stored totals and
// displayed per-day figures cannot drift apart.
//
// A missing or unparsable clock-out means an open day and yields zero
// overtime; malformed input is never an error here.
func QuantizeDay(clockIn, clockOut string) DayOvertime {
	out, ok := parseClock(clockOut)
	if !ok {
		return DayOvertime{}
	}
	if _, ok := parseClock(clockIn); !ok {
		return DayOvertime{}
	}

	var ot DayOvertime

	// Tier 1: [16:00, 18:00], capped at 2.0h by the window itself.
	if out > StandardEndMinute+GraceMinutes {
		duration := min(out, Tier1EndMinute) - StandardEndMinute
		ot.OT1Hours = bucketHalfHours(duration)
	}

	// Tier 2 part A mirrors tier 1 over [18:00, 20:00].
	if out > Tier1EndMinute+GraceMinutes {
		duration := min(out, Tier2EndMinute) - Tier1EndMinute
		ot.OT2Hours = bucketHalfHours(duration)
	}

	// Tier 2 part B: past 20:00 the overrun accrues in flat half-hour
	// steps, any nonzero remainder granting one more half hour.
	if out > Tier2EndMinute+GraceMinutes {
		extra := out - Tier2EndMinute - GraceMinutes
		ot.OT2Hours += 0.5 * float64(extra/30)
		if extra%30 > 0 {
			ot.OT2Hours += 0.5
		}
	}

	return ot
}

// bucketHalfHours maps a window duration in minutes to the largest
// half-hour bucket whose lower bound, net of the grace buffer, the
// duration exceeds.
func bucketHalfHours(duration int) float64 {
	switch {
	case duration > 90+GraceMinutes:
		return 2.0
	case duration > 60+GraceMinutes:
		return 1.5
	case duration > 30+GraceMinutes:
		return 1.0
	case duration > GraceMinutes:
		return 0.5
	}
	return 0
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(value string) (int, bool) {
	value = strings.TrimSpace(value)
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}
