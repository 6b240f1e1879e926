// Package availability holds the client-side conflict/availability
// estimator. It is a best-effort, degraded-mode approximation of the
// backend's scheduling logic and is never authoritative: the live conflict
// endpoint owns the real decision.
package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/api"
)

// HasOverlap reports whether [aStart,aEnd) and [bStart,bEnd) intersect.
// Touching intervals (aEnd == bStart) do not overlap.
func HasOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	if aStart.IsZero() || aEnd.IsZero() || bStart.IsZero() || bEnd.IsZero() {
		return false
	}
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// EstimateMaxFreeMinutes computes the longest bookable duration from start
// for a practitioner, merging staff working hours, institute working hours
// and existing bookings. A nil result means no constraint was found anywhere
// and the caller should treat the duration as unlimited.
//
// excludeID names the appointment currently being edited so it does not
// conflict with itself.
func EstimateMaxFreeMinutes(practitionerID string, start time.Time, staffRules, instituteRules []api.AvailabilityRule, existing []api.Appointment, excludeID string) *int {
	var bounds []int

	if b := ruleSetRemaining(staffRules, start); b != nil {
		bounds = append(bounds, *b)
	}
	if b := ruleSetRemaining(instituteRules, start); b != nil {
		bounds = append(bounds, *b)
	}
	if b := bookingGap(practitionerID, start, existing, excludeID); b != nil {
		bounds = append(bounds, *b)
	}

	if len(bounds) == 0 {
		return nil
	}
	min := bounds[0]
	for _, b := range bounds[1:] {
		if b < min {
			min = b
		}
	}
	if min < 0 {
		min = 0
	}
	return &min
}

// ruleSetRemaining applies one rule-set (staff-specific or institute-wide).
// Empty rule-set: nil, the source is unconstrained. Rules exist but no
// window for the weekday contains start: 0. Otherwise the optimistic union:
// the containing window with the latest end wins.
func ruleSetRemaining(rules []api.AvailabilityRule, start time.Time) *int {
	if len(rules) == 0 {
		return nil
	}

	weekday := int(start.Weekday())
	minute := start.Hour()*60 + start.Minute()

	best := 0
	for _, rule := range rules {
		if rule.Weekday != weekday {
			continue
		}
		winStart, err := ParseClock(rule.Start)
		if err != nil {
			continue
		}
		winEnd, err := ParseClock(rule.End)
		if err != nil {
			continue
		}
		if minute < winStart || minute >= winEnd {
			continue
		}
		if remaining := winEnd - minute; remaining > best {
			best = remaining
		}
	}
	return &best
}

// bookingGap bounds the duration by the practitioner's existing bookings:
// starting inside one yields 0, otherwise the gap to the next future start.
func bookingGap(practitionerID string, start time.Time, existing []api.Appointment, excludeID string) *int {
	var gap *int
	for _, appt := range existing {
		if appt.PractitionerID != practitionerID {
			continue
		}
		if excludeID != "" && appt.ID == excludeID {
			continue
		}
		if !start.Before(appt.Start) && start.Before(appt.End()) {
			zero := 0
			return &zero
		}
		if appt.Start.After(start) {
			minutes := int(appt.Start.Sub(start) / time.Minute)
			if minutes > 0 && (gap == nil || minutes < *gap) {
				gap = &minutes
			}
		}
	}
	return gap
}

// ParseClock converts a wall-clock "HH:MM" string to minutes since midnight.
func ParseClock(raw string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("availability: malformed clock %q", raw)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("availability: malformed clock %q", raw)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("availability: malformed clock %q", raw)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("availability: clock %q out of range", raw)
	}
	return hours*60 + minutes, nil
}
