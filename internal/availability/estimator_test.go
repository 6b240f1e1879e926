package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/api"
)

// Monday 2026-09-07.
var monday10h = time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)

func mondayRule(staffID, start, end string) api.AvailabilityRule {
	return api.AvailabilityRule{StaffID: staffID, Weekday: 1, Start: start, End: end}
}

func TestHasOverlap(t *testing.T) {
	a := monday10h
	tests := []struct {
		name                   string
		aStart, aEnd           time.Time
		bStart, bEnd           time.Time
		want                   bool
	}{
		{"disjoint", a, a.Add(30 * time.Minute), a.Add(time.Hour), a.Add(2 * time.Hour), false},
		{"touching is not overlap", a, a.Add(time.Hour), a.Add(time.Hour), a.Add(2 * time.Hour), false},
		{"partial overlap", a, a.Add(time.Hour), a.Add(30 * time.Minute), a.Add(2 * time.Hour), true},
		{"contained", a, a.Add(2 * time.Hour), a.Add(30 * time.Minute), a.Add(time.Hour), true},
		{"identical", a, a.Add(time.Hour), a, a.Add(time.Hour), true},
		{"zero time never overlaps", time.Time{}, a, a, a.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasOverlap(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// Symmetric under swapping the intervals.
			assert.Equal(t, tt.want, HasOverlap(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestEstimate_NoConstraintsAnywhere(t *testing.T) {
	got := EstimateMaxFreeMinutes("stf-1", monday10h, nil, nil, nil, "")
	assert.Nil(t, got, "no rules and no bookings means unconstrained")
}

func TestEstimate_InsideWorkingWindow(t *testing.T) {
	// Staff rule Monday 09:00-18:00, start Monday 10:00: 8h remain.
	rules := []api.AvailabilityRule{mondayRule("stf-1", "09:00", "18:00")}

	got := EstimateMaxFreeMinutes("stf-1", monday10h, rules, nil, nil, "")
	require.NotNil(t, got)
	assert.Equal(t, 480, *got)
}

func TestEstimate_GapToNextAppointment(t *testing.T) {
	// Same window, but an existing booking at 11:00 caps the run at 60min.
	rules := []api.AvailabilityRule{mondayRule("stf-1", "09:00", "18:00")}
	existing := []api.Appointment{{
		ID:             "apt-1",
		PractitionerID: "stf-1",
		Start:          monday10h.Add(time.Hour),
		DurationMin:    60,
	}}

	got := EstimateMaxFreeMinutes("stf-1", monday10h, rules, nil, existing, "")
	require.NotNil(t, got)
	assert.Equal(t, 60, *got)
}

func TestEstimate_StartOutsideEveryWindow(t *testing.T) {
	rules := []api.AvailabilityRule{
		mondayRule("stf-1", "09:00", "12:00"),
		mondayRule("stf-1", "14:00", "18:00"),
	}
	// 13:00 falls in the lunch gap.
	start := time.Date(2026, 9, 7, 13, 0, 0, 0, time.UTC)

	got := EstimateMaxFreeMinutes("stf-1", start, rules, nil, nil, "")
	require.NotNil(t, got)
	assert.Equal(t, 0, *got)
}

func TestEstimate_ClosedWeekday(t *testing.T) {
	// Rules exist, but only for Monday; a Tuesday start gets 0.
	rules := []api.AvailabilityRule{mondayRule("stf-1", "09:00", "18:00")}
	tuesday := monday10h.AddDate(0, 0, 1)

	got := EstimateMaxFreeMinutes("stf-1", tuesday, rules, nil, nil, "")
	require.NotNil(t, got)
	assert.Equal(t, 0, *got)
}

func TestEstimate_OverlappingWindowsOptimisticUnion(t *testing.T) {
	rules := []api.AvailabilityRule{
		mondayRule("stf-1", "09:00", "12:00"),
		mondayRule("stf-1", "10:00", "16:00"),
	}

	got := EstimateMaxFreeMinutes("stf-1", monday10h.Add(30*time.Minute), rules, nil, nil, "")
	require.NotNil(t, got)
	// The window ending latest wins: 10:30 to 16:00.
	assert.Equal(t, 330, *got)
}

func TestEstimate_StartInsideExistingBooking(t *testing.T) {
	existing := []api.Appointment{{
		ID:             "apt-1",
		PractitionerID: "stf-1",
		Start:          monday10h.Add(-30 * time.Minute),
		DurationMin:    60,
	}}

	got := EstimateMaxFreeMinutes("stf-1", monday10h, nil, nil, existing, "")
	require.NotNil(t, got)
	assert.Equal(t, 0, *got)
}

func TestEstimate_StartAtExistingBookingStart(t *testing.T) {
	existing := []api.Appointment{{
		ID:             "apt-1",
		PractitionerID: "stf-1",
		Start:          monday10h,
		DurationMin:    60,
	}}

	got := EstimateMaxFreeMinutes("stf-1", monday10h, nil, nil, existing, "")
	require.NotNil(t, got)
	assert.Equal(t, 0, *got)
}

func TestEstimate_ExcludesAppointmentBeingEdited(t *testing.T) {
	existing := []api.Appointment{{
		ID:             "apt-1",
		PractitionerID: "stf-1",
		Start:          monday10h,
		DurationMin:    60,
	}}

	got := EstimateMaxFreeMinutes("stf-1", monday10h, nil, nil, existing, "apt-1")
	assert.Nil(t, got, "the appointment being edited must not conflict with itself")
}

func TestEstimate_IgnoresOtherPractitioners(t *testing.T) {
	existing := []api.Appointment{{
		ID:             "apt-1",
		PractitionerID: "stf-2",
		Start:          monday10h,
		DurationMin:    60,
	}}

	got := EstimateMaxFreeMinutes("stf-1", monday10h, nil, nil, existing, "")
	assert.Nil(t, got)
}

func TestEstimate_InstituteRulesCapStaffRules(t *testing.T) {
	staff := []api.AvailabilityRule{mondayRule("stf-1", "09:00", "20:00")}
	institute := []api.AvailabilityRule{mondayRule("", "09:00", "18:00")}

	got := EstimateMaxFreeMinutes("stf-1", monday10h, staff, institute, nil, "")
	require.NotNil(t, got)
	assert.Equal(t, 480, *got, "the tighter institute bound wins")
}

func TestEstimate_MalformedRuleIsSkipped(t *testing.T) {
	rules := []api.AvailabilityRule{
		{StaffID: "stf-1", Weekday: 1, Start: "oops", End: "18:00"},
		mondayRule("stf-1", "09:00", "17:00"),
	}

	got := EstimateMaxFreeMinutes("stf-1", monday10h, rules, nil, nil, "")
	require.NotNil(t, got)
	assert.Equal(t, 420, *got)
}

func TestParseClock(t *testing.T) {
	got, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, got)

	for _, raw := range []string{"", "9h30", "25:00", "10:75", "aa:bb"} {
		_, err := ParseClock(raw)
		assert.Error(t, err, raw)
	}
}
