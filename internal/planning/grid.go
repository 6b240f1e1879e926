// Package planning lays out the week/day grid of the back-office: it maps
// time intervals to vertical pixel bands inside a fixed operating window.
package planning

import (
	"fmt"
	"time"

	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/api"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/availability"
)

// Window is the visible operating window of a day, in minutes since
// midnight.
type Window struct {
	StartMin int
	EndMin   int
}

// NewWindow builds a window from wall-clock bounds like "08:00"/"20:00".
func NewWindow(start, end string) (Window, error) {
	startMin, err := availability.ParseClock(start)
	if err != nil {
		return Window{}, err
	}
	endMin, err := availability.ParseClock(end)
	if err != nil {
		return Window{}, err
	}
	if endMin <= startMin {
		return Window{}, fmt.Errorf("planning: window %s-%s is empty", start, end)
	}
	return Window{StartMin: startMin, EndMin: endMin}, nil
}

// Layout fixes the grid geometry: one slot of SlotMinutes renders
// SlotHeightPx tall; no band shrinks under MinHeightPx.
type Layout struct {
	SlotMinutes  int
	SlotHeightPx int
	MinHeightPx  int
}

// Band is a vertical pixel band in a day column.
type Band struct {
	TopPx    float64 `json:"top"`
	HeightPx float64 `json:"height"`
	// Clipped is true when part of the interval fell outside the window
	// and was cut, not hidden.
	Clipped bool `json:"clipped,omitempty"`
}

// Band maps [start, end) to its pixel band. Out-of-window portions are
// clipped: an interval starting before the window still renders from the
// window start.
func (l Layout) Band(w Window, start, end time.Time) Band {
	startMin := start.Hour()*60 + start.Minute()
	endMin := startMin + int(end.Sub(start)/time.Minute)

	clampedStart := clamp(startMin, w.StartMin, w.EndMin)
	clampedEnd := clamp(endMin, w.StartMin, w.EndMin)

	pxPerMin := float64(l.SlotHeightPx) / float64(l.SlotMinutes)
	top := float64(clampedStart-w.StartMin) * pxPerMin
	height := float64(clampedEnd-clampedStart) * pxPerMin
	if min := float64(l.MinHeightPx); height < min {
		height = min
	}

	return Band{
		TopPx:    top,
		HeightPx: height,
		Clipped:  clampedStart != startMin || clampedEnd != endMin,
	}
}

// AppointmentBand lays out one appointment.
func (l Layout) AppointmentBand(w Window, appt api.Appointment) Band {
	return l.Band(w, appt.Start, appt.End())
}

// TimeOffBand lays out one time-off block; all-day blocks fill the window.
func (l Layout) TimeOffBand(w Window, block api.TimeOff) Band {
	if block.AllDay {
		day := block.Start
		start := time.Date(day.Year(), day.Month(), day.Day(), w.StartMin/60, w.StartMin%60, 0, 0, day.Location())
		end := time.Date(day.Year(), day.Month(), day.Day(), w.EndMin/60, w.EndMin%60, 0, 0, day.Location())
		return l.Band(w, start, end)
	}
	return l.Band(w, block.Start, block.End)
}

// SlotTicks enumerates the slot boundaries of the window, in minutes since
// midnight, for rendering the grid rows and the start-time picker.
func (w Window) SlotTicks(slotMinutes int) []int {
	if slotMinutes <= 0 {
		return nil
	}
	var ticks []int
	for m := w.StartMin; m < w.EndMin; m += slotMinutes {
		ticks = append(ticks, m)
	}
	return ticks
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
