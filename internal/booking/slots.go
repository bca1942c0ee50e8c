package booking

import (
	"fmt"
	"sort"
	"time"

	"github.com/clinickit/dental-booking/internal/directory"
)

// interval is a half-open [start, end) range in minutes since midnight.
type interval struct {
	start int
	end   int
}

func (iv interval) overlaps(other interval) bool {
	return iv.start < other.end && iv.end > other.start
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock %q out of range", s)
	}
	return h*60 + m, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// weekdayOf resolves the weekday of a "YYYY-MM-DD" date. The instant is
// anchored at local noon so midnight/DST boundaries cannot shift the day.
func weekdayOf(date string) (time.Weekday, error) {
	d, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", date, err)
	}
	noon := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.Local)
	return noon.Weekday(), nil
}

// computeSlots tiles the requested duration across the rules matching the
// date's weekday and drops every candidate that overlaps a busy interval.
// The step equals the requested duration, so the offered grid follows the
// selected service rather than a fixed granularity. Matching rules are
// sorted by start time first, so the result is chronological even when rules
// are declared out of order.
func computeSlots(rules []directory.AvailabilityRule, busy []interval, date string, durationMinutes int) ([]TimeSlot, error) {
	if durationMinutes <= 0 {
		return []TimeSlot{}, nil
	}

	weekday, err := weekdayOf(date)
	if err != nil {
		return nil, err
	}

	var windows []interval
	for _, rule := range rules {
		if rule.DayOfWeek != int(weekday) {
			continue
		}
		start, err := parseClock(rule.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := parseClock(rule.EndTime)
		if err != nil {
			return nil, err
		}
		windows = append(windows, interval{start: start, end: end})
	}
	if len(windows) == 0 {
		return []TimeSlot{}, nil
	}

	sort.Slice(windows, func(i, j int) bool { return windows[i].start < windows[j].start })

	slots := []TimeSlot{}
	for _, w := range windows {
		for t := w.start; t+durationMinutes <= w.end; t += durationMinutes {
			candidate := interval{start: t, end: t + durationMinutes}

			free := true
			for _, b := range busy {
				if candidate.overlaps(b) {
					free = false
					break
				}
			}
			if !free {
				continue
			}

			slots = append(slots, TimeSlot{
				Start: formatClock(candidate.start),
				End:   formatClock(candidate.end),
			})
		}
	}

	return slots, nil
}

// busyIntervals collects the intervals of non-cancelled appointments.
func busyIntervals(appts []Appointment) ([]interval, error) {
	var busy []interval
	for _, a := range appts {
		if a.Status == StatusCancelled {
			continue
		}
		start, err := parseClock(a.Time)
		if err != nil {
			return nil, err
		}
		busy = append(busy, interval{start: start, end: start + a.DurationMinutes})
	}
	return busy, nil
}
