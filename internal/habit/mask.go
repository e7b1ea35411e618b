package habit

// WeekMask is a 7-bit set of weekdays. Bit 0 is Monday, bit 6 is Sunday.
type WeekMask int

const (
	// AllDays selects every weekday.
	AllDays WeekMask = 0b1111111

	daysPerWeek = 7
)

var dayNames = [daysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Days returns every selected day index in ascending order. Bits beyond the
// seventh are ignored.
func (m WeekMask) Days() []int {
	out := make([]int, 0, daysPerWeek)
	for d := 0; d < daysPerWeek; d++ {
		if m.IsSelected(d) {
			out = append(out, d)
		}
	}
	return out
}

// IsSelected reports whether day d (0=Monday..6=Sunday) is in the set.
func (m WeekMask) IsSelected(d int) bool {
	if d < 0 || d >= daysPerWeek {
		return false
	}
	return m&(1<<d) != 0
}

// Toggle flips day d and returns the resulting mask. Toggling twice with the
// same day returns the original mask.
func (m WeekMask) Toggle(d int) WeekMask {
	if d < 0 || d >= daysPerWeek {
		return m
	}
	return m ^ (1 << d)
}

// DayName returns the short display name for day d.
func DayName(d int) string {
	if d < 0 || d >= daysPerWeek {
		return ""
	}
	return dayNames[d]
}

// ToSchedulerWeekday converts a Monday=0 day index to the notification
// backend's Sunday=1..Saturday=7 convention.
func ToSchedulerWeekday(d int) int {
	return ((d + 1) % daysPerWeek) + 1
}

// FromSchedulerWeekday is the inverse of ToSchedulerWeekday.
func FromSchedulerWeekday(weekday int) int {
	return ((weekday - 1) + daysPerWeek - 1) % daysPerWeek
}
