package timerange

import (
	"strconv"
	"strings"

	"smartmeet/shared/failure"
)

// ToMinutes converts a clock string such as "09:05" into minutes since
// midnight. Both sides of the colon must parse as integers; nothing else is
// checked, so "24:61" yields 1501. Callers that need real clock values must
// validate hour and minute ranges upstream.
func ToMinutes(clock string) (int, error) {
	hourPart, minutePart, found := strings.Cut(clock, ":")
	if !found {
		return 0, failure.BadRequestFromString("invalid time format, expected HH:MM") //nolint:wrapcheck
	}

	hours, err := strconv.Atoi(strings.TrimSpace(hourPart))
	if err != nil {
		return 0, failure.BadRequestFromString("invalid time format, expected HH:MM") //nolint:wrapcheck
	}

	minutes, err := strconv.Atoi(strings.TrimSpace(minutePart))
	if err != nil {
		return 0, failure.BadRequestFromString("invalid time format, expected HH:MM") //nolint:wrapcheck
	}

	return hours*60 + minutes, nil
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. A booking ending exactly when another starts
// does not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd string) (bool, error) {
	as, err := ToMinutes(aStart)
	if err != nil {
		return false, err
	}

	ae, err := ToMinutes(aEnd)
	if err != nil {
		return false, err
	}

	bs, err := ToMinutes(bStart)
	if err != nil {
		return false, err
	}

	be, err := ToMinutes(bEnd)
	if err != nil {
		return false, err
	}

	return as < be && bs < ae, nil
}
