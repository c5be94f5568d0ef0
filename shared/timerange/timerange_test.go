package timerange_test

import (
	"testing"

	"smartmeet/shared/timerange"
)

func TestToMinutes(t *testing.T) {
	tests := []struct {
		name        string
		clock       string
		expected    int
		expectError bool
	}{
		{
			name:     "morning time",
			clock:    "09:05",
			expected: 545,
		},
		{
			name:     "midnight",
			clock:    "00:00",
			expected: 0,
		},
		{
			name:     "end of day",
			clock:    "23:59",
			expected: 1439,
		},
		{
			name:     "out of range values still convert",
			clock:    "24:61",
			expected: 1501,
		},
		{
			name:        "missing colon",
			clock:       "0905",
			expectError: true,
		},
		{
			name:        "non numeric hour",
			clock:       "ab:30",
			expectError: true,
		},
		{
			name:        "non numeric minute",
			clock:       "09:xx",
			expectError: true,
		},
		{
			name:        "empty string",
			clock:       "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := timerange.ToMinutes(tt.clock)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error for %q, got none", tt.clock)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tt.clock, err)
			}

			if got != tt.expected {
				t.Errorf("ToMinutes(%q) = %d, want %d", tt.clock, got, tt.expected)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		expected                   bool
		expectError                bool
	}{
		{
			name:   "partial overlap at tail",
			aStart: "09:00", aEnd: "10:00", bStart: "09:59", bEnd: "10:30",
			expected: true,
		},
		{
			name:   "touching endpoints do not overlap",
			aStart: "09:00", aEnd: "10:00", bStart: "10:00", bEnd: "11:00",
			expected: false,
		},
		{
			name:   "touching endpoints reversed",
			aStart: "10:00", aEnd: "11:00", bStart: "09:00", bEnd: "10:00",
			expected: false,
		},
		{
			name:   "contained interval",
			aStart: "09:00", aEnd: "12:00", bStart: "10:00", bEnd: "11:00",
			expected: true,
		},
		{
			name:   "identical intervals",
			aStart: "14:00", aEnd: "15:00", bStart: "14:00", bEnd: "15:00",
			expected: true,
		},
		{
			name:   "disjoint intervals",
			aStart: "08:00", aEnd: "09:00", bStart: "13:00", bEnd: "14:00",
			expected: false,
		},
		{
			name:   "malformed input",
			aStart: "nope", aEnd: "10:00", bStart: "09:00", bEnd: "10:00",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := timerange.Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)

			if tt.expectError {
				if err == nil {
					t.Error("expected error, got none")
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.expected {
				t.Errorf("Overlaps(%q,%q,%q,%q) = %v, want %v", tt.aStart, tt.aEnd, tt.bStart, tt.bEnd, got, tt.expected)
			}
		})
	}
}
