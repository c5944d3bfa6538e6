package conflict_test

import (
	"errors"
	"eventdesk/internal/domains/booking/conflict"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}

	return parsed
}

func booking(id, date, start, end string) conflict.Booking {
	return conflict.Booking{
		ID:        id,
		StartDate: day(date),
		EndDate:   day(date),
		StartTime: start,
		EndTime:   end,
	}
}

func TestHasConflict(t *testing.T) {
	existing := []conflict.Booking{
		booking("morning", "2024-06-01", "09:00", "10:00"),
		booking("workday", "2024-06-02", "09:00", "17:00"),
	}

	tests := []struct {
		name      string
		day       string
		start     string
		end       string
		excludeID string
		expected  bool
	}{
		{name: "exact match", day: "2024-06-01", start: "09:00", end: "10:00", expected: true},
		{name: "overlap from the left", day: "2024-06-01", start: "09:30", end: "10:30", expected: true},
		{name: "overlap from the right", day: "2024-06-01", start: "08:30", end: "09:30", expected: true},
		{name: "new window contains existing", day: "2024-06-01", start: "08:00", end: "11:00", expected: true},
		{name: "new window inside existing", day: "2024-06-02", start: "10:00", end: "11:00", expected: true},
		{name: "shared start only", day: "2024-06-01", start: "09:00", end: "09:15", expected: true},
		{name: "shared end only", day: "2024-06-01", start: "09:45", end: "10:00", expected: true},
		{name: "touching after", day: "2024-06-01", start: "10:00", end: "11:00", expected: false},
		{name: "touching before", day: "2024-06-01", start: "08:00", end: "09:00", expected: false},
		{name: "strictly before", day: "2024-06-01", start: "07:00", end: "08:00", expected: false},
		{name: "strictly after", day: "2024-06-01", start: "13:00", end: "14:00", expected: false},
		{name: "other day", day: "2024-06-03", start: "09:00", end: "10:00", expected: false},
		{name: "excluded booking", day: "2024-06-01", start: "09:00", end: "10:00", excludeID: "morning", expected: false},
		{name: "exclusion of another id", day: "2024-06-01", start: "09:00", end: "10:00", excludeID: "workday", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := conflict.HasConflict(day(tt.day), tt.start, tt.end, existing, tt.excludeID)

			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestHasConflict_EmptyList(t *testing.T) {
	assert.False(t, conflict.HasConflict(day("2024-06-01"), "09:00", "10:00", nil, ""))
}

func TestHasConflict_MatchesOnStartDateOnly(t *testing.T) {
	multiDay := conflict.Booking{
		ID:        "retreat",
		StartDate: day("2024-06-01"),
		EndDate:   day("2024-06-03"),
		StartTime: "09:00",
		EndTime:   "12:00",
	}

	assert.True(t, conflict.HasConflict(day("2024-06-01"), "10:00", "11:00", []conflict.Booking{multiDay}, ""))
	assert.False(t, conflict.HasConflict(day("2024-06-02"), "10:00", "11:00", []conflict.Booking{multiDay}, ""))
}

func TestHasConflict_IgnoresClockAndLocation(t *testing.T) {
	manila := time.FixedZone("PHT", 8*60*60)
	existing := []conflict.Booking{{
		ID:        "late",
		StartDate: time.Date(2024, 6, 1, 23, 0, 0, 0, manila),
		StartTime: "09:00",
		EndTime:   "10:00",
	}}

	assert.True(t, conflict.HasConflict(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), "09:30", "09:45", existing, ""))
}

// Every window pair on a quarter-hour grid agrees with plain interval overlap.
func TestHasConflict_AgreesWithIntervalOverlap(t *testing.T) {
	slots := []string{}
	for minute := 6 * 60; minute <= 12*60; minute += 15 {
		slots = append(slots, fmt.Sprintf("%02d:%02d", minute/60, minute%60))
	}

	for i, existingStart := range slots {
		for _, existingEnd := range slots[i+1:] {
			existing := []conflict.Booking{booking("x", "2024-06-01", existingStart, existingEnd)}

			for j, newStart := range slots {
				for _, newEnd := range slots[j+1:] {
					expected := newStart < existingEnd && newEnd > existingStart
					got := conflict.HasConflict(day("2024-06-01"), newStart, newEnd, existing, "")

					if got != expected {
						t.Fatalf("new %s-%s vs existing %s-%s: got %v, want %v",
							newStart, newEnd, existingStart, existingEnd, got, expected)
					}
				}
			}
		}
	}
}

func TestValidateRange(t *testing.T) {
	existing := []conflict.Booking{
		booking("a", "2024-06-01", "09:00", "10:00"),
		booking("b", "2024-06-03", "13:00", "15:00"),
		booking("c", "2024-06-04", "09:30", "11:00"),
	}

	tests := []struct {
		name        string
		proposal    conflict.Proposal
		isEditMode  bool
		excludeID   string
		expectedErr error
		expectedDay string
	}{
		{
			name:     "single free day",
			proposal: conflict.Proposal{StartDate: day("2024-06-02"), EndDate: day("2024-06-02"), StartTime: "09:00", EndTime: "10:00"},
		},
		{
			name:        "single conflicting day",
			proposal:    conflict.Proposal{StartDate: day("2024-06-01"), EndDate: day("2024-06-01"), StartTime: "09:30", EndTime: "10:30"},
			expectedErr: conflict.ErrSchedulingConflict,
			expectedDay: "2024-06-01",
		},
		{
			name:     "touching boundary is free",
			proposal: conflict.Proposal{StartDate: day("2024-06-01"), EndDate: day("2024-06-01"), StartTime: "10:00", EndTime: "11:00"},
		},
		{
			name:        "range reports the earliest conflicting day",
			proposal:    conflict.Proposal{StartDate: day("2024-06-02"), EndDate: day("2024-06-05"), StartTime: "10:00", EndTime: "14:00"},
			expectedErr: conflict.ErrSchedulingConflict,
			expectedDay: "2024-06-03",
		},
		{
			name:        "conflict on the last day of the range",
			proposal:    conflict.Proposal{StartDate: day("2024-05-30"), EndDate: day("2024-06-01"), StartTime: "08:00", EndTime: "09:30"},
			expectedErr: conflict.ErrSchedulingConflict,
			expectedDay: "2024-06-01",
		},
		{
			name:     "range over free days",
			proposal: conflict.Proposal{StartDate: day("2024-06-05"), EndDate: day("2024-06-10"), StartTime: "08:00", EndTime: "18:00"},
		},
		{
			name:        "start equal to end",
			proposal:    conflict.Proposal{StartDate: day("2024-06-02"), EndDate: day("2024-06-02"), StartTime: "10:00", EndTime: "10:00"},
			expectedErr: conflict.ErrInvalidTimeOrder,
		},
		{
			name:        "end before start wins over a conflict",
			proposal:    conflict.Proposal{StartDate: day("2024-06-01"), EndDate: day("2024-06-01"), StartTime: "10:00", EndTime: "09:00"},
			expectedErr: conflict.ErrInvalidTimeOrder,
		},
		{
			name:       "edit mode skips its own booking",
			proposal:   conflict.Proposal{StartDate: day("2024-06-01"), EndDate: day("2024-06-01"), StartTime: "09:00", EndTime: "10:00"},
			isEditMode: true,
			excludeID:  "a",
		},
		{
			name:        "edit mode still sees other bookings",
			proposal:    conflict.Proposal{StartDate: day("2024-06-03"), EndDate: day("2024-06-03"), StartTime: "14:00", EndTime: "16:00"},
			isEditMode:  true,
			excludeID:   "a",
			expectedErr: conflict.ErrSchedulingConflict,
			expectedDay: "2024-06-03",
		},
		{
			name:       "edit mode checks only the start day",
			proposal:   conflict.Proposal{StartDate: day("2024-06-02"), EndDate: day("2024-06-04"), StartTime: "10:00", EndTime: "14:00"},
			isEditMode: true,
			excludeID:  "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := conflict.ValidateRange(tt.proposal, existing, tt.isEditMode, tt.excludeID)

			if tt.expectedErr == nil {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedDay == "" {
				return
			}

			var conflictErr *conflict.SchedulingConflictError
			require.True(t, errors.As(err, &conflictErr))
			assert.Equal(t, tt.expectedDay, conflictErr.Day.Format("2006-01-02"))
			assert.Equal(t, "this time conflicts with an existing activity on "+tt.expectedDay, err.Error())
		})
	}
}

func TestValidateRange_InvalidTimeOrderIgnoresBookings(t *testing.T) {
	proposal := conflict.Proposal{StartDate: day("2024-06-01"), EndDate: day("2024-06-01"), StartTime: "17:00", EndTime: "08:00"}

	for _, existing := range [][]conflict.Booking{nil, {booking("a", "2024-06-01", "00:00", "23:59")}} {
		for _, edit := range []bool{false, true} {
			assert.ErrorIs(t, conflict.ValidateRange(proposal, existing, edit, ""), conflict.ErrInvalidTimeOrder)
		}
	}
}

func TestValidateRange_EndBeforeStartDate(t *testing.T) {
	proposal := conflict.Proposal{StartDate: day("2024-06-02"), EndDate: day("2024-06-01"), StartTime: "09:00", EndTime: "10:00"}

	assert.NoError(t, conflict.ValidateRange(proposal, []conflict.Booking{booking("a", "2024-06-02", "09:00", "10:00")}, false, ""))
}

func TestSameDay(t *testing.T) {
	assert.True(t, conflict.SameDay(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)))
	assert.False(t, conflict.SameDay(day("2024-06-01"), day("2024-07-01")))
}
