// Package conflict decides whether a proposed booking overlaps bookings that
// already hold the same calendar day.
//
// Times are 24h "HH:mm" strings. Zero-padded clock strings sort the same way
// lexicographically as chronologically, so comparisons stay on strings. Every
// interval is half-open: a booking ending at 10:00 does not collide with one
// starting at 10:00.
//
// All functions are pure and safe for concurrent use.
package conflict

import (
	"errors"
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

var (
	// ErrInvalidTimeOrder is returned when the end time is not after the start time.
	ErrInvalidTimeOrder = errors.New("end time must be after start time")
	// ErrSchedulingConflict matches every *SchedulingConflictError.
	ErrSchedulingConflict = errors.New("this time conflicts with an existing activity")
)

// SchedulingConflictError names the first day on which the proposal collides.
type SchedulingConflictError struct {
	Day time.Time
}

func (e *SchedulingConflictError) Error() string {
	return fmt.Sprintf("%s on %s", ErrSchedulingConflict, e.Day.Format(dayLayout))
}

func (e *SchedulingConflictError) Unwrap() error {
	return ErrSchedulingConflict
}

// Booking is the part of a stored booking the check needs. Only StartDate
// takes part in day matching.
type Booking struct {
	ID        string
	StartDate time.Time
	EndDate   time.Time
	StartTime string
	EndTime   string
}

// Proposal is the interval being created or edited. EndDate is inclusive.
type Proposal struct {
	StartDate time.Time
	EndDate   time.Time
	StartTime string
	EndTime   string
}

// SameDay compares calendar dates, ignoring clock and location offsets.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}

// HasConflict reports whether [newStart, newEnd) overlaps any booking that
// starts on day. The booking with excludeID is skipped; an empty excludeID
// skips nothing.
func HasConflict(day time.Time, newStart, newEnd string, existing []Booking, excludeID string) bool {
	for _, booking := range existing {
		if excludeID != "" && booking.ID == excludeID {
			continue
		}

		if !SameDay(booking.StartDate, day) {
			continue
		}

		if overlaps(newStart, newEnd, booking.StartTime, booking.EndTime) {
			return true
		}
	}

	return false
}

func overlaps(newStart, newEnd, start, end string) bool {
	switch {
	case newStart == start && newEnd == end:
		return true
	case newStart >= start && newStart < end:
		return true
	case newEnd > start && newEnd <= end:
		return true
	case newStart < start && newEnd > end:
		return true
	default:
		return false
	}
}

// ValidateRange checks a proposal against the existing bookings.
//
// A proposal whose start time is not before its end time fails with
// ErrInvalidTimeOrder before any booking is looked at. In create mode every
// day from StartDate to EndDate is checked and the first conflicting day is
// reported. In edit mode only StartDate is checked and the booking being
// edited is skipped through excludeID.
func ValidateRange(proposal Proposal, existing []Booking, isEditMode bool, excludeID string) error {
	if proposal.StartTime >= proposal.EndTime {
		return ErrInvalidTimeOrder
	}

	if isEditMode {
		if HasConflict(proposal.StartDate, proposal.StartTime, proposal.EndTime, existing, excludeID) {
			return &SchedulingConflictError{Day: proposal.StartDate}
		}

		return nil
	}

	for day := proposal.StartDate; !after(day, proposal.EndDate); day = day.AddDate(0, 0, 1) {
		if HasConflict(day, proposal.StartTime, proposal.EndTime, existing, excludeID) {
			return &SchedulingConflictError{Day: day}
		}
	}

	return nil
}

func after(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC).After(time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC))
}
