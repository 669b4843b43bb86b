package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// Mark errors
	ErrAlreadyMarkedToday = errors.New("attendance already marked for today")

	// Check-out errors
	ErrAlreadyCheckedOut = errors.New("already checked out")
	ErrNotRecordOwner    = errors.New("not authorized to modify this attendance")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)

// QuotaExceededError is returned when an employee tries to mark a holiday
// after exhausting the monthly cap. It carries the quota snapshot so the
// caller can display "X/Y used".
type QuotaExceededError struct {
	Status HolidayStatus
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("no holidays left for this month: %d/%d used",
		e.Status.CurrentCount, e.Status.MaxHolidays)
}
