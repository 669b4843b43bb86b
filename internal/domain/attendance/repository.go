package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create inserts a new attendance record. The store enforces a unique
	// (employee_id, date) constraint; a violation is returned as
	// ErrAlreadyMarkedToday so concurrent marks for the same day cannot
	// both succeed.
	Create(ctx context.Context, record Attendance) (Attendance, error)

	// GetByID retrieves an attendance record by ID
	GetByID(ctx context.Context, id string) (Attendance, error)

	// HasMarkedOn reports whether the employee already owns a record for
	// the given calendar day. Pre-check only; Create is the backstop.
	HasMarkedOn(ctx context.Context, employeeID string, date time.Time) (bool, error)

	// SetCheckOut sets check_out on the record if it is still unset.
	// Returns ErrAlreadyCheckedOut when check_out was already present.
	SetCheckOut(ctx context.Context, id string, checkOut time.Time) (Attendance, error)

	// ListForEmployee retrieves one employee's records, newest date first
	ListForEmployee(ctx context.Context, employeeID string, filter MyAttendanceFilter) ([]Attendance, int64, error)

	// List retrieves attendance records with filters and pagination (HR)
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// Update applies a partial administrative update (type/status/notes)
	Update(ctx context.Context, id string, req AdminUpdateRequest) (Attendance, error)

	// CountHolidaysInRange counts holiday-type records for an employee
	// whose date falls within [start, end]
	CountHolidaysInRange(ctx context.Context, employeeID string, start, end time.Time) (int, error)
}
