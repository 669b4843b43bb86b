package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// Mark creates today's attendance record for the authenticated employee
	Mark(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error)

	// CheckOut stamps check_out on a record owned by the requester
	CheckOut(ctx context.Context, recordID string) (CheckOutResponse, error)

	// HolidayStatus returns the current-month holiday quota snapshot
	HolidayStatus(ctx context.Context) (HolidayStatus, error)

	// GetMyAttendance retrieves records for the authenticated employee
	GetMyAttendance(ctx context.Context, filter MyAttendanceFilter) (ListAttendanceResponse, error)

	// ListAttendance retrieves records across employees (HR)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// GetEmployeeAttendance retrieves one employee's records by employee code (HR)
	GetEmployeeAttendance(ctx context.Context, employeeCode string, filter MyAttendanceFilter) (EmployeeAttendanceResponse, error)

	// UpdateAttendance applies an administrative correction (HR)
	UpdateAttendance(ctx context.Context, req AdminUpdateRequest) (AttendanceResponse, error)

	// GetAttendance retrieves a single record by ID
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)
}
