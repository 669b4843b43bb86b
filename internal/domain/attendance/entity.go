package attendance

import (
	"math"
	"time"
)

type Type string

const (
	TypeFullDay Type = "full-day"
	TypeHalfDay Type = "half-day"
	TypeHoliday Type = "holiday"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half-day"
)

// MaxHolidaysPerMonth is the number of holiday-type records an employee
// may self-create within one calendar month.
const MaxHolidaysPerMonth = 2

type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Type       Type
	CheckIn    *time.Time
	CheckOut   *time.Time
	Status     Status
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO
	EmployeeName *string
	EmployeeCode *string
	Department   *string
}

// WorkHours returns the hours between check-in and check-out rounded to
// two decimal places. Derived on read, never stored.
func (a Attendance) WorkHours() float64 {
	if a.CheckIn == nil || a.CheckOut == nil {
		return 0
	}
	hours := a.CheckOut.Sub(*a.CheckIn).Hours()
	return math.Round(hours*100) / 100
}

// HolidayStatus is the monthly holiday quota snapshot for an employee.
type HolidayStatus struct {
	CanTake      bool `json:"can_take"`
	CurrentCount int  `json:"current_count"`
	MaxHolidays  int  `json:"max_holidays"`
	Remaining    int  `json:"remaining"`
}
