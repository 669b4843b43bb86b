package attendance

import (
	"strings"

	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type MarkAttendanceRequest struct {
	Type  string  `json:"type"`
	Notes *string `json:"notes,omitempty"`
}

func (r *MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	validTypes := []string{string(TypeFullDay), string(TypeHalfDay), string(TypeHoliday)}
	if !validator.IsInSlice(r.Type, validTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: full-day, half-day, holiday",
		})
	}

	if r.Notes != nil {
		trimmed := strings.TrimSpace(*r.Notes)
		r.Notes = &trimmed
		if len(trimmed) > 500 {
			errs = append(errs, validator.ValidationError{
				Field:   "notes",
				Message: "notes must not exceed 500 characters",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID           string   `json:"id"`
	EmployeeID   string   `json:"employee_id"`
	EmployeeName *string  `json:"employee_name,omitempty"`
	EmployeeCode *string  `json:"employee_code,omitempty"`
	Department   *string  `json:"department,omitempty"`
	Date         string   `json:"date"`
	Type         string   `json:"type"`
	CheckIn      *string  `json:"check_in,omitempty"`
	CheckOut     *string  `json:"check_out,omitempty"`
	WorkHours    *float64 `json:"work_hours,omitempty"`
	Status       string   `json:"status"`
	Notes        *string  `json:"notes,omitempty"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type CheckOutResponse struct {
	ID        string  `json:"id"`
	CheckIn   string  `json:"check_in"`
	CheckOut  string  `json:"check_out"`
	WorkHours float64 `json:"work_hours"`
}

type MyAttendanceFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validatePagination(&f.Page, &f.Limit)...)
	errs = append(errs, validateDateRange(f.StartDate, f.EndDate)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceFilter struct {
	// Search & Filter
	EmployeeID   *string `json:"employee_id,omitempty"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	Type         *string `json:"type,omitempty"`
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validatePagination(&f.Page, &f.Limit)...)
	errs = append(errs, validateDateRange(f.StartDate, f.EndDate)...)

	if f.Type != nil && *f.Type != "" {
		validTypes := []string{string(TypeFullDay), string(TypeHalfDay), string(TypeHoliday)}
		if !validator.IsInSlice(*f.Type, validTypes) {
			errs = append(errs, validator.ValidationError{
				Field:   "type",
				Message: "type must be one of: full-day, half-day, holiday",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validatePagination(page, limit *int) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if *page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if *page == 0 {
		*page = 1 // Default page
	}

	if *limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if *limit == 0 {
		*limit = 10 // Default limit
	}
	if *limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	return errs
}

func validateDateRange(startDate, endDate *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if startDate != nil && *startDate != "" {
		if _, valid := validator.IsValidDate(*startDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if endDate != nil && *endDate != "" {
		if _, valid := validator.IsValidDate(*endDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if startDate != nil && endDate != nil && *startDate != "" && *endDate != "" {
		start, okStart := validator.IsValidDate(*startDate)
		end, okEnd := validator.IsValidDate(*endDate)
		if okStart && okEnd && end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		}
	}

	return errs
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total"`
	CurrentPage int                  `json:"current_page"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"records"`
}

// EmployeeAttendanceResponse is the HR per-employee listing, carrying an
// employee summary alongside the records.
type EmployeeAttendanceResponse struct {
	Employee    EmployeeSummary      `json:"employee"`
	TotalCount  int64                `json:"total"`
	CurrentPage int                  `json:"current_page"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"records"`
}

type EmployeeSummary struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	EmployeeCode string  `json:"employee_code"`
	Department   *string `json:"department,omitempty"`
}

// AdminUpdateRequest lets HR correct classification fields on a record.
// Fields left nil are unchanged. Holiday quota is NOT re-validated here.
type AdminUpdateRequest struct {
	ID     string  `json:"-"`
	Type   *string `json:"type,omitempty"`
	Status *string `json:"status,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

func (r *AdminUpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Type != nil {
		validTypes := []string{string(TypeFullDay), string(TypeHalfDay), string(TypeHoliday)}
		if !validator.IsInSlice(*r.Type, validTypes) {
			errs = append(errs, validator.ValidationError{
				Field:   "type",
				Message: "type must be one of: full-day, half-day, holiday",
			})
		}
	}

	if r.Status != nil {
		validStatuses := []string{string(StatusPresent), string(StatusAbsent), string(StatusLate), string(StatusHalfDay)}
		if !validator.IsInSlice(*r.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: present, absent, late, half-day",
			})
		}
	}

	if r.Notes != nil {
		trimmed := strings.TrimSpace(*r.Notes)
		r.Notes = &trimmed
	}

	if r.Type == nil && r.Status == nil && r.Notes == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "body",
			Message: "at least one of type, status, notes must be provided",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
