package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/pkg/clock"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	user.UserRepository
	quota *HolidayQuotaPolicy
	clock clock.Clock
}

func NewAttendanceService(attendanceRepository attendance.AttendanceRepository, userRepository user.UserRepository, clk clock.Clock) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		UserRepository:       userRepository,
		quota:                NewHolidayQuotaPolicy(attendanceRepository),
		clock:                clk,
	}
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

func toAttendanceResponse(a attendance.Attendance) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		EmployeeName: a.EmployeeName,
		EmployeeCode: a.EmployeeCode,
		Department:   a.Department,
		Date:         a.Date.Format("2006-01-02"),
		Type:         string(a.Type),
		CheckIn:      timePtrToString(a.CheckIn),
		CheckOut:     timePtrToString(a.CheckOut),
		Status:       string(a.Status),
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    a.UpdatedAt.Format(time.RFC3339),
	}
	if a.CheckIn != nil && a.CheckOut != nil {
		hours := a.WorkHours()
		resp.WorkHours = &hours
	}
	return resp
}

func claimsFromContext(ctx context.Context) (userID, role string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", fmt.Errorf("user_id claim is missing or invalid")
	}
	role, _ = claims["role"].(string)

	return userID, role, nil
}

// Mark implements attendance.AttendanceService.
//
// The repository's unique (employee_id, date) constraint is what makes
// this safe under concurrency; the HasMarkedOn pre-check only produces
// a friendlier fast path.
func (s *AttendanceServiceImpl) Mark(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	employeeID, role, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if role != string(user.RoleEmployee) {
		return attendance.AttendanceResponse{}, user.ErrEmployeeOnly
	}

	now := s.clock.Now()
	today := clock.DayOf(now)

	marked, err := s.AttendanceRepository.HasMarkedOn(ctx, employeeID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check existing attendance: %w", err)
	}
	if marked {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyMarkedToday
	}

	markType := attendance.Type(req.Type)

	if markType == attendance.TypeHoliday {
		status, err := s.quota.Snapshot(ctx, employeeID, now)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		if !status.CanTake {
			return attendance.AttendanceResponse{}, &attendance.QuotaExceededError{Status: status}
		}
	}

	recordStatus := attendance.StatusPresent
	if markType == attendance.TypeHalfDay {
		recordStatus = attendance.StatusHalfDay
	}

	created, err := s.AttendanceRepository.Create(ctx, attendance.Attendance{
		EmployeeID: employeeID,
		Date:       today,
		Type:       markType,
		CheckIn:    &now,
		Status:     recordStatus,
		Notes:      req.Notes,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toAttendanceResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, recordID string) (attendance.CheckOutResponse, error) {
	employeeID, _, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	if !validator.IsValidUUID(recordID) {
		return attendance.CheckOutResponse{}, attendance.ErrAttendanceNotFound
	}

	record, err := s.AttendanceRepository.GetByID(ctx, recordID)
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}
	if record.EmployeeID != employeeID {
		return attendance.CheckOutResponse{}, attendance.ErrNotRecordOwner
	}

	updated, err := s.AttendanceRepository.SetCheckOut(ctx, recordID, s.clock.Now())
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	resp := attendance.CheckOutResponse{
		ID:        updated.ID,
		CheckOut:  updated.CheckOut.Format(time.RFC3339),
		WorkHours: updated.WorkHours(),
	}
	if updated.CheckIn != nil {
		resp.CheckIn = updated.CheckIn.Format(time.RFC3339)
	}
	return resp, nil
}

// HolidayStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) HolidayStatus(ctx context.Context) (attendance.HolidayStatus, error) {
	employeeID, _, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.HolidayStatus{}, err
	}

	return s.quota.Snapshot(ctx, employeeID, s.clock.Now())
}

// GetMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	employeeID, _, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := s.AttendanceRepository.ListForEmployee(ctx, employeeID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	return buildListResponse(records, total, filter.Page, filter.Limit), nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if _, role, err := claimsFromContext(ctx); err != nil {
		return attendance.ListAttendanceResponse{}, err
	} else if role != string(user.RoleHR) {
		return attendance.ListAttendanceResponse{}, user.ErrHRAccessRequired
	}

	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	return buildListResponse(records, total, filter.Page, filter.Limit), nil
}

// GetEmployeeAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetEmployeeAttendance(ctx context.Context, employeeCode string, filter attendance.MyAttendanceFilter) (attendance.EmployeeAttendanceResponse, error) {
	if _, role, err := claimsFromContext(ctx); err != nil {
		return attendance.EmployeeAttendanceResponse{}, err
	} else if role != string(user.RoleHR) {
		return attendance.EmployeeAttendanceResponse{}, user.ErrHRAccessRequired
	}

	if err := filter.Validate(); err != nil {
		return attendance.EmployeeAttendanceResponse{}, err
	}

	employee, err := s.UserRepository.GetByEmployeeCode(ctx, employeeCode)
	if err != nil {
		return attendance.EmployeeAttendanceResponse{}, err
	}

	records, total, err := s.AttendanceRepository.ListForEmployee(ctx, employee.ID, filter)
	if err != nil {
		return attendance.EmployeeAttendanceResponse{}, err
	}

	list := buildListResponse(records, total, filter.Page, filter.Limit)

	code := ""
	if employee.EmployeeCode != nil {
		code = *employee.EmployeeCode
	}

	return attendance.EmployeeAttendanceResponse{
		Employee: attendance.EmployeeSummary{
			ID:           employee.ID,
			Name:         employee.Name,
			Email:        employee.Email,
			EmployeeCode: code,
			Department:   employee.Department,
		},
		TotalCount:  list.TotalCount,
		CurrentPage: list.CurrentPage,
		TotalPages:  list.TotalPages,
		Attendances: list.Attendances,
	}, nil
}

// UpdateAttendance implements attendance.AttendanceService.
//
// An HR correction rewrites the record as stated. Retyping a record to
// holiday is allowed even past the monthly cap; the quota applies to
// employee self-marking only.
func (s *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.AdminUpdateRequest) (attendance.AttendanceResponse, error) {
	if _, role, err := claimsFromContext(ctx); err != nil {
		return attendance.AttendanceResponse{}, err
	} else if role != string(user.RoleHR) {
		return attendance.AttendanceResponse{}, user.ErrHRAccessRequired
	}

	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !validator.IsValidUUID(req.ID) {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}

	updated, err := s.AttendanceRepository.Update(ctx, req.ID, req)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toAttendanceResponse(updated), nil
}

// GetAttendance implements attendance.AttendanceService. HR can read any
// record; an employee only their own.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	userID, role, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if !validator.IsValidUUID(id) {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}

	record, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if role != string(user.RoleHR) && record.EmployeeID != userID {
		return attendance.AttendanceResponse{}, attendance.ErrNotRecordOwner
	}

	return toAttendanceResponse(record), nil
}

func buildListResponse(records []attendance.Attendance, total int64, page, limit int) attendance.ListAttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, toAttendanceResponse(r))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		CurrentPage: page,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		Attendances: responses,
	}
}
