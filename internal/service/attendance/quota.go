package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/pkg/clock"
)

// HolidayQuotaPolicy computes the per-month holiday allowance. Counts
// come from stored records only, so an HR correction that retypes a
// record moves the count with it.
type HolidayQuotaPolicy struct {
	repo attendance.AttendanceRepository
}

func NewHolidayQuotaPolicy(repo attendance.AttendanceRepository) *HolidayQuotaPolicy {
	return &HolidayQuotaPolicy{repo: repo}
}

// HolidayCountForMonth counts holiday records for the calendar month
// containing at.
func (p *HolidayQuotaPolicy) HolidayCountForMonth(ctx context.Context, employeeID string, at time.Time) (int, error) {
	start, end := clock.MonthRange(at)
	// date is a DATE column; the range is [start, end) expressed as an
	// inclusive upper bound on the last day.
	count, err := p.repo.CountHolidaysInRange(ctx, employeeID, start, end.AddDate(0, 0, -1))
	if err != nil {
		return 0, fmt.Errorf("failed to count holidays for month: %w", err)
	}
	return count, nil
}

// Snapshot builds the quota view for the month containing at.
func (p *HolidayQuotaPolicy) Snapshot(ctx context.Context, employeeID string, at time.Time) (attendance.HolidayStatus, error) {
	count, err := p.HolidayCountForMonth(ctx, employeeID, at)
	if err != nil {
		return attendance.HolidayStatus{}, err
	}

	remaining := attendance.MaxHolidaysPerMonth - count
	if remaining < 0 {
		remaining = 0
	}

	return attendance.HolidayStatus{
		CanTake:      count < attendance.MaxHolidaysPerMonth,
		CurrentCount: count,
		MaxHolidays:  attendance.MaxHolidaysPerMonth,
		Remaining:    remaining,
	}, nil
}
