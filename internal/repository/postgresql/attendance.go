package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `a.id, a.employee_id, a.date, a.type, a.check_in, a.check_out,
		   a.status, a.notes, a.created_at, a.updated_at`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID,
		&a.EmployeeID,
		&a.Date,
		&a.Type,
		&a.CheckIn,
		&a.CheckOut,
		&a.Status,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func scanAttendanceWithEmployee(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID,
		&a.EmployeeID,
		&a.Date,
		&a.Type,
		&a.CheckIn,
		&a.CheckOut,
		&a.Status,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.EmployeeName,
		&a.EmployeeCode,
		&a.Department,
	)
	return a, err
}

// Create implements attendance.AttendanceRepository.
//
// The unique (employee_id, date) constraint is the authority on "one
// record per employee per day". Two concurrent inserts for the same day
// race here and exactly one wins.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances AS a (employee_id, date, type, check_in, check_out, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		record.EmployeeID,
		record.Date,
		record.Type,
		record.CheckIn,
		record.CheckOut,
		record.Status,
		record.Notes,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.Attendance{}, attendance.ErrAlreadyMarkedToday
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return created, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `, u.name, u.employee_code, u.department
		FROM attendances a
		JOIN users u ON u.id = a.employee_id
		WHERE a.id = $1
	`

	found, err := scanAttendanceWithEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return found, nil
}

// HasMarkedOn implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) HasMarkedOn(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM attendances WHERE employee_id = $1 AND date = $2)`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check attendance for day: %w", err)
	}

	return exists, nil
}

// SetCheckOut implements attendance.AttendanceRepository.
//
// The check_out IS NULL guard makes checkout first-write-wins: a second
// attempt matches no row and is reported as already checked out.
func (r *attendanceRepositoryImpl) SetCheckOut(ctx context.Context, id string, checkOut time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances AS a
		SET check_out = $1, updated_at = NOW()
		WHERE a.id = $2 AND a.check_out IS NULL
		RETURNING ` + attendanceColumns

	updated, err := scanAttendance(q.QueryRow(ctx, query, checkOut, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			// Distinguish a missing record from one already closed.
			var exists bool
			if checkErr := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM attendances WHERE id = $1)`, id).Scan(&exists); checkErr != nil {
				return attendance.Attendance{}, fmt.Errorf("failed to check attendance existence: %w", checkErr)
			}
			if exists {
				return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
			}
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to set check out: %w", err)
	}

	return updated, nil
}

// ListForEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListForEmployee(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := ` WHERE a.employee_id = $1`
	args := []interface{}{employeeID}
	argPos := 2

	if filter.StartDate != nil && *filter.StartDate != "" {
		whereClause += fmt.Sprintf(` AND a.date >= $%d`, argPos)
		args = append(args, *filter.StartDate)
		argPos++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		whereClause += fmt.Sprintf(` AND a.date <= $%d`, argPos)
		args = append(args, *filter.EndDate)
		argPos++
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM attendances a` + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	query := `SELECT ` + attendanceColumns + ` FROM attendances a` + whereClause +
		fmt.Sprintf(` ORDER BY a.date DESC LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read attendance rows: %w", err)
	}

	return records, total, nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := ` WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		whereClause += fmt.Sprintf(` AND a.employee_id = $%d`, argPos)
		args = append(args, *filter.EmployeeID)
		argPos++
	}
	if filter.EmployeeCode != nil && *filter.EmployeeCode != "" {
		whereClause += fmt.Sprintf(` AND u.employee_code = $%d`, argPos)
		args = append(args, *filter.EmployeeCode)
		argPos++
	}
	if filter.Type != nil && *filter.Type != "" {
		whereClause += fmt.Sprintf(` AND a.type = $%d`, argPos)
		args = append(args, *filter.Type)
		argPos++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		whereClause += fmt.Sprintf(` AND a.date >= $%d`, argPos)
		args = append(args, *filter.StartDate)
		argPos++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		whereClause += fmt.Sprintf(` AND a.date <= $%d`, argPos)
		args = append(args, *filter.EndDate)
		argPos++
	}

	fromClause := ` FROM attendances a JOIN users u ON u.id = a.employee_id`

	var total int64
	countQuery := `SELECT COUNT(*)` + fromClause + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	query := `SELECT ` + attendanceColumns + `, u.name, u.employee_code, u.department` +
		fromClause + whereClause +
		fmt.Sprintf(` ORDER BY a.date DESC, a.created_at DESC LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendanceWithEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read attendance rows: %w", err)
	}

	return records, total, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, id string, req attendance.AdminUpdateRequest) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	setClauses := "updated_at = NOW()"
	args := []interface{}{}
	argPos := 1

	if req.Type != nil {
		setClauses += fmt.Sprintf(", type = $%d", argPos)
		args = append(args, *req.Type)
		argPos++
	}
	if req.Status != nil {
		setClauses += fmt.Sprintf(", status = $%d", argPos)
		args = append(args, *req.Status)
		argPos++
	}
	if req.Notes != nil {
		setClauses += fmt.Sprintf(", notes = $%d", argPos)
		args = append(args, *req.Notes)
		argPos++
	}

	query := fmt.Sprintf(`UPDATE attendances AS a SET %s WHERE a.id = $%d RETURNING `, setClauses, argPos) + attendanceColumns
	args = append(args, id)

	updated, err := scanAttendance(q.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return updated, nil
}

// CountHolidaysInRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CountHolidaysInRange(ctx context.Context, employeeID string, start, end time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*) FROM attendances
		WHERE employee_id = $1 AND type = 'holiday' AND date >= $2 AND date <= $3
	`

	var count int
	if err := q.QueryRow(ctx, query, employeeID, start, end).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count holidays: %w", err)
	}

	return count, nil
}
