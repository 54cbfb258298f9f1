package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/attendly/attendance-backend-go/internal/domain/leave"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

const leaveColumns = `
	l.id, l.user_id, l.leave_type, l.start_date, l.end_date, l.total_days,
	l.reason, l.status, l.approved_by, l.approved_at, l.rejection_reason,
	l.created_at, l.updated_at
`

// Create implements leave.LeaveRepository.
func (r *leaveRepository) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (user_id, leave_type, start_date, end_date, total_days, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.UserID, string(req.LeaveType), req.StartDate, req.EndDate,
		req.TotalDays, req.Reason, string(req.Status),
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return req, nil
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveColumns + `, NULL::text
		FROM leave_requests l
		WHERE l.id = $1
	`

	return scanLeaveRequest(q.QueryRow(ctx, query, id))
}

// UpdateStatus implements leave.LeaveRepository. The status = 'pending'
// predicate makes the decision a compare-and-set; a row that was already
// decided or cancelled simply does not match.
func (r *leaveRepository) UpdateStatus(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2, approved_by = $3, approved_at = $4, rejection_reason = $5, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID, string(req.Status), req.ApprovedBy, req.ApprovedAt, req.RejectionReason,
	).Scan(&req.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveAlreadyProcessed
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request status: %w", err)
	}

	return req, nil
}

// ListByUser implements leave.LeaveRepository.
func (r *leaveRepository) ListByUser(ctx context.Context, userID string, filter leave.ListFilter) ([]leave.LeaveRequest, int64, error) {
	where := "l.user_id = $1"
	args := []interface{}{userID}
	return r.list(ctx, where, args, filter, false)
}

// ListAll implements leave.LeaveRepository.
func (r *leaveRepository) ListAll(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, int64, error) {
	return r.list(ctx, "TRUE", nil, filter, true)
}

func (r *leaveRepository) list(ctx context.Context, where string, args []interface{}, filter leave.ListFilter, withNames bool) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	argIdx := len(args) + 1
	if filter.Status != nil && *filter.Status != "" {
		where += fmt.Sprintf(" AND l.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM leave_requests l WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	nameColumn := "NULL::text"
	join := ""
	if withNames {
		nameColumn = "p.full_name"
		join = "LEFT JOIN profiles p ON p.id = l.user_id"
	}

	query := `
		SELECT ` + leaveColumns + `, ` + nameColumn + `
		FROM leave_requests l
		` + join + `
		WHERE ` + where + fmt.Sprintf(`
		ORDER BY l.created_at DESC
		LIMIT $%d OFFSET $%d`, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate leave requests: %w", err)
	}

	return requests, total, nil
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var l leave.LeaveRequest
	var leaveType, status string
	err := row.Scan(
		&l.ID, &l.UserID, &leaveType, &l.StartDate, &l.EndDate, &l.TotalDays,
		&l.Reason, &status, &l.ApprovedBy, &l.ApprovedAt, &l.RejectionReason,
		&l.CreatedAt, &l.UpdatedAt, &l.FullName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to scan leave request: %w", err)
	}
	l.LeaveType = leave.LeaveType(leaveType)
	l.Status = leave.LeaveStatus(status)
	return l, nil
}
