package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/arhaval/talent-admin/internal/model"
)

// ExtraWorkRepo persists extra-work requests (additional paid hours).
type ExtraWorkRepo struct{ DB *sql.DB }

func NewExtraWorkRepo(db *sql.DB) *ExtraWorkRepo { return &ExtraWorkRepo{DB: db} }

const extraCols = `id, actor_variant, actor_id, work_date, hours, reason, status, cost,
	admin_notes, approved_at, created_at, updated_at`

func scanExtra(sc interface{ Scan(...any) error }) (model.ExtraWorkRequest, error) {
	var e model.ExtraWorkRequest
	var notes sql.NullString
	var approvedAt sql.NullTime
	err := sc.Scan(&e.ID, &e.ActorVariant, &e.ActorID, &e.WorkDate, &e.Hours, &e.Reason,
		&e.Status, &e.Cost, &notes, &approvedAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return model.ExtraWorkRequest{}, err
	}
	if notes.Valid {
		e.AdminNotes = &notes.String
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		e.ApprovedAt = &t
	}
	return e, nil
}

// Create inserts a request in pending status with zero cost.
func (r *ExtraWorkRepo) Create(ctx context.Context, e *model.ExtraWorkRequest) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO extra_work_requests (actor_variant, actor_id, work_date, hours, reason, status, cost)
		 VALUES (?,?,?,?,?,?,0)`,
		e.ActorVariant, e.ActorID, e.WorkDate.Format("2006-01-02"), e.Hours, e.Reason, model.StatusPending)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	created, err := r.GetByID(ctx, e.ID)
	if err != nil {
		return err
	}
	*e = created
	return nil
}

// GetByID fetches one request.
func (r *ExtraWorkRepo) GetByID(ctx context.Context, id uint64) (model.ExtraWorkRequest, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+extraCols+" FROM extra_work_requests WHERE id=? LIMIT 1", id)
	e, err := scanExtra(row)
	if err == sql.ErrNoRows {
		return model.ExtraWorkRequest{}, ErrNotFound
	}
	return e, err
}

// Review transitions a pending request to approved or rejected (CAS on
// status, same policy as streams).
func (r *ExtraWorkRepo) Review(ctx context.Context, id uint64, status string, cost int64, notes *string, approvedAt *time.Time) (model.ExtraWorkRequest, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE extra_work_requests SET status=?, cost=?, admin_notes=?, approved_at=?
		 WHERE id=? AND status=?`,
		status, cost, notes, approvedAt, id, model.StatusPending)
	if err != nil {
		return model.ExtraWorkRequest{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.ExtraWorkRequest{}, err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return model.ExtraWorkRequest{}, err
		}
		return model.ExtraWorkRequest{}, ErrAlreadyReviewed
	}
	return r.GetByID(ctx, id)
}

// ListByActor returns one actor's requests, newest first.
func (r *ExtraWorkRepo) ListByActor(ctx context.Context, variant string, actorID uint64) ([]model.ExtraWorkRequest, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+extraCols+" FROM extra_work_requests WHERE actor_variant=? AND actor_id=? ORDER BY id DESC",
		variant, actorID)
	if err != nil {
		return nil, err
	}
	return collectExtra(rows)
}

// ListAll returns every request, optionally filtered by status.
func (r *ExtraWorkRepo) ListAll(ctx context.Context, status string) ([]model.ExtraWorkRequest, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status == "" {
		rows, err = r.DB.QueryContext(ctx,
			"SELECT "+extraCols+" FROM extra_work_requests ORDER BY id DESC")
	} else {
		rows, err = r.DB.QueryContext(ctx,
			"SELECT "+extraCols+" FROM extra_work_requests WHERE status=? ORDER BY id DESC", status)
	}
	if err != nil {
		return nil, err
	}
	return collectExtra(rows)
}

// CountByStatus returns the number of requests in a given status.
func (r *ExtraWorkRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM extra_work_requests WHERE status=?", status).Scan(&n)
	return n, err
}

// Count returns the total number of requests.
func (r *ExtraWorkRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM extra_work_requests").Scan(&n)
	return n, err
}

func collectExtra(rows *sql.Rows) ([]model.ExtraWorkRequest, error) {
	defer rows.Close()
	out := []model.ExtraWorkRequest{}
	for rows.Next() {
		e, err := scanExtra(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
