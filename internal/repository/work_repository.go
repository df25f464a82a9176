package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/arhaval/talent-admin/internal/model"
)

// WorkSubmissionRepo persists finished-work submissions. The review
// transition uses the same compare-and-swap pattern as StreamRepo.
type WorkSubmissionRepo struct{ DB *sql.DB }

func NewWorkSubmissionRepo(db *sql.DB) *WorkSubmissionRepo { return &WorkSubmissionRepo{DB: db} }

const workCols = `id, actor_variant, actor_id, title, description, status, cost,
	admin_notes, approved_at, created_at, updated_at`

func scanWork(sc interface{ Scan(...any) error }) (model.WorkSubmission, error) {
	var w model.WorkSubmission
	var desc, notes sql.NullString
	var approvedAt sql.NullTime
	err := sc.Scan(&w.ID, &w.ActorVariant, &w.ActorID, &w.Title, &desc, &w.Status, &w.Cost,
		&notes, &approvedAt, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return model.WorkSubmission{}, err
	}
	if desc.Valid {
		w.Description = &desc.String
	}
	if notes.Valid {
		w.AdminNotes = &notes.String
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		w.ApprovedAt = &t
	}
	return w, nil
}

// Create inserts a submission in pending status with zero cost.
func (r *WorkSubmissionRepo) Create(ctx context.Context, w *model.WorkSubmission) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO work_submissions (actor_variant, actor_id, title, description, status, cost)
		 VALUES (?,?,?,?,?,0)`,
		w.ActorVariant, w.ActorID, w.Title, w.Description, model.StatusPending)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = uint64(id)
	created, err := r.GetByID(ctx, w.ID)
	if err != nil {
		return err
	}
	*w = created
	return nil
}

// GetByID fetches one submission.
func (r *WorkSubmissionRepo) GetByID(ctx context.Context, id uint64) (model.WorkSubmission, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+workCols+" FROM work_submissions WHERE id=? LIMIT 1", id)
	w, err := scanWork(row)
	if err == sql.ErrNoRows {
		return model.WorkSubmission{}, ErrNotFound
	}
	return w, err
}

// Review transitions a pending submission to approved or rejected. Cost and
// notes are stamped by the reviewer; approvedAt is set only on approval.
func (r *WorkSubmissionRepo) Review(ctx context.Context, id uint64, status string, cost int64, notes *string, approvedAt *time.Time) (model.WorkSubmission, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE work_submissions SET status=?, cost=?, admin_notes=?, approved_at=?
		 WHERE id=? AND status=?`,
		status, cost, notes, approvedAt, id, model.StatusPending)
	if err != nil {
		return model.WorkSubmission{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.WorkSubmission{}, err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return model.WorkSubmission{}, err
		}
		return model.WorkSubmission{}, ErrAlreadyReviewed
	}
	return r.GetByID(ctx, id)
}

// ListByActor returns one actor's submissions, newest first.
func (r *WorkSubmissionRepo) ListByActor(ctx context.Context, variant string, actorID uint64) ([]model.WorkSubmission, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+workCols+" FROM work_submissions WHERE actor_variant=? AND actor_id=? ORDER BY id DESC",
		variant, actorID)
	if err != nil {
		return nil, err
	}
	return collectWork(rows)
}

// ListAll returns every submission, optionally filtered by status.
func (r *WorkSubmissionRepo) ListAll(ctx context.Context, status string) ([]model.WorkSubmission, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status == "" {
		rows, err = r.DB.QueryContext(ctx,
			"SELECT "+workCols+" FROM work_submissions ORDER BY id DESC")
	} else {
		rows, err = r.DB.QueryContext(ctx,
			"SELECT "+workCols+" FROM work_submissions WHERE status=? ORDER BY id DESC", status)
	}
	if err != nil {
		return nil, err
	}
	return collectWork(rows)
}

// CountByStatus returns the number of submissions in a given status.
func (r *WorkSubmissionRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM work_submissions WHERE status=?", status).Scan(&n)
	return n, err
}

// Count returns the total number of submissions.
func (r *WorkSubmissionRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM work_submissions").Scan(&n)
	return n, err
}

func collectWork(rows *sql.Rows) ([]model.WorkSubmission, error) {
	defer rows.Close()
	out := []model.WorkSubmission{}
	for rows.Next() {
		w, err := scanWork(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
