package repository

import (
	"context"
	"database/sql"

	"github.com/arhaval/talent-admin/internal/model"
)

// PlanRepo persists monthly planning items.
type PlanRepo struct{ DB *sql.DB }

func NewPlanRepo(db *sql.DB) *PlanRepo { return &PlanRepo{DB: db} }

const planCols = "id, month, title, description, done, created_at, updated_at"

func scanPlan(sc interface{ Scan(...any) error }) (model.MonthlyPlan, error) {
	var p model.MonthlyPlan
	var desc sql.NullString
	err := sc.Scan(&p.ID, &p.Month, &p.Title, &desc, &p.Done, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.MonthlyPlan{}, err
	}
	if desc.Valid {
		p.Description = &desc.String
	}
	return p, nil
}

// Create inserts a plan item; a duplicate (month, title) pair is a conflict.
func (r *PlanRepo) Create(ctx context.Context, p *model.MonthlyPlan) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO monthly_plans (month, title, description, done) VALUES (?,?,?,?)",
		p.Month, p.Title, p.Description, p.Done)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID fetches one plan item.
func (r *PlanRepo) GetByID(ctx context.Context, id uint64) (model.MonthlyPlan, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+planCols+" FROM monthly_plans WHERE id=? LIMIT 1", id)
	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return model.MonthlyPlan{}, ErrNotFound
	}
	return p, err
}

// SetDone toggles an item's done flag.
func (r *PlanRepo) SetDone(ctx context.Context, id uint64, done bool) (model.MonthlyPlan, error) {
	res, err := r.DB.ExecContext(ctx, "UPDATE monthly_plans SET done=? WHERE id=?", done, id)
	if err != nil {
		return model.MonthlyPlan{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return model.MonthlyPlan{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// ListByMonth returns a month's plan items.
func (r *PlanRepo) ListByMonth(ctx context.Context, month string) ([]model.MonthlyPlan, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+planCols+" FROM monthly_plans WHERE month=? ORDER BY id", month)
	if err != nil {
		return nil, err
	}
	return collectPlans(rows)
}

// ListAll returns every plan item, newest month first.
func (r *PlanRepo) ListAll(ctx context.Context) ([]model.MonthlyPlan, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+planCols+" FROM monthly_plans ORDER BY month DESC, id")
	if err != nil {
		return nil, err
	}
	return collectPlans(rows)
}

// Delete removes a plan item.
func (r *PlanRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM monthly_plans WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of plan items.
func (r *PlanRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM monthly_plans").Scan(&n)
	return n, err
}

func collectPlans(rows *sql.Rows) ([]model.MonthlyPlan, error) {
	defer rows.Close()
	out := []model.MonthlyPlan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
