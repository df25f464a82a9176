package repository

import (
	"context"
	"database/sql"

	"github.com/arhaval/talent-admin/internal/model"
)

// FinanceRepo persists monthly bookkeeping rows.
type FinanceRepo struct{ DB *sql.DB }

func NewFinanceRepo(db *sql.DB) *FinanceRepo { return &FinanceRepo{DB: db} }

const financeCols = "id, month, category, description, income, expense, created_at, updated_at"

func scanFinance(sc interface{ Scan(...any) error }) (model.FinancialRecord, error) {
	var f model.FinancialRecord
	var desc sql.NullString
	err := sc.Scan(&f.ID, &f.Month, &f.Category, &desc, &f.Income, &f.Expense, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return model.FinancialRecord{}, err
	}
	if desc.Valid {
		f.Description = &desc.String
	}
	return f, nil
}

// Create inserts a record; a duplicate (month, category) pair is a conflict.
func (r *FinanceRepo) Create(ctx context.Context, f *model.FinancialRecord) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO financial_records (month, category, description, income, expense) VALUES (?,?,?,?,?)",
		f.Month, f.Category, f.Description, f.Income, f.Expense)
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
	f.ID = uint64(id)
	return nil
}

// Update rewrites the numeric fields and description of an existing record.
func (r *FinanceRepo) Update(ctx context.Context, id uint64, description *string, income, expense int64) (model.FinancialRecord, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE financial_records SET description=?, income=?, expense=? WHERE id=?",
		description, income, expense, id)
	if err != nil {
		return model.FinancialRecord{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return model.FinancialRecord{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches one record.
func (r *FinanceRepo) GetByID(ctx context.Context, id uint64) (model.FinancialRecord, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+financeCols+" FROM financial_records WHERE id=? LIMIT 1", id)
	f, err := scanFinance(row)
	if err == sql.ErrNoRows {
		return model.FinancialRecord{}, ErrNotFound
	}
	return f, err
}

// ListByMonth returns all records for a YYYY-MM month.
func (r *FinanceRepo) ListByMonth(ctx context.Context, month string) ([]model.FinancialRecord, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+financeCols+" FROM financial_records WHERE month=? ORDER BY category", month)
	if err != nil {
		return nil, err
	}
	return collectFinance(rows)
}

// ListAll returns every record, newest month first.
func (r *FinanceRepo) ListAll(ctx context.Context) ([]model.FinancialRecord, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+financeCols+" FROM financial_records ORDER BY month DESC, category")
	if err != nil {
		return nil, err
	}
	return collectFinance(rows)
}

// Delete removes a record.
func (r *FinanceRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM financial_records WHERE id=?", id)
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

// Count returns the total number of records.
func (r *FinanceRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM financial_records").Scan(&n)
	return n, err
}

func collectFinance(rows *sql.Rows) ([]model.FinancialRecord, error) {
	defer rows.Close()
	out := []model.FinancialRecord{}
	for rows.Next() {
		f, err := scanFinance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
