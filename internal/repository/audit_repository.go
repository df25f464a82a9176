package repository

import (
	"context"
	"database/sql"

	"github.com/arhaval/talent-admin/internal/model"
)

// AuditRepo persists the append-only audit trail. Rows are written by every
// review, login and export; nothing updates or deletes them.
type AuditRepo struct{ DB *sql.DB }

func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{DB: db} }

// Insert appends one entry.
func (r *AuditRepo) Insert(ctx context.Context, e *model.AuditLog) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO audit_logs (actor_variant, actor_id, action, entity, entity_id, detail) VALUES (?,?,?,?,?,?)",
		e.ActorVariant, e.ActorID, e.Action, e.Entity, e.EntityID, e.Detail)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// List returns one page of entries, newest first. page is 1-based.
func (r *AuditRepo) List(ctx context.Context, page, perPage int) ([]model.AuditLog, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * perPage
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, actor_variant, actor_id, action, entity, entity_id, detail, created_at
		 FROM audit_logs ORDER BY id DESC LIMIT ? OFFSET ?`, perPage, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.AuditLog{}
	for rows.Next() {
		var e model.AuditLog
		var detail sql.NullString
		if err := rows.Scan(&e.ID, &e.ActorVariant, &e.ActorID, &e.Action, &e.Entity, &e.EntityID, &detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		if detail.Valid {
			e.Detail = &detail.String
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count returns the total number of entries.
func (r *AuditRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_logs").Scan(&n)
	return n, err
}
