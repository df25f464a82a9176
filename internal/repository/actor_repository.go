package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/arhaval/talent-admin/internal/auth"
	"github.com/arhaval/talent-admin/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// actorTables maps each variant to its table. The five tables share a
// layout, so one repository serves them all; the variant picks the table.
var actorTables = map[auth.Variant]string{
	auth.VariantAdmin:          "admin_users",
	auth.VariantStreamer:       "streamers",
	auth.VariantVoiceActor:     "voice_actors",
	auth.VariantContentCreator: "content_creators",
	auth.VariantTeamMember:     "team_members",
}

// ActorRepo provides CRUD over the five actor tables.
type ActorRepo struct{ DB *sql.DB }

func NewActorRepo(db *sql.DB) *ActorRepo { return &ActorRepo{DB: db} }

func tableFor(v auth.Variant) (string, error) {
	t, ok := actorTables[v]
	if !ok {
		return "", fmt.Errorf("unknown actor variant %q", v)
	}
	return t, nil
}

const actorCols = "id, email, password_hash, display_name, role, is_active, created_at, updated_at"

func scanActor(row *sql.Row) (model.Actor, error) {
	var a model.Actor
	var email, hash sql.NullString
	err := row.Scan(&a.ID, &email, &hash, &a.DisplayName, &a.Role, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Actor{}, ErrNotFound
	}
	if err != nil {
		return model.Actor{}, err
	}
	if email.Valid {
		a.Email = &email.String
	}
	if hash.Valid {
		a.PasswordHash = &hash.String
	}
	return a, nil
}

// Create inserts an actor and returns its id. Email is normalized to lower
// case; a nil password leaves the account unable to authenticate.
func (r *ActorRepo) Create(ctx context.Context, v auth.Variant, email *string, password *string, displayName, role string, bcryptCost int) (uint64, error) {
	table, err := tableFor(v)
	if err != nil {
		return 0, err
	}
	var emailVal, hashVal any
	if email != nil {
		e := strings.ToLower(strings.TrimSpace(*email))
		emailVal = e
	}
	if password != nil {
		b, err := bcrypt.GenerateFromPassword([]byte(*password), bcryptCost)
		if err != nil {
			return 0, err
		}
		hashVal = string(b)
	}
	res, err := r.DB.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (email, password_hash, display_name, role) VALUES (?,?,?,?)", table),
		emailVal, hashVal, displayName, role)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches an actor row by id.
func (r *ActorRepo) GetByID(ctx context.Context, v auth.Variant, id uint64) (model.Actor, error) {
	table, err := tableFor(v)
	if err != nil {
		return model.Actor{}, err
	}
	row := r.DB.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE id=? LIMIT 1", actorCols, table), id)
	return scanActor(row)
}

// GetByEmail fetches an actor by normalized email.
func (r *ActorRepo) GetByEmail(ctx context.Context, v auth.Variant, email string) (model.Actor, error) {
	table, err := tableFor(v)
	if err != nil {
		return model.Actor{}, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE email=? LIMIT 1", actorCols, table), email)
	return scanActor(row)
}

// List returns all actors of a variant, newest first.
func (r *ActorRepo) List(ctx context.Context, v auth.Variant) ([]model.Actor, error) {
	table, err := tableFor(v)
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s ORDER BY id DESC", actorCols, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Actor{}
	for rows.Next() {
		var a model.Actor
		var email, hash sql.NullString
		if err := rows.Scan(&a.ID, &email, &hash, &a.DisplayName, &a.Role, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		if email.Valid {
			a.Email = &email.String
		}
		if hash.Valid {
			a.PasswordHash = &hash.String
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SetActive toggles an actor's active flag.
func (r *ActorRepo) SetActive(ctx context.Context, v auth.Variant, id uint64, active bool) error {
	table, err := tableFor(v)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET is_active=? WHERE id=?", table), active, id)
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

// Delete removes an actor. Dependent rows cascade or null out per the
// schema's foreign keys.
func (r *ActorRepo) Delete(ctx context.Context, v auth.Variant, id uint64) error {
	table, err := tableFor(v)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id=?", table), id)
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

// Count returns the number of rows for a variant.
func (r *ActorRepo) Count(ctx context.Context, v auth.Variant) (int64, error) {
	table, err := tableFor(v)
	if err != nil {
		return 0, err
	}
	var n int64
	err = r.DB.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n)
	return n, err
}

// LookupActor implements auth.ActorLookup for the session resolver. A
// missing row surfaces as ErrNotFound, which the resolver treats as
// unauthenticated.
func (r *ActorRepo) LookupActor(ctx context.Context, v auth.Variant, id uint64) (string, bool, error) {
	a, err := r.GetByID(ctx, v, id)
	if err != nil {
		return "", false, err
	}
	return a.Role, a.IsActive, nil
}

// VerifyPassword safely compares an actor's bcrypt hash with a candidate
// password. Actors without a stored hash never verify.
func VerifyPassword(a model.Actor, plain string) bool {
	if a.PasswordHash == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*a.PasswordHash), []byte(plain)) == nil
}
