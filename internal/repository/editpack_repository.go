package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/arhaval/talent-admin/internal/model"
)

// EditPackRepo persists capability tokens granting unauthenticated,
// time-limited access to a single script.
type EditPackRepo struct{ DB *sql.DB }

func NewEditPackRepo(db *sql.DB) *EditPackRepo { return &EditPackRepo{DB: db} }

// Create stores a new pack. The token must already be generated (see
// auth.NewToken); uniqueness violations bubble up as ErrDuplicate.
func (r *EditPackRepo) Create(ctx context.Context, p *model.EditPack) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO edit_packs (token, script_id, expires_at) VALUES (?,?,?)",
		p.Token, p.ScriptID, p.ExpiresAt.UTC())
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

// PackView joins an edit pack with the sanitized script fields the public
// endpoint is allowed to expose. Nothing else about the script (creator id,
// assignment) leaves this query.
type PackView struct {
	Token     string
	ExpiresAt time.Time
	Title     string
	Text      string
	AudioURL  *string
}

// GetByToken resolves a token to its pack and script payload. Unknown tokens
// return ErrNotFound; expiry is the caller's decision so that "expired" can
// be reported distinctly from "never existed".
func (r *EditPackRepo) GetByToken(ctx context.Context, token string) (PackView, error) {
	var v PackView
	var audio sql.NullString
	err := r.DB.QueryRowContext(ctx,
		`SELECT p.token, p.expires_at, s.title, s.text, s.audio_url
		 FROM edit_packs p JOIN voiceover_scripts s ON s.id = p.script_id
		 WHERE p.token=? LIMIT 1`, token).
		Scan(&v.Token, &v.ExpiresAt, &v.Title, &v.Text, &audio)
	if err == sql.ErrNoRows {
		return PackView{}, ErrNotFound
	}
	if err != nil {
		return PackView{}, err
	}
	if audio.Valid {
		v.AudioURL = &audio.String
	}
	return v, nil
}

// DeleteExpired prunes packs whose expiry has passed. Run by the daily
// sweep; expired packs already answer 410 before this runs.
func (r *EditPackRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM edit_packs WHERE expires_at < ?", now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
