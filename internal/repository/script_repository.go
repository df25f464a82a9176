package repository

import (
	"context"
	"database/sql"

	"github.com/arhaval/talent-admin/internal/model"
)

// ScriptRepo persists voiceover scripts and their assignment state.
type ScriptRepo struct{ DB *sql.DB }

func NewScriptRepo(db *sql.DB) *ScriptRepo { return &ScriptRepo{DB: db} }

const scriptCols = "id, creator_id, voice_actor_id, title, text, audio_url, created_at, updated_at"

func scanScript(sc interface{ Scan(...any) error }) (model.VoiceoverScript, error) {
	var s model.VoiceoverScript
	var vaID sql.NullInt64
	var audio sql.NullString
	err := sc.Scan(&s.ID, &s.CreatorID, &vaID, &s.Title, &s.Text, &audio, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.VoiceoverScript{}, err
	}
	if vaID.Valid {
		v := uint64(vaID.Int64)
		s.VoiceActorID = &v
	}
	if audio.Valid {
		s.AudioURL = &audio.String
	}
	return s, nil
}

// Create inserts a script owned by a content creator.
func (r *ScriptRepo) Create(ctx context.Context, s *model.VoiceoverScript) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO voiceover_scripts (creator_id, voice_actor_id, title, text) VALUES (?,?,?,?)",
		s.CreatorID, s.VoiceActorID, s.Title, s.Text)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	created, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = created
	return nil
}

// GetByID fetches one script.
func (r *ScriptRepo) GetByID(ctx context.Context, id uint64) (model.VoiceoverScript, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+scriptCols+" FROM voiceover_scripts WHERE id=? LIMIT 1", id)
	s, err := scanScript(row)
	if err == sql.ErrNoRows {
		return model.VoiceoverScript{}, ErrNotFound
	}
	return s, err
}

// Update rewrites title and text. Only the owning creator may update; the
// ownership check is part of the WHERE clause so a mismatch reads as not
// found rather than leaking another creator's script ids.
func (r *ScriptRepo) Update(ctx context.Context, id, creatorID uint64, title, text string) (model.VoiceoverScript, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE voiceover_scripts SET title=?, text=? WHERE id=? AND creator_id=?",
		title, text, id, creatorID)
	if err != nil {
		return model.VoiceoverScript{}, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return model.VoiceoverScript{}, err
	} else if n == 0 {
		cur, err := r.GetByID(ctx, id)
		if err != nil {
			return model.VoiceoverScript{}, err
		}
		if cur.CreatorID != creatorID {
			return model.VoiceoverScript{}, ErrNotFound
		}
		// No-op update with identical values.
		return cur, nil
	}
	return r.GetByID(ctx, id)
}

// Assign sets the voice actor for a script (admin operation; overwrites any
// existing assignment).
func (r *ScriptRepo) Assign(ctx context.Context, id uint64, voiceActorID *uint64) (model.VoiceoverScript, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE voiceover_scripts SET voice_actor_id=? WHERE id=?", voiceActorID, id)
	if err != nil {
		return model.VoiceoverScript{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return model.VoiceoverScript{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Claim lets a voice actor take an unclaimed script. The CAS on
// voice_actor_id IS NULL makes concurrent claims safe: the loser gets
// ErrAlreadyClaimed.
func (r *ScriptRepo) Claim(ctx context.Context, id, voiceActorID uint64) (model.VoiceoverScript, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE voiceover_scripts SET voice_actor_id=? WHERE id=? AND voice_actor_id IS NULL",
		voiceActorID, id)
	if err != nil {
		return model.VoiceoverScript{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.VoiceoverScript{}, err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return model.VoiceoverScript{}, err
		}
		return model.VoiceoverScript{}, ErrAlreadyClaimed
	}
	return r.GetByID(ctx, id)
}

// SetAudio stores the recorded take's URL. Only the assigned voice actor may
// attach audio.
func (r *ScriptRepo) SetAudio(ctx context.Context, id, voiceActorID uint64, audioURL string) (model.VoiceoverScript, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE voiceover_scripts SET audio_url=? WHERE id=? AND voice_actor_id=?",
		audioURL, id, voiceActorID)
	if err != nil {
		return model.VoiceoverScript{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.VoiceoverScript{}, err
	}
	if n == 0 {
		cur, err := r.GetByID(ctx, id)
		if err != nil {
			return model.VoiceoverScript{}, err
		}
		if cur.VoiceActorID == nil || *cur.VoiceActorID != voiceActorID {
			return model.VoiceoverScript{}, ErrNotFound
		}
		return cur, nil
	}
	return r.GetByID(ctx, id)
}

// Delete removes a script. When creatorID is non-zero the delete is scoped
// to that owner; zero means an admin delete.
func (r *ScriptRepo) Delete(ctx context.Context, id, creatorID uint64) error {
	var (
		res sql.Result
		err error
	)
	if creatorID == 0 {
		res, err = r.DB.ExecContext(ctx, "DELETE FROM voiceover_scripts WHERE id=?", id)
	} else {
		res, err = r.DB.ExecContext(ctx, "DELETE FROM voiceover_scripts WHERE id=? AND creator_id=?", id, creatorID)
	}
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

// ListByCreator returns a creator's scripts, newest first.
func (r *ScriptRepo) ListByCreator(ctx context.Context, creatorID uint64) ([]model.VoiceoverScript, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+scriptCols+" FROM voiceover_scripts WHERE creator_id=? ORDER BY id DESC", creatorID)
	if err != nil {
		return nil, err
	}
	return collectScripts(rows)
}

// ListByVoiceActor returns scripts assigned to a voice actor, newest first.
func (r *ScriptRepo) ListByVoiceActor(ctx context.Context, voiceActorID uint64) ([]model.VoiceoverScript, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+scriptCols+" FROM voiceover_scripts WHERE voice_actor_id=? ORDER BY id DESC", voiceActorID)
	if err != nil {
		return nil, err
	}
	return collectScripts(rows)
}

// ListUnclaimed returns scripts with no assigned voice actor.
func (r *ScriptRepo) ListUnclaimed(ctx context.Context) ([]model.VoiceoverScript, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+scriptCols+" FROM voiceover_scripts WHERE voice_actor_id IS NULL ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	return collectScripts(rows)
}

// ListAll returns every script, newest first.
func (r *ScriptRepo) ListAll(ctx context.Context) ([]model.VoiceoverScript, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+scriptCols+" FROM voiceover_scripts ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	return collectScripts(rows)
}

// Count returns the total number of scripts.
func (r *ScriptRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM voiceover_scripts").Scan(&n)
	return n, err
}

func collectScripts(rows *sql.Rows) ([]model.VoiceoverScript, error) {
	defer rows.Close()
	out := []model.VoiceoverScript{}
	for rows.Next() {
		s, err := scanScript(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
