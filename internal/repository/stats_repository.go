package repository

import (
	"context"
	"database/sql"

	"github.com/arhaval/talent-admin/internal/model"
)

// StatsRepo persists weekly social media snapshots.
type StatsRepo struct{ DB *sql.DB }

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{DB: db} }

const statsCols = "id, week, platform, followers, views, engagement, created_at"

// Create inserts a snapshot; a duplicate (week, platform) pair is a conflict.
func (r *StatsRepo) Create(ctx context.Context, s *model.SocialMediaStats) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO social_media_stats (week, platform, followers, views, engagement) VALUES (?,?,?,?,?)",
		s.Week, s.Platform, s.Followers, s.Views, s.Engagement)
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
	s.ID = uint64(id)
	return nil
}

// ListByWeek returns the snapshots for one ISO week.
func (r *StatsRepo) ListByWeek(ctx context.Context, week string) ([]model.SocialMediaStats, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+statsCols+" FROM social_media_stats WHERE week=? ORDER BY platform", week)
	if err != nil {
		return nil, err
	}
	return collectStats(rows)
}

// ListAll returns every snapshot, newest week first.
func (r *StatsRepo) ListAll(ctx context.Context) ([]model.SocialMediaStats, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+statsCols+" FROM social_media_stats ORDER BY week DESC, platform")
	if err != nil {
		return nil, err
	}
	return collectStats(rows)
}

// Count returns the total number of snapshots.
func (r *StatsRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM social_media_stats").Scan(&n)
	return n, err
}

func collectStats(rows *sql.Rows) ([]model.SocialMediaStats, error) {
	defer rows.Close()
	out := []model.SocialMediaStats{}
	for rows.Next() {
		var s model.SocialMediaStats
		if err := rows.Scan(&s.ID, &s.Week, &s.Platform, &s.Followers, &s.Views, &s.Engagement, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
