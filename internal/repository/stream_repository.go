package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/arhaval/talent-admin/internal/model"
)

// StreamRepo provides persistence for stream submissions and their review
// lifecycle. All timestamps are stored in UTC.
type StreamRepo struct{ DB *sql.DB }

func NewStreamRepo(db *sql.DB) *StreamRepo { return &StreamRepo{DB: db} }

const streamCols = `id, streamer_id, stream_date, duration_hours, match_info, team,
	status, payment_status, total_revenue, streamer_earning, arhaval_profit, cost,
	admin_notes, reviewed_at, created_at, updated_at`

func scanStream(sc interface{ Scan(...any) error }) (model.Stream, error) {
	var s model.Stream
	var matchInfo, team, notes sql.NullString
	var reviewedAt sql.NullTime
	err := sc.Scan(&s.ID, &s.StreamerID, &s.StreamDate, &s.DurationHours, &matchInfo, &team,
		&s.Status, &s.PaymentStatus, &s.TotalRevenue, &s.StreamerEarning, &s.ArhavalProfit, &s.Cost,
		&notes, &reviewedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.Stream{}, err
	}
	if matchInfo.Valid {
		s.MatchInfo = &matchInfo.String
	}
	if team.Valid {
		s.Team = &team.String
	}
	if notes.Valid {
		s.AdminNotes = &notes.String
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		s.ReviewedAt = &t
	}
	return s, nil
}

// Create inserts a stream in pending status. Money fields are written as
// zero here unconditionally; they are server-owned and only the review path
// may populate them.
func (r *StreamRepo) Create(ctx context.Context, s *model.Stream) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO streams
			(streamer_id, stream_date, duration_hours, match_info, team, status, payment_status,
			 total_revenue, streamer_earning, arhaval_profit, cost)
		 VALUES (?,?,?,?,?,?,?,0,0,0,0)`,
		s.StreamerID, s.StreamDate.Format("2006-01-02"), s.DurationHours,
		s.MatchInfo, s.Team, model.StatusPending, model.PaymentUnpaid)
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

// GetByID fetches one stream.
func (r *StreamRepo) GetByID(ctx context.Context, id uint64) (model.Stream, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+streamCols+" FROM streams WHERE id=? LIMIT 1", id)
	s, err := scanStream(row)
	if err == sql.ErrNoRows {
		return model.Stream{}, ErrNotFound
	}
	return s, err
}

// ReviewFields carries the values a review stamps onto a stream. Money
// fields are ignored for rejections; ReviewedAt is set on approval only, a
// rejection carries notes and stays untimestamped.
type ReviewFields struct {
	Status          string
	AdminNotes      *string
	TotalRevenue    int64
	StreamerEarning int64
	ArhavalProfit   int64
	Cost            int64
	ReviewedAt      *time.Time
}

// Review transitions a pending stream to a terminal status. The update is a
// compare-and-swap on status='pending': if the row exists but no longer is
// pending, ErrAlreadyReviewed is returned and nothing is written. The first
// of two concurrent reviewers wins.
func (r *StreamRepo) Review(ctx context.Context, id uint64, f ReviewFields) (model.Stream, error) {
	var reviewedAt any
	if f.ReviewedAt != nil {
		reviewedAt = f.ReviewedAt.UTC()
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE streams
		 SET status=?, admin_notes=?, total_revenue=?, streamer_earning=?, arhaval_profit=?, cost=?, reviewed_at=?
		 WHERE id=? AND status=?`,
		f.Status, f.AdminNotes, f.TotalRevenue, f.StreamerEarning, f.ArhavalProfit, f.Cost,
		reviewedAt, id, model.StatusPending)
	if err != nil {
		return model.Stream{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Stream{}, err
	}
	if n == 0 {
		// Either the id is unknown or the record is already terminal.
		if _, err := r.GetByID(ctx, id); err != nil {
			return model.Stream{}, err
		}
		return model.Stream{}, ErrAlreadyReviewed
	}
	return r.GetByID(ctx, id)
}

// SetPaymentStatus marks an approved stream paid or unpaid.
func (r *StreamRepo) SetPaymentStatus(ctx context.Context, id uint64, paymentStatus string) (model.Stream, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE streams SET payment_status=? WHERE id=? AND status=?",
		paymentStatus, id, model.StatusApproved)
	if err != nil {
		return model.Stream{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Stream{}, err
	}
	if n == 0 {
		cur, err := r.GetByID(ctx, id)
		if err != nil {
			return model.Stream{}, err
		}
		if cur.Status != model.StatusApproved {
			return model.Stream{}, ErrAlreadyReviewed
		}
		// Row existed with the requested value already; treat as success.
		return cur, nil
	}
	return r.GetByID(ctx, id)
}

// ListMonthly returns all streams whose date falls in the given YYYY-MM
// month, newest first.
func (r *StreamRepo) ListMonthly(ctx context.Context, month string) ([]model.Stream, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+streamCols+" FROM streams WHERE DATE_FORMAT(stream_date, '%Y-%m')=? ORDER BY stream_date DESC, id DESC",
		month)
	if err != nil {
		return nil, err
	}
	return collectStreams(rows)
}

// ListAll returns every stream, newest first.
func (r *StreamRepo) ListAll(ctx context.Context) ([]model.Stream, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+streamCols+" FROM streams ORDER BY stream_date DESC, id DESC")
	if err != nil {
		return nil, err
	}
	return collectStreams(rows)
}

// ListByStreamer returns one streamer's submissions, newest first.
func (r *StreamRepo) ListByStreamer(ctx context.Context, streamerID uint64) ([]model.Stream, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+streamCols+" FROM streams WHERE streamer_id=? ORDER BY stream_date DESC, id DESC",
		streamerID)
	if err != nil {
		return nil, err
	}
	return collectStreams(rows)
}

// CountByStatus returns the number of streams in a given status.
func (r *StreamRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM streams WHERE status=?", status).Scan(&n)
	return n, err
}

// Count returns the total number of streams.
func (r *StreamRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM streams").Scan(&n)
	return n, err
}

func collectStreams(rows *sql.Rows) ([]model.Stream, error) {
	defer rows.Close()
	out := []model.Stream{}
	for rows.Next() {
		s, err := scanStream(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
