package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arhaval/talent-admin/internal/model"
)

var streamColNames = []string{
	"id", "streamer_id", "stream_date", "duration_hours", "match_info", "team",
	"status", "payment_status", "total_revenue", "streamer_earning", "arhaval_profit", "cost",
	"admin_notes", "reviewed_at", "created_at", "updated_at",
}

func streamRow(id uint64, status string, total, earning, profit int64) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(streamColNames).AddRow(
		id, uint64(7), now, 3.0, nil, "Sangal",
		status, model.PaymentUnpaid, total, earning, profit, int64(0),
		nil, nil, now, now)
}

func TestStreamCreateInsertsZeroedMoneyFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewStreamRepo(db)

	// The INSERT carries literal zeros for the money columns; anything the
	// caller put in the struct must not reach the database.
	mock.ExpectExec("INSERT INTO streams").
		WithArgs(uint64(7), "2025-01-10", 3.0, nil, sqlmock.AnyArg(), model.StatusPending, model.PaymentUnpaid).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery("SELECT (.+) FROM streams WHERE id=").
		WithArgs(uint64(42)).
		WillReturnRows(streamRow(42, model.StatusPending, 0, 0, 0))

	team := "Sangal"
	s := &model.Stream{
		StreamerID:    7,
		StreamDate:    time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		DurationHours: 3,
		Team:          &team,
		// Client-supplied money values are ignored by Create.
		TotalRevenue: 99999,
	}
	require.NoError(t, repo.Create(context.Background(), s))
	assert.Equal(t, uint64(42), s.ID)
	assert.Equal(t, model.StatusPending, s.Status)
	assert.Equal(t, int64(0), s.TotalRevenue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStreamReviewAppliesSplit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewStreamRepo(db)

	mock.ExpectExec("UPDATE streams").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM streams WHERE id=").
		WithArgs(uint64(42)).
		WillReturnRows(streamRow(42, model.StatusApproved, 1200, 900, 300))

	now := time.Now()
	got, err := repo.Review(context.Background(), 42, ReviewFields{
		Status:          model.StatusApproved,
		TotalRevenue:    1200,
		StreamerEarning: 900,
		ArhavalProfit:   300,
		ReviewedAt:      &now,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)
	assert.Equal(t, int64(1200), got.TotalRevenue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStreamRejectWritesNullReviewTimestamp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewStreamRepo(db)

	notes := "wrong match info"
	mock.ExpectExec("UPDATE streams").
		WithArgs(model.StatusRejected, &notes, int64(0), int64(0), int64(0), int64(0),
			nil, uint64(42), model.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM streams WHERE id=").
		WithArgs(uint64(42)).
		WillReturnRows(streamRow(42, model.StatusRejected, 0, 0, 0))

	got, err := repo.Review(context.Background(), 42, ReviewFields{
		Status:     model.StatusRejected,
		AdminNotes: &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, got.Status)
	assert.Nil(t, got.ReviewedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStreamReviewTerminalRecordConflicts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewStreamRepo(db)

	// CAS matches zero rows, record exists -> already reviewed.
	mock.ExpectExec("UPDATE streams").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM streams WHERE id=").
		WithArgs(uint64(42)).
		WillReturnRows(streamRow(42, model.StatusApproved, 1200, 900, 300))

	_, err = repo.Review(context.Background(), 42, ReviewFields{
		Status: model.StatusRejected,
	})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStreamReviewUnknownIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewStreamRepo(db)

	mock.ExpectExec("UPDATE streams").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM streams WHERE id=").
		WithArgs(uint64(999)).
		WillReturnRows(sqlmock.NewRows(streamColNames))

	_, err = repo.Review(context.Background(), 999, ReviewFields{
		Status: model.StatusApproved,
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStreamListMonthlyEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewStreamRepo(db)

	mock.ExpectQuery("SELECT (.+) FROM streams WHERE DATE_FORMAT").
		WithArgs("2025-02").
		WillReturnRows(sqlmock.NewRows(streamColNames))

	got, err := repo.ListMonthly(context.Background(), "2025-02")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
