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

func TestEditPackGetByTokenUnknown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewEditPackRepo(db)

	mock.ExpectQuery("SELECT (.+) FROM edit_packs").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"token", "expires_at", "title", "text", "audio_url"}))

	_, err = repo.GetByToken(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditPackGetByTokenReturnsSanitizedView(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewEditPackRepo(db)

	exp := time.Now().UTC().Add(time.Hour)
	mock.ExpectQuery("SELECT (.+) FROM edit_packs").
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"token", "expires_at", "title", "text", "audio_url"}).
			AddRow("tok", exp, "Intro", "Merhaba", nil))

	v, err := repo.GetByToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "Intro", v.Title)
	assert.Equal(t, "Merhaba", v.Text)
	assert.Nil(t, v.AudioURL)
	assert.WithinDuration(t, exp, v.ExpiresAt, time.Second)
}

func TestEditPackCreateDuplicateToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewEditPackRepo(db)

	mock.ExpectExec("INSERT INTO edit_packs").
		WillReturnError(errDuplicate1062{})

	p := &model.EditPack{Token: "tok", ScriptID: 1, ExpiresAt: time.Now().Add(time.Hour)}
	err = repo.Create(context.Background(), p)
	assert.ErrorIs(t, err, ErrDuplicate)
}

// errDuplicate1062 mimics the driver's duplicate-key error text.
type errDuplicate1062 struct{}

func (errDuplicate1062) Error() string {
	return "Error 1062 (23000): Duplicate entry 'tok' for key 'uq_edit_packs_token'"
}
