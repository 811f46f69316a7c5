package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthome/graphpress/errors"
)

// Driver failures must surface as infrastructure errors, never as domain
// errors the caller could mistake for a validation outcome.
func TestSQLiteDriverFailuresAreInfrastructureErrors(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	s := NewSQLiteStore(mockDB)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("disk I/O error"))
	_, err = s.InsertUser(ctx, &User{Name: "a", Email: "a@x.ee"})
	assert.True(t, errors.IsInfrastructure(err))
	assert.False(t, errors.IsNotFound(err))

	mock.ExpectQuery("SELECT id, name, email, age, password_hash FROM users").
		WillReturnError(errors.New("database is locked"))
	_, err = s.Users(ctx)
	assert.True(t, errors.IsInfrastructure(err))

	require.NoError(t, mock.ExpectationsWereMet())
}
