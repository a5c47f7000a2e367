package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/domain"
)

const userQuery = `SELECT to_jsonb\(u\) FROM usuarios u WHERE u.id::text = \$1`

func TestUserRepository_FindByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(userQuery).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"to_jsonb"}).
			AddRow([]byte(`{"id":"u1","status":"ativo","nome":"Ana","email":"ana@x.io"}`)))

	user, err := NewUserRepository(mock).FindByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.True(t, user.Active())
	assert.Equal(t, "Ana", user.Profile["nome"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_NumericID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(userQuery).
		WithArgs("42").
		WillReturnRows(pgxmock.NewRows([]string{"to_jsonb"}).
			AddRow([]byte(`{"id":42,"status":"inativo"}`)))

	user, err := NewUserRepository(mock).FindByID(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "42", user.ID)
	assert.False(t, user.Active())
}

func TestUserRepository_Errors(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery(userQuery).WithArgs("ghost").WillReturnError(pgx.ErrNoRows)
	_, err = repo.FindByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	mock.ExpectQuery(userQuery).WithArgs("u1").WillReturnError(errors.New("timeout"))
	_, err = repo.FindByID(context.Background(), "u1")
	assert.ErrorContains(t, err, "timeout")
	assert.NotErrorIs(t, err, domain.ErrUserNotFound)
}
