package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExecutor подменяет пул соединений в тестах: репозитории работают
// через SQLExecutor и не привязаны к *sql.DB.
type stubExecutor struct {
	execResult sql.Result
	execErr    error

	lastQuery string
	lastArgs  []interface{}
}

func (s *stubExecutor) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	s.lastQuery = query
	s.lastArgs = args
	return s.execResult, s.execErr
}

func (s *stubExecutor) QueryContext(_ context.Context, _ string, _ ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("not expected in this test")
}

func (s *stubExecutor) QueryRowContext(_ context.Context, _ string, _ ...interface{}) *sql.Row {
	return nil
}

type stubResult struct {
	rowsAffected int64
	err          error
}

func (s stubResult) LastInsertId() (int64, error) { return 0, nil }
func (s stubResult) RowsAffected() (int64, error) { return s.rowsAffected, s.err }

func TestTournamentDeleteNotFound(t *testing.T) {
	exec := &stubExecutor{execResult: stubResult{rowsAffected: 0}}
	repo := NewPostgresTournamentRepository(exec)

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
	assert.Equal(t, []interface{}{"missing"}, exec.lastArgs)
}

func TestTournamentDeleteAffectedRow(t *testing.T) {
	exec := &stubExecutor{execResult: stubResult{rowsAffected: 1}}
	repo := NewPostgresTournamentRepository(exec)

	assert.NoError(t, repo.Delete(context.Background(), "t1"))
}

func TestTournamentDeletePropagatesExecutorError(t *testing.T) {
	execErr := errors.New("connection reset by peer")
	exec := &stubExecutor{execErr: execErr}
	repo := NewPostgresTournamentRepository(exec)

	err := repo.Delete(context.Background(), "t1")
	require.Error(t, err)
	assert.ErrorIs(t, err, execErr)
}

func TestTournamentUpdateImgNotFound(t *testing.T) {
	exec := &stubExecutor{execResult: stubResult{rowsAffected: 0}}
	repo := NewPostgresTournamentRepository(exec)

	img := "https://cdn.example.com/cover.png"
	err := repo.UpdateImg(context.Background(), "missing", &img)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestCheckAffectedRowsReportsResultError(t *testing.T) {
	resultErr := errors.New("driver does not support RowsAffected")
	err := checkAffectedRows(stubResult{err: resultErr}, ErrTournamentNotFound)
	require.Error(t, err)
	assert.ErrorIs(t, err, resultErr)
	assert.NotErrorIs(t, err, ErrTournamentNotFound)
}
