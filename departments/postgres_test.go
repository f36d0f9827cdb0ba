package departments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreWithMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return NewPostgresStore(sqlx.NewDb(mockDB, "sqlmock")), mock
}

const (
	testDeptID  = "3f0c2d7e-5a0b-4c55-9f3c-5e3b1f4a2b10"
	otherDeptID = "9b2e4c1a-7d3f-4e8b-a6c5-2f1e0d9c8b7a"
)

var deptColumns = []string{"id", "dep_name", "description", "created_at", "updated_at"}

func TestPostgresStore_List(t *testing.T) {
	store, mock := newStoreWithMock(t)
	t1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)

	mock.ExpectQuery(`(?s)SELECT\s+id,\s*dep_name,\s*description,\s*created_at,\s*updated_at\s+FROM\s+departments\s+ORDER\s+BY\s+created_at,\s*id`).
		WillReturnRows(sqlmock.NewRows(deptColumns).
			AddRow(testDeptID, "HR", "", t1, t1).
			AddRow(otherDeptID, "Engineering", "Builds things", t2, t2))

	deps, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, deps, 2)
	assert.Equal(t, "HR", deps[0].Name)
	assert.Equal(t, "Engineering", deps[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_List_Empty(t *testing.T) {
	store, mock := newStoreWithMock(t)
	mock.ExpectQuery(`FROM departments`).WillReturnRows(sqlmock.NewRows(deptColumns))

	deps, err := store.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, deps, "an empty list must encode as [] not null")
	assert.Empty(t, deps)
}

func TestPostgresStore_Create(t *testing.T) {
	store, mock := newStoreWithMock(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+departments\s*\(dep_name,\s*description\).*RETURNING\s+id,\s*created_at,\s*updated_at$`).
		WithArgs("HR", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(testDeptID, now, now))

	d := &Department{Name: "HR"}
	require.NoError(t, store.Create(context.Background(), d))
	assert.Equal(t, testDeptID, d.ID)
	assert.Equal(t, now, d.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get(t *testing.T) {
	store, mock := newStoreWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)FROM\s+departments\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(testDeptID).
		WillReturnRows(sqlmock.NewRows(deptColumns).AddRow(testDeptID, "Engineering", "", now, now))

	d, err := store.Get(context.Background(), testDeptID)
	require.NoError(t, err)
	assert.Equal(t, "Engineering", d.Name)

	mock.ExpectQuery(`FROM departments WHERE id`).WithArgs(otherDeptID).WillReturnRows(sqlmock.NewRows(deptColumns))
	_, err = store.Get(context.Background(), otherDeptID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Update(t *testing.T) {
	store, mock := newStoreWithMock(t)
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	mock.ExpectQuery(`(?s)^UPDATE\s+departments\s+SET\s+dep_name\s*=\s*\$2,\s*description\s*=\s*\$3.*WHERE\s+id\s*=\s*\$1.*RETURNING\s+created_at,\s*updated_at$`).
		WithArgs(testDeptID, "People Ops", "HR renamed").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, updated))

	d := &Department{ID: testDeptID, Name: "People Ops", Description: "HR renamed"}
	require.NoError(t, store.Update(context.Background(), d))
	assert.Equal(t, updated, d.UpdatedAt)

	mock.ExpectQuery(`UPDATE departments`).WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))
	err := store.Update(context.Background(), &Department{ID: otherDeptID, Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Delete(t *testing.T) {
	store, mock := newStoreWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)^DELETE\s+FROM\s+departments\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+id,\s*dep_name`).
		WithArgs(testDeptID).
		WillReturnRows(sqlmock.NewRows(deptColumns).AddRow(testDeptID, "HR", "", now, now))

	d, err := store.Delete(context.Background(), testDeptID)
	require.NoError(t, err)
	assert.Equal(t, "HR", d.Name)

	mock.ExpectQuery(`DELETE FROM departments`).WithArgs(testDeptID).WillReturnRows(sqlmock.NewRows(deptColumns))
	_, err = store.Delete(context.Background(), testDeptID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Count(t *testing.T) {
	store, mock := newStoreWithMock(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM departments`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestPostgresStore_DBError(t *testing.T) {
	store, mock := newStoreWithMock(t)
	mock.ExpectQuery(`FROM departments`).WillReturnError(errors.New("connection refused"))

	_, err := store.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NotErrorIs(t, err, ErrNotFound)
}
