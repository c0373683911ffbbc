package postgres

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rgehrsitz/paygo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scanInto copies values into Scan destinations the way pgx would for
// matching types; a nil value leaves the destination at its zero value
func scanInto(values []any, dest []any) error {
	if len(values) != len(dest) {
		return errors.New("column count mismatch")
	}
	for i, v := range values {
		target := reflect.ValueOf(dest[i]).Elem()
		if v == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(v))
	}
	return nil
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanInto(r.values, dest)
}

type fakeRows struct {
	rows   [][]any
	pos    int
	err    error
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return r.rows[r.pos-1], nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return scanInto(r.rows[r.pos-1], dest)
}

type fakeQuerier struct {
	row      fakeRow
	rows     *fakeRows
	queryErr error
	execSQL  string
	args     []any
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.execSQL = sql
	return pgconn.CommandTag{}, nil
}

func (f *fakeQuerier) Query(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
	f.args = args
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.rows, nil
}

func (f *fakeQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	f.args = args
	return f.row
}

func TestCatalogStore_GetComponent(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{values: []any{
		int64(7), "Rice Subsidy", "allowance", decimal.NewFromInt(1500), false, true, "monthly",
	}}}
	store := NewCatalogStore(q)

	c, err := store.GetComponent(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(7)}, q.args)
	assert.Equal(t, int64(7), c.ID)
	assert.Equal(t, domain.KindAllowance, c.Kind)
	assert.True(t, decimal.NewFromInt(1500).Equal(c.DefaultAmount))
	assert.Equal(t, "monthly", c.Description)
}

func TestCatalogStore_GetComponent_NotFound(t *testing.T) {
	store := NewCatalogStore(&fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}})

	_, err := store.GetComponent(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrComponentNotFound)
}

func TestCatalogStore_GetComponent_QueryError(t *testing.T) {
	boom := errors.New("connection refused")
	store := NewCatalogStore(&fakeQuerier{row: fakeRow{err: boom}})

	_, err := store.GetComponent(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrComponentNotFound)
}

func TestCatalogStore_ListAssignments(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	rows := &fakeRows{rows: [][]any{
		{int64(1), "E-1", int64(7), decimal.NewFromInt(10), true, start, (*time.Time)(nil), true},
		{int64(2), "E-1", int64(8), decimal.NewFromInt(500), false, start, &end, false},
	}}
	q := &fakeQuerier{rows: rows}

	got, err := NewCatalogStore(q).ListAssignments(context.Background(), "E-1")
	require.NoError(t, err)
	assert.Equal(t, []any{"E-1"}, q.args)
	assert.True(t, rows.closed, "rows must be closed")

	require.Len(t, got, 2)
	assert.True(t, got[0].IsPercentage)
	assert.Nil(t, got[0].EndDate)
	require.NotNil(t, got[1].EndDate)
	assert.Equal(t, end, *got[1].EndDate)
	assert.False(t, got[1].IsActive)
}

func TestCatalogStore_ListAssignments_Empty(t *testing.T) {
	got, err := NewCatalogStore(&fakeQuerier{rows: &fakeRows{}}).ListAssignments(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCatalogStore_ListAssignments_Errors(t *testing.T) {
	boom := errors.New("timeout")

	_, err := NewCatalogStore(&fakeQuerier{queryErr: boom}).ListAssignments(context.Background(), "E-1")
	assert.ErrorIs(t, err, boom)

	_, err = NewCatalogStore(&fakeQuerier{rows: &fakeRows{err: boom}}).ListAssignments(context.Background(), "E-1")
	assert.ErrorIs(t, err, boom)
}

func TestApplySchema(t *testing.T) {
	q := &fakeQuerier{}
	require.NoError(t, ApplySchema(context.Background(), q))
	assert.Contains(t, q.execSQL, "CREATE TABLE IF NOT EXISTS employee_components")
}
