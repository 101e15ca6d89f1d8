package store

import (
	"context"
	"errors"
	"reflect"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func assign(dest interface{}, val interface{}) {
	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(val))
}

// observationRow is one row of the recent observations query
type observationRow struct {
	gameID   string
	week     int64
	season   int64
	date     time.Time
	opponent string
	value    float64
}

func scanObservationRow(r observationRow, dest []interface{}) error {
	if len(dest) != 6 {
		return errors.New("unexpected column count")
	}
	assign(dest[0], r.gameID)
	assign(dest[1], r.week)
	assign(dest[2], r.season)
	assign(dest[3], r.date)
	assign(dest[4], r.opponent)
	assign(dest[5], r.value)
	return nil
}

type MockClickHouseConn struct {
	driver.Conn
	Rows      []observationRow
	QueryErr  error
	RowErr    error
	LastQuery string
	LastArgs  []interface{}
}

func (m *MockClickHouseConn) Query(ctx context.Context, query string, args ...interface{}) (driver.Rows, error) {
	m.LastQuery = query
	m.LastArgs = args
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	return &MockClickHouseRows{rows: m.Rows}, nil
}

func (m *MockClickHouseConn) QueryRow(ctx context.Context, query string, args ...interface{}) driver.Row {
	return &MockClickHouseRow{err: m.RowErr}
}

type MockClickHouseRows struct {
	driver.Rows
	rows []observationRow
	idx  int
}

func (m *MockClickHouseRows) Next() bool {
	m.idx++
	return m.idx <= len(m.rows)
}

func (m *MockClickHouseRows) Scan(dest ...interface{}) error {
	return scanObservationRow(m.rows[m.idx-1], dest)
}

func (m *MockClickHouseRows) Err() error   { return nil }
func (m *MockClickHouseRows) Close() error { return nil }

type MockClickHouseRow struct {
	driver.Row
	err error
}

func (m *MockClickHouseRow) Scan(dest ...interface{}) error {
	if m.err != nil {
		return m.err
	}
	assign(dest[0], "p1")
	assign(dest[1], "Test Receiver")
	assign(dest[2], "WR")
	assign(dest[3], "DAL")
	return nil
}

func (m *MockClickHouseRow) Err() error { return m.err }

type MockPgPool struct {
	QueryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
	Execs        []string
}

func (m *MockPgPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, sql, args...)
	}
	return &MockPgRows{}, nil
}

func (m *MockPgPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.QueryRowFunc != nil {
		return m.QueryRowFunc(ctx, sql, args...)
	}
	return &MockPgRow{err: pgx.ErrNoRows}
}

func (m *MockPgPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.Execs = append(m.Execs, sql)
	return pgconn.CommandTag{}, nil
}

type MockPgRows struct {
	rows []observationRow
	curr int
	err  error
}

func (r *MockPgRows) Close()                                       {}
func (r *MockPgRows) Err() error                                   { return r.err }
func (r *MockPgRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *MockPgRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *MockPgRows) Next() bool {
	r.curr++
	return r.curr <= len(r.rows)
}
func (r *MockPgRows) Scan(dest ...any) error {
	return scanObservationRow(r.rows[r.curr-1], dest)
}
func (r *MockPgRows) Values() ([]any, error) { return nil, nil }
func (r *MockPgRows) RawValues() [][]byte    { return nil }
func (r *MockPgRows) Conn() *pgx.Conn        { return nil }

type MockPgRow struct {
	err error
}

func (r *MockPgRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	assign(dest[0], "p1")
	assign(dest[1], "Test Receiver")
	assign(dest[2], "WR")
	assign(dest[3], "DAL")
	return nil
}
