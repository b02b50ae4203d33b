package repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mguthriem/sxl4snap/internal/core/state"
	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
	"github.com/mguthriem/sxl4snap/internal/platform/store"
	"github.com/mguthriem/sxl4snap/internal/services/runstate/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

type tag int64

func (t tag) String() string      { return "INSERT 0 1" }
func (t tag) RowsAffected() int64 { return int64(t) }

// rows serves fixed run_states rows in column order
type rows struct {
	data [][]any
	i    int
}

func (r *rows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *rows) Scan(dest ...any) error {
	cur := r.data[r.i-1]
	for k, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = cur[k].(string)
		case *int:
			*p = cur[k].(int)
		case *float64:
			*p = cur[k].(float64)
		case *time.Time:
			*p = cur[k].(time.Time)
		default:
			return errors.New("unsupported dest")
		}
	}
	return nil
}

func (r *rows) Err() error        { return nil }
func (r *rows) Close()            {}
func (r *rows) Columns() []string { return nil }

type querier struct {
	tag     tag
	execErr error
	rows    *rows
	sql     string
	args    []any
}

func (q *querier) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	q.sql, q.args = sql, args
	return q.tag, q.execErr
}

func (q *querier) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	q.sql, q.args = sql, args
	if q.rows == nil {
		return &rows{}, nil
	}
	return q.rows, nil
}

func (q *querier) QueryRow(context.Context, string, ...any) store.Row { return nil }

func row(run int, fp string) []any {
	return []any{"SNAP", run, fp, -65.5, 105.0, 2.1, 60.0, 1.0, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestRecord(t *testing.T) {
	t.Parallel()

	q := &querier{tag: 1}
	r := NewPG().Bind(q)
	rs := domain.RunState{
		Instrument:  "SNAP",
		Run:         48028,
		Fingerprint: "ffefaa93ccb23678",
		Snapshot:    state.Snapshot{Arc1: -65.5, Arc2: 105, Wavelength: 2.1, Frequency: 60, GuideStatus: 2},
	}
	if err := r.Record(context.Background(), rs); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !strings.Contains(q.sql, "ON CONFLICT (instrument, run) DO UPDATE") {
		t.Fatalf("not an upsert: %s", q.sql)
	}
	if len(q.args) != 8 || q.args[2] != "ffefaa93ccb23678" || q.args[7] != 2.0 {
		t.Fatalf("args = %v", q.args)
	}

	q.tag = 0
	if err := r.Record(context.Background(), rs); perr.CodeOf(err) != perr.ErrorCodeDB {
		t.Fatalf("zero rows: %v", err)
	}

	q.tag, q.execErr = 0, &pgconn.PgError{Code: "23514"}
	if err := r.Record(context.Background(), rs); perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("check violation: %v", err)
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	q := &querier{rows: &rows{data: [][]any{row(48028, "ffefaa93ccb23678")}}}
	got, err := NewPG().Bind(q).Lookup(context.Background(), "SNAP", 48028)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got.Run != 48028 || got.Fingerprint != "ffefaa93ccb23678" || got.Snapshot.Arc1 != -65.5 || got.RecordedAt.IsZero() {
		t.Fatalf("got %+v", got)
	}
	if q.args[0] != "SNAP" || q.args[1] != 48028 {
		t.Fatalf("args = %v", q.args)
	}

	_, err = NewPG().Bind(&querier{}).Lookup(context.Background(), "SNAP", 1)
	if perr.CodeOf(err) != perr.ErrorCodeNotFound {
		t.Fatalf("missing run: %v", err)
	}
}

func TestRunsForState(t *testing.T) {
	t.Parallel()

	q := &querier{rows: &rows{data: [][]any{row(48028, "ffefaa93ccb23678"), row(48030, "ffefaa93ccb23678")}}}
	got, err := NewPG().Bind(q).RunsForState(context.Background(), "SNAP", "ffefaa93ccb23678", 10)
	if err != nil {
		t.Fatalf("RunsForState: %v", err)
	}
	if len(got) != 2 || got[0].Run != 48028 || got[1].Run != 48030 {
		t.Fatalf("got %+v", got)
	}
	if !strings.Contains(q.sql, "ORDER BY run") || q.args[2] != 10 {
		t.Fatalf("sql/args: %s %v", q.sql, q.args)
	}
}

func TestEnsureSchema(t *testing.T) {
	t.Parallel()
	q := &querier{}
	if err := EnsureSchema(context.Background(), q); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if !strings.Contains(q.sql, "CREATE TABLE IF NOT EXISTS run_states") {
		t.Fatalf("schema sql: %s", q.sql)
	}
}

func TestStatementTimeout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	q := &querier{}
	if err := StatementTimeout(1500*time.Millisecond)(ctx, q); err != nil {
		t.Fatalf("hook: %v", err)
	}
	if q.sql != "SET LOCAL statement_timeout = 1500" {
		t.Fatalf("sql = %q", q.sql)
	}

	q = &querier{}
	if err := StatementTimeout(0)(ctx, q); err != nil || q.sql != "" {
		t.Fatalf("disabled hook ran %q: %v", q.sql, err)
	}

	q = &querier{execErr: errors.New("conn reset")}
	if err := StatementTimeout(time.Second)(ctx, q); perr.CodeOf(err) != perr.ErrorCodeDB {
		t.Fatalf("exec failure: %v", err)
	}
}
