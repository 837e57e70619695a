package prompts_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ledgercast/ledgercast/internal/prompts"
	"github.com/ledgercast/ledgercast/pkg/pagination"
)

// recorder captures every statement the registry issues against a fake
// database/sql driver, in execution order, along with transaction outcomes.
type recorder struct {
	statements []statement
	respond    func(query string) driver.Rows
	commits    int
	rollbacks  int
}

type statement struct {
	kind  string
	query string
	args  []driver.Value
}

func (r *recorder) record(kind, query string, args []driver.NamedValue) {
	values := make([]driver.Value, len(args))
	for i, arg := range args {
		values[i] = arg.Value
	}
	r.statements = append(r.statements, statement{kind: kind, query: query, args: values})
}

type fakeConnector struct{ rec *recorder }

func (c *fakeConnector) Connect(ctx context.Context) (driver.Conn, error) {
	return &fakeConn{rec: c.rec}, nil
}

func (c *fakeConnector) Driver() driver.Driver { return fakeDriver{} }

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("open through the connector")
}

type fakeConn struct{ rec *recorder }

func (c *fakeConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepared statements unsupported")
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Begin() (driver.Tx, error) { return &fakeTx{rec: c.rec}, nil }

func (c *fakeConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	return &fakeTx{rec: c.rec}, nil
}

func (c *fakeConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.rec.record("exec", query, args)
	return driver.RowsAffected(1), nil
}

func (c *fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.rec.record("query", query, args)
	return c.rec.respond(query), nil
}

type fakeTx struct{ rec *recorder }

func (t *fakeTx) Commit() error   { t.rec.commits++; return nil }
func (t *fakeTx) Rollback() error { t.rec.rollbacks++; return nil }

var definitionColumns = []string{
	"prompt_key", "version", "template", "input_schema", "output_schema",
	"system_instructions", "user_instructions", "temperature", "max_tokens",
	"active", "created_by", "created_at",
}

type rowSet struct {
	values [][]driver.Value
	next   int
}

func (r *rowSet) Columns() []string { return definitionColumns }
func (r *rowSet) Close() error      { return nil }

func (r *rowSet) Next(dest []driver.Value) error {
	if r.next >= len(r.values) {
		return io.EOF
	}
	copy(dest, r.values[r.next])
	r.next++
	return nil
}

func definitionRow(promptKey string, version int64, active bool) *rowSet {
	return &rowSet{values: [][]driver.Value{{
		promptKey, version, "Summarize {{ articleText }}", nil, nil,
		nil, nil, nil, nil,
		active, nil, time.Now(),
	}}}
}

func newRegistry(t *testing.T) (prompts.System, *recorder) {
	t.Helper()

	rec := &recorder{respond: func(string) driver.Rows { return &rowSet{} }}
	db := sql.OpenDB(&fakeConnector{rec: rec})
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return prompts.New(db, logger, pagination.Config{}), rec
}

func findStatement(t *testing.T, rec *recorder, fragment string) statement {
	t.Helper()

	for _, s := range rec.statements {
		if strings.Contains(s.query, fragment) {
			return s
		}
	}

	t.Fatalf("no statement containing %q", fragment)
	return statement{}
}

func TestCreateVersionDerivesNextVersionPerKey(t *testing.T) {
	reg, rec := newRegistry(t)
	rec.respond = func(string) driver.Rows { return definitionRow("script-gen", 4, false) }

	d, err := reg.CreateVersion(context.Background(), "script-gen", prompts.CreateCommand{
		Template: "Summarize {{ articleText }}",
	})
	if err != nil {
		t.Fatalf("create version: %v", err)
	}
	if d.Version != 4 {
		t.Errorf("version = %d, want 4", d.Version)
	}

	insert := findStatement(t, rec, "INSERT INTO prompt_definitions")
	if !strings.Contains(insert.query, "COALESCE(MAX(version), 0) + 1") {
		t.Errorf("insert does not derive the next version:\n%s", insert.query)
	}
	if !strings.Contains(insert.query, "WHERE prompt_key = $1") {
		t.Errorf("version subquery is not scoped to the key:\n%s", insert.query)
	}
	if insert.args[0] != "script-gen" {
		t.Errorf("args[0] = %v, want script-gen", insert.args[0])
	}
	if rec.commits != 1 {
		t.Errorf("commits = %d, want 1", rec.commits)
	}
}

func TestCreateVersionWithoutActivateLeavesSiblings(t *testing.T) {
	reg, rec := newRegistry(t)
	rec.respond = func(string) driver.Rows { return definitionRow("script-gen", 2, false) }

	if _, err := reg.CreateVersion(context.Background(), "script-gen", prompts.CreateCommand{
		Template: "v2",
	}); err != nil {
		t.Fatalf("create version: %v", err)
	}

	for _, s := range rec.statements {
		if s.kind == "exec" && strings.Contains(s.query, "active = false") {
			t.Errorf("non-activating create deactivated siblings:\n%s", s.query)
		}
	}
}

func TestCreateVersionActivateDeactivatesSiblingsFirst(t *testing.T) {
	reg, rec := newRegistry(t)
	rec.respond = func(string) driver.Rows { return definitionRow("script-gen", 3, true) }

	if _, err := reg.CreateVersion(context.Background(), "script-gen", prompts.CreateCommand{
		Template: "v3",
		Activate: true,
	}); err != nil {
		t.Fatalf("create version: %v", err)
	}

	if len(rec.statements) < 2 {
		t.Fatalf("statements = %d, want deactivate then insert", len(rec.statements))
	}
	if first := rec.statements[0]; first.kind != "exec" || !strings.Contains(first.query, "SET active = false") {
		t.Errorf("first statement is not the sibling deactivation: %q", first.query)
	}
	if second := rec.statements[1]; !strings.Contains(second.query, "INSERT INTO prompt_definitions") {
		t.Errorf("second statement is not the insert: %q", second.query)
	}
	if rec.commits != 1 {
		t.Errorf("commits = %d, want 1", rec.commits)
	}
}

func TestSetActiveActivatesWithinOneTransaction(t *testing.T) {
	reg, rec := newRegistry(t)
	rec.respond = func(string) driver.Rows { return definitionRow("script-gen", 2, true) }

	d, err := reg.SetActive(context.Background(), "script-gen", 2)
	if err != nil {
		t.Fatalf("set active: %v", err)
	}
	if !d.Active || d.Version != 2 {
		t.Errorf("definition = v%d active=%v, want v2 active", d.Version, d.Active)
	}

	if first := rec.statements[0]; first.kind != "exec" || !strings.Contains(first.query, "SET active = false") {
		t.Errorf("first statement is not the sibling deactivation: %q", first.query)
	}
	if second := rec.statements[1]; !strings.Contains(second.query, "SET active = true") {
		t.Errorf("second statement is not the activation: %q", second.query)
	}
	if rec.commits != 1 || rec.rollbacks != 0 {
		t.Errorf("commits = %d rollbacks = %d, want 1 and 0", rec.commits, rec.rollbacks)
	}
}

func TestSetActiveMissingVersionRollsBack(t *testing.T) {
	reg, rec := newRegistry(t)

	_, err := reg.SetActive(context.Background(), "script-gen", 9)
	if !errors.Is(err, prompts.ErrNotFound) {
		t.Fatalf("set active error = %v, want ErrNotFound", err)
	}

	// The sibling deactivation already ran inside the transaction, so the
	// whole unit must roll back to preserve the previously active version.
	if rec.commits != 0 {
		t.Errorf("commits = %d, want 0", rec.commits)
	}
	if rec.rollbacks != 1 {
		t.Errorf("rollbacks = %d, want 1", rec.rollbacks)
	}
}
