package sql

import (
	"context"
	"log/slog"

	"github.com/syssam/sqlkit"
	"github.com/syssam/sqlkit/dialect"
)

// Database is a connection able to execute serialized statements. Nodes
// never talk to a Database; callers render first and submit the result.
type Database interface {
	// Version returns the server version, if known.
	Version() string
	// Descriptor returns the dialect used to render statements.
	Descriptor() *Descriptor
	// Diagnostics returns the sink receiving rendering diagnostics.
	Diagnostics() DiagnosticSink
	// Execute runs query with args and calls onRow once per result row.
	// A nil onRow executes a statement that returns no rows.
	Execute(ctx context.Context, query string, args []any, onRow func(ColumnScanner) error) error
}

// ExecuteExpr renders e with the dialect of db and executes it.
func ExecuteExpr(ctx context.Context, db Database, e Expr, onRow func(ColumnScanner) error) error {
	query, args := Render(db.Descriptor(), e, WithDiagnostics(db.Diagnostics()))
	return db.Execute(ctx, query, args, onRow)
}

// DB executes statements through a dialect.Driver.
type DB struct {
	drv        dialect.Driver
	desc       *Descriptor
	version    string
	logger     *slog.Logger
	queryLevel *slog.Level
	sink       DiagnosticSink
}

// DBOption configures a DB.
type DBOption func(*DB)

// WithVersion records the server version.
func WithVersion(v string) DBOption {
	return func(db *DB) { db.version = v }
}

// WithLogger sets the logger used for query logging and, unless
// WithDBDiagnostics is given, for rendering diagnostics.
func WithLogger(l *slog.Logger) DBOption {
	return func(db *DB) { db.logger = l }
}

// WithQueryLogLevel sets the level statements are logged at. Nil disables
// query logging. The default is slog.LevelDebug.
func WithQueryLogLevel(level *slog.Level) DBOption {
	return func(db *DB) { db.queryLevel = level }
}

// WithDBDiagnostics sets the sink returned by Diagnostics.
func WithDBDiagnostics(sink DiagnosticSink) DBOption {
	return func(db *DB) { db.sink = sink }
}

// NewDB returns a DB executing through drv. A nil descriptor is looked up
// in the registry by the driver dialect.
func NewDB(drv dialect.Driver, desc *Descriptor, opts ...DBOption) (*DB, error) {
	if desc == nil {
		var err error
		if desc, err = Lookup(drv.Dialect()); err != nil {
			return nil, err
		}
	}
	level := slog.LevelDebug
	db := &DB{
		drv:        drv,
		desc:       desc,
		logger:     slog.Default(),
		queryLevel: &level,
	}
	for _, opt := range opts {
		opt(db)
	}
	if db.sink == nil {
		db.sink = LogSink(db.logger)
	}
	return db, nil
}

// OpenDatabase opens a database/sql connection and wraps it in a DB using
// the registered descriptor of the driver dialect.
func OpenDatabase(driverName, source string, opts ...DBOption) (*DB, error) {
	drv, err := Open(driverName, source)
	if err != nil {
		return nil, err
	}
	db, err := NewDB(drv, nil, opts...)
	if err != nil {
		return nil, sqlkit.NewAggregateError(err, drv.Close())
	}
	return db, nil
}

// Version implements the Database interface.
func (db *DB) Version() string { return db.version }

// Descriptor implements the Database interface.
func (db *DB) Descriptor() *Descriptor { return db.desc }

// Diagnostics implements the Database interface.
func (db *DB) Diagnostics() DiagnosticSink { return db.sink }

// Driver returns the underlying driver.
func (db *DB) Driver() dialect.Driver { return db.drv }

// Close closes the underlying driver.
func (db *DB) Close() error { return db.drv.Close() }

// Execute implements the Database interface.
func (db *DB) Execute(ctx context.Context, query string, args []any, onRow func(ColumnScanner) error) error {
	if args == nil {
		args = []any{}
	}
	if db.queryLevel != nil {
		db.logger.Log(ctx, *db.queryLevel, "executing query", "dialect", db.desc.Name(), "query", query, "args", args)
	}
	if onRow == nil {
		if err := db.drv.Exec(ctx, query, args, nil); err != nil {
			return sqlkit.NewExecError("exec", query, classify(err))
		}
		return nil
	}
	rows := &Rows{}
	if err := db.drv.Query(ctx, query, args, rows); err != nil {
		return sqlkit.NewExecError("query", query, classify(err))
	}
	var herr error
	for rows.Next() {
		if herr = onRow(rows); herr != nil {
			herr = sqlkit.NewExecError("handler", query, herr)
			break
		}
	}
	var rerr error
	if err := rows.Err(); err != nil {
		rerr = sqlkit.NewExecError("scan", query, classify(err))
	}
	var cerr error
	if err := rows.Close(); err != nil {
		cerr = sqlkit.NewExecError("close", query, err)
	}
	return sqlkit.NewAggregateError(herr, rerr, cerr)
}

var _ Database = (*DB)(nil)
