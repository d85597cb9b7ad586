// Package dialect defines the dialect names and the driver contract used by
// sqlkit to submit serialized statements.
//
// The package is deliberately small: the SQL surface of each database lives
// in dialect/sql as a Descriptor value, while this package only names the
// supported databases and describes the operations an executor exposes.
//
// # Dialect Constants
//
// Each dialect is identified by a constant string:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// # Driver Interface
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Close() error
//	    Dialect() string
//	}
//
// # Usage
//
//	import (
//	    "github.com/syssam/sqlkit/dialect"
//	    "github.com/syssam/sqlkit/dialect/sql"
//	)
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
// # Sub-packages
//
//   - dialect/sql: descriptors, expression nodes, the serializer and a
//     database/sql backed executor
package dialect
