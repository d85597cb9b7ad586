// Package sql provides a dialect-agnostic SQL syntax tree and the serializer
// that renders it into dialect-specific SQL text with positional binds.
//
// This package is the foundation for generating SQL across different database
// systems (PostgreSQL, MySQL, SQLite). Statements are built as trees of Expr
// nodes and rendered against a Descriptor that captures the syntax and
// capabilities of the target dialect.
//
// # Nodes
//
// Every node implements Expr, which has a single Serialize method:
//
//   - Raw, Ident, literals (LitString, LitInt, LitBool, ...), Bind, Binds
//   - As, Group, List, ListSep, Func, Binary, Infix, Column, TableColumn
//   - ColumnDef with ColumnConstraint values (PrimaryKey, NotNull, Default, ...)
//   - AlterTable, CreateTable, CreateIndex, CreateEnum, DropTable, DropIndex, DropEnum
//   - CreateTrigger, DropTrigger
//   - Insert with OnConflict and Returning, Select with Lock, Union
//
// Nodes are immutable. Builder-style methods such as AlterTable.AddColumns
// return modified copies.
//
// # Dialects
//
// The same tree renders differently per dialect:
//
//	stmt := sql.Insert("users").Columns("email").Values("a@b.c").Returning("id")
//
//	sql.Render(sql.Postgres, stmt)
//	// INSERT INTO "users" ("email") VALUES ($1) RETURNING "id"
//
//	sql.Render(sql.MySQL, stmt)
//	// INSERT INTO `users` (`email`) VALUES (?)
//
// When a dialect lacks a capability, the serializer emits the closest valid
// form and reports a Diagnostic to the sink given with WithDiagnostics:
//
//	var diags sql.Diagnostics
//	sql.Render(sql.SQLite, alter, sql.WithDiagnostics(&diags))
//
// The string concatenation operator has no portable spelling. Requesting
// OpConcat panics with sqlkit.ErrAmbiguousConcat; use Func("CONCAT", ...) or
// Infix(a, "||", b) instead.
//
// # Custom Dialects
//
// Descriptors are built with NewDescriptor and functional options, derived
// from a preset with Descriptor.Derive, or loaded from YAML:
//
//	d, err := sql.LoadDescriptorFile("cockroach.yaml")
//	if err != nil {
//	    return err
//	}
//	sql.Register(d)
//
// # Execution
//
// DB submits rendered statements through a dialect.Driver:
//
//	db, err := sql.OpenDatabase("sqlite", "file:app.db")
//	err = sql.ExecuteExpr(ctx, db, stmt, func(rows sql.ColumnScanner) error {
//	    var id int64
//	    return rows.Scan(&id)
//	})
package sql
