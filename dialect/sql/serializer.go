package sql

import (
	"bytes"
	"context"
	"log/slog"
)

// Expr is a node of the SQL syntax tree. Rendering a node appends its text
// and bind values to the serializer, children first-to-last in reading order.
type Expr interface {
	Serialize(*Serializer)
}

// Serializer walks an expression tree and accumulates the SQL text and the
// bind arguments of a single statement. A Serializer is not safe for
// concurrent use; create one per statement.
type Serializer struct {
	buf     bytes.Buffer
	args    []any
	dialect *Descriptor
	sink    DiagnosticSink
}

// SerializerOption configures a Serializer.
type SerializerOption func(*Serializer)

// WithDiagnostics sets the sink receiving advisory diagnostics raised while
// rendering. Without it, diagnostics are discarded.
func WithDiagnostics(sink DiagnosticSink) SerializerOption {
	return func(s *Serializer) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// NewSerializer returns a serializer for the given dialect.
func NewSerializer(d *Descriptor, opts ...SerializerOption) *Serializer {
	s := &Serializer{dialect: d, sink: discard{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Render serializes e with a fresh serializer and returns the query and
// its arguments.
func Render(d *Descriptor, e Expr, opts ...SerializerOption) (string, []any) {
	s := NewSerializer(d, opts...)
	s.WriteExpr(e)
	return s.Query()
}

// Dialect returns the descriptor of the dialect being rendered.
func (s *Serializer) Dialect() *Descriptor {
	return s.dialect
}

// Write appends raw text.
func (s *Serializer) Write(text string) {
	s.buf.WriteString(text)
}

// WriteBind enqueues v and writes the dialect placeholder for its position.
func (s *Serializer) WriteBind(v any) {
	s.args = append(s.args, v)
	s.dialect.BindPlaceholder(len(s.args)).Serialize(s)
}

// WriteExpr serializes e. A nil expression writes nothing.
func (s *Serializer) WriteExpr(e Expr) {
	if e != nil {
		e.Serialize(s)
	}
}

// Warn reports an advisory diagnostic. Rendering continues.
func (s *Serializer) Warn(msg string, args ...any) {
	s.sink.Report(Diagnostic{Level: slog.LevelWarn, Message: msg, Args: args})
}

// Statement runs f with a token helper that separates every appended token
// from the previous one by a single space.
func (s *Serializer) Statement(f func(*Statement)) {
	f(&Statement{s: s})
}

// String returns the SQL text written so far.
func (s *Serializer) String() string {
	return s.buf.String()
}

// Args returns the bind arguments enqueued so far, in placeholder order.
func (s *Serializer) Args() []any {
	return s.args
}

// Query returns the SQL text and its bind arguments.
func (s *Serializer) Query() (string, []any) {
	return s.String(), s.args
}

// Statement appends space-separated tokens to a serializer.
type Statement struct {
	s       *Serializer
	written bool
}

// Dialect returns the descriptor of the dialect being rendered.
func (st *Statement) Dialect() *Descriptor {
	return st.s.dialect
}

// Warn reports an advisory diagnostic through the underlying serializer.
func (st *Statement) Warn(msg string, args ...any) {
	st.s.Warn(msg, args...)
}

// Append appends a raw text token.
func (st *Statement) Append(text string) *Statement {
	if text == "" {
		return st
	}
	if st.written {
		st.s.buf.WriteByte(' ')
	}
	st.s.buf.WriteString(text)
	st.written = true
	return st
}

// AppendExpr appends a rendered expression as a token. Expressions that
// render to nothing do not leave a dangling separator.
func (st *Statement) AppendExpr(e Expr) *Statement {
	if e == nil {
		return st
	}
	mark := st.s.buf.Len()
	if st.written {
		st.s.buf.WriteByte(' ')
	}
	start := st.s.buf.Len()
	e.Serialize(st.s)
	if st.s.buf.Len() == start {
		st.s.buf.Truncate(mark)
		return st
	}
	st.written = true
	return st
}

// AppendOpt appends e when it is present.
func (st *Statement) AppendOpt(e Expr) *Statement {
	return st.AppendExpr(e)
}

// Diagnostic is an advisory message raised while rendering, used when a
// dialect lacks a requested capability and a degraded form is emitted.
type Diagnostic struct {
	Level   slog.Level
	Message string
	Args    []any
}

// DiagnosticSink receives diagnostics.
type DiagnosticSink interface {
	Report(Diagnostic)
}

// DiagnosticFunc adapts a function to a DiagnosticSink.
type DiagnosticFunc func(Diagnostic)

// Report calls f(d).
func (f DiagnosticFunc) Report(d Diagnostic) { f(d) }

// Diagnostics collects reported diagnostics in order.
type Diagnostics []Diagnostic

// Report appends d.
func (ds *Diagnostics) Report(d Diagnostic) {
	*ds = append(*ds, d)
}

// Messages returns the collected messages.
func (ds Diagnostics) Messages() []string {
	msgs := make([]string, len(ds))
	for i, d := range ds {
		msgs[i] = d.Message
	}
	return msgs
}

// LogSink returns a sink that writes diagnostics to the given logger.
func LogSink(logger *slog.Logger) DiagnosticSink {
	return DiagnosticFunc(func(d Diagnostic) {
		logger.Log(context.Background(), d.Level, d.Message, d.Args...)
	})
}

type discard struct{}

func (discard) Report(Diagnostic) {}
