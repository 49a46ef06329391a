package client

import (
	"context"
	"fmt"
	"reflect"

	"github.com/featherdb/pgdriver/codec"
	"github.com/featherdb/pgdriver/protocol"
)

// Results is the ordered sequence of per-binding results produced by one
// Execute call. It is cold: nothing is sent to the server until the first
// result is demanded. Advancing to the next result drains and discards
// whatever remains of the previous one, so an unread earlier window never
// blocks a later one.
type Results struct {
	stream   *messageStream
	registry *codec.Registry
	sql      string
	expected int

	index   int
	current *Result
	err     error
	done    bool
}

// Next advances to the next binding's result, returning false when the
// sequence is exhausted or failed. Call Result to obtain the window.
func (r *Results) Next(ctx context.Context) bool {
	if r.err != nil || r.done {
		return false
	}

	if r.current != nil {
		r.current.Close(ctx)
		if r.stream.err != nil {
			r.err = r.stream.err
			r.done = true
			return false
		}
	}

	if r.index >= r.expected {
		r.drainTail(ctx)
		r.done = true
		return false
	}

	r.index++
	r.current = &Result{stream: r.stream, registry: r.registry, sql: r.sql}
	return true
}

// Result returns the current binding's result window.
func (r *Results) Result() *Result {
	return r.current
}

// Err returns the first stream-level failure encountered while advancing.
// Failures scoped to a single binding's window are reported by that
// Result's Err instead.
func (r *Results) Err() error {
	return r.err
}

// Close drains every remaining window. If no result was ever demanded, the
// flow was never started and nothing is sent or read.
func (r *Results) Close(ctx context.Context) error {
	if !r.stream.started {
		r.done = true
		return nil
	}
	for r.Next(ctx) {
	}
	return r.err
}

// drainTail consumes the trailing messages after the last window, through
// the ready-for-query marker.
func (r *Results) drainTail(ctx context.Context) {
	for !r.stream.done && r.stream.err == nil {
		if _, err := r.stream.next(ctx); err != nil {
			return
		}
	}
}

// Result is the lazily materialized result of one binding's execution: the
// sub-sequence of inbound messages up to the close-completion marker. Rows
// decode to Go values only on consumption.
type Result struct {
	stream   *messageStream
	registry *codec.Registry
	sql      string

	columns  []protocol.FieldDescription
	row      protocol.DataRow
	hasRow   bool
	tag      string
	tagValid bool
	complete bool
	err      error
}

// Next advances to the next row, pulling inbound messages as demanded.
// Protocol-plumbing frames (bind-complete, no-data) carry no row data and
// are filtered out. Returns false at the window boundary or on failure.
func (r *Result) Next(ctx context.Context) bool {
	r.hasRow = false
	if r.complete || r.err != nil {
		return false
	}

	for {
		msg, err := r.stream.next(ctx)
		if err != nil {
			r.err = err
			return false
		}

		switch m := msg.(type) {
		case protocol.BindComplete, protocol.NoData:
			// plumbing, never part of a materialized result
		case protocol.RowDescription:
			r.columns = m.Fields
		case protocol.DataRow:
			r.row = m
			r.hasRow = true
			return true
		case protocol.CommandComplete:
			r.tag = m.Tag
			r.tagValid = true
		case protocol.EmptyQueryResponse:
		case protocol.PortalSuspended:
		case protocol.CloseComplete:
			r.complete = true
			return false
		case protocol.ErrorResponse:
			r.err = newServerError(m, r.sql)
			return false
		case protocol.ReadyForQuery:
			r.err = protocol.MissingTerminatorError(r.sql)
			return false
		default:
			r.err = protocol.UnexpectedMessageError("result window message", msg)
			return false
		}
	}
}

// Err returns the failure that ended this window, if any. Server-reported
// errors carry the originating SQL.
func (r *Result) Err() error {
	return r.err
}

// Columns returns the result column metadata, available once the first row
// (or the row description) has been read.
func (r *Result) Columns() []protocol.FieldDescription {
	return r.columns
}

// RowsAffected reports the row count from the command completion tag. The
// second return is false until the window completed, or when the command
// carries no count.
func (r *Result) RowsAffected() (int64, bool) {
	if !r.tagValid {
		return 0, false
	}
	return protocol.CommandComplete{Tag: r.tag}.RowsAffected()
}

// Value decodes column i of the current row into the default Go type for
// its column type. NULL columns decode to nil.
func (r *Result) Value(i int) (interface{}, error) {
	return r.ValueAs(i, nil)
}

// ValueAs decodes column i of the current row into a value assignable to
// the target type. A nil target accepts the first capable codec.
func (r *Result) ValueAs(i int, target reflect.Type) (interface{}, error) {
	if !r.hasRow {
		return nil, &StateError{Code: "E_NO_ROW", Message: "no current row: call Next first"}
	}
	if i < 0 || i >= len(r.row.Values) {
		return nil, &ArgumentError{
			Code:    "E_INDEX_OUT_OF_RANGE",
			Message: fmt.Sprintf("column index %d is out of range [0,%d)", i, len(r.row.Values)),
		}
	}
	if i >= len(r.columns) {
		return nil, protocol.NewError(protocol.ErrorCodeUnexpectedMessage, "data row without row description", nil)
	}

	col := r.columns[i]
	return r.registry.Decode(r.row.Values[i], col.DataType, col.Format, target)
}

// Close drains the remainder of the window, discarding unread rows. The
// window's failure, if any, remains available through Err.
func (r *Result) Close(ctx context.Context) {
	for r.Next(ctx) {
	}
}
