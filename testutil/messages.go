// Package testutil provides canned backend message sequences for driver
// tests.
package testutil

import (
	"encoding/binary"

	"github.com/featherdb/pgdriver/protocol"
)

// Column describes a text-format result column.
func Column(name string, dataType protocol.OID) protocol.FieldDescription {
	return protocol.FieldDescription{
		Name:         name,
		DataType:     dataType,
		DataTypeSize: -1,
		TypeModifier: -1,
		Format:       protocol.FormatText,
	}
}

// BinaryColumn describes a binary-format result column.
func BinaryColumn(name string, dataType protocol.OID) protocol.FieldDescription {
	fd := Column(name, dataType)
	fd.Format = protocol.FormatBinary
	return fd
}

// Description builds a RowDescription from columns.
func Description(fields ...protocol.FieldDescription) protocol.RowDescription {
	return protocol.RowDescription{Fields: fields}
}

// TextRow builds a DataRow of text values. A nil pointer marks NULL.
func TextRow(values ...*string) protocol.DataRow {
	row := protocol.DataRow{Values: make([][]byte, len(values))}
	for i, v := range values {
		if v == nil {
			continue
		}
		row.Values[i] = []byte(*v)
	}
	return row
}

// Text returns a pointer for use with TextRow.
func Text(s string) *string {
	return &s
}

// Int8Value encodes an int64 in the binary wire format.
func Int8Value(v int64) []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(v))
}

// SelectWindow builds one complete response window for a select returning
// the given rows: bind-complete, description, rows, command completion and
// the close-completion terminator.
func SelectWindow(desc protocol.RowDescription, tag string, rows ...protocol.DataRow) []protocol.BackendMessage {
	msgs := []protocol.BackendMessage{protocol.BindComplete{}, desc}
	for _, row := range rows {
		msgs = append(msgs, row)
	}
	return append(msgs, protocol.CommandComplete{Tag: tag}, protocol.CloseComplete{})
}

// UpdateWindow builds one rowless response window, as produced by a DML
// command without a returning clause.
func UpdateWindow(tag string) []protocol.BackendMessage {
	return []protocol.BackendMessage{
		protocol.BindComplete{},
		protocol.NoData{},
		protocol.CommandComplete{Tag: tag},
		protocol.CloseComplete{},
	}
}

// Script flattens message groups into a single inbound sequence, appending
// the terminal ready-for-query marker.
func Script(groups ...[]protocol.BackendMessage) []protocol.BackendMessage {
	var msgs []protocol.BackendMessage
	for _, group := range groups {
		msgs = append(msgs, group...)
	}
	return append(msgs, protocol.ReadyForQuery{Status: protocol.TxIdle})
}
