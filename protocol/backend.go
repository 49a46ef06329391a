package protocol

import (
	"encoding/binary"
	"strconv"
	"strings"
)

// BackendMessage is a message received from the server. Implementations are
// value types produced by DecodeBackend or constructed directly in tests.
type BackendMessage interface {
	backend()
}

// ParseComplete acknowledges a Parse message.
type ParseComplete struct{}

// BindComplete acknowledges a Bind message.
type BindComplete struct{}

// CloseComplete acknowledges a Close message. It terminates the response
// window of one portal execution.
type CloseComplete struct{}

// NoData indicates a described portal returns no result columns.
type NoData struct{}

// PortalSuspended indicates Execute stopped at its row limit.
type PortalSuspended struct{}

// EmptyQueryResponse is the response to an empty query string.
type EmptyQueryResponse struct{}

// FieldDescription describes one result column.
type FieldDescription struct {
	Name         string
	TableOID     uint32
	ColumnAttr   int16
	DataType     OID
	DataTypeSize int16
	TypeModifier int32
	Format       Format
}

// RowDescription carries the column metadata for the rows that follow.
type RowDescription struct {
	Fields []FieldDescription
}

// DataRow carries one result row. A nil element is a NULL column; an empty
// non-nil element is a zero-length value.
type DataRow struct {
	Values [][]byte
}

// CommandComplete signals the end of one command's rows.
type CommandComplete struct {
	// Tag is the command tag, e.g. "SELECT 3" or "INSERT 0 1".
	Tag string
}

// RowsAffected parses the row count out of the command tag. The second
// return is false when the tag carries no count (e.g. "CREATE TABLE").
func (m CommandComplete) RowsAffected() (int64, bool) {
	parts := strings.Fields(m.Tag)
	if len(parts) < 2 {
		return 0, false
	}
	n, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// TransactionStatus is the backend transaction indicator in ReadyForQuery.
type TransactionStatus byte

const (
	TxIdle   TransactionStatus = 'I'
	TxActive TransactionStatus = 'T'
	TxFailed TransactionStatus = 'E'
)

// ReadyForQuery signals the server is ready for the next query cycle.
type ReadyForQuery struct {
	Status TransactionStatus
}

// ErrorResponse is a server-reported error. Field keys follow the wire
// protocol error field identifiers.
type ErrorResponse struct {
	Severity string
	Code     string
	Message  string
	Detail   string
	Hint     string
	Position string
}

func (ParseComplete) backend()      {}
func (BindComplete) backend()       {}
func (CloseComplete) backend()      {}
func (NoData) backend()             {}
func (PortalSuspended) backend()    {}
func (EmptyQueryResponse) backend() {}
func (RowDescription) backend()     {}
func (DataRow) backend()            {}
func (CommandComplete) backend()    {}
func (ReadyForQuery) backend()      {}
func (ErrorResponse) backend()      {}

// DecodeBackend decodes a deframed backend message from its tag byte and
// payload (the payload excludes the tag and length prefix).
func DecodeBackend(tag byte, body []byte) (BackendMessage, error) {
	switch tag {
	case '1':
		return ParseComplete{}, nil
	case '2':
		return BindComplete{}, nil
	case '3':
		return CloseComplete{}, nil
	case 'n':
		return NoData{}, nil
	case 's':
		return PortalSuspended{}, nil
	case 'I':
		return EmptyQueryResponse{}, nil
	case 'T':
		return decodeRowDescription(body)
	case 'D':
		return decodeDataRow(body)
	case 'C':
		return CommandComplete{Tag: readCString(body)}, nil
	case 'Z':
		if len(body) < 1 {
			return nil, truncatedError(tag, body)
		}
		return ReadyForQuery{Status: TransactionStatus(body[0])}, nil
	case 'E':
		return decodeErrorResponse(body), nil
	default:
		return nil, NewError(ErrorCodeUnknownMessage, "unknown backend message tag", map[string]interface{}{
			"tag": string(tag),
		})
	}
}

func decodeRowDescription(body []byte) (BackendMessage, error) {
	if len(body) < 2 {
		return nil, truncatedError('T', body)
	}
	count := int(binary.BigEndian.Uint16(body))
	body = body[2:]

	fields := make([]FieldDescription, 0, count)
	for i := 0; i < count; i++ {
		nul := strings.IndexByte(string(body), 0)
		if nul < 0 || len(body) < nul+1+18 {
			return nil, truncatedError('T', body)
		}
		name := string(body[:nul])
		rest := body[nul+1:]
		fields = append(fields, FieldDescription{
			Name:         name,
			TableOID:     binary.BigEndian.Uint32(rest),
			ColumnAttr:   int16(binary.BigEndian.Uint16(rest[4:])),
			DataType:     OID(binary.BigEndian.Uint32(rest[6:])),
			DataTypeSize: int16(binary.BigEndian.Uint16(rest[10:])),
			TypeModifier: int32(binary.BigEndian.Uint32(rest[12:])),
			Format:       Format(int16(binary.BigEndian.Uint16(rest[16:]))),
		})
		body = rest[18:]
	}
	return RowDescription{Fields: fields}, nil
}

func decodeDataRow(body []byte) (BackendMessage, error) {
	if len(body) < 2 {
		return nil, truncatedError('D', body)
	}
	count := int(binary.BigEndian.Uint16(body))
	body = body[2:]

	values := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		if len(body) < 4 {
			return nil, truncatedError('D', body)
		}
		length := int32(binary.BigEndian.Uint32(body))
		body = body[4:]
		if length < 0 {
			values = append(values, nil)
			continue
		}
		if len(body) < int(length) {
			return nil, truncatedError('D', body)
		}
		value := make([]byte, length)
		copy(value, body[:length])
		values = append(values, value)
		body = body[length:]
	}
	return DataRow{Values: values}, nil
}

func decodeErrorResponse(body []byte) ErrorResponse {
	var resp ErrorResponse
	for len(body) > 0 && body[0] != 0 {
		key := body[0]
		value := readCString(body[1:])
		body = body[1+len(value)+1:]

		switch key {
		case 'S':
			resp.Severity = value
		case 'C':
			resp.Code = value
		case 'M':
			resp.Message = value
		case 'D':
			resp.Detail = value
		case 'H':
			resp.Hint = value
		case 'P':
			resp.Position = value
		}
	}
	return resp
}

func readCString(body []byte) string {
	if nul := strings.IndexByte(string(body), 0); nul >= 0 {
		return string(body[:nul])
	}
	return string(body)
}

func truncatedError(tag byte, body []byte) error {
	return NewError(ErrorCodeTruncatedMessage, "truncated backend message", map[string]interface{}{
		"tag":       string(tag),
		"remaining": len(body),
	})
}
