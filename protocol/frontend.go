package protocol

import "encoding/binary"

// FrontendMessage is a message sent from the driver to the server.
// Encode appends the complete tagged, length-prefixed frame to buf and
// returns the extended slice.
type FrontendMessage interface {
	Encode(buf []byte) []byte
}

// Parse requests server-side parsing of a SQL statement under a name.
type Parse struct {
	// Name is the prepared statement name. Empty selects the unnamed statement.
	Name string

	// Query is the SQL text, with $n parameter placeholders.
	Query string

	// ParameterOIDs are the declared parameter types. A zero OID leaves the
	// type to be inferred by the server.
	ParameterOIDs []OID
}

// Encode implements FrontendMessage.
func (m *Parse) Encode(buf []byte) []byte {
	buf, lenPos := beginFrame(buf, 'P')
	buf = appendCString(buf, m.Name)
	buf = appendCString(buf, m.Query)
	buf = appendInt16(buf, int16(len(m.ParameterOIDs)))
	for _, oid := range m.ParameterOIDs {
		buf = appendInt32(buf, int32(oid))
	}
	return endFrame(buf, lenPos)
}

// BindValue is one encoded parameter carried by a Bind message.
type BindValue struct {
	Format Format
	Data   []byte
	Null   bool
}

// Bind binds a prepared statement to a portal with concrete parameter values.
type Bind struct {
	Portal    string
	Statement string
	Values    []BindValue

	// ResultFormat is the requested format for all result columns.
	ResultFormat Format
}

// Encode implements FrontendMessage. NULL values are written with a -1
// length and no payload, per the wire contract; an empty non-NULL value is a
// zero-length payload.
func (m *Bind) Encode(buf []byte) []byte {
	buf, lenPos := beginFrame(buf, 'B')
	buf = appendCString(buf, m.Portal)
	buf = appendCString(buf, m.Statement)
	buf = appendInt16(buf, int16(len(m.Values)))
	for _, v := range m.Values {
		buf = appendInt16(buf, int16(v.Format))
	}
	buf = appendInt16(buf, int16(len(m.Values)))
	for _, v := range m.Values {
		if v.Null {
			buf = appendInt32(buf, -1)
			continue
		}
		buf = appendInt32(buf, int32(len(v.Data)))
		buf = append(buf, v.Data...)
	}
	buf = appendInt16(buf, 1)
	buf = appendInt16(buf, int16(m.ResultFormat))
	return endFrame(buf, lenPos)
}

// DescribeTarget selects whether a Describe or Close refers to a prepared
// statement or a portal.
type DescribeTarget byte

const (
	TargetStatement DescribeTarget = 'S'
	TargetPortal    DescribeTarget = 'P'
)

// Describe requests a description of a statement's parameters or a portal's
// result columns.
type Describe struct {
	Target DescribeTarget
	Name   string
}

// Encode implements FrontendMessage.
func (m *Describe) Encode(buf []byte) []byte {
	buf, lenPos := beginFrame(buf, 'D')
	buf = append(buf, byte(m.Target))
	buf = appendCString(buf, m.Name)
	return endFrame(buf, lenPos)
}

// Execute runs a bound portal.
type Execute struct {
	Portal string

	// MaxRows limits the number of rows returned before the portal suspends.
	// Zero means no limit.
	MaxRows int32
}

// Encode implements FrontendMessage.
func (m *Execute) Encode(buf []byte) []byte {
	buf, lenPos := beginFrame(buf, 'E')
	buf = appendCString(buf, m.Portal)
	buf = appendInt32(buf, m.MaxRows)
	return endFrame(buf, lenPos)
}

// Close releases a prepared statement or portal on the server.
type Close struct {
	Target DescribeTarget
	Name   string
}

// Encode implements FrontendMessage.
func (m *Close) Encode(buf []byte) []byte {
	buf, lenPos := beginFrame(buf, 'C')
	buf = append(buf, byte(m.Target))
	buf = appendCString(buf, m.Name)
	return endFrame(buf, lenPos)
}

// Sync closes the current extended-query sequence and requests a
// ReadyForQuery response.
type Sync struct{}

// Encode implements FrontendMessage.
func (m *Sync) Encode(buf []byte) []byte {
	buf, lenPos := beginFrame(buf, 'S')
	return endFrame(buf, lenPos)
}

// Flush asks the server to deliver any pending responses without ending the
// extended-query sequence.
type Flush struct{}

// Encode implements FrontendMessage.
func (m *Flush) Encode(buf []byte) []byte {
	buf, lenPos := beginFrame(buf, 'H')
	return endFrame(buf, lenPos)
}

// beginFrame appends the tag byte and a length placeholder, returning the
// position of the placeholder for endFrame to fill in.
func beginFrame(buf []byte, tag byte) ([]byte, int) {
	buf = append(buf, tag)
	lenPos := len(buf)
	buf = append(buf, 0, 0, 0, 0)
	return buf, lenPos
}

// endFrame fills the length placeholder. The length covers itself and the
// payload but not the tag byte.
func endFrame(buf []byte, lenPos int) []byte {
	binary.BigEndian.PutUint32(buf[lenPos:], uint32(len(buf)-lenPos))
	return buf
}

func appendCString(buf []byte, s string) []byte {
	buf = append(buf, s...)
	return append(buf, 0)
}

func appendInt16(buf []byte, v int16) []byte {
	return binary.BigEndian.AppendUint16(buf, uint16(v))
}

func appendInt32(buf []byte, v int32) []byte {
	return binary.BigEndian.AppendUint32(buf, uint32(v))
}
