// Package protocol provides encoding/decoding for the PostgreSQL extended
// query wire protocol (protocol version 3.0).
package protocol

import "fmt"

// Format identifies the wire representation of a parameter or column value.
type Format int16

const (
	// FormatText is the human-readable text representation.
	FormatText Format = 0

	// FormatBinary is the compact binary representation.
	FormatBinary Format = 1
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "TEXT"
	case FormatBinary:
		return "BINARY"
	default:
		return fmt.Sprintf("Format(%d)", int16(f))
	}
}

// OID is a PostgreSQL object identifier for a data type.
type OID uint32

// Well-known data type OIDs from the pg_type catalog.
const (
	OIDBool        OID = 16
	OIDBytea       OID = 17
	OIDInt8        OID = 20
	OIDInt2        OID = 21
	OIDInt4        OID = 23
	OIDText        OID = 25
	OIDFloat4      OID = 700
	OIDFloat8      OID = 701
	OIDUnknown     OID = 705
	OIDVarchar     OID = 1043
	OIDDate        OID = 1082
	OIDTimestamp   OID = 1114
	OIDTimestamptz OID = 1184
)

// String returns the catalog name for well-known OIDs.
func (o OID) String() string {
	switch o {
	case OIDBool:
		return "bool"
	case OIDBytea:
		return "bytea"
	case OIDInt8:
		return "int8"
	case OIDInt2:
		return "int2"
	case OIDInt4:
		return "int4"
	case OIDText:
		return "text"
	case OIDFloat4:
		return "float4"
	case OIDFloat8:
		return "float8"
	case OIDUnknown:
		return "unknown"
	case OIDVarchar:
		return "varchar"
	case OIDDate:
		return "date"
	case OIDTimestamp:
		return "timestamp"
	case OIDTimestamptz:
		return "timestamptz"
	default:
		return fmt.Sprintf("oid(%d)", uint32(o))
	}
}
