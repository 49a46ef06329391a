package codec

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/featherdb/pgdriver/protocol"
)

// boolCodec serves the bool type.
type boolCodec struct{}

// NewBoolCodec creates the codec for Go bool values.
func NewBoolCodec() Codec { return boolCodec{} }

func (boolCodec) Type() reflect.Type { return reflect.TypeOf(false) }

func (boolCodec) CanDecode(dataType protocol.OID, format protocol.Format) bool {
	return dataType == protocol.OIDBool
}

func (boolCodec) Decode(src []byte, dataType protocol.OID, format protocol.Format) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if format == protocol.FormatBinary {
		if len(src) != 1 {
			return nil, fmt.Errorf("bool: invalid binary length %d", len(src))
		}
		return src[0] != 0, nil
	}
	switch strings.ToLower(string(src)) {
	case "t", "true", "y", "yes", "on", "1":
		return true, nil
	case "f", "false", "n", "no", "off", "0":
		return false, nil
	default:
		return nil, fmt.Errorf("bool: cannot parse %q", string(src))
	}
}

func (boolCodec) Encode(value interface{}) (Parameter, error) {
	v, ok := value.(bool)
	if !ok {
		return Parameter{}, &UnsupportedTypeError{Value: fmt.Sprintf("%T", value)}
	}
	data := []byte{0}
	if v {
		data[0] = 1
	}
	return Parameter{Format: protocol.FormatBinary, OID: protocol.OIDBool, Data: data}, nil
}

func (boolCodec) EncodeNull() Parameter {
	return NullParameter(protocol.FormatBinary, protocol.OIDBool)
}

// decodeIntBytes decodes a wire integer in either format. Binary values are
// sized 2, 4 or 8 bytes depending on the column type.
func decodeIntBytes(src []byte, format protocol.Format) (int64, error) {
	if format == protocol.FormatText {
		return strconv.ParseInt(string(src), 10, 64)
	}
	switch len(src) {
	case 2:
		return int64(int16(binary.BigEndian.Uint16(src))), nil
	case 4:
		return int64(int32(binary.BigEndian.Uint32(src))), nil
	case 8:
		return int64(binary.BigEndian.Uint64(src)), nil
	default:
		return 0, fmt.Errorf("integer: invalid binary length %d", len(src))
	}
}

// int16Codec serves the int16 type (int2 columns).
type int16Codec struct{}

// NewInt16Codec creates the codec for Go int16 values.
func NewInt16Codec() Codec { return int16Codec{} }

func (int16Codec) Type() reflect.Type { return reflect.TypeOf(int16(0)) }

func (int16Codec) CanDecode(dataType protocol.OID, format protocol.Format) bool {
	return dataType == protocol.OIDInt2
}

func (int16Codec) Decode(src []byte, dataType protocol.OID, format protocol.Format) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	n, err := decodeIntBytes(src, format)
	if err != nil {
		return nil, err
	}
	return int16(n), nil
}

func (int16Codec) Encode(value interface{}) (Parameter, error) {
	v, ok := value.(int16)
	if !ok {
		return Parameter{}, &UnsupportedTypeError{Value: fmt.Sprintf("%T", value)}
	}
	return Parameter{
		Format: protocol.FormatBinary,
		OID:    protocol.OIDInt2,
		Data:   binary.BigEndian.AppendUint16(nil, uint16(v)),
	}, nil
}

func (int16Codec) EncodeNull() Parameter {
	return NullParameter(protocol.FormatBinary, protocol.OIDInt2)
}

// int32Codec serves the int32 type (int2 and int4 columns).
type int32Codec struct{}

// NewInt32Codec creates the codec for Go int32 values.
func NewInt32Codec() Codec { return int32Codec{} }

func (int32Codec) Type() reflect.Type { return reflect.TypeOf(int32(0)) }

func (int32Codec) CanDecode(dataType protocol.OID, format protocol.Format) bool {
	return dataType == protocol.OIDInt2 || dataType == protocol.OIDInt4
}

func (int32Codec) Decode(src []byte, dataType protocol.OID, format protocol.Format) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	n, err := decodeIntBytes(src, format)
	if err != nil {
		return nil, err
	}
	return int32(n), nil
}

func (int32Codec) Encode(value interface{}) (Parameter, error) {
	v, ok := value.(int32)
	if !ok {
		return Parameter{}, &UnsupportedTypeError{Value: fmt.Sprintf("%T", value)}
	}
	return Parameter{
		Format: protocol.FormatBinary,
		OID:    protocol.OIDInt4,
		Data:   binary.BigEndian.AppendUint32(nil, uint32(v)),
	}, nil
}

func (int32Codec) EncodeNull() Parameter {
	return NullParameter(protocol.FormatBinary, protocol.OIDInt4)
}

// int64Codec serves the int64 type (all integer columns, widening).
type int64Codec struct{}

// NewInt64Codec creates the codec for Go int64 values.
func NewInt64Codec() Codec { return int64Codec{} }

func (int64Codec) Type() reflect.Type { return reflect.TypeOf(int64(0)) }

func (int64Codec) CanDecode(dataType protocol.OID, format protocol.Format) bool {
	return dataType == protocol.OIDInt2 || dataType == protocol.OIDInt4 || dataType == protocol.OIDInt8
}

func (int64Codec) Decode(src []byte, dataType protocol.OID, format protocol.Format) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	return decodeIntBytes(src, format)
}

func (int64Codec) Encode(value interface{}) (Parameter, error) {
	v, ok := value.(int64)
	if !ok {
		return Parameter{}, &UnsupportedTypeError{Value: fmt.Sprintf("%T", value)}
	}
	return Parameter{
		Format: protocol.FormatBinary,
		OID:    protocol.OIDInt8,
		Data:   binary.BigEndian.AppendUint64(nil, uint64(v)),
	}, nil
}

func (int64Codec) EncodeNull() Parameter {
	return NullParameter(protocol.FormatBinary, protocol.OIDInt8)
}

// intCodec serves the plain int type, transmitted as int8.
type intCodec struct{}

// NewIntCodec creates the codec for Go int values.
func NewIntCodec() Codec { return intCodec{} }

func (intCodec) Type() reflect.Type { return reflect.TypeOf(int(0)) }

func (intCodec) CanDecode(dataType protocol.OID, format protocol.Format) bool {
	return dataType == protocol.OIDInt2 || dataType == protocol.OIDInt4 || dataType == protocol.OIDInt8
}

func (intCodec) Decode(src []byte, dataType protocol.OID, format protocol.Format) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	n, err := decodeIntBytes(src, format)
	if err != nil {
		return nil, err
	}
	return int(n), nil
}

func (intCodec) Encode(value interface{}) (Parameter, error) {
	v, ok := value.(int)
	if !ok {
		return Parameter{}, &UnsupportedTypeError{Value: fmt.Sprintf("%T", value)}
	}
	return Parameter{
		Format: protocol.FormatBinary,
		OID:    protocol.OIDInt8,
		Data:   binary.BigEndian.AppendUint64(nil, uint64(int64(v))),
	}, nil
}

func (intCodec) EncodeNull() Parameter {
	return NullParameter(protocol.FormatBinary, protocol.OIDInt8)
}

// float32Codec serves the float32 type (float4 columns).
type float32Codec struct{}

// NewFloat32Codec creates the codec for Go float32 values.
func NewFloat32Codec() Codec { return float32Codec{} }

func (float32Codec) Type() reflect.Type { return reflect.TypeOf(float32(0)) }

func (float32Codec) CanDecode(dataType protocol.OID, format protocol.Format) bool {
	return dataType == protocol.OIDFloat4
}

func (float32Codec) Decode(src []byte, dataType protocol.OID, format protocol.Format) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if format == protocol.FormatBinary {
		if len(src) != 4 {
			return nil, fmt.Errorf("float4: invalid binary length %d", len(src))
		}
		return math.Float32frombits(binary.BigEndian.Uint32(src)), nil
	}
	f, err := strconv.ParseFloat(string(src), 32)
	if err != nil {
		return nil, err
	}
	return float32(f), nil
}

func (float32Codec) Encode(value interface{}) (Parameter, error) {
	v, ok := value.(float32)
	if !ok {
		return Parameter{}, &UnsupportedTypeError{Value: fmt.Sprintf("%T", value)}
	}
	return Parameter{
		Format: protocol.FormatBinary,
		OID:    protocol.OIDFloat4,
		Data:   binary.BigEndian.AppendUint32(nil, math.Float32bits(v)),
	}, nil
}

func (float32Codec) EncodeNull() Parameter {
	return NullParameter(protocol.FormatBinary, protocol.OIDFloat4)
}

// float64Codec serves the float64 type (float4 and float8 columns).
type float64Codec struct{}

// NewFloat64Codec creates the codec for Go float64 values.
func NewFloat64Codec() Codec { return float64Codec{} }

func (float64Codec) Type() reflect.Type { return reflect.TypeOf(float64(0)) }

func (float64Codec) CanDecode(dataType protocol.OID, format protocol.Format) bool {
	return dataType == protocol.OIDFloat4 || dataType == protocol.OIDFloat8
}

func (float64Codec) Decode(src []byte, dataType protocol.OID, format protocol.Format) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if format == protocol.FormatBinary {
		switch len(src) {
		case 4:
			return float64(math.Float32frombits(binary.BigEndian.Uint32(src))), nil
		case 8:
			return math.Float64frombits(binary.BigEndian.Uint64(src)), nil
		default:
			return nil, fmt.Errorf("float8: invalid binary length %d", len(src))
		}
	}
	return strconv.ParseFloat(string(src), 64)
}

func (float64Codec) Encode(value interface{}) (Parameter, error) {
	v, ok := value.(float64)
	if !ok {
		return Parameter{}, &UnsupportedTypeError{Value: fmt.Sprintf("%T", value)}
	}
	return Parameter{
		Format: protocol.FormatBinary,
		OID:    protocol.OIDFloat8,
		Data:   binary.BigEndian.AppendUint64(nil, math.Float64bits(v)),
	}, nil
}

func (float64Codec) EncodeNull() Parameter {
	return NullParameter(protocol.FormatBinary, protocol.OIDFloat8)
}

// stringCodec serves the string type (text, varchar and unknown columns).
type stringCodec struct{}

// NewStringCodec creates the codec for Go string values.
func NewStringCodec() Codec { return stringCodec{} }

func (stringCodec) Type() reflect.Type { return reflect.TypeOf("") }

func (stringCodec) CanDecode(dataType protocol.OID, format protocol.Format) bool {
	return dataType == protocol.OIDText || dataType == protocol.OIDVarchar || dataType == protocol.OIDUnknown
}

func (stringCodec) Decode(src []byte, dataType protocol.OID, format protocol.Format) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	return string(src), nil
}

func (stringCodec) Encode(value interface{}) (Parameter, error) {
	v, ok := value.(string)
	if !ok {
		return Parameter{}, &UnsupportedTypeError{Value: fmt.Sprintf("%T", value)}
	}
	return Parameter{Format: protocol.FormatText, OID: protocol.OIDVarchar, Data: []byte(v)}, nil
}

func (stringCodec) EncodeNull() Parameter {
	return NullParameter(protocol.FormatText, protocol.OIDVarchar)
}

// bytesCodec serves the []byte type (bytea columns).
type bytesCodec struct{}

// NewBytesCodec creates the codec for Go []byte values.
func NewBytesCodec() Codec { return bytesCodec{} }

func (bytesCodec) Type() reflect.Type { return reflect.TypeOf([]byte(nil)) }

func (bytesCodec) CanDecode(dataType protocol.OID, format protocol.Format) bool {
	return dataType == protocol.OIDBytea
}

func (bytesCodec) Decode(src []byte, dataType protocol.OID, format protocol.Format) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if format == protocol.FormatBinary {
		out := make([]byte, len(src))
		copy(out, src)
		return out, nil
	}
	// Text format uses the hex representation: \x0123abcd
	s := string(src)
	if !strings.HasPrefix(s, `\x`) {
		return nil, fmt.Errorf("bytea: unsupported text representation %q", s)
	}
	return hex.DecodeString(s[2:])
}

func (bytesCodec) Encode(value interface{}) (Parameter, error) {
	v, ok := value.([]byte)
	if !ok {
		return Parameter{}, &UnsupportedTypeError{Value: fmt.Sprintf("%T", value)}
	}
	data := make([]byte, len(v))
	copy(data, v)
	return Parameter{Format: protocol.FormatBinary, OID: protocol.OIDBytea, Data: data}, nil
}

func (bytesCodec) EncodeNull() Parameter {
	return NullParameter(protocol.FormatBinary, protocol.OIDBytea)
}
