package codec

import (
	"fmt"
	"reflect"
	"time"

	"github.com/featherdb/pgdriver/protocol"
)

// timeCodec serves time.Time for the timestamp family by delegating all
// wire logic to the DateTime codec. The decoded wall-clock value is anchored
// in the system zone to produce an absolute instant; encoding converts the
// instant back to its local wall-clock reading. CanDecode is identical to
// the delegate's: this codec adds no wire-format capability of its own.
type timeCodec struct {
	delegate Codec
}

// NewTimeCodec creates the time.Time codec for timestamp columns.
func NewTimeCodec() Codec {
	return timeCodec{delegate: NewDateTimeCodec()}
}

func (c timeCodec) Type() reflect.Type { return reflect.TypeOf(time.Time{}) }

func (c timeCodec) CanDecode(dataType protocol.OID, format protocol.Format) bool {
	return c.delegate.CanDecode(dataType, format)
}

func (c timeCodec) Decode(src []byte, dataType protocol.OID, format protocol.Format) (interface{}, error) {
	intermediary, err := c.delegate.Decode(src, dataType, format)
	if err != nil || intermediary == nil {
		return nil, err
	}
	return intermediary.(DateTime).In(time.Local), nil
}

func (c timeCodec) Encode(value interface{}) (Parameter, error) {
	v, ok := value.(time.Time)
	if !ok {
		return Parameter{}, &UnsupportedTypeError{Value: fmt.Sprintf("%T", value)}
	}
	return c.delegate.Encode(DateTimeOf(v.In(time.Local)))
}

func (c timeCodec) EncodeNull() Parameter {
	return c.delegate.EncodeNull()
}

// unixDateCodec serves time.Time for the date family by delegating all wire
// logic to the Date codec. Decoding anchors the date at start of day in the
// system zone; encoding truncates the instant to its local date. CanDecode
// is identical to the delegate's.
type unixDateCodec struct {
	delegate Codec
}

// NewUnixDateCodec creates the time.Time codec for date columns.
func NewUnixDateCodec() Codec {
	return unixDateCodec{delegate: NewDateCodec()}
}

func (c unixDateCodec) Type() reflect.Type { return reflect.TypeOf(time.Time{}) }

func (c unixDateCodec) CanDecode(dataType protocol.OID, format protocol.Format) bool {
	return c.delegate.CanDecode(dataType, format)
}

func (c unixDateCodec) Decode(src []byte, dataType protocol.OID, format protocol.Format) (interface{}, error) {
	intermediary, err := c.delegate.Decode(src, dataType, format)
	if err != nil || intermediary == nil {
		return nil, err
	}
	return intermediary.(Date).In(time.Local), nil
}

func (c unixDateCodec) Encode(value interface{}) (Parameter, error) {
	v, ok := value.(time.Time)
	if !ok {
		return Parameter{}, &UnsupportedTypeError{Value: fmt.Sprintf("%T", value)}
	}
	return c.delegate.Encode(DateOf(v.In(time.Local)))
}

func (c unixDateCodec) EncodeNull() Parameter {
	return c.delegate.EncodeNull()
}
