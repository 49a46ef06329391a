package codec

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"time"

	"github.com/featherdb/pgdriver/protocol"
)

// The PostgreSQL epoch: binary dates count days, and binary timestamps
// count microseconds, from 2000-01-01.
var (
	pgEpochDate = Date{Year: 2000, Month: time.January, Day: 1}
	pgEpochTime = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
)

var dateTimeTextLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func parseDateTimeText(s string) (DateTime, error) {
	for _, layout := range dateTimeTextLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateTimeOf(t), nil
		}
	}
	return DateTime{}, fmt.Errorf("timestamp: cannot parse %q", s)
}

// dateCodec serves the Date type for date columns. Timestamp columns decode
// too, truncated to their date part.
type dateCodec struct{}

// NewDateCodec creates the codec for Date values.
func NewDateCodec() Codec { return dateCodec{} }

func (dateCodec) Type() reflect.Type { return reflect.TypeOf(Date{}) }

func (dateCodec) CanDecode(dataType protocol.OID, format protocol.Format) bool {
	return dataType == protocol.OIDDate || dataType == protocol.OIDTimestamp
}

func (dateCodec) Decode(src []byte, dataType protocol.OID, format protocol.Format) (interface{}, error) {
	if src == nil {
		return nil, nil
	}

	if format == protocol.FormatBinary {
		switch dataType {
		case protocol.OIDDate:
			if len(src) != 4 {
				return nil, fmt.Errorf("date: invalid binary length %d", len(src))
			}
			days := int(int32(binary.BigEndian.Uint32(src)))
			return pgEpochDate.AddDays(days), nil
		case protocol.OIDTimestamp:
			dt, err := decodeBinaryTimestamp(src)
			if err != nil {
				return nil, err
			}
			return dt.Date, nil
		}
	}

	if dataType == protocol.OIDDate {
		return ParseDate(string(src))
	}
	dt, err := parseDateTimeText(string(src))
	if err != nil {
		return nil, err
	}
	return dt.Date, nil
}

func (dateCodec) Encode(value interface{}) (Parameter, error) {
	v, ok := value.(Date)
	if !ok {
		return Parameter{}, &UnsupportedTypeError{Value: fmt.Sprintf("%T", value)}
	}
	return Parameter{Format: protocol.FormatText, OID: protocol.OIDDate, Data: []byte(v.String())}, nil
}

func (dateCodec) EncodeNull() Parameter {
	return NullParameter(protocol.FormatText, protocol.OIDDate)
}

// dateTimeCodec serves the DateTime type for timestamp columns.
type dateTimeCodec struct{}

// NewDateTimeCodec creates the codec for DateTime values.
func NewDateTimeCodec() Codec { return dateTimeCodec{} }

func (dateTimeCodec) Type() reflect.Type { return reflect.TypeOf(DateTime{}) }

func (dateTimeCodec) CanDecode(dataType protocol.OID, format protocol.Format) bool {
	return dataType == protocol.OIDTimestamp
}

func (dateTimeCodec) Decode(src []byte, dataType protocol.OID, format protocol.Format) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if format == protocol.FormatBinary {
		return decodeBinaryTimestamp(src)
	}
	return parseDateTimeText(string(src))
}

func (dateTimeCodec) Encode(value interface{}) (Parameter, error) {
	v, ok := value.(DateTime)
	if !ok {
		return Parameter{}, &UnsupportedTypeError{Value: fmt.Sprintf("%T", value)}
	}
	return Parameter{
		Format: protocol.FormatText,
		OID:    protocol.OIDTimestamp,
		Data:   []byte(v.In(time.UTC).Format("2006-01-02 15:04:05.999999")),
	}, nil
}

func (dateTimeCodec) EncodeNull() Parameter {
	return NullParameter(protocol.FormatText, protocol.OIDTimestamp)
}

func decodeBinaryTimestamp(src []byte) (DateTime, error) {
	if len(src) != 8 {
		return DateTime{}, fmt.Errorf("timestamp: invalid binary length %d", len(src))
	}
	micros := int64(binary.BigEndian.Uint64(src))
	return DateTimeOf(pgEpochTime.Add(time.Duration(micros) * time.Microsecond)), nil
}
