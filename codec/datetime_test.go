package codec

import (
	"encoding/binary"
	"reflect"
	"testing"
	"time"

	"github.com/featherdb/pgdriver/protocol"
)

func binaryDate(days int32) []byte {
	return binary.BigEndian.AppendUint32(nil, uint32(days))
}

func binaryTimestamp(micros int64) []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(micros))
}

func TestDateCodecDecodeBinary(t *testing.T) {
	c := NewDateCodec()

	tests := []struct {
		name string
		days int32
		want Date
	}{
		{"epoch", 0, Date{Year: 2000, Month: time.January, Day: 1}},
		{"next day", 1, Date{Year: 2000, Month: time.January, Day: 2}},
		{"before epoch", -1, Date{Year: 1999, Month: time.December, Day: 31}},
		{"leap day", 59, Date{Year: 2000, Month: time.February, Day: 29}},
		{"far future", 7671, Date{Year: 2021, Month: time.January, Day: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Decode(binaryDate(tt.days), protocol.OIDDate, protocol.FormatBinary)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode(%d days) = %v, want %v", tt.days, got, tt.want)
			}
		})
	}
}

func TestDateCodecDecodeText(t *testing.T) {
	c := NewDateCodec()

	got, err := c.Decode([]byte("2021-01-02"), protocol.OIDDate, protocol.FormatText)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	want := Date{Year: 2021, Month: time.January, Day: 2}
	if got != want {
		t.Errorf("Decode() = %v, want %v", got, want)
	}
}

func TestDateCodecDecodeTimestampTruncates(t *testing.T) {
	c := NewDateCodec()
	want := Date{Year: 2010, Month: time.February, Day: 1}

	got, err := c.Decode([]byte("2010-02-01 10:08:04.412"), protocol.OIDTimestamp, protocol.FormatText)
	if err != nil {
		t.Fatalf("Decode(text timestamp) error: %v", err)
	}
	if got != want {
		t.Errorf("Decode(text timestamp) = %v, want %v", got, want)
	}

	// 3653 days to 2010-01-01 (incl. leap days), plus January.
	micros := int64(3653+31) * 24 * 60 * 60 * 1000000
	got, err = c.Decode(binaryTimestamp(micros), protocol.OIDTimestamp, protocol.FormatBinary)
	if err != nil {
		t.Fatalf("Decode(binary timestamp) error: %v", err)
	}
	if got != want {
		t.Errorf("Decode(binary timestamp) = %v, want %v", got, want)
	}
}

func TestDateCodecEncode(t *testing.T) {
	c := NewDateCodec()

	p, err := c.Encode(Date{Year: 2021, Month: time.January, Day: 2})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if p.Format != protocol.FormatText || p.OID != protocol.OIDDate {
		t.Errorf("Encode() = {%v %v}", p.Format, p.OID)
	}
	if string(p.Data) != "2021-01-02" {
		t.Errorf("Data = %q, want %q", p.Data, "2021-01-02")
	}
}

func TestDateTimeCodecDecodeBinary(t *testing.T) {
	c := NewDateTimeCodec()

	got, err := c.Decode(binaryTimestamp(1000005), protocol.OIDTimestamp, protocol.FormatBinary)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	want := DateTime{
		Date:   Date{Year: 2000, Month: time.January, Day: 1},
		Second: 1,
		Nanos:  5000,
	}
	if got != want {
		t.Errorf("Decode() = %#v, want %#v", got, want)
	}
}

func TestDateTimeCodecDecodeText(t *testing.T) {
	c := NewDateTimeCodec()

	tests := []struct {
		src  string
		want DateTime
	}{
		{
			"2010-02-01 10:08:04.412",
			DateTime{Date: Date{2010, time.February, 1}, Hour: 10, Minute: 8, Second: 4, Nanos: 412000000},
		},
		{
			"2010-02-01T10:08:04.412",
			DateTime{Date: Date{2010, time.February, 1}, Hour: 10, Minute: 8, Second: 4, Nanos: 412000000},
		},
		{
			"2010-02-01",
			DateTime{Date: Date{2010, time.February, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := c.Decode([]byte(tt.src), protocol.OIDTimestamp, protocol.FormatText)
			if err != nil {
				t.Fatalf("Decode(%q) error: %v", tt.src, err)
			}
			if got != tt.want {
				t.Errorf("Decode(%q) = %#v, want %#v", tt.src, got, tt.want)
			}
		})
	}

	if _, err := c.Decode([]byte("not a timestamp"), protocol.OIDTimestamp, protocol.FormatText); err == nil {
		t.Error("Decode of malformed text succeeded, want error")
	}
}

func TestDateTimeCodecEncode(t *testing.T) {
	c := NewDateTimeCodec()

	v := DateTime{Date: Date{2010, time.February, 1}, Hour: 10, Minute: 8, Second: 4, Nanos: 412000000}
	p, err := c.Encode(v)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if p.Format != protocol.FormatText || p.OID != protocol.OIDTimestamp {
		t.Errorf("Encode() = {%v %v}", p.Format, p.OID)
	}
	if string(p.Data) != "2010-02-01 10:08:04.412" {
		t.Errorf("Data = %q, want %q", p.Data, "2010-02-01 10:08:04.412")
	}
}

func TestDateDateTimeRoundTrip(t *testing.T) {
	r := NewDefaultRegistry()

	date := Date{Year: 1970, Month: time.June, Day: 15}
	p, err := r.Encode(date)
	if err != nil {
		t.Fatalf("Encode(Date) error: %v", err)
	}
	got, err := r.Decode(p.Data, p.OID, p.Format, reflect.TypeOf(Date{}))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if got != date {
		t.Errorf("round trip = %v, want %v", got, date)
	}

	dt := DateTime{Date: Date{2024, time.December, 31}, Hour: 23, Minute: 59, Second: 59, Nanos: 999999000}
	p, err = r.Encode(dt)
	if err != nil {
		t.Fatalf("Encode(DateTime) error: %v", err)
	}
	got, err = r.Decode(p.Data, p.OID, p.Format, reflect.TypeOf(DateTime{}))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if got != dt {
		t.Errorf("round trip = %#v, want %#v", got, dt)
	}
}

func TestDateHelpers(t *testing.T) {
	d := Date{Year: 2000, Month: time.March, Day: 1}

	if got := d.AddDays(-1); got != (Date{2000, time.February, 29}) {
		t.Errorf("AddDays(-1) = %v", got)
	}
	if got := d.DaysSince(Date{2000, time.January, 1}); got != 60 {
		t.Errorf("DaysSince(epoch) = %d, want 60", got)
	}
	if got := (Date{33, time.April, 5}).String(); got != "0033-04-05" {
		t.Errorf("String() = %q, want %q", got, "0033-04-05")
	}
}
