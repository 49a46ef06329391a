// Package codec bridges PostgreSQL column types and Go value types. Each
// logical type is served by one Codec strategy; a Registry dispatches
// encode/decode calls across an ordered list of registered codecs.
package codec

import (
	"fmt"
	"reflect"

	"github.com/featherdb/pgdriver/protocol"
)

// Parameter is a single encoded value ready for transmission. It is
// immutable once constructed and produced only by a codec.
type Parameter struct {
	Format protocol.Format
	OID    protocol.OID

	// Data is the encoded value. It is meaningless when Null is set.
	Data []byte

	// Null marks the SQL NULL value. NULL is distinct from a zero-length
	// Data payload.
	Null bool
}

// NullParameter constructs the NULL parameter for a given type and format.
func NullParameter(format protocol.Format, oid protocol.OID) Parameter {
	return Parameter{Format: format, OID: oid, Null: true}
}

// Codec encodes and decodes values of one logical Go type.
type Codec interface {
	// CanDecode reports whether this codec can decode values of the given
	// database type in the given wire format.
	CanDecode(dataType protocol.OID, format protocol.Format) bool

	// Decode converts a wire value into this codec's Go type. A nil src is
	// the NULL column contract: Decode returns a nil value, not an error.
	Decode(src []byte, dataType protocol.OID, format protocol.Format) (interface{}, error)

	// Encode converts a Go value into a Parameter.
	Encode(value interface{}) (Parameter, error)

	// EncodeNull produces the NULL parameter carrying this codec's type.
	EncodeNull() Parameter

	// Type is the Go type this codec serves.
	Type() reflect.Type
}

// Fallback handles encoding of host-specific value types that cannot be
// enumerated at registration time. Fallbacks are consulted, in registration
// order, after every registered codec has declined a value.
type Fallback interface {
	CanEncode(value interface{}) bool
	Encode(value interface{}) (Parameter, error)
}

// UnsupportedTypeError reports that no codec serves a value or a
// (database type, format) pair.
type UnsupportedTypeError struct {
	Value    string
	DataType protocol.OID
	Format   protocol.Format
	Target   string
}

// Error implements the error interface.
func (e *UnsupportedTypeError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("cannot encode value of type %s: no codec registered", e.Value)
	}
	if e.Target != "" {
		return fmt.Sprintf("cannot decode %s in %s format into %s: no codec registered", e.DataType, e.Format, e.Target)
	}
	return fmt.Sprintf("cannot decode %s in %s format: no codec registered", e.DataType, e.Format)
}

// Registry dispatches encode and decode operations over an ordered list of
// codecs. The zero value is unusable; construct with NewRegistry or
// NewDefaultRegistry. A Registry is immutable after registration and safe
// for concurrent use.
type Registry struct {
	codecs    []Codec
	fallbacks []Fallback
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewDefaultRegistry creates a registry with the built-in codec set. The
// order is significant: the first matching codec wins. The timestamp-family
// codecs register before the date-family ones so an untargeted decode of a
// timestamp column keeps its time of day; date columns fall through because
// the timestamp codecs decline them. The time.Time delegate for the
// timestamp family precedes the one for the date family so encoding a
// time.Time produces a timestamp parameter.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewBoolCodec())
	r.Register(NewInt16Codec())
	r.Register(NewInt32Codec())
	r.Register(NewInt64Codec())
	r.Register(NewIntCodec())
	r.Register(NewFloat32Codec())
	r.Register(NewFloat64Codec())
	r.Register(NewStringCodec())
	r.Register(NewBytesCodec())
	r.Register(NewDateTimeCodec())
	r.Register(NewTimeCodec())
	r.Register(NewDateCodec())
	r.Register(NewUnixDateCodec())
	return r
}

// Register appends a codec to the dispatch order.
func (r *Registry) Register(c Codec) {
	r.codecs = append(r.codecs, c)
}

// RegisterFallback appends a dynamic encode fallback.
func (r *Registry) RegisterFallback(f Fallback) {
	r.fallbacks = append(r.fallbacks, f)
}

// Encode selects the first codec whose type matches the value's runtime
// type (or a compatible supertype) and encodes with it. Fallback handlers
// are consulted last.
func (r *Registry) Encode(value interface{}) (Parameter, error) {
	if value == nil {
		return Parameter{}, &UnsupportedTypeError{Value: "<nil>"}
	}

	valueType := reflect.TypeOf(value)
	for _, c := range r.codecs {
		if valueType.AssignableTo(c.Type()) {
			return c.Encode(value)
		}
	}

	for _, f := range r.fallbacks {
		if f.CanEncode(value) {
			return f.Encode(value)
		}
	}

	return Parameter{}, &UnsupportedTypeError{Value: valueType.String()}
}

// EncodeNull dispatches by declared type alone, since no value is available.
func (r *Registry) EncodeNull(t reflect.Type) (Parameter, error) {
	if t == nil {
		return Parameter{}, &UnsupportedTypeError{Value: "<nil>"}
	}

	for _, c := range r.codecs {
		if t.AssignableTo(c.Type()) {
			return c.EncodeNull(), nil
		}
	}

	return Parameter{}, &UnsupportedTypeError{Value: t.String()}
}

// Decode selects the first codec that can decode the (database type, format)
// pair and whose type is assignable to target. A nil target accepts any
// codec. A nil src is the NULL column and decodes to nil without consulting
// any codec's value path.
func (r *Registry) Decode(src []byte, dataType protocol.OID, format protocol.Format, target reflect.Type) (interface{}, error) {
	if src == nil {
		return nil, nil
	}

	for _, c := range r.codecs {
		if !c.CanDecode(dataType, format) {
			continue
		}
		if target != nil && !c.Type().AssignableTo(target) {
			continue
		}
		return c.Decode(src, dataType, format)
	}

	targetName := ""
	if target != nil {
		targetName = target.String()
	}
	return nil, &UnsupportedTypeError{DataType: dataType, Format: format, Target: targetName}
}
