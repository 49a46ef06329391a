package client

import (
	"context"
	"reflect"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/featherdb/pgdriver/codec"
)

// Statement is the extended-query statement executor. It accumulates
// parameter bindings across Bind/Add calls and turns one Execute call into
// an ordered sequence of per-binding results.
//
// A Statement is not safe for concurrent use. After Execute it is reusable
// for further bind/execute cycles: the binding set is per-call state, reset
// when execution begins.
type Statement struct {
	client   Client
	registry *codec.Registry
	cache    StatementCache
	sql      string
	opts     *Options
	log      *logrus.Entry

	bindings     *BindingSet
	expectedSize int
	generated    []string
	hasGenerated bool
}

// NewStatement creates a statement executor for the given SQL. The SQL must
// use $n positional placeholders; see Supports.
func NewStatement(client Client, registry *codec.Registry, cache StatementCache, sql string, opts *Options) (*Statement, error) {
	if client == nil {
		return nil, ErrNilArgument("client")
	}
	if registry == nil {
		return nil, ErrNilArgument("registry")
	}
	if cache == nil {
		return nil, ErrNilArgument("cache")
	}
	if strings.TrimSpace(sql) == "" {
		return nil, &ArgumentError{Code: "E_EMPTY_SQL", Message: "sql must not be empty"}
	}

	opts = opts.normalize()
	expectedSize := ExpectedSize(sql)

	return &Statement{
		client:       client,
		registry:     registry,
		cache:        cache,
		sql:          sql,
		opts:         opts,
		log:          opts.Logger,
		bindings:     NewBindingSet(expectedSize),
		expectedSize: expectedSize,
	}, nil
}

// Supports reports whether the SQL is eligible for the extended-query path:
// non-empty after trimming, free of the ';' statement separator, and
// carrying at least one positional placeholder. This is a syntactic
// pre-check only.
func Supports(sql string) bool {
	return strings.TrimSpace(sql) != "" &&
		!strings.Contains(sql, ";") &&
		placeholderPattern.MatchString(sql)
}

// Bind assigns a value to the zero-based parameter index of the current
// binding, encoding it immediately. Binding an index twice overwrites the
// earlier value.
func (s *Statement) Bind(index int, value interface{}) error {
	if value == nil {
		return ErrNilArgument("value")
	}

	p, err := s.registry.Encode(value)
	if err != nil {
		return err
	}
	return s.bindings.GetCurrent().Add(index, p)
}

// BindName assigns a value by placeholder name, e.g. "$2".
func (s *Statement) BindName(identifier string, value interface{}) error {
	if identifier == "" {
		return ErrNilArgument("identifier")
	}

	index, err := ParameterIndex(identifier)
	if err != nil {
		return err
	}
	return s.Bind(index, value)
}

// BindNull assigns SQL NULL at the zero-based parameter index, carrying the
// declared Go type so the parameter's wire type can be chosen.
func (s *Statement) BindNull(index int, t reflect.Type) error {
	if t == nil {
		return ErrNilArgument("type")
	}

	p, err := s.registry.EncodeNull(t)
	if err != nil {
		return err
	}
	return s.bindings.GetCurrent().Add(index, p)
}

// BindNullName assigns SQL NULL by placeholder name.
func (s *Statement) BindNullName(identifier string, t reflect.Type) error {
	if identifier == "" {
		return ErrNilArgument("identifier")
	}
	if t == nil {
		return ErrNilArgument("type")
	}

	index, err := ParameterIndex(identifier)
	if err != nil {
		return err
	}
	return s.BindNull(index, t)
}

// Add finishes the current binding, validating that every parameter index
// is bound, and starts a fresh one on the next bind call. Add delimits the
// entries of a batch.
func (s *Statement) Add() error {
	return s.bindings.Finish()
}

// ReturnGeneratedValues rewrites the SQL at execution time to request the
// given generated columns back (all columns when none are given). It fails
// when the SQL already requests generated output, when it is not an INSERT,
// UPDATE or DELETE command, or when called more than once.
func (s *Statement) ReturnGeneratedValues(columns ...string) error {
	if s.hasGenerated {
		return &StateError{
			Code:    "E_GENERATED_VALUES_SET",
			Message: "generated values have already been requested",
		}
	}
	if hasReturningClause(s.sql) {
		return ErrAlreadyReturning()
	}
	if !isSupportedCommand(s.sql) {
		return ErrUnsupportedGeneratedCommand()
	}

	s.generated = columns
	s.hasGenerated = true
	return nil
}

// Execute finishes the binding set and produces one result per binding, in
// binding order. Validation failures are reported synchronously, before any
// wire interaction; the returned Results is cold and sends nothing until
// the first result is demanded.
func (s *Statement) Execute(ctx context.Context) (*Results, error) {
	sql := s.sql
	if s.hasGenerated {
		sql = augmentReturning(sql, s.generated)
	}

	if err := s.bindings.Finish(); err != nil {
		return nil, err
	}
	if _, err := s.bindings.First(); err != nil {
		return nil, err
	}

	bindings := s.bindings.All()
	s.bindings = NewBindingSet(s.expectedSize)

	stream := newExtendedQueryFlow(s.client, s.cache, s.opts.PortalNames, sql, bindings, s.opts.ForceBinary, s.log)
	return &Results{
		stream:   stream,
		registry: s.registry,
		sql:      sql,
		expected: len(bindings),
	}, nil
}
