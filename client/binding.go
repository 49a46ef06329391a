package client

import (
	"regexp"
	"strconv"

	"github.com/featherdb/pgdriver/codec"
	"github.com/featherdb/pgdriver/protocol"
)

// placeholderPattern is the positional placeholder grammar: $1, $2, ...
var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

// identifierPattern is the grammar a full bind identifier must satisfy.
var identifierPattern = regexp.MustCompile(`^\$([1-9]\d*)$`)

// ExpectedSize counts the distinct placeholders in the SQL text,
// deduplicated by literal text. This count is the contract every finished
// Binding must satisfy.
func ExpectedSize(sql string) int {
	seen := make(map[string]struct{})
	for _, match := range placeholderPattern.FindAllString(sql, -1) {
		seen[match] = struct{}{}
	}
	return len(seen)
}

// ParameterIndex translates a named placeholder such as "$3" to its
// zero-based positional index.
func ParameterIndex(identifier string) (int, error) {
	m := identifierPattern.FindStringSubmatch(identifier)
	if m == nil {
		return 0, ErrInvalidIdentifier(identifier)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, ErrInvalidIdentifier(identifier)
	}
	return n - 1, nil
}

// Binding is one complete set of positional parameters for one execution of
// a statement. It is mutable while current; once finished it is immutable by
// convention and ordered in its BindingSet.
type Binding struct {
	expectedSize int
	parameters   []codec.Parameter
	bound        []bool
}

// NewBinding creates a binding expecting the given number of parameters.
func NewBinding(expectedSize int) *Binding {
	return &Binding{
		expectedSize: expectedSize,
		parameters:   make([]codec.Parameter, expectedSize),
		bound:        make([]bool, expectedSize),
	}
}

// Add assigns the parameter at a zero-based index. The last write to an
// index wins; binding the same index twice is not an error.
func (b *Binding) Add(index int, p codec.Parameter) error {
	if index < 0 || index >= b.expectedSize {
		return &ArgumentError{
			Code:    "E_INDEX_OUT_OF_RANGE",
			Message: "parameter index " + strconv.Itoa(index) + " is out of range [0," + strconv.Itoa(b.expectedSize) + ")",
		}
	}
	b.parameters[index] = p
	b.bound[index] = true
	return nil
}

// Validate fails unless every index in [0, expectedSize) has been assigned.
func (b *Binding) Validate() error {
	var missing []int
	for i, ok := range b.bound {
		if !ok {
			missing = append(missing, i)
		}
	}
	if len(missing) > 0 {
		return ErrIncompleteBinding(b.expectedSize, missing)
	}
	return nil
}

// Size returns the expected parameter count.
func (b *Binding) Size() int {
	return b.expectedSize
}

// Parameters returns the ordered parameter encodings.
func (b *Binding) Parameters() []codec.Parameter {
	return b.parameters
}

// TypeSignature returns the parameter type OIDs in positional order. The
// first binding's signature is what gets parsed into the server-side
// prepared statement.
func (b *Binding) TypeSignature() []protocol.OID {
	oids := make([]protocol.OID, len(b.parameters))
	for i, p := range b.parameters {
		oids[i] = p.OID
	}
	return oids
}

// bindingState is the explicit lifecycle of a BindingSet's current binding.
type bindingState int

const (
	noActiveBinding bindingState = iota
	activeBinding
)

// BindingSet is an ordered sequence of finished bindings plus at most one
// in-progress current binding. It is owned by one Statement and is not safe
// for concurrent mutation.
type BindingSet struct {
	expectedSize int
	bindings     []*Binding
	state        bindingState
}

// NewBindingSet creates an empty set whose bindings expect the given
// parameter count.
func NewBindingSet(expectedSize int) *BindingSet {
	return &BindingSet{expectedSize: expectedSize, state: noActiveBinding}
}

// GetCurrent returns the in-progress binding, lazily starting a new one and
// appending it to the sequence when none is active.
func (s *BindingSet) GetCurrent() *Binding {
	if s.state == noActiveBinding {
		s.bindings = append(s.bindings, NewBinding(s.expectedSize))
		s.state = activeBinding
	}
	return s.bindings[len(s.bindings)-1]
}

// Finish validates the current binding, if any, and clears it so the next
// bind starts a fresh one. Finish on a set with no active binding is a
// no-op.
func (s *BindingSet) Finish() error {
	if s.state == noActiveBinding {
		return nil
	}
	if err := s.bindings[len(s.bindings)-1].Validate(); err != nil {
		return err
	}
	s.state = noActiveBinding
	return nil
}

// First returns the first finished-or-current binding. Resolving the first
// binding of an empty sequence is a state error.
func (s *BindingSet) First() (*Binding, error) {
	if len(s.bindings) == 0 {
		return nil, ErrNoBindings()
	}
	return s.bindings[0], nil
}

// All returns the ordered binding sequence.
func (s *BindingSet) All() []*Binding {
	return s.bindings
}

// Len returns the number of bindings in the sequence, including the current
// one.
func (s *BindingSet) Len() int {
	return len(s.bindings)
}
