package client

import "github.com/sirupsen/logrus"

// Options configures statement execution behavior.
type Options struct {
	// ForceBinary requests the binary format for all result columns.
	// Default: false (text results).
	ForceBinary bool

	// PortalNames supplies fresh portal identifiers.
	// Default: UUIDPortalNames().
	PortalNames PortalNameSupplier

	// StatementCacheCapacity bounds the prepared statement cache built by
	// NewStatementCache. Zero means unbounded.
	// Default: 0
	StatementCacheCapacity int

	// Logger is the logger to use. If nil, logging is disabled.
	Logger *logrus.Entry
}

// DefaultOptions returns Options with default values.
func DefaultOptions() *Options {
	return &Options{
		ForceBinary:            false,
		PortalNames:            UUIDPortalNames(),
		StatementCacheCapacity: 0,
		Logger:                 NewNoopLogger(),
	}
}

// normalize fills nil fields of caller-supplied options.
func (o *Options) normalize() *Options {
	if o == nil {
		return DefaultOptions()
	}
	out := *o
	if out.PortalNames == nil {
		out.PortalNames = UUIDPortalNames()
	}
	if out.Logger == nil {
		out.Logger = NewNoopLogger()
	}
	return &out
}
