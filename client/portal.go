package client

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// PortalNameSupplier produces a fresh portal identifier for each binding's
// execution. Uniqueness within a connection's lifetime is the only contract.
type PortalNameSupplier func() string

// UUIDPortalNames returns a supplier backed by random UUIDs.
func UUIDPortalNames() PortalNameSupplier {
	return func() string {
		return "P_" + uuid.NewString()
	}
}

// SequentialPortalNames returns a supplier producing B_1, B_2, ...
// Deterministic names keep wire traces readable in tests.
func SequentialPortalNames() PortalNameSupplier {
	var counter atomic.Uint64
	return func() string {
		return fmt.Sprintf("B_%d", counter.Add(1))
	}
}
