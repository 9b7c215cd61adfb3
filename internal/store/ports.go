// Package store defines the document-store boundary the core writes
// through. Implementations replace whole collections on write; callers must
// read-modify-write, never patch.
package store

import (
	"context"
	"errors"

	"billtracker/internal/core"
)

var (
	// ErrNotFound is returned when the addressed document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateIdentity is returned when a create collides with an
	// existing identity within the same kind.
	ErrDuplicateIdentity = errors.New("identity already exists")
)

// Ports for outbound persistence adapters.
type (
	BillStore interface {
		LoadBills(ctx context.Context) ([]core.Bill, error)
		UpsertBill(ctx context.Context, b core.Bill) error
		DeleteBill(ctx context.Context, kind core.BillKind, identity string) error
	}

	AuditStore interface {
		LoadAudits(ctx context.Context) ([]core.AuditEntry, error)
		UpsertAudit(ctx context.Context, e core.AuditEntry) (core.AuditEntry, error)
		DeleteAudit(ctx context.Context, pan string) error
	}

	// StatementStore manages named row collections (one per imported
	// statement file). Row IDs are assigned by the store at first save.
	StatementStore interface {
		LoadStatements(ctx context.Context, collection string) ([]core.BankStatementRow, error)
		UpsertStatementRow(ctx context.Context, collection string, row core.BankStatementRow) (core.BankStatementRow, error)
		SoftDeleteRow(ctx context.Context, collection, id string) error
		RestoreRow(ctx context.Context, collection, id string) error
	}

	FeeStore interface {
		LoadFeeEntries(ctx context.Context) ([]core.CurrentFeeEntry, error)
		UpsertFeeEntry(ctx context.Context, e core.CurrentFeeEntry) error
	}
)

// Stores bundles the four ports a backend provides.
type Stores struct {
	Bills      BillStore
	Audits     AuditStore
	Statements StatementStore
	Fees       FeeStore
}

// Result is the envelope surfaced at the transport boundary.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK wraps data in a successful result.
func OK(data any) Result {
	return Result{Success: true, Data: data}
}

// Fail wraps an error message in a failed result.
func Fail(err error) Result {
	return Result{Success: false, Error: err.Error()}
}
