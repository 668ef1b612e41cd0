package store

import (
	"context"
	"errors"
	"time"

	"github.com/vphone/simshop/internal/shop/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Sub-repositories are exposed as methods so transactional
// and non-transactional access share the same surface.
type Store interface {
	Orders() Orders
	VerificationSessions() VerificationSessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction. If fn returns an
	// error the transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Orders interface {
	// CreateOrder inserts a completed order. directDebitEnc is the
	// AES-GCM-sealed direct debit payload; the plaintext fields on o are
	// ignored and never written.
	CreateOrder(ctx context.Context, o domain.Order, directDebitEnc []byte) error

	// GetOrderByID returns an order and its sealed direct debit payload.
	GetOrderByID(ctx context.Context, id string) (domain.Order, []byte, error)

	// ListOrders returns all orders newest first, without payment payloads.
	ListOrders(ctx context.Context) ([]domain.Order, error)

	// CountOrders returns the number of persisted orders.
	CountOrders(ctx context.Context) (int, error)
}

type VerificationSessions interface {
	// CreateVerificationSession records a freshly created provider session.
	CreateVerificationSession(ctx context.Context, rec domain.VerificationRecord) error

	// GetVerificationSessionByID returns a single audit record.
	GetVerificationSessionByID(ctx context.Context, id string) (domain.VerificationRecord, error)

	// ListVerificationSessionsByWizard returns a wizard's attempts, oldest
	// first, so retries after a declined or expired scan stay traceable.
	ListVerificationSessionsByWizard(ctx context.Context, wizardID string) ([]domain.VerificationRecord, error)

	// UpdateVerificationSessionStatus records the latest observed outcome
	// and bumps updated_at.
	UpdateVerificationSessionStatus(ctx context.Context, id string, status domain.Status) error

	// DeleteVerificationSessionsBefore purges audit rows whose provider
	// expiry is older than the cutoff. Housekeeping.
	DeleteVerificationSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
