package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates all data-access interfaces.
type Repository struct {
	User  UserRepository
	Event EventRepository
	Entry EntryRepository
	QR    QRTokenRepository

	db *gorm.DB
}

// NewRepository creates the Repository aggregate.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:  NewUserRepo(db),
		Event: NewEventRepo(db),
		Entry: NewEntryRepo(db),
		QR:    NewQRTokenRepo(db),
		db:    db,
	}
}

// WithTx runs fn against a Repository bound to a single transaction. The
// join and QR-scan flows depend on this together with the clause.Locking
// row locks taken by the ForUpdate lookups to serialize concurrent writers.
// Aggregates assembled without a database (unit-test mocks) run fn against
// themselves.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
