package repository

import (
	"context"

	"github.com/localnerve/clientsdb/internal/models"
	"gorm.io/gorm"
)

// Store groups the typed repositories that share one *gorm.DB, either
// the pool or an open transaction.
type Store struct {
	db *gorm.DB

	Users          *GormRepository[models.User]
	Clients        *GormRepository[models.Client]
	ContactPersons *GormRepository[models.ContactPerson]
	Projects       *GormRepository[models.Project]
	Employees      *GormRepository[models.Employee]
	Assignments    *AssignmentRepository
	Sequences      *SequenceRepository
}

// NewStore creates a store over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:             db,
		Users:          NewGormRepository[models.User](db),
		Clients:        NewGormRepository[models.Client](db),
		ContactPersons: NewGormRepository[models.ContactPerson](db),
		Projects:       NewGormRepository[models.Project](db),
		Employees:      NewGormRepository[models.Employee](db),
		Assignments:    &AssignmentRepository{db: db},
		Sequences:      &SequenceRepository{db: db},
	}
}

// DB returns the underlying handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn with a store bound to a new transaction. It commits
// when fn returns nil and rolls back otherwise. fn must only use the store
// it is given.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
