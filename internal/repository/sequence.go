package repository

import (
	"context"
	"errors"

	"github.com/localnerve/clientsdb/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceRepository reads and advances id_sequences rows.
type SequenceRepository struct {
	db *gorm.DB
}

// Lock reads the sequence row of kind with SELECT ... FOR UPDATE,
// creating it when missing. Must run inside a transaction for the lock
// to be held until commit.
func (r *SequenceRepository) Lock(ctx context.Context, kind models.EntityKind) (*models.IDSequence, error) {
	var seq models.IDSequence
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("kind = ?", kind).
		Take(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = models.IDSequence{Kind: kind}
		err = r.db.WithContext(ctx).Create(&seq).Error
	}
	if err != nil {
		return nil, err
	}
	return &seq, nil
}

// Advance records value as the last issued number of kind.
func (r *SequenceRepository) Advance(ctx context.Context, kind models.EntityKind, value uint64) error {
	return r.db.WithContext(ctx).Model(&models.IDSequence{}).
		Where("kind = ?", kind).
		Update("last_issued", value).Error
}
