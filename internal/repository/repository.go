// repository.go
//
// Client, project and employee management service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of clientsdb.
// clientsdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// clientsdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with clientsdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"
)

// Repository is the persistence contract the services consume.
// Lookups return (nil, nil) when no row matches.
type Repository[T any] interface {
	FindByID(ctx context.Context, id any, preloads ...string) (*T, error)
	FindByUniqueField(ctx context.Context, field string, value any) (*T, error)
	FindLatest(ctx context.Context) (*T, error)
	FindAll(ctx context.Context, preloads ...string) ([]T, error)
	FindAllBy(ctx context.Context, field string, value any, preloads ...string) ([]T, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, entity *T) error
	DeleteByID(ctx context.Context, id any) error
	DeleteBy(ctx context.Context, field string, value any) (int64, error)
	ExistsByID(ctx context.Context, id any) (bool, error)
}

// GormRepository implements Repository for any gorm model.
type GormRepository[T any] struct {
	db *gorm.DB
}

// NewGormRepository creates a repository bound to db.
func NewGormRepository[T any](db *gorm.DB) *GormRepository[T] {
	return &GormRepository[T]{db: db}
}

func (r *GormRepository[T]) query(ctx context.Context, preloads []string) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	return q
}

func (r *GormRepository[T]) take(q *gorm.DB) (*T, error) {
	var entity T
	if err := q.Take(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

func (r *GormRepository[T]) FindByID(ctx context.Context, id any, preloads ...string) (*T, error) {
	return r.take(r.query(ctx, preloads).Where(clause.Eq{Column: clause.PrimaryColumn, Value: id}))
}

func (r *GormRepository[T]) FindByUniqueField(ctx context.Context, field string, value any) (*T, error) {
	return r.take(r.query(ctx, nil).Where(clause.Eq{Column: clause.Column{Name: field}, Value: value}))
}

// FindLatest returns the row with the highest primary key, which is the
// most recent insert for auto increment keys.
func (r *GormRepository[T]) FindLatest(ctx context.Context) (*T, error) {
	q := r.query(ctx, nil).
		Clauses(hints.Comment("select", "find_latest")).
		Order(clause.OrderByColumn{Column: clause.PrimaryColumn, Desc: true}).
		Limit(1)
	return r.take(q)
}

func (r *GormRepository[T]) FindAll(ctx context.Context, preloads ...string) ([]T, error) {
	var entities []T
	err := r.query(ctx, preloads).
		Order(clause.OrderByColumn{Column: clause.PrimaryColumn}).
		Find(&entities).Error
	return entities, err
}

func (r *GormRepository[T]) FindAllBy(ctx context.Context, field string, value any, preloads ...string) ([]T, error) {
	var entities []T
	err := r.query(ctx, preloads).
		Where(clause.Eq{Column: clause.Column{Name: field}, Value: value}).
		Order(clause.OrderByColumn{Column: clause.PrimaryColumn}).
		Find(&entities).Error
	return entities, err
}

func (r *GormRepository[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(new(T)).Count(&n).Error
	return n, err
}

// Save inserts or updates by primary key. Associations are never
// written implicitly; callers manage them through the relationship rules.
func (r *GormRepository[T]) Save(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(entity).Error
}

func (r *GormRepository[T]) DeleteByID(ctx context.Context, id any) error {
	return r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.PrimaryColumn, Value: id}).
		Delete(new(T)).Error
}

// DeleteBy removes every row whose field equals value.
func (r *GormRepository[T]) DeleteBy(ctx context.Context, field string, value any) (int64, error) {
	result := r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: field}, Value: value}).
		Delete(new(T))
	return result.RowsAffected, result.Error
}

func (r *GormRepository[T]) ExistsByID(ctx context.Context, id any) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(new(T)).
		Where(clause.Eq{Column: clause.PrimaryColumn, Value: id}).
		Limit(1).
		Count(&n).Error
	return n > 0, err
}
