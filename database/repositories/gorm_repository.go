// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package repositories

import (
	"github.com/l3montree-dev/secingest/shared"
	"github.com/l3montree-dev/secingest/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormRepository[ID comparable, T utils.Tabler] struct {
	db shared.DB
}

func newGormRepository[ID comparable, T utils.Tabler](db shared.DB) *GormRepository[ID, T] {
	return &GormRepository[ID, T]{
		db: db,
	}
}

func (g *GormRepository[ID, T]) GetDB(tx shared.DB) shared.DB {
	if tx != nil {
		return tx
	}
	return g.db
}

func (g *GormRepository[ID, T]) Transaction(f func(tx shared.DB) error) error {
	tx := g.db.Begin()
	err := f(tx)
	if err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func (g *GormRepository[ID, T]) Save(tx shared.DB, t *T) error {
	return g.GetDB(tx).Save(t).Error
}

func (g *GormRepository[ID, T]) Create(tx shared.DB, t *T) error {
	return g.GetDB(tx).Create(t).Error
}

func (g *GormRepository[ID, T]) CreateBatch(tx shared.DB, ts []T) error {
	if len(ts) == 0 {
		return nil
	}
	return g.GetDB(tx).Clauses(clause.OnConflict{DoNothing: true}).Create(ts).Error
}

// Upsert inserts the rows, updating only the given columns when a row with
// the same conflicting columns already exists. With no rows this is a no-op.
func (g *GormRepository[ID, T]) Upsert(tx shared.DB, ts *[]*T, conflictingColumns []clause.Column, updateOnly []string) error {
	if len(*ts) == 0 {
		return nil
	}
	if len(updateOnly) > 0 {
		return g.GetDB(tx).Clauses(clause.OnConflict{
			Columns:   conflictingColumns,
			DoUpdates: clause.AssignmentColumns(updateOnly),
		}).Create(ts).Error
	}
	return g.GetDB(tx).Clauses(clause.OnConflict{
		Columns:   conflictingColumns,
		UpdateAll: true,
	}).Create(ts).Error
}

func (g *GormRepository[ID, T]) Read(id ID) (T, error) {
	var t T
	err := g.db.First(&t, "id = ?", id).Error
	return t, err
}

func (g *GormRepository[ID, T]) List(ids []ID) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	var ts []T
	err := g.db.Find(&ts, ids).Error
	return ts, err
}

func (g *GormRepository[ID, T]) All() ([]T, error) {
	var ts []T
	err := g.db.Find(&ts).Error
	return ts, err
}

// TransactionManager is the shared.Transactioner used by the ingestion
// pipeline. It exists so the slice service can run against a fake in tests.
type TransactionManager struct {
	db shared.DB
}

func NewTransactionManager(db shared.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

func (t *TransactionManager) Transaction(fn func(tx shared.DB) error) error {
	return t.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}
