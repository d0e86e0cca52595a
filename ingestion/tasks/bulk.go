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

package tasks

import (
	"github.com/l3montree-dev/secingest/shared"
	"gorm.io/gorm/clause"
)

// bulkUpsertReturning inserts the rows in one round trip, updating the given
// columns on a conflict so that the RETURNING clause yields the id of every
// row, inserted or pre-existing, positionally. With no rows this is a no-op.
func bulkUpsertReturning[T any](tx shared.DB, rows []T, conflictColumns []clause.Column, updateColumns []string) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Clauses(
		clause.OnConflict{
			Columns:   conflictColumns,
			DoUpdates: clause.AssignmentColumns(updateColumns),
		},
		clause.Returning{Columns: []clause.Column{{Name: "id"}}},
	).Create(&rows).Error
}

// bulkInsertSkipConflicts inserts the rows, silently skipping rows that
// already exist. Re-ingesting the same finding twice must never duplicate
// link rows. With no rows this is a no-op.
func bulkInsertSkipConflicts[T any](tx shared.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
