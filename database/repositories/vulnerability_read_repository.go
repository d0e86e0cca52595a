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
	"github.com/google/uuid"
	"github.com/l3montree-dev/secingest/database/models"
	"github.com/l3montree-dev/secingest/dtos"
	"github.com/l3montree-dev/secingest/shared"
	"github.com/l3montree-dev/secingest/utils"
	"gorm.io/gorm"
)

type vulnerabilityReadRepository struct {
	db shared.DB
	*GormRepository[int64, models.VulnerabilityRead]
}

func NewVulnerabilityReadRepository(db shared.DB) *vulnerabilityReadRepository {
	return &vulnerabilityReadRepository{
		db:             db,
		GormRepository: newGormRepository[int64, models.VulnerabilityRead](db),
	}
}

func (r *vulnerabilityReadRepository) StreamDetectedIDs(projectID uuid.UUID, scannerID uuid.UUID, batchSize int, fn func(vulnerabilityIDs []int64) error) error {
	var batch []models.VulnerabilityRead
	return r.db.
		Select("id", "vulnerability_id").
		Where("project_id = ?", projectID).
		Where("scanner_id = ?", scannerID).
		Where("state = ?", models.VulnerabilityStateDetected).
		Where("report_type != ?", string(dtos.ScanTypeGeneric)).
		FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
			return fn(utils.Map(batch, func(read models.VulnerabilityRead) int64 {
				return read.VulnerabilityID
			}))
		}).Error
}

func (r *vulnerabilityReadRepository) MarkResolvedOnDefaultBranch(vulnerabilityIDs []int64) error {
	if len(vulnerabilityIDs) == 0 {
		return nil
	}
	return r.db.Model(&models.VulnerabilityRead{}).
		Where("vulnerability_id IN ?", vulnerabilityIDs).
		Update("resolved_on_default_branch", true).Error
}
