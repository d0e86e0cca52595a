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
	"github.com/l3montree-dev/secingest/shared"
	"gorm.io/gorm/clause"
)

type statisticsRepository struct {
	db shared.DB
	*GormRepository[int64, models.VulnerabilityStatistic]
}

func NewStatisticsRepository(db shared.DB) *statisticsRepository {
	return &statisticsRepository{
		db:             db,
		GormRepository: newGormRepository[int64, models.VulnerabilityStatistic](db),
	}
}

func (r *statisticsRepository) UpdateLatestPipeline(projectID uuid.UUID, pipelineID uuid.UUID) error {
	stat := models.VulnerabilityStatistic{
		ProjectID:        projectID,
		LatestPipelineID: &pipelineID,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"latest_pipeline_id", "updated_at"}),
	}).Create(&stat).Error
}
