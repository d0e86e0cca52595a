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
)

type pipelineRepository struct {
	db shared.DB
	*GormRepository[uuid.UUID, models.Pipeline]
}

func NewPipelineRepository(db shared.DB) *pipelineRepository {
	return &pipelineRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.Pipeline](db),
	}
}

func (r *pipelineRepository) Read(id uuid.UUID) (models.Pipeline, error) {
	var pipeline models.Pipeline
	err := r.db.Preload("Project").First(&pipeline, "id = ?", id).Error
	return pipeline, err
}
