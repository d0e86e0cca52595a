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

type scanRepository struct {
	db shared.DB
	*GormRepository[uuid.UUID, models.Scan]
}

func NewScanRepository(db shared.DB) *scanRepository {
	return &scanRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.Scan](db),
	}
}

func (r *scanRepository) LatestSecurityScans(pipelineID uuid.UUID) ([]models.Scan, error) {
	var scans []models.Scan
	err := r.db.
		Preload("Scanners").
		Where("pipeline_id = ?", pipelineID).
		Where("latest = ?", true).
		Where("has_processing_errors = ?", false).
		Order("scan_type ASC").
		Find(&scans).Error
	return scans, err
}

func (r *scanRepository) DeduplicatedFindings(scanID uuid.UUID) ([]models.SecurityFinding, error) {
	var findings []models.SecurityFinding
	err := r.db.
		Where("scan_id = ?", scanID).
		Where("deduplicated = ?", true).
		Find(&findings).Error
	return findings, err
}

func (r *scanRepository) MarkIngestionError(scanID uuid.UUID) error {
	return r.db.Model(&models.Scan{}).
		Where("id = ?", scanID).
		Where("ingestion_error = ?", false).
		Update("ingestion_error", true).Error
}
