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
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/secingest/database/models"
	"github.com/l3montree-dev/secingest/dtos"
	"github.com/l3montree-dev/secingest/shared"
	"gorm.io/gorm"
)

type vulnerabilityRepository struct {
	db shared.DB
	*GormRepository[int64, models.Vulnerability]
}

func NewVulnerabilityRepository(db shared.DB) *vulnerabilityRepository {
	return &vulnerabilityRepository{
		db:             db,
		GormRepository: newGormRepository[int64, models.Vulnerability](db),
	}
}

// ResolveWithDroppedIdentifiers transitions detected vulnerabilities of the
// given report type linked to the given identifiers into resolved, but only
// if they are already resolved on the default branch. An identifier shared
// across report types must not touch the other type's vulnerabilities. Keeps
// the read model state in sync inside the same transaction.
func (r *vulnerabilityRepository) ResolveWithDroppedIdentifiers(projectID uuid.UUID, scanType dtos.ScanType, identifierIDs []int64) (int64, error) {
	if len(identifierIDs) == 0 {
		return 0, nil
	}

	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		subQuery := tx.Model(&models.VulnerabilityFinding{}).
			Select("vulnerability_findings.vulnerability_id").
			Joins("JOIN finding_identifiers ON finding_identifiers.finding_id = vulnerability_findings.id").
			Where("vulnerability_findings.project_id = ?", projectID).
			Where("finding_identifiers.identifier_id IN ?", identifierIDs)

		result := tx.Model(&models.Vulnerability{}).
			Where("project_id = ?", projectID).
			Where("report_type = ?", string(scanType)).
			Where("state = ?", models.VulnerabilityStateDetected).
			Where("id IN (?)", subQuery).
			Where("id IN (?)", tx.Model(&models.VulnerabilityRead{}).
				Select("vulnerability_id").
				Where("resolved_on_default_branch = ?", true)).
			Updates(map[string]any{
				"state":       models.VulnerabilityStateResolved,
				"resolved_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected

		return tx.Model(&models.VulnerabilityRead{}).
			Where("project_id = ?", projectID).
			Where("report_type = ?", string(scanType)).
			Where("state = ?", models.VulnerabilityStateDetected).
			Where("resolved_on_default_branch = ?", true).
			Where("vulnerability_id IN (?)", subQuery).
			Update("state", models.VulnerabilityStateResolved).Error
	})
	return affected, err
}
