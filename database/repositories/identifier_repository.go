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
)

type identifierRepository struct {
	db shared.DB
	*GormRepository[int64, models.VulnerabilityIdentifier]
}

func NewIdentifierRepository(db shared.DB) *identifierRepository {
	return &identifierRepository{
		db:             db,
		GormRepository: newGormRepository[int64, models.VulnerabilityIdentifier](db),
	}
}

// ResolvedDetectedIdentifiers walks from identifiers through their findings
// to the vulnerability rows: an identifier qualifies when at least one of its
// vulnerabilities of the given report type is still detected but already
// resolved on the default branch.
func (r *identifierRepository) ResolvedDetectedIdentifiers(projectID uuid.UUID, scanType dtos.ScanType, externalTypes []string) ([]models.VulnerabilityIdentifier, error) {
	if len(externalTypes) == 0 {
		return []models.VulnerabilityIdentifier{}, nil
	}
	var identifiers []models.VulnerabilityIdentifier
	err := r.db.
		Distinct("vulnerability_identifiers.*").
		Joins("JOIN finding_identifiers ON finding_identifiers.identifier_id = vulnerability_identifiers.id").
		Joins("JOIN vulnerability_findings ON vulnerability_findings.id = finding_identifiers.finding_id").
		Joins("JOIN vulnerabilities ON vulnerabilities.id = vulnerability_findings.vulnerability_id").
		Joins("JOIN vulnerability_reads ON vulnerability_reads.vulnerability_id = vulnerabilities.id").
		Where("vulnerability_identifiers.project_id = ?", projectID).
		Where("vulnerability_identifiers.external_type IN ?", externalTypes).
		Where("vulnerabilities.report_type = ?", string(scanType)).
		Where("vulnerabilities.state = ?", models.VulnerabilityStateDetected).
		Where("vulnerability_reads.resolved_on_default_branch = ?", true).
		Find(&identifiers).Error
	return identifiers, err
}
